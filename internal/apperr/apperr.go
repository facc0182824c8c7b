package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repos when an id matches no row.
var ErrNotFound = errors.New("not found")

// ConflictError marks a uniqueness violation (e.g. duplicate client email).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func Conflict(msg string) error { return &ConflictError{Msg: msg} }

// DomainError marks a business-rule failure during the venta workflow
// (missing product, insufficient stock). These map to 400, not 500.
type DomainError struct {
	Msg string
}

func (e *DomainError) Error() string { return e.Msg }

func Domainf(format string, args ...any) error {
	return &DomainError{Msg: fmt.Sprintf(format, args...)}
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsDomain(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
