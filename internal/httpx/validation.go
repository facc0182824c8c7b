package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationFailed writes the 400 envelope with every failing field listed.
func ValidationFailed(c *gin.Context, details []FieldError) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   "Validation failed",
		Details: details,
	})
}

// BindJSON binds the request body and, on failure, responds with a field-level
// error list (all failing fields at once, not just the first). Returns false
// when the request was already answered.
func BindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{
				Field:   fe.Field(),
				Message: bindingMessage(fe),
			})
		}
		ValidationFailed(c, details)
		return false
	}
	Error(c, http.StatusBadRequest, "Invalid request body")
	return false
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

// IDParam parses the :id path segment. Responds 400 and returns false on junk.
func IDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ValidationFailed(c, []FieldError{{Field: name, Message: "must be a valid integer"}})
		return 0, false
	}
	return id, true
}

// ParsePagination reads page/limit query params. page defaults to 1, limit to
// 10; page must be >= 1 and limit within [1,100]. Every out-of-range param is
// reported, not just the first.
func ParsePagination(c *gin.Context) (page, limit int, ok bool) {
	page, limit = 1, 10
	var details []FieldError

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			details = append(details, FieldError{Field: "page", Message: "must be an integer >= 1"})
		} else {
			page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			details = append(details, FieldError{Field: "limit", Message: "must be an integer between 1 and 100"})
		} else {
			limit = n
		}
	}
	if len(details) > 0 {
		ValidationFailed(c, details)
		return 0, 0, false
	}
	return page, limit, true
}
