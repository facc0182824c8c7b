package httpx

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pagination is the envelope block accompanying every paged list response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

type Response struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Details    any         `json:"details,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func Created(c *gin.Context, data any, message string) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data, Message: message})
}

func OKMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

func Paged(c *gin.Context, data any, p Pagination) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Pagination: &p})
}

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Success: false, Error: msg})
}
