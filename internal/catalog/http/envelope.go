package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK writes a success envelope.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// Fail writes a failure envelope.
func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Envelope{Success: false, Error: msg})
}

// writeError maps service errors onto status codes and client-facing messages.
func writeError(c *gin.Context, noun string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		Fail(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, domain.ErrNotFound):
		Fail(c, http.StatusNotFound, noun+" not found")
	case errors.Is(err, domain.ErrConflict):
		Fail(c, http.StatusConflict, noun+" with this ID already exists")
	default:
		_ = c.Error(err)
		Fail(c, http.StatusInternalServerError, err.Error())
	}
}

// MethodNotAllowed is installed as the engine's NoMethod handler.
func MethodNotAllowed(c *gin.Context) {
	Fail(c, http.StatusMethodNotAllowed, "Method not allowed")
}

// NotFound is installed as the engine's NoRoute handler.
func NotFound(c *gin.Context) {
	Fail(c, http.StatusNotFound, "Not found")
}

// Preflight answers OPTIONS requests that reach a route without passing
// through the CORS middleware (no Origin header).
func Preflight(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	c.Status(http.StatusNoContent)
}
