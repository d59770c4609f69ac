// Package httpx is the JSON response envelope shared by every handler:
// {"success":true, ...} on the happy path, {"success":false,"error":msg}
// otherwise.
package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AppError carries a message and the HTTP status that classifies it.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string { return e.Message }

func NewAppError(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

func BadRequest(message string) *AppError { return NewAppError(http.StatusBadRequest, message) }
func NotFound(message string) *AppError   { return NewAppError(http.StatusNotFound, message) }

// JSON writes a success envelope with the given payload fields.
func JSON(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error translates any error into the error envelope. Untyped errors are
// reported as unexpected.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{"success": false, "error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}

// Abort writes the error envelope and stops the middleware chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
