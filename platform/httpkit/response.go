// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"errors"
	"net/http"

	"outbound_ai_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// Envelope is the response format shared by every endpoint.
// Success responses set Success=true; failures carry Message and optionally Error.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Error sends a failure envelope with the given status code.
func Error(c *gin.Context, status int, message string, detail string) {
	c.JSON(status, Envelope{Success: false, Message: message, Error: detail})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// HandleError maps domain errors to HTTP responses.
// If the error is a typed *apperr.Error, it uses the error's Kind to determine
// the HTTP status code. Otherwise, it defaults to 500.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		detail := ""
		if domainErr.Err != nil {
			detail = domainErr.Err.Error()
		}
		status := domainErr.HTTPStatus()
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		c.JSON(status, Envelope{
			Success: false,
			Message: domainErr.Message,
			Error:   detail,
			Data:    domainErr.Details,
		})
		return true
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, Envelope{Success: false, Message: "internal error", Error: err.Error()})
	return true
}
