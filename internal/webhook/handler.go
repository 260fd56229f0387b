package webhook

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"outbound_ai_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

const maxWebhookBodyBytes = 1 << 20

// Handler handles call webhook HTTP requests.
type Handler struct {
	service *Service
	log     *logger.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// HandleCallWebhook records the outcome of a finished call.
// POST /api/v1/webhook/calls
// Always answers 200 so the provider does not retry.
func (h *Handler) HandleCallWebhook(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			h.log.WithContext(c.Request.Context()).Error("webhook: panic while processing call webhook",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			c.JSON(http.StatusOK, Response{Success: false, Message: msgInternalError, Error: errInternal})
		}
	}()

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.log.WithContext(c.Request.Context()).Warn("webhook: payload too large", "limitBytes", tooLarge.Limit)
			c.JSON(http.StatusOK, failure(msgPayloadTooLarge, fmt.Errorf("body exceeds %d bytes", tooLarge.Limit)))
			return
		}
		c.JSON(http.StatusOK, failure(msgInvalidPayload, err))
		return
	}

	c.JSON(http.StatusOK, h.service.Process(c.Request.Context(), body))
}
