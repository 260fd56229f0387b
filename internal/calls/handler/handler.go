package handler

import (
	"net/http"

	"outbound_ai_backend/internal/calls/service"
	"outbound_ai_backend/internal/calls/transport"
	"outbound_ai_backend/platform/httpkit"
	"outbound_ai_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for outbound calls.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new calls handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// TriggerCall starts an outbound call to a pending lead.
// POST /api/v1/calls/trigger
func (h *Handler) TriggerCall(c *gin.Context) {
	var req transport.TriggerCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.TriggerCall(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
