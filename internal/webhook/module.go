// This file defines the module that encapsulates webhook setup and route registration.
package webhook

import (
	"outbound_ai_backend/internal/events"
	apphttp "outbound_ai_backend/internal/http"
	"outbound_ai_backend/internal/leads/repository"
	"outbound_ai_backend/platform/config"
	"outbound_ai_backend/platform/httpkit"
	"outbound_ai_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// corsAllowHeaders are the request headers the provider and browser tools may send.
var corsAllowHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

// Module is the call webhook bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the webhook module with all its dependencies.
func NewModule(leads repository.LeadStore, guard DuplicateGuard, eventBus events.Bus, cfg config.WebhookConfig, log *logger.Logger) *Module {
	service := NewService(leads, guard, eventBus, Options{
		CostPerMinute: cfg.GetCallCostPerMinute(),
		RecentWindow:  cfg.GetResolverRecentWindow(),
		StoreTimeout:  cfg.GetStoreTimeout(),
	}, log)

	return &Module{handler: NewHandler(service, log)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts webhook routes on the public (unauthenticated) group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	calls := ctx.Public.Group("/webhook/calls")
	calls.Use(httpkit.StaticCORS("*", corsAllowHeaders))
	calls.POST("", m.handler.HandleCallWebhook)
	// Preflight is answered by StaticCORS; the route only has to exist.
	calls.OPTIONS("", func(*gin.Context) {})
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
