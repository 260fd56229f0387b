// Package calls provides the outbound call bounded context module.
package calls

import (
	"outbound_ai_backend/internal/calls/handler"
	"outbound_ai_backend/internal/calls/service"
	"outbound_ai_backend/internal/events"
	apphttp "outbound_ai_backend/internal/http"
	"outbound_ai_backend/platform/config"
	"outbound_ai_backend/platform/httpkit"
	"outbound_ai_backend/platform/logger"
	"outbound_ai_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// ModuleConfig combines the config interfaces the calls module reads.
type ModuleConfig interface {
	config.VoiceConfig
	config.PhoneConfig
	config.TriggerConfig
	config.StoreConfig
}

// Module is the calls bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	limiter *httpkit.IPRateLimiter
}

// NewModule creates and initializes the calls module.
func NewModule(leads service.LeadStore, creator service.CallCreator, eventBus events.Bus, val *validator.Validator, cfg ModuleConfig, log *logger.Logger) *Module {
	svc := service.New(leads, creator, eventBus, service.Settings{
		DefaultAssistantID: cfg.GetVoiceAssistantID(),
		PhoneRegion:        cfg.GetPhoneDefaultRegion(),
		StoreTimeout:       cfg.GetStoreTimeout(),
	}, log)

	return &Module{
		handler: handler.New(svc, val),
		limiter: httpkit.PerMinute(cfg.GetTriggerRatePerMinute(), log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "calls"
}

// RegisterRoutes mounts call routes on the browser-facing API group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	calls := ctx.V1.Group("/calls")
	calls.POST("/trigger", m.limiter.RateLimit(), m.handler.TriggerCall)
	// Lets the group CORS middleware answer preflight requests.
	calls.OPTIONS("/trigger", func(*gin.Context) {})
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
