package webhook

import (
	"leadgate_backend/internal/contacts"
	"leadgate_backend/internal/events"
	apphttp "leadgate_backend/internal/http"
	"leadgate_backend/platform/logger"
)

// Module is the webhook ingestion module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the webhook module. dedupe may be nil
// when Redis is not configured.
func NewModule(directory contacts.Directory, leads LeadCreator, tokens VerifyTokenReader, dedupe Deduper, bus events.Bus, log *logger.Logger) *Module {
	service := NewService(directory, leads, dedupe, bus, log)
	return &Module{
		handler: NewHandler(service, tokens, log),
		service: service,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts the public gateway endpoints behind the webhook
// rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/webhook")
	if ctx.WebhookLimiter != nil {
		group.Use(ctx.WebhookLimiter.Middleware())
	}
	group.GET("/whatsapp", m.handler.HandleVerify)
	group.POST("/whatsapp", m.handler.HandleReceive)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
