// Package settings provides the configuration store bounded context module.
// This file defines the module that encapsulates setup and route registration.
package settings

import (
	apphttp "leadgate_backend/internal/http"
	"leadgate_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the settings bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
	repo    *Repository
}

// NewModule creates and initializes the settings module with its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	service := NewService(repo)
	handler := NewHandler(service, val)

	return &Module{
		handler: handler,
		service: service,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "settings"
}

// Service exposes the settings accessors to other modules.
func (m *Module) Service() *Service {
	return m.service
}

// Repository exposes the underlying store; the assignment engine uses it as
// its CursorStore.
func (m *Module) Repository() *Repository {
	return m.repo
}

// RegisterRoutes mounts the admin settings routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	admin := ctx.Admin.Group("/settings")
	admin.GET("", m.handler.HandleGetSettings)
	admin.PUT("", m.handler.HandleUpdateSettings)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
