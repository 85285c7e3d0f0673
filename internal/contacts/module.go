// Package contacts provides the contact directory bounded context module.
package contacts

import (
	apphttp "leadgate_backend/internal/http"
	"leadgate_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the contacts bounded context module implementing http.Module.
type Module struct {
	repo    *Repository
	handler *Handler
	service *Service
}

// NewModule creates and initializes the contacts module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	service := NewService(repo, log)
	handler := NewHandler(repo)

	return &Module{
		repo:    repo,
		handler: handler,
		service: service,
	}
}

// Repository exposes contact lookups to collaborating modules.
func (m *Module) Repository() *Repository {
	return m.repo
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "contacts"
}

// Directory exposes resolve-or-create to the ingestion pipeline.
func (m *Module) Directory() Directory {
	return m.service
}

// RegisterRoutes mounts contact routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/contacts")
	group.GET("", m.handler.HandleList)
	group.GET("/:contactId", m.handler.HandleGet)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
