// Package salespeople provides the salesperson pool provider. The entries
// mirror the surrounding platform's user directory; this core only reads the
// active set for assignment and manages membership through the admin surface.
package salespeople

import (
	apphttp "leadgate_backend/internal/http"
	"leadgate_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the salespeople bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	repo    *Repository
}

// NewModule creates and initializes the salespeople module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	handler := NewHandler(repo, val)

	return &Module{
		handler: handler,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "salespeople"
}

// Repository exposes the pool provider to the leads module.
func (m *Module) Repository() *Repository {
	return m.repo
}

// RegisterRoutes mounts the admin salespeople routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	admin := ctx.Admin.Group("/salespeople")
	admin.GET("", m.handler.HandleList)
	admin.POST("", m.handler.HandleCreate)
	admin.PUT("/:salespersonId/active", m.handler.HandleSetActive)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
