// Package leads wires the lead bounded context: repository, factory service,
// HTTP handlers and the assignment notifier.
package leads

import (
	"leadgate_backend/internal/assignment"
	"leadgate_backend/internal/events"
	apphttp "leadgate_backend/internal/http"
	"leadgate_backend/internal/leads/handler"
	"leadgate_backend/internal/leads/repository"
	"leadgate_backend/internal/leads/service"
	"leadgate_backend/internal/scheduler"
	"leadgate_backend/platform/logger"
	"leadgate_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps are the cross-module collaborators the leads module needs.
type Deps struct {
	Cursor    assignment.CursorStore
	Strategy  service.StrategyReader
	Pool      service.PoolProvider
	Contacts  service.ContactReader
	Sellers   service.SalespersonReader
	Gateway   service.GatewaySender
	Reminders scheduler.ReminderScheduler
	Bus       events.Bus
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	repo     *repository.Repository
	service  *service.Service
	handler  *handler.Handler
	notifier *service.AssignmentNotifier
}

// NewModule creates and initializes the leads module, including the
// event-driven assignment notifier subscription.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger, deps Deps) *Module {
	repo := repository.New(pool)
	engine := assignment.NewEngine(deps.Cursor, repo)
	svc := service.New(repo, deps.Contacts, deps.Sellers, deps.Strategy, deps.Pool, engine, deps.Gateway, deps.Reminders, deps.Bus, log)

	notifier := service.NewAssignmentNotifier(repo, deps.Contacts, deps.Sellers, deps.Gateway, log)
	notifier.Register(deps.Bus)

	return &Module{
		repo:     repo,
		service:  svc,
		handler:  handler.NewHandler(svc, val),
		notifier: notifier,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service exposes the lead factory to the ingestion pipeline and the worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/leads")
	group.POST("", m.handler.HandleCreate)
	group.GET("", m.handler.HandleList)
	group.GET("/:leadId", m.handler.HandleGet)
	group.POST("/:leadId/won", m.handler.HandleMarkWon)
	group.POST("/:leadId/lost", m.handler.HandleMarkLost)
	group.POST("/:leadId/whatsapp", m.handler.HandleSendWhatsApp)
	group.POST("/:leadId/reminder", m.handler.HandleScheduleReminder)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
