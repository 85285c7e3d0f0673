// Package service implements the lead factory: lead creation with one-shot
// salesperson auto-assignment, plus the interactive WhatsApp surface.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadgate_backend/internal/assignment"
	"leadgate_backend/internal/contacts"
	"leadgate_backend/internal/events"
	"leadgate_backend/internal/leads/repository"
	"leadgate_backend/internal/leads/transport"
	"leadgate_backend/internal/salespeople"
	"leadgate_backend/internal/scheduler"
	"leadgate_backend/internal/whatsapp"
	"leadgate_backend/platform/apperr"
	"leadgate_backend/platform/logger"

	"github.com/google/uuid"
)

// Store is the lead persistence interface; *repository.Repository satisfies it.
type Store interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	List(ctx context.Context, limit, offset int) ([]repository.Lead, error)
	AssignSalesperson(ctx context.Context, id uuid.UUID, salespersonID uuid.UUID) error
	SetOutcome(ctx context.Context, id uuid.UUID, probability int, active bool) (repository.Lead, error)
}

// StrategyReader reads the configured assignment strategy fresh per call.
type StrategyReader interface {
	Strategy(ctx context.Context) (assignment.Strategy, error)
}

// PoolProvider returns the live active salesperson pool in stable order.
type PoolProvider interface {
	ActivePool(ctx context.Context) ([]assignment.Salesperson, error)
}

// ContactReader resolves contacts for lead creation and outbound sends.
type ContactReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (contacts.Contact, error)
}

// SalespersonReader resolves a salesperson for reminder message composition.
type SalespersonReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (salespeople.Salesperson, error)
}

// GatewaySender delivers outbound WhatsApp messages.
type GatewaySender interface {
	Send(ctx context.Context, destinationPhone, bodyText string) (whatsapp.SendResult, error)
}

type Service struct {
	store     Store
	contacts  ContactReader
	sellers   SalespersonReader
	strategy  StrategyReader
	pool      PoolProvider
	engine    *assignment.Engine
	gateway   GatewaySender
	reminders scheduler.ReminderScheduler
	bus       events.Bus
	log       *logger.Logger
}

func New(store Store, contactReader ContactReader, sellers SalespersonReader, strategy StrategyReader, pool PoolProvider, engine *assignment.Engine, gateway GatewaySender, reminders scheduler.ReminderScheduler, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		contacts:  contactReader,
		sellers:   sellers,
		strategy:  strategy,
		pool:      pool,
		engine:    engine,
		gateway:   gateway,
		reminders: reminders,
		bus:       bus,
		log:       log,
	}
}

// Create persists a lead and, when no salesperson was preset, runs
// auto-assignment exactly once with the currently configured strategy. An
// empty pool leaves the lead unassigned; that is a valid terminal state.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	if _, err := s.contacts.GetByID(ctx, req.ContactID); err != nil {
		if errors.Is(err, contacts.ErrNotFound) {
			return transport.LeadResponse{}, apperr.Validation("contact does not exist")
		}
		return transport.LeadResponse{}, err
	}

	lead, err := s.store.Create(ctx, repository.CreateLeadParams{
		Title:         req.Title,
		ContactID:     req.ContactID,
		Description:   req.Description,
		SalespersonID: req.SalespersonID,
		Source:        req.Source,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if lead.SalespersonID == nil {
		lead = s.autoAssign(ctx, lead)
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        lead.ID,
		ContactID:     lead.ContactID,
		SalespersonID: lead.SalespersonID,
		Source:        lead.Source,
	})

	return toResponse(lead), nil
}

// autoAssign is best effort: an assignment failure logs and leaves the lead
// unassigned rather than failing the creation that already happened.
func (s *Service) autoAssign(ctx context.Context, lead repository.Lead) repository.Lead {
	strategy, err := s.strategy.Strategy(ctx)
	if err != nil {
		s.log.Error("failed to read assignment strategy", "error", err, "lead_id", lead.ID)
		return lead
	}

	pool, err := s.pool.ActivePool(ctx)
	if err != nil {
		s.log.Error("failed to load salesperson pool", "error", err, "lead_id", lead.ID)
		return lead
	}

	picked, err := s.engine.Pick(ctx, strategy, pool)
	if err != nil {
		s.log.Error("assignment failed", "error", err, "lead_id", lead.ID, "strategy", strategy.String())
		return lead
	}
	if picked == nil {
		s.log.Info("no active salespeople, lead left unassigned", "lead_id", lead.ID)
		return lead
	}

	if err := s.store.AssignSalesperson(ctx, lead.ID, picked.ID); err != nil {
		s.log.Error("failed to persist assignment", "error", err, "lead_id", lead.ID)
		return lead
	}

	s.log.AssignmentEvent(strategy.String(), lead.ID.String(), picked.ID.String())
	id := picked.ID
	lead.SalespersonID = &id
	return lead
}

// Get returns a lead.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return toResponse(lead), nil
}

// List returns leads newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]transport.LeadResponse, error) {
	items, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	result := make([]transport.LeadResponse, len(items))
	for i, item := range items {
		result[i] = toResponse(item)
	}
	return result, nil
}

// MarkWon closes the lead as won.
func (s *Service) MarkWon(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	return s.setOutcome(ctx, id, repository.ProbabilityWon, true)
}

// MarkLost closes the lead as lost and deactivates it.
func (s *Service) MarkLost(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	return s.setOutcome(ctx, id, repository.ProbabilityLost, false)
}

func (s *Service) setOutcome(ctx context.Context, id uuid.UUID, probability int, active bool) (transport.LeadResponse, error) {
	lead, err := s.store.SetOutcome(ctx, id, probability, active)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return toResponse(lead), nil
}

// SendWhatsApp delivers an interactive message to the lead's contact. A
// downstream gateway failure surfaces to the caller with the gateway's
// detail; it is never silently dropped on this path.
func (s *Service) SendWhatsApp(ctx context.Context, leadID uuid.UUID, message string) (whatsapp.SendResult, error) {
	lead, err := s.store.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return whatsapp.SendResult{}, apperr.NotFound("lead not found")
		}
		return whatsapp.SendResult{}, err
	}

	destination, err := s.contactPhone(ctx, lead.ContactID)
	if err != nil {
		return whatsapp.SendResult{}, err
	}

	result, err := s.gateway.Send(ctx, destination, message)
	if err != nil {
		return result, apperr.Wrap(apperr.KindBadGateway, "failed to reach WhatsApp gateway", err)
	}
	if !result.Success {
		return result, apperr.BadGateway("WhatsApp send failed: " + result.Detail)
	}
	return result, nil
}

// ScheduleReminder enqueues a delayed follow-up reminder for the lead.
func (s *Service) ScheduleReminder(ctx context.Context, leadID uuid.UUID, message string, delay time.Duration) error {
	if s.reminders == nil {
		return apperr.Internal("reminder scheduling is not configured")
	}
	if _, err := s.store.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("lead not found")
		}
		return err
	}
	return s.reminders.ScheduleLeadReminder(ctx, scheduler.LeadReminderPayload{
		LeadID:  leadID.String(),
		Message: message,
	}, time.Now().Add(delay))
}

// SendReminder delivers a follow-up reminder. Called by the worker when a
// scheduled reminder comes due; an empty message gets the default template.
func (s *Service) SendReminder(ctx context.Context, leadID uuid.UUID, message string) error {
	lead, err := s.store.GetByID(ctx, leadID)
	if err != nil {
		return err
	}
	if !lead.IsActive || lead.Probability == repository.ProbabilityWon {
		s.log.Info("skipping reminder for decided lead", "lead_id", leadID)
		return nil
	}

	contact, err := s.contacts.GetByID(ctx, lead.ContactID)
	if err != nil {
		return err
	}

	if message == "" {
		message = s.defaultReminderMessage(ctx, lead, contact)
	}

	result, err := s.gateway.Send(ctx, contact.Phone, message)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("reminder send failed: %s", result.Detail)
	}
	return nil
}

func (s *Service) defaultReminderMessage(ctx context.Context, lead repository.Lead, contact contacts.Contact) string {
	sellerName := "Equipo de Ventas"
	if lead.SalespersonID != nil {
		if seller, err := s.sellers.GetByID(ctx, *lead.SalespersonID); err == nil {
			sellerName = seller.Name
		}
	}
	return fmt.Sprintf(
		"Hola %s,\n\nTe recordamos que tienes una oportunidad pendiente: %s\n\n¿En qué podemos ayudarte?\n\nSaludos,\n%s",
		contact.Name, lead.Title, sellerName,
	)
}

func (s *Service) contactPhone(ctx context.Context, contactID uuid.UUID) (string, error) {
	contact, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		return "", err
	}
	destination := contact.Phone
	if destination == "" {
		destination = contact.Mobile
	}
	if destination == "" {
		return "", apperr.Validation("lead contact has no phone number")
	}
	return destination, nil
}

func toResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:            lead.ID,
		Title:         lead.Title,
		ContactID:     lead.ContactID,
		Description:   lead.Description,
		LeadType:      lead.LeadType,
		SalespersonID: lead.SalespersonID,
		Source:        lead.Source,
		Probability:   lead.Probability,
		IsActive:      lead.IsActive,
		CreatedAt:     lead.CreatedAt,
	}
}
