// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"leadgate_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCreated is published after a lead record is persisted and
// auto-assignment (if any) has run.
type LeadCreated struct {
	BaseEvent
	LeadID        uuid.UUID  `json:"leadId"`
	ContactID     uuid.UUID  `json:"contactId"`
	SalespersonID *uuid.UUID `json:"salespersonId,omitempty"`
	Source        string     `json:"source"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// =============================================================================
// Webhook Domain Events
// =============================================================================

// InboundMessageReceived is published for every gateway message that made it
// through the ingestion pipeline, whether or not record creation succeeded.
type InboundMessageReceived struct {
	BaseEvent
	MessageID string `json:"messageId"`
	From      string `json:"from"`
	Processed bool   `json:"processed"`
}

func (e InboundMessageReceived) EventName() string { return "webhook.message.received" }
