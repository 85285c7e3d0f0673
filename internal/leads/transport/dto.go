// Package transport defines the request/response DTOs for the leads API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateLeadRequest is the manual lead creation body.
type CreateLeadRequest struct {
	Title         string     `json:"title" validate:"required,min=1,max=300"`
	ContactID     uuid.UUID  `json:"contactId" validate:"required"`
	Description   string     `json:"description" validate:"max=5000"`
	Source        string     `json:"source" validate:"max=100"`
	SalespersonID *uuid.UUID `json:"salespersonId"`
}

// LeadResponse is the API view of a lead.
type LeadResponse struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	ContactID     uuid.UUID  `json:"contactId"`
	Description   string     `json:"description"`
	LeadType      string     `json:"leadType"`
	SalespersonID *uuid.UUID `json:"salespersonId,omitempty"`
	Source        string     `json:"source"`
	Probability   int        `json:"probability"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// SendWhatsAppRequest is the interactive send body.
type SendWhatsAppRequest struct {
	Message string `json:"message" validate:"required,min=1,max=4096"`
}

// SendWhatsAppResponse reports the outbound send outcome.
type SendWhatsAppResponse struct {
	Detail    string `json:"detail"`
	Simulated bool   `json:"simulated"`
}

// ScheduleReminderRequest schedules a follow-up WhatsApp reminder.
type ScheduleReminderRequest struct {
	Message      string `json:"message" validate:"max=4096"`
	DelayMinutes int    `json:"delayMinutes" validate:"min=1,max=43200"`
}
