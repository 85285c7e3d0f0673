// Package webhook implements the WhatsApp gateway ingestion pipeline:
// endpoint verification and inbound message-to-lead processing.
package webhook

import (
	"context"
	"fmt"
	"strings"

	"leadgate_backend/internal/contacts"
	"leadgate_backend/internal/events"
	"leadgate_backend/internal/leads/transport"
	"leadgate_backend/platform/logger"
)

const (
	leadSource     = "whatsapp"
	titlePrefix    = "WhatsApp: "
	titleBodyLimit = 30
	fallbackTitle  = "New WhatsApp Message"
)

// LeadCreator is the lead factory consumed by the pipeline.
type LeadCreator interface {
	Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error)
}

// Summary reports a webhook batch outcome.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
}

type Service struct {
	directory contacts.Directory
	leads     LeadCreator
	dedupe    Deduper
	bus       events.Bus
	log       *logger.Logger
}

func NewService(directory contacts.Directory, leads LeadCreator, dedupe Deduper, bus events.Bus, log *logger.Logger) *Service {
	if dedupe == nil {
		dedupe = NoopDeduper{}
	}
	return &Service{
		directory: directory,
		leads:     leads,
		dedupe:    dedupe,
		bus:       bus,
		log:       log,
	}
}

// ProcessPayload walks the entry/changes/value structure and turns every
// inbound message into a lead. Status-only notifications are skipped. One
// bad message never aborts the rest of the batch.
func (s *Service) ProcessPayload(ctx context.Context, payload Payload) Summary {
	var summary Summary
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			summary.Skipped += len(change.Value.Statuses)
			for _, message := range change.Value.Messages {
				switch err := s.processMessage(ctx, message); {
				case err == nil:
					summary.Processed++
				case err == errSkipped:
					summary.Skipped++
				default:
					summary.Failed++
					s.log.Error("failed to process inbound message", "message_id", message.ID, "error", err)
				}
			}
		}
	}
	s.log.WebhookEvent("messages", summary.Processed, summary.Skipped, summary.Failed)
	return summary
}

// errSkipped marks messages intentionally dropped (no sender, redelivery).
var errSkipped = fmt.Errorf("message skipped")

func (s *Service) processMessage(ctx context.Context, message Message) error {
	if message.From == "" {
		s.log.Info("inbound message has no sender, skipping", "message_id", message.ID)
		return errSkipped
	}

	if message.ID != "" {
		seen, err := s.dedupe.Seen(ctx, message.ID)
		if err != nil {
			// Dedupe is best effort: a Redis outage must not drop leads.
			s.log.Error("dedupe check failed, processing anyway", "message_id", message.ID, "error", err)
		} else if seen {
			s.log.Info("duplicate message delivery, skipping", "message_id", message.ID)
			return errSkipped
		}
	}

	contact, err := s.directory.ResolveOrCreate(ctx, message.From)
	if err != nil {
		return fmt.Errorf("resolve contact: %w", err)
	}

	body := strings.TrimSpace(message.Body())
	lead, err := s.leads.Create(ctx, transport.CreateLeadRequest{
		Title:       leadTitle(body),
		ContactID:   contact.ID,
		Description: fmt.Sprintf("Message received: %s\nPhone: %s", body, message.From),
		Source:      leadSource,
	})
	if err != nil {
		return fmt.Errorf("create lead: %w", err)
	}

	s.bus.Publish(ctx, events.InboundMessageReceived{
		BaseEvent: events.NewBaseEvent(),
		MessageID: message.ID,
		From:      message.From,
		Processed: true,
	})

	s.log.Info("lead created from inbound message",
		"message_id", message.ID,
		"lead_id", lead.ID,
		"contact_id", contact.ID,
	)
	return nil
}

func leadTitle(body string) string {
	if body == "" {
		return fallbackTitle
	}
	if runes := []rune(body); len(runes) > titleBodyLimit {
		body = string(runes[:titleBodyLimit])
	}
	return titlePrefix + body + "..."
}
