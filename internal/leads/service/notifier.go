package service

import (
	"context"
	"fmt"

	"leadgate_backend/internal/events"
	"leadgate_backend/platform/logger"
)

// AssignmentNotifier pings the assigned salesperson on WhatsApp when a lead
// lands on their desk. Delivery is best effort: a failed notification is
// logged and never affects the lead itself.
type AssignmentNotifier struct {
	store    Store
	contacts ContactReader
	sellers  SalespersonReader
	gateway  GatewaySender
	log      *logger.Logger
}

func NewAssignmentNotifier(store Store, contactReader ContactReader, sellers SalespersonReader, gateway GatewaySender, log *logger.Logger) *AssignmentNotifier {
	return &AssignmentNotifier{
		store:    store,
		contacts: contactReader,
		sellers:  sellers,
		gateway:  gateway,
		log:      log,
	}
}

// Register subscribes the notifier to lead creation events.
func (n *AssignmentNotifier) Register(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(n.handle))
}

func (n *AssignmentNotifier) handle(ctx context.Context, event events.Event) error {
	created, ok := event.(events.LeadCreated)
	if !ok || created.SalespersonID == nil {
		return nil
	}

	seller, err := n.sellers.GetByID(ctx, *created.SalespersonID)
	if err != nil {
		return fmt.Errorf("load salesperson for notification: %w", err)
	}
	if seller.Phone == "" {
		n.log.Info("salesperson has no phone, skipping notification", "salesperson_id", seller.ID)
		return nil
	}

	lead, err := n.store.GetByID(ctx, created.LeadID)
	if err != nil {
		return fmt.Errorf("load lead for notification: %w", err)
	}

	contactLine := ""
	if contact, err := n.contacts.GetByID(ctx, lead.ContactID); err == nil {
		contactLine = fmt.Sprintf("\nContacto: %s (%s)", contact.Name, contact.Phone)
	}

	body := fmt.Sprintf("Nuevo lead asignado: %s%s", lead.Title, contactLine)
	result, err := n.gateway.Send(ctx, seller.Phone, body)
	if err != nil {
		return fmt.Errorf("send assignment notification: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("assignment notification rejected: %s", result.Detail)
	}
	return nil
}
