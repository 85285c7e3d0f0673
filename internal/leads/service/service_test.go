package service

import (
	"context"
	"strings"
	"testing"

	"leadgate_backend/internal/assignment"
	"leadgate_backend/internal/contacts"
	"leadgate_backend/internal/events"
	"leadgate_backend/internal/leads/repository"
	"leadgate_backend/internal/leads/transport"
	"leadgate_backend/internal/salespeople"
	"leadgate_backend/internal/whatsapp"
	"leadgate_backend/platform/apperr"
	"leadgate_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	leads       map[uuid.UUID]repository.Lead
	assignCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{leads: make(map[uuid.UUID]repository.Lead)}
}

func (f *fakeStore) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	lead := repository.Lead{
		ID:            uuid.New(),
		Title:         params.Title,
		ContactID:     params.ContactID,
		Description:   params.Description,
		LeadType:      "opportunity",
		SalespersonID: params.SalespersonID,
		Source:        params.Source,
		Probability:   10,
		IsActive:      true,
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeStore) List(_ context.Context, _, _ int) ([]repository.Lead, error) {
	result := make([]repository.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		result = append(result, lead)
	}
	return result, nil
}

func (f *fakeStore) AssignSalesperson(_ context.Context, id uuid.UUID, salespersonID uuid.UUID) error {
	f.assignCalls++
	lead := f.leads[id]
	lead.SalespersonID = &salespersonID
	f.leads[id] = lead
	return nil
}

func (f *fakeStore) SetOutcome(_ context.Context, id uuid.UUID, probability int, active bool) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.Probability = probability
	lead.IsActive = active
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeStore) CountActiveLeads(_ context.Context, _ []uuid.UUID) (map[uuid.UUID]int, error) {
	return map[uuid.UUID]int{}, nil
}

type fakeContacts struct {
	byID map[uuid.UUID]contacts.Contact
}

func (f *fakeContacts) GetByID(_ context.Context, id uuid.UUID) (contacts.Contact, error) {
	contact, ok := f.byID[id]
	if !ok {
		return contacts.Contact{}, contacts.ErrNotFound
	}
	return contact, nil
}

type fakeSellers struct {
	byID map[uuid.UUID]salespeople.Salesperson
}

func (f *fakeSellers) GetByID(_ context.Context, id uuid.UUID) (salespeople.Salesperson, error) {
	return f.byID[id], nil
}

type fakeStrategy struct {
	strategy assignment.Strategy
}

func (f *fakeStrategy) Strategy(context.Context) (assignment.Strategy, error) {
	return f.strategy, nil
}

type fakePool struct {
	members []assignment.Salesperson
}

func (f *fakePool) ActivePool(context.Context) ([]assignment.Salesperson, error) {
	return f.members, nil
}

type fakeCursor struct {
	cursor int
}

func (f *fakeCursor) AdvanceCursor(_ context.Context, poolSize int) (int, error) {
	f.cursor = (f.cursor + 1) % poolSize
	return f.cursor, nil
}

type fakeGateway struct {
	sent   []string
	result whatsapp.SendResult
	err    error
}

func (f *fakeGateway) Send(_ context.Context, destinationPhone, bodyText string) (whatsapp.SendResult, error) {
	f.sent = append(f.sent, destinationPhone+"|"+bodyText)
	return f.result, f.err
}

type noopBus struct{}

func (noopBus) Publish(context.Context, events.Event)          {}
func (noopBus) PublishSync(context.Context, events.Event) error { return nil }
func (noopBus) Subscribe(string, events.Handler)               {}

type testEnv struct {
	store    *fakeStore
	contacts *fakeContacts
	gateway  *fakeGateway
	pool     *fakePool
	service  *Service

	contactID uuid.UUID
	sellerA   uuid.UUID
	sellerB   uuid.UUID
}

func newTestEnv(t *testing.T, strategy assignment.Strategy, poolMembers int) *testEnv {
	t.Helper()

	env := &testEnv{
		store:     newFakeStore(),
		gateway:   &fakeGateway{result: whatsapp.SendResult{Success: true, Detail: "sent"}},
		contactID: uuid.New(),
		sellerA:   uuid.MustParse("00000000-0000-0000-0000-00000000000a"),
		sellerB:   uuid.MustParse("00000000-0000-0000-0000-00000000000b"),
	}
	env.contacts = &fakeContacts{byID: map[uuid.UUID]contacts.Contact{
		env.contactID: {ID: env.contactID, Name: "WhatsApp User 5215512345678", Phone: "+5215512345678"},
	}}

	members := []assignment.Salesperson{
		{ID: env.sellerA, Name: "Ana", Phone: "+5215500000001"},
		{ID: env.sellerB, Name: "Bruno", Phone: "+5215500000002"},
	}
	env.pool = &fakePool{members: members[:poolMembers]}

	sellers := &fakeSellers{byID: map[uuid.UUID]salespeople.Salesperson{
		env.sellerA: {ID: env.sellerA, Name: "Ana", Phone: "+5215500000001"},
		env.sellerB: {ID: env.sellerB, Name: "Bruno", Phone: "+5215500000002"},
	}}

	engine := assignment.NewEngine(&fakeCursor{cursor: -1}, env.store)
	env.service = New(env.store, env.contacts, sellers, &fakeStrategy{strategy: strategy}, env.pool, engine, env.gateway, nil, noopBus{}, logger.New("development"))
	return env
}

func TestCreateAutoAssignsRoundRobin(t *testing.T) {
	env := newTestEnv(t, assignment.StrategyRoundRobin, 2)

	first, err := env.service.Create(context.Background(), transport.CreateLeadRequest{
		Title:     "WhatsApp: Hola quiero informacion...",
		ContactID: env.contactID,
		Source:    "whatsapp",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if first.SalespersonID == nil || *first.SalespersonID != env.sellerA {
		t.Fatalf("first lead assigned to %v, want %v", first.SalespersonID, env.sellerA)
	}

	second, err := env.service.Create(context.Background(), transport.CreateLeadRequest{
		Title:     "WhatsApp: Precios...",
		ContactID: env.contactID,
		Source:    "whatsapp",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if second.SalespersonID == nil || *second.SalespersonID != env.sellerB {
		t.Fatalf("second lead assigned to %v, want %v", second.SalespersonID, env.sellerB)
	}

	if env.store.assignCalls != 2 {
		t.Fatalf("assignCalls = %d, want 2", env.store.assignCalls)
	}
}

func TestCreatePresetSalespersonSkipsAssignment(t *testing.T) {
	env := newTestEnv(t, assignment.StrategyRoundRobin, 2)

	preset := env.sellerB
	lead, err := env.service.Create(context.Background(), transport.CreateLeadRequest{
		Title:         "Manual lead",
		ContactID:     env.contactID,
		SalespersonID: &preset,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if lead.SalespersonID == nil || *lead.SalespersonID != preset {
		t.Fatalf("lead assigned to %v, want preset %v", lead.SalespersonID, preset)
	}
	if env.store.assignCalls != 0 {
		t.Fatalf("assignCalls = %d, want 0", env.store.assignCalls)
	}
}

func TestCreateEmptyPoolLeavesUnassigned(t *testing.T) {
	env := newTestEnv(t, assignment.StrategyRoundRobin, 0)

	lead, err := env.service.Create(context.Background(), transport.CreateLeadRequest{
		Title:     "Nobody home",
		ContactID: env.contactID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if lead.SalespersonID != nil {
		t.Fatalf("lead assigned to %v, want unassigned", lead.SalespersonID)
	}
}

func TestCreateUnknownContactRejected(t *testing.T) {
	env := newTestEnv(t, assignment.StrategyRoundRobin, 2)

	_, err := env.service.Create(context.Background(), transport.CreateLeadRequest{
		Title:     "Orphan",
		ContactID: uuid.New(),
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("Create() error = %v, want validation error", err)
	}
}

func TestSendWhatsAppSurfacesGatewayRejection(t *testing.T) {
	env := newTestEnv(t, assignment.StrategyRoundRobin, 2)
	env.gateway.result = whatsapp.SendResult{Success: false, Detail: "invalid recipient"}

	lead, err := env.service.Create(context.Background(), transport.CreateLeadRequest{
		Title:     "Needs follow-up",
		ContactID: env.contactID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	env.gateway.sent = nil
	_, err = env.service.SendWhatsApp(context.Background(), lead.ID, "hola")
	if !apperr.Is(err, apperr.KindBadGateway) {
		t.Fatalf("SendWhatsApp() error = %v, want bad gateway", err)
	}
	if !strings.Contains(err.Error(), "invalid recipient") {
		t.Fatalf("SendWhatsApp() error %q does not carry gateway detail", err)
	}
	if len(env.gateway.sent) != 1 {
		t.Fatalf("gateway called %d times, want 1", len(env.gateway.sent))
	}
}

func TestMarkWonAndLostSetOutcome(t *testing.T) {
	env := newTestEnv(t, assignment.StrategyRoundRobin, 2)

	lead, err := env.service.Create(context.Background(), transport.CreateLeadRequest{
		Title:     "Outcome",
		ContactID: env.contactID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	won, err := env.service.MarkWon(context.Background(), lead.ID)
	if err != nil {
		t.Fatalf("MarkWon() error = %v", err)
	}
	if won.Probability != repository.ProbabilityWon || !won.IsActive {
		t.Fatalf("MarkWon() = probability %d active %v, want 100 active", won.Probability, won.IsActive)
	}

	lost, err := env.service.MarkLost(context.Background(), lead.ID)
	if err != nil {
		t.Fatalf("MarkLost() error = %v", err)
	}
	if lost.Probability != repository.ProbabilityLost || lost.IsActive {
		t.Fatalf("MarkLost() = probability %d active %v, want 0 inactive", lost.Probability, lost.IsActive)
	}
}

func TestSendReminderSkipsDecidedLead(t *testing.T) {
	env := newTestEnv(t, assignment.StrategyRoundRobin, 2)

	lead, err := env.service.Create(context.Background(), transport.CreateLeadRequest{
		Title:     "Reminder",
		ContactID: env.contactID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := env.service.MarkLost(context.Background(), lead.ID); err != nil {
		t.Fatalf("MarkLost() error = %v", err)
	}

	env.gateway.sent = nil
	if err := env.service.SendReminder(context.Background(), lead.ID, ""); err != nil {
		t.Fatalf("SendReminder() error = %v", err)
	}
	if len(env.gateway.sent) != 0 {
		t.Fatalf("gateway called %d times for decided lead, want 0", len(env.gateway.sent))
	}
}

func TestSendReminderDefaultTemplate(t *testing.T) {
	env := newTestEnv(t, assignment.StrategyRoundRobin, 2)

	lead, err := env.service.Create(context.Background(), transport.CreateLeadRequest{
		Title:     "Cotizacion pendiente",
		ContactID: env.contactID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	env.gateway.sent = nil
	if err := env.service.SendReminder(context.Background(), lead.ID, ""); err != nil {
		t.Fatalf("SendReminder() error = %v", err)
	}
	if len(env.gateway.sent) != 1 {
		t.Fatalf("gateway called %d times, want 1", len(env.gateway.sent))
	}
	body := env.gateway.sent[0]
	if !strings.Contains(body, "Cotizacion pendiente") {
		t.Fatalf("reminder body %q missing lead title", body)
	}
	if !strings.Contains(body, "Ana") {
		t.Fatalf("reminder body %q missing assigned salesperson name", body)
	}
}
