package contacts

import (
	"context"
	"testing"

	"leadgate_backend/platform/logger"

	"github.com/google/uuid"
)

// fakeStore keeps contacts in memory keyed by normalized phone.
type fakeStore struct {
	byNormalized map[string]Contact
	created      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{byNormalized: make(map[string]Contact)}
}

func (f *fakeStore) FindByNormalizedPhone(_ context.Context, normalized string) (Contact, error) {
	if c, ok := f.byNormalized[normalized]; ok {
		return c, nil
	}
	return Contact{}, ErrNotFound
}

func (f *fakeStore) FindByRawPhone(_ context.Context, _ string) (Contact, error) {
	return Contact{}, ErrNotFound
}

func (f *fakeStore) Create(_ context.Context, name, phone, mobile, normalized string) (Contact, error) {
	c := Contact{ID: uuid.New(), Name: name, Phone: phone, Mobile: mobile, PhoneNormalized: normalized}
	f.byNormalized[normalized] = c
	f.created++
	return c, nil
}

func TestResolveOrCreate_SamePhoneResolvesToSameContact(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, logger.New("development"))

	first, err := svc.ResolveOrCreate(context.Background(), "5215551234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.ResolveOrCreate(context.Background(), "5215551234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected same contact, got %v and %v", first.ID, second.ID)
	}
	if store.created != 1 {
		t.Fatalf("expected exactly one creation, got %d", store.created)
	}
}

func TestResolveOrCreate_FormattingVariantsCollapse(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, logger.New("development"))

	first, err := svc.ResolveOrCreate(context.Background(), "+5215551234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Same number, gateway style without the plus.
	second, err := svc.ResolveOrCreate(context.Background(), "5215551234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected formatting variants to resolve to one contact")
	}
}

func TestResolveOrCreate_NewPhoneCreatesExactlyOne(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, logger.New("development"))

	if _, err := svc.ResolveOrCreate(context.Background(), "5215551234567"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	created, err := svc.ResolveOrCreate(context.Background(), "5215559999999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.created != 2 {
		t.Fatalf("expected two creations, got %d", store.created)
	}
	if created.Name != "WhatsApp User 5215559999999" {
		t.Fatalf("unexpected generated name %q", created.Name)
	}
	if created.ParentID != nil {
		t.Fatal("contact created from a message must have no parent organization")
	}
}

func TestResolveOrCreate_EmptyPhoneRejected(t *testing.T) {
	svc := NewService(newFakeStore(), logger.New("development"))
	if _, err := svc.ResolveOrCreate(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty phone")
	}
}
