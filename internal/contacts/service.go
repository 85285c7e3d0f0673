// Package contacts is the contact directory: it resolves an inbound sender's
// phone number to a durable contact record, creating one on first sight.
package contacts

import (
	"context"
	"errors"
	"fmt"

	"leadgate_backend/platform/logger"
	"leadgate_backend/platform/phone"

	"golang.org/x/sync/singleflight"
)

// Directory is the lookup interface consumed by the ingestion pipeline.
type Directory interface {
	ResolveOrCreate(ctx context.Context, phoneRaw string) (Contact, error)
}

// Store is the persistence interface the service needs; *Repository satisfies it.
type Store interface {
	FindByNormalizedPhone(ctx context.Context, normalized string) (Contact, error)
	FindByRawPhone(ctx context.Context, digits string) (Contact, error)
	Create(ctx context.Context, name, phone, mobile, normalized string) (Contact, error)
}

type Service struct {
	store Store
	group singleflight.Group
	log   *logger.Logger
}

func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// ResolveOrCreate finds the contact for a raw phone number, creating one when
// no match exists. Concurrent calls for the same normalized number collapse
// into a single lookup-or-create, which bounds duplicate creation within this
// process; cross-process races may still produce a bounded number of
// duplicates, and resolution then always picks the lowest id.
func (s *Service) ResolveOrCreate(ctx context.Context, phoneRaw string) (Contact, error) {
	normalized := phone.NormalizeE164(phoneRaw)
	if normalized == "" {
		return Contact{}, fmt.Errorf("empty phone number")
	}

	result, err, _ := s.group.Do(normalized, func() (interface{}, error) {
		return s.resolveOrCreate(ctx, phoneRaw, normalized)
	})
	if err != nil {
		return Contact{}, err
	}
	return result.(Contact), nil
}

func (s *Service) resolveOrCreate(ctx context.Context, phoneRaw, normalized string) (Contact, error) {
	contact, err := s.store.FindByNormalizedPhone(ctx, normalized)
	if err == nil {
		return contact, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Contact{}, err
	}

	// Legacy rows created before normalization carry only raw phone columns.
	contact, err = s.store.FindByRawPhone(ctx, phone.Digits(normalized))
	if err == nil {
		return contact, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Contact{}, err
	}

	contact, err = s.store.Create(ctx, "WhatsApp User "+phoneRaw, normalized, normalized, normalized)
	if err != nil {
		return Contact{}, err
	}
	s.log.Info("contact created from inbound message", "contact_id", contact.ID, "phone", normalized)
	return contact, nil
}
