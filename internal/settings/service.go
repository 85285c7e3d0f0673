// Package settings is the process-wide durable configuration store: the
// assignment strategy, the round-robin rotation cursor, and the outbound
// gateway credentials. Every accessor reads the latest committed value; there
// is no caching layer, so a strategy change applies to the very next
// assignment.
package settings

import (
	"context"
	"strconv"
	"strings"

	"leadgate_backend/internal/assignment"
	"leadgate_backend/platform/apperr"
)

// Store is the accessor interface consumed by other modules.
type Store interface {
	Strategy(ctx context.Context) (assignment.Strategy, error)
	VerifyToken(ctx context.Context) (string, error)
	GatewayCredentials(ctx context.Context) (Credentials, error)
}

// Credentials holds the outbound gateway configuration.
type Credentials struct {
	AccessToken   string
	PhoneNumberID string
	TestMode      bool
}

// Snapshot is the full settings view for the admin surface.
type Snapshot struct {
	Strategy      assignment.Strategy
	Cursor        int
	VerifyToken   string
	AccessToken   string
	PhoneNumberID string
	TestMode      bool
}

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Strategy returns the currently configured assignment strategy. Unknown
// stored values decay to round-robin via ParseStrategy.
func (s *Service) Strategy(ctx context.Context) (assignment.Strategy, error) {
	value, err := s.repo.Get(ctx, KeyAssignmentStrategy)
	if err != nil {
		return "", err
	}
	return assignment.ParseStrategy(value), nil
}

// SetStrategy stores a strategy value, rejecting names outside the closed set.
func (s *Service) SetStrategy(ctx context.Context, value string) error {
	if !assignment.Valid(value) {
		return apperr.Validation("unknown assignment strategy: " + value)
	}
	return s.repo.Set(ctx, KeyAssignmentStrategy, value)
}

// VerifyToken returns the webhook verification token.
func (s *Service) VerifyToken(ctx context.Context) (string, error) {
	return s.repo.Get(ctx, KeyWhatsAppVerifyToken)
}

// GatewayCredentials returns the outbound gateway token, sender id, and test
// mode flag as currently stored.
func (s *Service) GatewayCredentials(ctx context.Context) (Credentials, error) {
	token, err := s.repo.Get(ctx, KeyWhatsAppAccessToken)
	if err != nil {
		return Credentials{}, err
	}
	phoneNumberID, err := s.repo.Get(ctx, KeyWhatsAppPhoneNumberID)
	if err != nil {
		return Credentials{}, err
	}
	testMode, err := s.repo.Get(ctx, KeyWhatsAppTestMode)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{
		AccessToken:   token,
		PhoneNumberID: phoneNumberID,
		TestMode:      strings.EqualFold(testMode, "true"),
	}, nil
}

// Cursor returns the persisted rotation cursor, -1 when unset.
func (s *Service) Cursor(ctx context.Context) (int, error) {
	value, err := s.repo.Get(ctx, KeyAssignmentCursor)
	if err != nil {
		return 0, err
	}
	if value == "" {
		return -1, nil
	}
	cursor, err := strconv.Atoi(value)
	if err != nil {
		return -1, nil
	}
	return cursor, nil
}

// Snapshot returns all settings for the admin surface.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	strategy, err := s.Strategy(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	cursor, err := s.Cursor(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	verifyToken, err := s.VerifyToken(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	creds, err := s.GatewayCredentials(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Strategy:      strategy,
		Cursor:        cursor,
		VerifyToken:   verifyToken,
		AccessToken:   creds.AccessToken,
		PhoneNumberID: creds.PhoneNumberID,
		TestMode:      creds.TestMode,
	}, nil
}

// UpdateParams carries the admin settings update; nil fields are unchanged.
type UpdateParams struct {
	Strategy      *string
	VerifyToken   *string
	AccessToken   *string
	PhoneNumberID *string
	TestMode      *bool
}

// Update applies the non-nil fields.
func (s *Service) Update(ctx context.Context, params UpdateParams) error {
	if params.Strategy != nil {
		if err := s.SetStrategy(ctx, *params.Strategy); err != nil {
			return err
		}
	}
	if params.VerifyToken != nil {
		if err := s.repo.Set(ctx, KeyWhatsAppVerifyToken, *params.VerifyToken); err != nil {
			return err
		}
	}
	if params.AccessToken != nil {
		if err := s.repo.Set(ctx, KeyWhatsAppAccessToken, *params.AccessToken); err != nil {
			return err
		}
	}
	if params.PhoneNumberID != nil {
		if err := s.repo.Set(ctx, KeyWhatsAppPhoneNumberID, *params.PhoneNumberID); err != nil {
			return err
		}
	}
	if params.TestMode != nil {
		if err := s.repo.Set(ctx, KeyWhatsAppTestMode, strconv.FormatBool(*params.TestMode)); err != nil {
			return err
		}
	}
	return nil
}
