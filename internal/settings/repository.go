package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Setting keys. The table mirrors the key/value parameter store the rest of
// the platform writes through its admin screens.
const (
	KeyAssignmentStrategy    = "lead_assignment_strategy"
	KeyAssignmentCursor      = "lead_assignment_cursor"
	KeyWhatsAppAccessToken   = "whatsapp_access_token"
	KeyWhatsAppPhoneNumberID = "whatsapp_phone_number_id"
	KeyWhatsAppTestMode      = "whatsapp_test_mode"
	KeyWhatsAppVerifyToken   = "whatsapp_verify_token"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns the stored value for key, or "" when the key is absent.
func (r *Repository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.pool.QueryRow(ctx, `SELECT value FROM app_settings WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set upserts the value for key.
func (r *Repository) Set(ctx context.Context, key, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
	return err
}

// AdvanceCursor performs the rotation cursor's read-compute-write as a single
// statement, so concurrent assignments cannot interleave between the read and
// the write. An unset cursor behaves as -1, making the first advance land on
// index 0.
func (r *Repository) AdvanceCursor(ctx context.Context, poolSize int) (int, error) {
	var next int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES ($1, '0', now())
		ON CONFLICT (key) DO UPDATE
		SET value = (((COALESCE(NULLIF(app_settings.value, ''), '-1'))::int + 1) % $2)::text,
		    updated_at = now()
		RETURNING value::int
	`, KeyAssignmentCursor, poolSize).Scan(&next)
	if err != nil {
		return 0, err
	}
	return next, nil
}
