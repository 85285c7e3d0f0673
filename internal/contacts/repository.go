package contacts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("contact not found")

// Contact is a directory entry reachable by phone.
type Contact struct {
	ID              uuid.UUID
	Name            string
	Phone           string
	Mobile          string
	PhoneNormalized string
	ParentID        *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const contactColumns = `id, name, phone, mobile, phone_normalized, parent_id, created_at, updated_at`

func scanContact(row pgx.Row) (Contact, error) {
	var c Contact
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Mobile, &c.PhoneNormalized, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrNotFound
	}
	if err != nil {
		return Contact{}, err
	}
	return c, nil
}

// FindByNormalizedPhone returns the oldest contact for the normalized number.
// Ordering by id makes resolution deterministic when a race left duplicates.
func (r *Repository) FindByNormalizedPhone(ctx context.Context, normalized string) (Contact, error) {
	return scanContact(r.pool.QueryRow(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE phone_normalized = $1
		ORDER BY id ASC
		LIMIT 1
	`, normalized))
}

// FindByRawPhone matches the stored phone column first, then mobile, ignoring
// formatting noise in the stored values. First match wins, lowest id first.
func (r *Repository) FindByRawPhone(ctx context.Context, digits string) (Contact, error) {
	contact, err := scanContact(r.pool.QueryRow(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE regexp_replace(phone, '\D', '', 'g') = $1
		ORDER BY id ASC
		LIMIT 1
	`, digits))
	if err == nil {
		return contact, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Contact{}, err
	}

	return scanContact(r.pool.QueryRow(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE regexp_replace(mobile, '\D', '', 'g') = $1
		ORDER BY id ASC
		LIMIT 1
	`, digits))
}

// Create inserts a new contact.
func (r *Repository) Create(ctx context.Context, name, phone, mobile, normalized string) (Contact, error) {
	return scanContact(r.pool.QueryRow(ctx, `
		INSERT INTO contacts (name, phone, mobile, phone_normalized)
		VALUES ($1, $2, $3, $4)
		RETURNING `+contactColumns, name, phone, mobile, normalized))
}

// GetByID returns a single contact.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Contact, error) {
	return scanContact(r.pool.QueryRow(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE id = $1
	`, id))
}

// List returns contacts newest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Contact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Contact, 0)
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Mobile, &c.PhoneNormalized, &c.ParentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
