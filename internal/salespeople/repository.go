package salespeople

import (
	"context"
	"errors"
	"time"

	"leadgate_backend/internal/assignment"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("salesperson not found")

// Salesperson mirrors the platform user directory entry this service reads.
type Salesperson struct {
	ID        uuid.UUID
	Name      string
	Phone     string
	Team      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}
// ActivePool returns the active members in stable ascending-id order, which
// is what makes the round-robin rotation deterministic across calls.
func (r *Repository) ActivePool(ctx context.Context) ([]assignment.Salesperson, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, phone
		FROM salespeople
		WHERE is_active = true
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pool := make([]assignment.Salesperson, 0)
	for rows.Next() {
		var sp assignment.Salesperson
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Phone); err != nil {
			return nil, err
		}
		pool = append(pool, sp)
	}
	return pool, rows.Err()
}

// GetByID returns a single salesperson.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Salesperson, error) {
	var sp Salesperson
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, phone, team, is_active, created_at, updated_at
		FROM salespeople
		WHERE id = $1
	`, id).Scan(&sp.ID, &sp.Name, &sp.Phone, &sp.Team, &sp.IsActive, &sp.CreatedAt, &sp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Salesperson{}, ErrNotFound
	}
	if err != nil {
		return Salesperson{}, err
	}
	return sp, nil
}

// List returns all salespeople in id order.
func (r *Repository) List(ctx context.Context) ([]Salesperson, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, phone, team, is_active, created_at, updated_at
		FROM salespeople
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Salesperson, 0)
	for rows.Next() {
		var sp Salesperson
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Phone, &sp.Team, &sp.IsActive, &sp.CreatedAt, &sp.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, sp)
	}
	return items, rows.Err()
}

// Create inserts a new salesperson.
func (r *Repository) Create(ctx context.Context, name, phone, team string) (Salesperson, error) {
	var sp Salesperson
	err := r.pool.QueryRow(ctx, `
		INSERT INTO salespeople (name, phone, team)
		VALUES ($1, $2, $3)
		RETURNING id, name, phone, team, is_active, created_at, updated_at
	`, name, phone, team).Scan(&sp.ID, &sp.Name, &sp.Phone, &sp.Team, &sp.IsActive, &sp.CreatedAt, &sp.UpdatedAt)
	return sp, err
}

// SetActive toggles the active flag.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE salespeople SET is_active = $2, updated_at = now() WHERE id = $1
	`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
