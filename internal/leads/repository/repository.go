package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

// Probability bounds. A lead is "decided" once probability hits either bound;
// load-based assignment only counts leads strictly between them.
const (
	ProbabilityLost = 0
	ProbabilityWon  = 100
)

// Lead is a sales opportunity linked to a contact.
type Lead struct {
	ID            uuid.UUID
	Title         string
	ContactID     uuid.UUID
	Description   string
	LeadType      string
	SalespersonID *uuid.UUID
	Source        string
	Probability   int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CreateLeadParams struct {
	Title         string
	ContactID     uuid.UUID
	Description   string
	SalespersonID *uuid.UUID
	Source        string
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, title, contact_id, description, lead_type, salesperson_id, source, probability, is_active, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(&l.ID, &l.Title, &l.ContactID, &l.Description, &l.LeadType, &l.SalespersonID, &l.Source, &l.Probability, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}
	return l, nil
}

// Create inserts a new opportunity lead.
func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		INSERT INTO leads (title, contact_id, description, lead_type, salesperson_id, source)
		VALUES ($1, $2, $3, 'opportunity', $4, $5)
		RETURNING `+leadColumns,
		params.Title, params.ContactID, params.Description, params.SalespersonID, params.Source))
}

// GetByID returns a single lead.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE id = $1
	`, id))
}

// List returns leads newest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		var l Lead
		if err := rows.Scan(&l.ID, &l.Title, &l.ContactID, &l.Description, &l.LeadType, &l.SalespersonID, &l.Source, &l.Probability, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

// AssignSalesperson sets the assignee. Only leads without one are updated, so
// auto-assignment can never overwrite a preset or earlier assignment.
func (r *Repository) AssignSalesperson(ctx context.Context, id uuid.UUID, salespersonID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE leads SET salesperson_id = $2, updated_at = now()
		WHERE id = $1 AND salesperson_id IS NULL
	`, id, salespersonID)
	return err
}

// SetOutcome records a won/lost decision via the probability bounds.
func (r *Repository) SetOutcome(ctx context.Context, id uuid.UUID, probability int, active bool) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET probability = $2, is_active = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns, id, probability, active))
}

// CountActiveLeads returns the open-lead count per salesperson: active leads
// whose probability sits strictly between lost and won. Satisfies the
// assignment engine's LoadCounter.
func (r *Repository) CountActiveLeads(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT salesperson_id, COUNT(*)
		FROM leads
		WHERE salesperson_id = ANY($1)
		  AND is_active = true
		  AND probability > $2
		  AND probability < $3
		GROUP BY salesperson_id
	`, ids, ProbabilityLost, ProbabilityWon)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int, len(ids))
	for rows.Next() {
		var id uuid.UUID
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		counts[id] = count
	}
	return counts, rows.Err()
}
