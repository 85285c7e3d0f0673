// Package assignment selects a salesperson for new leads according to the
// configured strategy. The engine is pure apart from the round-robin cursor
// write, which goes through the injected CursorStore.
package assignment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Salesperson is the engine's view of a pool member.
type Salesperson struct {
	ID    uuid.UUID
	Name  string
	Phone string
}

// CursorStore advances the persisted rotation cursor. Advance must be an
// atomic read-modify-write: it returns (previous + 1) mod poolSize and
// persists that value in one step.
type CursorStore interface {
	AdvanceCursor(ctx context.Context, poolSize int) (int, error)
}

// LoadCounter returns the number of active, not-yet-decided leads per
// salesperson. Members absent from the result carry zero load.
type LoadCounter interface {
	CountActiveLeads(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)
}

// Engine picks one salesperson from a pool.
type Engine struct {
	cursor CursorStore
	loads  LoadCounter
}

// NewEngine creates an assignment engine.
func NewEngine(cursor CursorStore, loads LoadCounter) *Engine {
	return &Engine{cursor: cursor, loads: loads}
}

// Pick selects exactly one pool member per the strategy, or nil when the pool
// is empty. An empty pool is a valid terminal state, not an error: the caller
// leaves the lead unassigned.
//
// The pool must be ordered stably (ascending id) by the provider. If pool
// membership changed since the cursor was last written, round-robin may skip
// or repeat a member; that drift is accepted rather than corrected.
func (e *Engine) Pick(ctx context.Context, strategy Strategy, pool []Salesperson) (*Salesperson, error) {
	if len(pool) == 0 {
		return nil, nil
	}

	switch strategy {
	case StrategyRandom:
		return &pool[rand.Intn(len(pool))], nil
	case StrategyLoadBased:
		return e.pickLeastLoaded(ctx, pool)
	default:
		return e.pickRoundRobin(ctx, pool)
	}
}

func (e *Engine) pickRoundRobin(ctx context.Context, pool []Salesperson) (*Salesperson, error) {
	next, err := e.cursor.AdvanceCursor(ctx, len(pool))
	if err != nil {
		return nil, fmt.Errorf("advance assignment cursor: %w", err)
	}
	// A stale cursor written against a larger pool stays in range via modulo.
	return &pool[next%len(pool)], nil
}

func (e *Engine) pickLeastLoaded(ctx context.Context, pool []Salesperson) (*Salesperson, error) {
	ids := make([]uuid.UUID, len(pool))
	for i, sp := range pool {
		ids[i] = sp.ID
	}

	counts, err := e.loads.CountActiveLeads(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count active leads: %w", err)
	}

	best := 0
	for i := 1; i < len(pool); i++ {
		if counts[pool[i].ID] < counts[pool[best].ID] {
			best = i
		}
	}
	return &pool[best], nil
}
