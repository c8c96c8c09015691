package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"imagequery/internal/domain"
)

// StateTransition maps one form state to the next.
type StateTransition func(state domain.FormState) (domain.FormState, error)

// SessionStore holds the form state of every live page session.
type SessionStore interface {
	Create(ctx context.Context) (*domain.FormState, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.FormState, error)
	// Update applies fn atomically. When fn fails the stored state is unchanged.
	Update(ctx context.Context, id uuid.UUID, fn StateTransition) (*domain.FormState, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SweepIdle removes sessions untouched for longer than idle and returns how many were removed.
	SweepIdle(ctx context.Context, idle time.Duration) (int, error)
}
