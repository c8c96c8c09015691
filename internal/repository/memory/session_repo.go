package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"imagequery/internal/domain"
	"imagequery/internal/port"
)

type sessionEntry struct {
	mu       sync.Mutex
	state    domain.FormState
	lastSeen time.Time
}

type sessionRepo struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry
	now      func() time.Time
}

// NewSessionRepo creates an in-memory SessionStore. State lives only as long
// as the process and the page session.
func NewSessionRepo() port.SessionStore {
	return newSessionRepo(time.Now)
}

// NewSessionRepoWithClock is NewSessionRepo with an injectable clock (for testing).
func NewSessionRepoWithClock(now func() time.Time) port.SessionStore {
	return newSessionRepo(now)
}

func newSessionRepo(now func() time.Time) *sessionRepo {
	return &sessionRepo{
		sessions: make(map[uuid.UUID]*sessionEntry),
		now:      now,
	}
}

func (r *sessionRepo) Create(_ context.Context) (*domain.FormState, error) {
	id := uuid.New()
	state := domain.NewFormState(id)
	entry := &sessionEntry{state: state, lastSeen: r.now()}

	r.mu.Lock()
	r.sessions[id] = entry
	r.mu.Unlock()

	return &state, nil
}

func (r *sessionRepo) Get(_ context.Context, id uuid.UUID) (*domain.FormState, error) {
	entry, ok := r.lookup(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.lastSeen = r.now()
	state := entry.state
	return &state, nil
}

func (r *sessionRepo) Update(_ context.Context, id uuid.UUID, fn port.StateTransition) (*domain.FormState, error) {
	entry, ok := r.lookup(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.lastSeen = r.now()

	next, err := fn(entry.state)
	if err != nil {
		return nil, err
	}
	entry.state = next
	return &next, nil
}

func (r *sessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *sessionRepo) SweepIdle(_ context.Context, idle time.Duration) (int, error) {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, entry := range r.sessions {
		entry.mu.Lock()
		expired := entry.lastSeen.Before(cutoff) && entry.state.InFlight == 0
		entry.mu.Unlock()
		if expired {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (r *sessionRepo) lookup(id uuid.UUID) (*sessionEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sessions[id]
	return entry, ok
}
