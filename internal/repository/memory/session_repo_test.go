package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagequery/internal/domain"
	"imagequery/internal/repository/memory"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestSessionRepo_CreateAndGet(t *testing.T) {
	repo := memory.NewSessionRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.SessionID)
	assert.Equal(t, domain.FormStatusIdle, created.Status())

	got, err := repo.Get(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Equal(t, created.SessionID, got.SessionID)
	assert.Equal(t, domain.DefaultGenerationParameters(), got.Parameters)
}

func TestSessionRepo_GetMissing(t *testing.T) {
	repo := memory.NewSessionRepo()

	_, err := repo.Get(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionRepo_Update(t *testing.T) {
	repo := memory.NewSessionRepo()
	ctx := context.Background()
	created, err := repo.Create(ctx)
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.SessionID, func(st domain.FormState) (domain.FormState, error) {
		return st.WithUserPrompt("total?"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "total?", updated.Prompt.User)

	got, err := repo.Get(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "total?", got.Prompt.User)
}

func TestSessionRepo_UpdateErrorLeavesStateUnchanged(t *testing.T) {
	repo := memory.NewSessionRepo()
	ctx := context.Background()
	created, err := repo.Create(ctx)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = repo.Update(ctx, created.SessionID, func(st domain.FormState) (domain.FormState, error) {
		return st.WithUserPrompt("discarded").BeginSubmission(), boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.Get(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Empty(t, got.Prompt.User)
	assert.Equal(t, 0, got.InFlight)
}

func TestSessionRepo_UpdateMissing(t *testing.T) {
	repo := memory.NewSessionRepo()
	called := false

	_, err := repo.Update(context.Background(), uuid.New(), func(st domain.FormState) (domain.FormState, error) {
		called = true
		return st, nil
	})

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.False(t, called)
}

func TestSessionRepo_ReturnedStateIsACopy(t *testing.T) {
	repo := memory.NewSessionRepo()
	ctx := context.Background()
	created, err := repo.Create(ctx)
	require.NoError(t, err)

	got, err := repo.Get(ctx, created.SessionID)
	require.NoError(t, err)
	got.Prompt.User = "mutated outside"

	again, err := repo.Get(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Empty(t, again.Prompt.User)
}

func TestSessionRepo_Delete(t *testing.T) {
	repo := memory.NewSessionRepo()
	ctx := context.Background()
	created, err := repo.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.SessionID))

	_, err = repo.Get(ctx, created.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.SessionID), domain.ErrSessionNotFound)
}

func TestSessionRepo_ConcurrentUpdatesAreSerialized(t *testing.T) {
	repo := memory.NewSessionRepo()
	ctx := context.Background()
	created, err := repo.Create(ctx)
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, created.SessionID, func(st domain.FormState) (domain.FormState, error) {
				return st.BeginSubmission(), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.Get(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Equal(t, n, got.InFlight)
}

func TestSessionRepo_SweepIdle(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	repo := memory.NewSessionRepoWithClock(clock.Now)
	ctx := context.Background()

	stale, err := repo.Create(ctx)
	require.NoError(t, err)
	busy, err := repo.Create(ctx)
	require.NoError(t, err)
	_, err = repo.Update(ctx, busy.SessionID, func(st domain.FormState) (domain.FormState, error) {
		return st.BeginSubmission(), nil
	})
	require.NoError(t, err)

	clock.Advance(90 * time.Minute)
	fresh, err := repo.Create(ctx)
	require.NoError(t, err)

	clock.Advance(45 * time.Minute)
	removed, err := repo.SweepIdle(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = repo.Get(ctx, stale.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = repo.Get(ctx, busy.SessionID)
	assert.NoError(t, err, "sessions awaiting a response are kept")
	_, err = repo.Get(ctx, fresh.SessionID)
	assert.NoError(t, err)
}

func TestSessionRepo_GetRefreshesIdleTimer(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	repo := memory.NewSessionRepoWithClock(clock.Now)
	ctx := context.Background()

	created, err := repo.Create(ctx)
	require.NoError(t, err)

	clock.Advance(50 * time.Minute)
	_, err = repo.Get(ctx, created.SessionID)
	require.NoError(t, err)

	clock.Advance(50 * time.Minute)
	removed, err := repo.SweepIdle(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
