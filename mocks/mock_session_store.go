package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"imagequery/internal/domain"
	"imagequery/internal/port"
)

// MockSessionStore is a mock implementation of port.SessionStore.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context) (*domain.FormState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FormState), args.Error(1)
}

func (m *MockSessionStore) Get(ctx context.Context, id uuid.UUID) (*domain.FormState, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FormState), args.Error(1)
}

func (m *MockSessionStore) Update(ctx context.Context, id uuid.UUID, fn port.StateTransition) (*domain.FormState, error) {
	args := m.Called(ctx, id, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FormState), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionStore) SweepIdle(ctx context.Context, idle time.Duration) (int, error) {
	args := m.Called(ctx, idle)
	return args.Int(0), args.Error(1)
}
