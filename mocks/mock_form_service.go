package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"imagequery/internal/domain"
	"imagequery/internal/service"
)

// MockFormService is a mock implementation of service.FormService.
type MockFormService struct {
	mock.Mock
}

func (m *MockFormService) state(args mock.Arguments) (*domain.FormState, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FormState), args.Error(1)
}

func (m *MockFormService) NewSession(ctx context.Context) (*domain.FormState, error) {
	return m.state(m.Called(ctx))
}

func (m *MockFormService) Snapshot(ctx context.Context, sessionID uuid.UUID) (*domain.FormState, error) {
	return m.state(m.Called(ctx, sessionID))
}

func (m *MockFormService) Reset(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockFormService) SelectAsset(ctx context.Context, sessionID uuid.UUID, input service.AssetInput) (*domain.FormState, error) {
	return m.state(m.Called(ctx, sessionID, input))
}

func (m *MockFormService) GetAsset(ctx context.Context, sessionID, assetID uuid.UUID) (*domain.Asset, error) {
	args := m.Called(ctx, sessionID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockFormService) UpdatePrompt(ctx context.Context, sessionID uuid.UUID, prompt domain.Prompt) (*domain.FormState, error) {
	return m.state(m.Called(ctx, sessionID, prompt))
}

func (m *MockFormService) UpdateModel(ctx context.Context, sessionID uuid.UUID, model string) (*domain.FormState, error) {
	return m.state(m.Called(ctx, sessionID, model))
}

func (m *MockFormService) UpdateParameters(ctx context.Context, sessionID uuid.UUID, input service.ParametersInput) (*domain.FormState, error) {
	return m.state(m.Called(ctx, sessionID, input))
}

func (m *MockFormService) Submit(ctx context.Context, sessionID uuid.UUID) (*domain.FormState, error) {
	return m.state(m.Called(ctx, sessionID))
}
