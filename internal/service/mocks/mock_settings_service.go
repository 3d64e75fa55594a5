package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lendflow/internal/auth"
	"lendflow/internal/model"
)

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context) (model.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Settings), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, p auth.Principal, s model.Settings) (model.Settings, error) {
	args := m.Called(ctx, p, s)
	return args.Get(0).(model.Settings), args.Error(1)
}

func (m *MockSettingsService) Reset(ctx context.Context, p auth.Principal) (model.Settings, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Settings), args.Error(1)
}
