package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lendflow/internal/model"
	"lendflow/internal/repository"
)

type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) Create(ctx context.Context, a *model.LoanApplication) (*model.LoanApplication, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoanApplication), args.Error(1)
}

func (m *MockApplicationRepository) FindByID(ctx context.Context, id int64) (*model.LoanApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoanApplication), args.Error(1)
}

func (m *MockApplicationRepository) List(ctx context.Context, f repository.ApplicationFilter, pq repository.PageQuery) (*repository.PageResult[model.LoanApplication], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.LoanApplication]), args.Error(1)
}

func (m *MockApplicationRepository) Update(ctx context.Context, a *model.LoanApplication) (*model.LoanApplication, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoanApplication), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) List(ctx context.Context, userID int64, unreadOnly bool, pq repository.PageQuery) (*repository.PageResult[model.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Notification]), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (model.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, s model.Settings) (model.Settings, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(model.Settings), args.Error(1)
}
