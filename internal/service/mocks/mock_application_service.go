package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lendflow/internal/auth"
	"lendflow/internal/lending"
	"lendflow/internal/model"
	"lendflow/internal/repository"
	"lendflow/internal/service"
)

type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) Create(ctx context.Context, p auth.Principal, in service.ApplicationInput) (*model.LoanApplication, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoanApplication), args.Error(1)
}

func (m *MockApplicationService) List(ctx context.Context, p auth.Principal, f repository.ApplicationFilter, limit, offset int) (*service.ListResult[model.LoanApplication], error) {
	args := m.Called(ctx, p, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.LoanApplication]), args.Error(1)
}

func (m *MockApplicationService) Get(ctx context.Context, p auth.Principal, id int64) (*model.LoanApplication, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoanApplication), args.Error(1)
}

func (m *MockApplicationService) UpdateStatus(ctx context.Context, p auth.Principal, id int64, upd service.StatusUpdate) (*model.LoanApplication, error) {
	args := m.Called(ctx, p, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoanApplication), args.Error(1)
}

func (m *MockApplicationService) Cancel(ctx context.Context, p auth.Principal, id int64) (*model.LoanApplication, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoanApplication), args.Error(1)
}

func (m *MockApplicationService) Assess(ctx context.Context, p auth.Principal, id int64) (*lending.Assessment, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lending.Assessment), args.Error(1)
}

func (m *MockApplicationService) BulkProcess(ctx context.Context, p auth.Principal, opts service.BulkOptions) (*service.BulkResult, error) {
	args := m.Called(ctx, p, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BulkResult), args.Error(1)
}
