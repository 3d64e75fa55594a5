package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lendflow/internal/model"
	"lendflow/internal/repository"
)

type MockLenderRepository struct {
	mock.Mock
}

func (m *MockLenderRepository) Create(ctx context.Context, l *model.Lender) (*model.Lender, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lender), args.Error(1)
}

func (m *MockLenderRepository) FindByID(ctx context.Context, id int64) (*model.Lender, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lender), args.Error(1)
}

func (m *MockLenderRepository) FindByUserID(ctx context.Context, userID int64) (*model.Lender, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lender), args.Error(1)
}

func (m *MockLenderRepository) List(ctx context.Context, f repository.LenderFilter, pq repository.PageQuery) (*repository.PageResult[model.Lender], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Lender]), args.Error(1)
}

func (m *MockLenderRepository) Update(ctx context.Context, l *model.Lender) (*model.Lender, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lender), args.Error(1)
}

type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) Create(ctx context.Context, r *model.LenderRule) (*model.LenderRule, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LenderRule), args.Error(1)
}

func (m *MockRuleRepository) FindByID(ctx context.Context, id int64) (*model.LenderRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LenderRule), args.Error(1)
}

func (m *MockRuleRepository) List(ctx context.Context, f repository.RuleFilter, pq repository.PageQuery) (*repository.PageResult[model.LenderRule], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.LenderRule]), args.Error(1)
}

func (m *MockRuleRepository) Update(ctx context.Context, r *model.LenderRule) (*model.LenderRule, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LenderRule), args.Error(1)
}

func (m *MockRuleRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
