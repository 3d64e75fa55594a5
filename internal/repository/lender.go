package repository

import (
	"context"

	"lendflow/internal/model"
)

// LenderFilter narrows lender listings.
type LenderFilter struct {
	ActiveOnly bool
}

// LenderRepository persists lender profiles.
type LenderRepository interface {
	Create(ctx context.Context, l *model.Lender) (*model.Lender, error)
	FindByID(ctx context.Context, id int64) (*model.Lender, error)
	// FindByUserID returns the profile owned by a LENDER account.
	FindByUserID(ctx context.Context, userID int64) (*model.Lender, error)
	List(ctx context.Context, f LenderFilter, pq PageQuery) (*PageResult[model.Lender], error)
	Update(ctx context.Context, l *model.Lender) (*model.Lender, error)
}

// RuleFilter narrows rule listings. Zero fields are ignored.
type RuleFilter struct {
	LenderID   int64
	ActiveOnly bool
}

// RuleRepository persists lender eligibility rules.
type RuleRepository interface {
	Create(ctx context.Context, r *model.LenderRule) (*model.LenderRule, error)
	FindByID(ctx context.Context, id int64) (*model.LenderRule, error)
	List(ctx context.Context, f RuleFilter, pq PageQuery) (*PageResult[model.LenderRule], error)
	Update(ctx context.Context, r *model.LenderRule) (*model.LenderRule, error)
	Delete(ctx context.Context, id int64) error
}
