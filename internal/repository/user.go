package repository

import (
	"context"

	"lendflow/internal/model"
)

// UserFilter narrows user listings. Zero fields are ignored.
type UserFilter struct {
	Role   model.Role
	Search string
}

// UserRepository persists platform accounts.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, f UserFilter, pq PageQuery) (*PageResult[model.User], error)
	Update(ctx context.Context, u *model.User) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}
