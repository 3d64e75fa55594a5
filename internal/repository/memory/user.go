package memory

import (
	"context"
	"strings"

	"lendflow/internal/model"
	"lendflow/internal/repository"
)

// UserStore is an in-memory repository.UserRepository. Usernames are unique
// regardless of case.
type UserStore struct {
	t *table[model.User]
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{t: newTable(func(u *model.User) *int64 { return &u.ID })}
}

var _ repository.UserRepository = (*UserStore)(nil)

func (s *UserStore) Create(_ context.Context, u *model.User) (*model.User, error) {
	out, err := s.t.insert(*u, func(existing model.User) bool {
		return strings.EqualFold(existing.Username, u.Username)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserStore) FindByID(_ context.Context, id int64) (*model.User, error) {
	u, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u, err := s.t.find(func(u model.User) bool { return strings.EqualFold(u.Username, username) })
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) List(_ context.Context, f repository.UserFilter, pq repository.PageQuery) (*repository.PageResult[model.User], error) {
	search := strings.ToLower(f.Search)
	return s.t.page(func(u model.User) bool {
		if f.Role != "" && u.Role != f.Role {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Username), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			return false
		}
		return true
	}, nil, pq), nil
}

// Update keeps the stored username and creation time.
func (s *UserStore) Update(_ context.Context, u *model.User) (*model.User, error) {
	out, err := s.t.update(*u, func(stored model.User, next *model.User) {
		next.Username = stored.Username
		next.CreatedAt = stored.CreatedAt
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserStore) Delete(_ context.Context, id int64) error {
	return s.t.remove(id)
}
