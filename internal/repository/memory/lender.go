package memory

import (
	"context"
	"slices"

	"lendflow/internal/model"
	"lendflow/internal/repository"
)

// LenderStore is an in-memory repository.LenderRepository. A user owns at most one profile.
type LenderStore struct {
	t *table[model.Lender]
}

// NewLenderStore creates an empty LenderStore.
func NewLenderStore() *LenderStore {
	return &LenderStore{t: newTable(func(l *model.Lender) *int64 { return &l.ID })}
}

var _ repository.LenderRepository = (*LenderStore)(nil)

func cloneLender(l model.Lender) *model.Lender {
	l.LoanTerms = slices.Clone(l.LoanTerms)
	l.Specializations = slices.Clone(l.Specializations)
	return &l
}

func (s *LenderStore) Create(_ context.Context, l *model.Lender) (*model.Lender, error) {
	out, err := s.t.insert(*cloneLender(*l), func(existing model.Lender) bool {
		return existing.UserID == l.UserID
	})
	if err != nil {
		return nil, err
	}
	return cloneLender(out), nil
}

func (s *LenderStore) FindByID(_ context.Context, id int64) (*model.Lender, error) {
	l, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return cloneLender(l), nil
}

func (s *LenderStore) FindByUserID(_ context.Context, userID int64) (*model.Lender, error) {
	l, err := s.t.find(func(l model.Lender) bool { return l.UserID == userID })
	if err != nil {
		return nil, err
	}
	return cloneLender(l), nil
}

func (s *LenderStore) List(_ context.Context, f repository.LenderFilter, pq repository.PageQuery) (*repository.PageResult[model.Lender], error) {
	res := s.t.page(func(l model.Lender) bool { return !f.ActiveOnly || l.IsActive }, nil, pq)
	for i := range res.Items {
		res.Items[i] = *cloneLender(res.Items[i])
	}
	return res, nil
}

func (s *LenderStore) Update(_ context.Context, l *model.Lender) (*model.Lender, error) {
	out, err := s.t.update(*cloneLender(*l), func(stored model.Lender, next *model.Lender) {
		next.UserID = stored.UserID
		next.CreatedAt = stored.CreatedAt
	})
	if err != nil {
		return nil, err
	}
	return cloneLender(out), nil
}

// RuleStore is an in-memory repository.RuleRepository.
type RuleStore struct {
	t *table[model.LenderRule]
}

// NewRuleStore creates an empty RuleStore.
func NewRuleStore() *RuleStore {
	return &RuleStore{t: newTable(func(r *model.LenderRule) *int64 { return &r.ID })}
}

var _ repository.RuleRepository = (*RuleStore)(nil)

func cloneRule(r model.LenderRule) *model.LenderRule {
	r.EmploymentTypes = slices.Clone(r.EmploymentTypes)
	return &r
}

func (s *RuleStore) Create(_ context.Context, r *model.LenderRule) (*model.LenderRule, error) {
	out, err := s.t.insert(*cloneRule(*r), nil)
	if err != nil {
		return nil, err
	}
	return cloneRule(out), nil
}

func (s *RuleStore) FindByID(_ context.Context, id int64) (*model.LenderRule, error) {
	r, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return cloneRule(r), nil
}

func (s *RuleStore) List(_ context.Context, f repository.RuleFilter, pq repository.PageQuery) (*repository.PageResult[model.LenderRule], error) {
	res := s.t.page(func(r model.LenderRule) bool {
		if f.LenderID > 0 && r.LenderID != f.LenderID {
			return false
		}
		return !f.ActiveOnly || r.IsActive
	}, nil, pq)
	for i := range res.Items {
		res.Items[i] = *cloneRule(res.Items[i])
	}
	return res, nil
}

func (s *RuleStore) Update(_ context.Context, r *model.LenderRule) (*model.LenderRule, error) {
	out, err := s.t.update(*cloneRule(*r), func(stored model.LenderRule, next *model.LenderRule) {
		next.LenderID = stored.LenderID
		next.CreatedAt = stored.CreatedAt
	})
	if err != nil {
		return nil, err
	}
	return cloneRule(out), nil
}

func (s *RuleStore) Delete(_ context.Context, id int64) error {
	return s.t.remove(id)
}
