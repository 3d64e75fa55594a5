package memory

import (
	"context"
	"sync"

	"lendflow/internal/model"
	"lendflow/internal/repository"
)

// ApplicationStore is an in-memory repository.ApplicationRepository.
type ApplicationStore struct {
	t *table[model.LoanApplication]
}

// NewApplicationStore creates an empty ApplicationStore.
func NewApplicationStore() *ApplicationStore {
	return &ApplicationStore{t: newTable(func(a *model.LoanApplication) *int64 { return &a.ID })}
}

var _ repository.ApplicationRepository = (*ApplicationStore)(nil)

func newestApplication(a, b model.LoanApplication) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func (s *ApplicationStore) Create(_ context.Context, a *model.LoanApplication) (*model.LoanApplication, error) {
	out, err := s.t.insert(*a, nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ApplicationStore) FindByID(_ context.Context, id int64) (*model.LoanApplication, error) {
	a, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *ApplicationStore) List(_ context.Context, f repository.ApplicationFilter, pq repository.PageQuery) (*repository.PageResult[model.LoanApplication], error) {
	return s.t.page(func(a model.LoanApplication) bool {
		if f.BorrowerID > 0 && a.BorrowerID != f.BorrowerID {
			return false
		}
		if f.LenderID > 0 && a.LenderID != f.LenderID {
			return false
		}
		return f.Status == "" || a.Status == f.Status
	}, newestApplication, pq), nil
}

// Update keeps the submission fields and replaces the review fields.
func (s *ApplicationStore) Update(_ context.Context, a *model.LoanApplication) (*model.LoanApplication, error) {
	out, err := s.t.update(*a, func(stored model.LoanApplication, next *model.LoanApplication) {
		next.BorrowerID = stored.BorrowerID
		next.LenderID = stored.LenderID
		next.RequestedAmount = stored.RequestedAmount
		next.LoanPurpose = stored.LoanPurpose
		next.MonthlyIncome = stored.MonthlyIncome
		next.CreditScore = stored.CreditScore
		next.EmploymentStatus = stored.EmploymentStatus
		next.CreatedAt = stored.CreatedAt
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// NotificationStore is an in-memory repository.NotificationRepository.
type NotificationStore struct {
	t *table[model.Notification]
}

// NewNotificationStore creates an empty NotificationStore.
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{t: newTable(func(n *model.Notification) *int64 { return &n.ID })}
}

var _ repository.NotificationRepository = (*NotificationStore)(nil)

func (s *NotificationStore) Create(_ context.Context, n *model.Notification) (*model.Notification, error) {
	out, err := s.t.insert(*n, nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *NotificationStore) List(_ context.Context, userID int64, unreadOnly bool, pq repository.PageQuery) (*repository.PageResult[model.Notification], error) {
	return s.t.page(func(n model.Notification) bool {
		return n.UserID == userID && (!unreadOnly || !n.IsRead)
	}, func(a, b model.Notification) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	}, pq), nil
}

func (s *NotificationStore) MarkRead(_ context.Context, userID, id int64) error {
	n, err := s.t.get(id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return repository.ErrNotFound
	}
	n.IsRead = true
	_, err = s.t.update(n, nil)
	return err
}

// SettingsStore holds the single settings record.
type SettingsStore struct {
	mu    sync.RWMutex
	saved *model.Settings
}

// NewSettingsStore creates a SettingsStore that reports the defaults until saved.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{}
}

var _ repository.SettingsRepository = (*SettingsStore)(nil)

func (s *SettingsStore) Get(_ context.Context) (model.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.saved == nil {
		return model.DefaultSettings(), nil
	}
	return *s.saved, nil
}

func (s *SettingsStore) Save(_ context.Context, in model.Settings) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = &in
	return in, nil
}
