package service

import (
	"context"
	"time"

	"lendflow/internal/auth"
	"lendflow/internal/model"
	"lendflow/internal/repository"
)

// SettingsService reads and changes the platform settings.
type SettingsService interface {
	Get(ctx context.Context) (model.Settings, error)
	Update(ctx context.Context, p auth.Principal, s model.Settings) (model.Settings, error)
	Reset(ctx context.Context, p auth.Principal) (model.Settings, error)
}

type settingsService struct {
	repo repository.SettingsRepository
	now  func() time.Time
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(repo repository.SettingsRepository, now func() time.Time) SettingsService {
	return &settingsService{repo: repo, now: now}
}

func (s *settingsService) Get(ctx context.Context) (model.Settings, error) {
	return s.repo.Get(ctx)
}

func (s *settingsService) Update(ctx context.Context, p auth.Principal, next model.Settings) (model.Settings, error) {
	if err := requireRole(p, model.RoleAdmin); err != nil {
		return model.Settings{}, err
	}
	switch {
	case next.MaxLoanAmount < minLoanAmount:
		return model.Settings{}, invalid("maxLoanAmount", "maximum loan amount must be at least %d", minLoanAmount)
	case next.MinCreditScore < 300 || next.MinCreditScore > 850:
		return model.Settings{}, invalid("minCreditScore", "credit score must be between 300 and 850")
	case next.MaxLoanTerm < 1 || next.MaxLoanTerm > 600:
		return model.Settings{}, invalid("maxLoanTerm", "maximum loan term must be between 1 and 600 months")
	case next.AutoApprovalThreshold < 0 || next.AutoApprovalThreshold > 100:
		return model.Settings{}, invalid("autoApprovalThreshold", "threshold must be between 0 and 100")
	}
	next.UpdatedAt = s.now().UTC()
	return s.repo.Save(ctx, next)
}

func (s *settingsService) Reset(ctx context.Context, p auth.Principal) (model.Settings, error) {
	if err := requireRole(p, model.RoleAdmin); err != nil {
		return model.Settings{}, err
	}
	d := model.DefaultSettings()
	d.UpdatedAt = s.now().UTC()
	return s.repo.Save(ctx, d)
}
