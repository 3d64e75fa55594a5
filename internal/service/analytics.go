package service

import (
	"context"
	"fmt"
	"time"

	"lendflow/internal/auth"
	"lendflow/internal/lending"
	"lendflow/internal/model"
	"lendflow/internal/repository"
)

// LenderAnalytics is a lender's own portfolio view.
type LenderAnalytics struct {
	Lender      model.Lender              `json:"lender"`
	Performance lending.LenderPerformance `json:"performance"`
}

// AnalyticsService computes dashboards on request.
type AnalyticsService interface {
	Platform(ctx context.Context, p auth.Principal) (*lending.PlatformAnalytics, error)
	Lender(ctx context.Context, p auth.Principal) (*LenderAnalytics, error)
}

type analyticsService struct {
	repos repository.Set
	now   func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(repos repository.Set, now func() time.Time) AnalyticsService {
	return &analyticsService{repos: repos, now: now}
}

func (s *analyticsService) Platform(ctx context.Context, p auth.Principal) (*lending.PlatformAnalytics, error) {
	if err := requireRole(p, model.RoleAdmin); err != nil {
		return nil, err
	}
	return platformAnalytics(ctx, s.repos, s.now())
}

func (s *analyticsService) Lender(ctx context.Context, p auth.Principal) (*LenderAnalytics, error) {
	l, err := ownLender(ctx, s.repos.Lenders, p)
	if err != nil {
		return nil, err
	}
	apps, err := s.repos.Applications.List(ctx, repository.ApplicationFilter{LenderID: l.ID}, repository.All)
	if err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}
	return &LenderAnalytics{Lender: *l, Performance: lending.Performance(apps.Items)}, nil
}

func platformAnalytics(ctx context.Context, repos repository.Set, now time.Time) (*lending.PlatformAnalytics, error) {
	users, err := repos.Users.List(ctx, repository.UserFilter{}, repository.All)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	lenders, err := repos.Lenders.List(ctx, repository.LenderFilter{}, repository.All)
	if err != nil {
		return nil, fmt.Errorf("load lenders: %w", err)
	}
	apps, err := repos.Applications.List(ctx, repository.ApplicationFilter{}, repository.All)
	if err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}
	out := lending.Platform(users.Items, lenders.Items, apps.Items, now)
	return &out, nil
}
