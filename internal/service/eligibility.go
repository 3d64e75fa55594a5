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

// RuleEligibility is one rule's verdict for an application.
type RuleEligibility struct {
	lending.RuleCheck
	RuleName   string `json:"ruleName"`
	LenderName string `json:"lenderName"`
}

// ApplicationEligibility checks a stored application against every active rule.
type ApplicationEligibility struct {
	ApplicationID int64               `json:"applicationId"`
	Rules         []RuleEligibility   `json:"rules"`
	Match         lending.MatchResult `json:"match"`
}

// CheckInput asks whether an applicant qualifies with a lender. Zero fields
// of Applicant are filled from the caller's profile. A zero LenderID checks
// every lender.
type CheckInput struct {
	LenderID int64 `json:"lenderId"`
	lending.Applicant
}

// CheckResult is the outcome of Check.
type CheckResult struct {
	Applicant lending.Applicant   `json:"applicant"`
	Rules     []RuleEligibility   `json:"rules"`
	Match     lending.MatchResult `json:"match"`
}

// EligibilityService exposes the scoring routines.
type EligibilityService interface {
	CheckApplication(ctx context.Context, p auth.Principal, applicationID int64) (*ApplicationEligibility, error)
	Check(ctx context.Context, p auth.Principal, in CheckInput) (*CheckResult, error)
	Score(ctx context.Context, p auth.Principal) (*lending.ProfileScore, error)
	Match(ctx context.Context, p auth.Principal, f lending.MatchFilter) ([]lending.LenderMatch, error)
}

type eligibilityService struct {
	repos repository.Set
	now   func() time.Time
}

// NewEligibilityService constructs an EligibilityService.
func NewEligibilityService(repos repository.Set, now func() time.Time) EligibilityService {
	return &eligibilityService{repos: repos, now: now}
}

func (s *eligibilityService) CheckApplication(ctx context.Context, p auth.Principal, applicationID int64) (*ApplicationEligibility, error) {
	app, err := s.repos.Applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, notFound("application", err)
	}
	if err := canViewApplication(ctx, s.repos.Lenders, p, app); err != nil {
		return nil, err
	}

	a := lending.Applicant{
		MonthlyIncome:    app.MonthlyIncome,
		CreditScore:      app.CreditScore,
		EmploymentStatus: app.EmploymentStatus,
		RequestedAmount:  app.RequestedAmount,
	}
	if u, err := s.repos.Users.FindByID(ctx, app.BorrowerID); err == nil {
		a.Age = profileOf(u, s.now()).Age
	}
	rules, match, err := s.evaluate(ctx, a, 0)
	if err != nil {
		return nil, err
	}
	return &ApplicationEligibility{ApplicationID: app.ID, Rules: rules, Match: match}, nil
}

func (s *eligibilityService) Check(ctx context.Context, p auth.Principal, in CheckInput) (*CheckResult, error) {
	a := in.Applicant
	if a.RequestedAmount <= 0 {
		return nil, invalid("requestedAmount", "requested amount must be positive")
	}
	if u, err := s.repos.Users.FindByID(ctx, p.UserID); err == nil {
		prof := profileOf(u, s.now())
		if a.MonthlyIncome == 0 {
			a.MonthlyIncome = prof.MonthlyIncome
		}
		if a.CreditScore == 0 {
			a.CreditScore = prof.CreditScore
		}
		if a.Age == 0 {
			a.Age = prof.Age
		}
		if a.EmploymentStatus == "" {
			a.EmploymentStatus = prof.EmploymentStatus
		}
	}
	if in.LenderID != 0 {
		if _, err := s.repos.Lenders.FindByID(ctx, in.LenderID); err != nil {
			return nil, notFound("lender", err)
		}
	}
	rules, match, err := s.evaluate(ctx, a, in.LenderID)
	if err != nil {
		return nil, err
	}
	return &CheckResult{Applicant: a, Rules: rules, Match: match}, nil
}

// evaluate runs a against the active rules of lenderID, or of every lender when zero.
func (s *eligibilityService) evaluate(ctx context.Context, a lending.Applicant, lenderID int64) ([]RuleEligibility, lending.MatchResult, error) {
	res, err := s.repos.Rules.List(ctx, repository.RuleFilter{LenderID: lenderID, ActiveOnly: true}, repository.All)
	if err != nil {
		return nil, lending.MatchResult{}, fmt.Errorf("load rules: %w", err)
	}
	names := map[int64]string{}
	out := make([]RuleEligibility, 0, len(res.Items))
	for _, r := range res.Items {
		name, ok := names[r.LenderID]
		if !ok {
			if l, err := s.repos.Lenders.FindByID(ctx, r.LenderID); err == nil {
				name = l.CompanyName
			}
			names[r.LenderID] = name
		}
		out = append(out, RuleEligibility{RuleCheck: lending.CheckRule(a, r), RuleName: r.RuleName, LenderName: name})
	}
	return out, lending.BestMatch(a, res.Items), nil
}

func (s *eligibilityService) Score(ctx context.Context, p auth.Principal) (*lending.ProfileScore, error) {
	u, err := s.repos.Users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, notFound("user", err)
	}
	score := lending.ScoreProfile(profileOf(u, s.now()))
	return &score, nil
}

func (s *eligibilityService) Match(ctx context.Context, p auth.Principal, f lending.MatchFilter) ([]lending.LenderMatch, error) {
	if err := requireRole(p, model.RoleBorrower); err != nil {
		return nil, err
	}
	u, err := s.repos.Users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, notFound("user", err)
	}
	lenders, err := s.repos.Lenders.List(ctx, repository.LenderFilter{ActiveOnly: true}, repository.All)
	if err != nil {
		return nil, err
	}
	return lending.RankMatches(profileOf(u, s.now()), lenders.Items, f), nil
}
