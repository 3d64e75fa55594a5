package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lendflow/internal/auth"
	"lendflow/internal/model"
	"lendflow/internal/repository"
)

// RuleInput creates a rule or replaces one wholesale.
type RuleInput struct {
	LenderID         int64    `json:"lenderId"`
	RuleName         string   `json:"ruleName"`
	MinMonthlyIncome float64  `json:"minMonthlyIncome"`
	MinLoanAmount    float64  `json:"minLoanAmount"`
	MaxLoanAmount    float64  `json:"maxLoanAmount"`
	MinCreditScore   int      `json:"minCreditScore"`
	MinAge           int      `json:"minAge"`
	MaxAge           int      `json:"maxAge"`
	EmploymentTypes  []string `json:"employmentTypes"`
	InterestRate     float64  `json:"interestRate"`
	ProcessingFee    float64  `json:"processingFee"`
	IsActive         *bool    `json:"isActive"`
}

// RuleService manages lender eligibility rules.
type RuleService interface {
	List(ctx context.Context, f repository.RuleFilter, limit, offset int) (*ListResult[model.LenderRule], error)
	Get(ctx context.Context, id int64) (*model.LenderRule, error)
	Create(ctx context.Context, p auth.Principal, in RuleInput) (*model.LenderRule, error)
	Update(ctx context.Context, p auth.Principal, id int64, in RuleInput) (*model.LenderRule, error)
	Delete(ctx context.Context, p auth.Principal, id int64) error
}

type ruleService struct {
	rules   repository.RuleRepository
	lenders repository.LenderRepository
	now     func() time.Time
}

// NewRuleService constructs a RuleService.
func NewRuleService(rules repository.RuleRepository, lenders repository.LenderRepository, now func() time.Time) RuleService {
	return &ruleService{rules: rules, lenders: lenders, now: now}
}

func (s *ruleService) List(ctx context.Context, f repository.RuleFilter, limit, offset int) (*ListResult[model.LenderRule], error) {
	res, err := s.rules.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *ruleService) Get(ctx context.Context, id int64) (*model.LenderRule, error) {
	r, err := s.rules.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("rule", err)
	}
	return r, nil
}

// lenderFor picks the lender a caller acts for. Lenders always act for their
// own profile; admins must name one.
func (s *ruleService) lenderFor(ctx context.Context, p auth.Principal, lenderID int64) (int64, error) {
	if err := requireRole(p, model.RoleAdmin, model.RoleLender); err != nil {
		return 0, err
	}
	if p.Is(model.RoleLender) {
		l, err := ownLender(ctx, s.lenders, p)
		if err != nil {
			return 0, err
		}
		if lenderID != 0 && lenderID != l.ID {
			return 0, forbidden("rules can only be managed for your own lender profile")
		}
		return l.ID, nil
	}
	if lenderID == 0 {
		return 0, invalid("lenderId", "lenderId is required")
	}
	if _, err := s.lenders.FindByID(ctx, lenderID); err != nil {
		return 0, notFound("lender", err)
	}
	return lenderID, nil
}

func (s *ruleService) Create(ctx context.Context, p auth.Principal, in RuleInput) (*model.LenderRule, error) {
	lenderID, err := s.lenderFor(ctx, p, in.LenderID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	r := applyRule(&model.LenderRule{LenderID: lenderID, IsActive: true, CreatedAt: now}, in)
	r.UpdatedAt = now
	if err := validateRule(r); err != nil {
		return nil, err
	}
	out, err := s.rules.Create(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("create rule: %w", err)
	}
	return out, nil
}

func (s *ruleService) Update(ctx context.Context, p auth.Principal, id int64, in RuleInput) (*model.LenderRule, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.lenderFor(ctx, p, r.LenderID); err != nil {
		return nil, err
	}
	r = applyRule(r, in)
	if err := validateRule(r); err != nil {
		return nil, err
	}
	r.UpdatedAt = s.now().UTC()
	out, err := s.rules.Update(ctx, r)
	if err != nil {
		return nil, notFound("rule", err)
	}
	return out, nil
}

func (s *ruleService) Delete(ctx context.Context, p auth.Principal, id int64) error {
	r, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.lenderFor(ctx, p, r.LenderID); err != nil {
		return err
	}
	return notFound("rule", s.rules.Delete(ctx, id))
}

func applyRule(r *model.LenderRule, in RuleInput) *model.LenderRule {
	r.RuleName = strings.TrimSpace(in.RuleName)
	r.MinMonthlyIncome = in.MinMonthlyIncome
	r.MinLoanAmount = in.MinLoanAmount
	r.MaxLoanAmount = in.MaxLoanAmount
	r.MinCreditScore = in.MinCreditScore
	r.MinAge = in.MinAge
	r.MaxAge = in.MaxAge
	r.EmploymentTypes = in.EmploymentTypes
	r.InterestRate = in.InterestRate
	r.ProcessingFee = in.ProcessingFee
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}
	return r
}

func validateRule(r *model.LenderRule) error {
	switch {
	case r.RuleName == "":
		return invalid("ruleName", "rule name is required")
	case r.MinAge < 18 || r.MinAge > 100:
		return invalid("minAge", "minimum age must be between 18 and 100")
	case r.MaxAge < 18 || r.MaxAge > 100:
		return invalid("maxAge", "maximum age must be between 18 and 100")
	case r.MinAge >= r.MaxAge:
		return invalid("minAge", "minimum age must be less than maximum age")
	case r.MinCreditScore < 300 || r.MinCreditScore > 850:
		return invalid("minCreditScore", "credit score must be between 300 and 850")
	case r.MaxLoanAmount < 1000:
		return invalid("maxLoanAmount", "maximum loan amount must be at least 1000")
	case r.MinLoanAmount < 0 || r.MinLoanAmount > r.MaxLoanAmount:
		return invalid("minLoanAmount", "minimum loan amount must be between 0 and the maximum")
	case r.MinMonthlyIncome < 0:
		return invalid("minMonthlyIncome", "monthly income cannot be negative")
	case r.InterestRate < 0 || r.InterestRate > 100:
		return invalid("interestRate", "interest rate must be between 0 and 100")
	case r.ProcessingFee < 0:
		return invalid("processingFee", "processing fee cannot be negative")
	}
	return nil
}
