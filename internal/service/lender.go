package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lendflow/internal/auth"
	"lendflow/internal/model"
	"lendflow/internal/repository"
)

// LenderInput creates or edits a lender profile. On update, zero values keep
// the stored field.
type LenderInput struct {
	UserID            int64           `json:"userId"`
	CompanyName       string          `json:"companyName"`
	LendingLicense    string          `json:"lendingLicense"`
	MinLoanAmount     float64         `json:"minLoanAmount"`
	MaxLoanAmount     float64         `json:"maxLoanAmount"`
	MinCreditScore    int             `json:"minCreditScore"`
	MinMonthlyIncome  float64         `json:"minMonthlyIncome"`
	MinAge            int             `json:"minAge"`
	MaxAge            int             `json:"maxAge"`
	InterestRateRange model.RateRange `json:"interestRateRange"`
	LoanTerms         []int           `json:"loanTerms"`
	Specializations   []string        `json:"specializations"`
	IsActive          *bool           `json:"isActive"`
}

// LenderService manages lender profiles.
type LenderService interface {
	List(ctx context.Context, activeOnly bool, limit, offset int) (*ListResult[model.Lender], error)
	Get(ctx context.Context, id int64) (*model.Lender, error)
	// Mine returns the profile owned by a LENDER caller.
	Mine(ctx context.Context, p auth.Principal) (*model.Lender, error)
	Create(ctx context.Context, p auth.Principal, in LenderInput) (*model.Lender, error)
	Update(ctx context.Context, p auth.Principal, id int64, in LenderInput) (*model.Lender, error)
}

type lenderService struct {
	lenders repository.LenderRepository
	users   repository.UserRepository
	now     func() time.Time
}

// NewLenderService constructs a LenderService.
func NewLenderService(lenders repository.LenderRepository, users repository.UserRepository, now func() time.Time) LenderService {
	return &lenderService{lenders: lenders, users: users, now: now}
}

func (s *lenderService) List(ctx context.Context, activeOnly bool, limit, offset int) (*ListResult[model.Lender], error) {
	res, err := s.lenders.List(ctx, repository.LenderFilter{ActiveOnly: activeOnly}, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *lenderService) Get(ctx context.Context, id int64) (*model.Lender, error) {
	l, err := s.lenders.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("lender", err)
	}
	return l, nil
}

func (s *lenderService) Mine(ctx context.Context, p auth.Principal) (*model.Lender, error) {
	return ownLender(ctx, s.lenders, p)
}

func (s *lenderService) Create(ctx context.Context, p auth.Principal, in LenderInput) (*model.Lender, error) {
	if err := requireRole(p, model.RoleAdmin, model.RoleLender); err != nil {
		return nil, err
	}
	owner := p.UserID
	if p.Is(model.RoleAdmin) {
		if in.UserID == 0 {
			return nil, invalid("userId", "userId is required")
		}
		u, err := s.users.FindByID(ctx, in.UserID)
		if err != nil {
			return nil, notFound("user", err)
		}
		if u.Role != model.RoleLender {
			return nil, invalid("userId", "user %d is not a lender", u.ID)
		}
		owner = u.ID
	}

	now := s.now().UTC()
	l := &model.Lender{
		UserID:            owner,
		CompanyName:       strings.TrimSpace(in.CompanyName),
		LendingLicense:    in.LendingLicense,
		MinLoanAmount:     in.MinLoanAmount,
		MaxLoanAmount:     in.MaxLoanAmount,
		MinCreditScore:    in.MinCreditScore,
		MinMonthlyIncome:  in.MinMonthlyIncome,
		MinAge:            in.MinAge,
		MaxAge:            in.MaxAge,
		InterestRateRange: in.InterestRateRange,
		LoanTerms:         in.LoanTerms,
		Specializations:   in.Specializations,
		IsActive:          in.IsActive == nil || *in.IsActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := validateLender(l); err != nil {
		return nil, err
	}
	out, err := s.lenders.Create(ctx, l)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, conflict("user %d already owns a lender profile", owner)
	}
	if err != nil {
		return nil, fmt.Errorf("create lender: %w", err)
	}
	return out, nil
}

func (s *lenderService) Update(ctx context.Context, p auth.Principal, id int64, in LenderInput) (*model.Lender, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Is(model.RoleAdmin) && l.UserID != p.UserID {
		return nil, forbidden("lender %d belongs to another user", id)
	}

	if in.CompanyName != "" {
		l.CompanyName = strings.TrimSpace(in.CompanyName)
	}
	if in.LendingLicense != "" {
		l.LendingLicense = in.LendingLicense
	}
	if in.MinLoanAmount != 0 {
		l.MinLoanAmount = in.MinLoanAmount
	}
	if in.MaxLoanAmount != 0 {
		l.MaxLoanAmount = in.MaxLoanAmount
	}
	if in.MinCreditScore != 0 {
		l.MinCreditScore = in.MinCreditScore
	}
	if in.MinMonthlyIncome != 0 {
		l.MinMonthlyIncome = in.MinMonthlyIncome
	}
	if in.MinAge != 0 {
		l.MinAge = in.MinAge
	}
	if in.MaxAge != 0 {
		l.MaxAge = in.MaxAge
	}
	if in.InterestRateRange != (model.RateRange{}) {
		l.InterestRateRange = in.InterestRateRange
	}
	if in.LoanTerms != nil {
		l.LoanTerms = in.LoanTerms
	}
	if in.Specializations != nil {
		l.Specializations = in.Specializations
	}
	if in.IsActive != nil {
		l.IsActive = *in.IsActive
	}
	if err := validateLender(l); err != nil {
		return nil, err
	}

	l.UpdatedAt = s.now().UTC()
	out, err := s.lenders.Update(ctx, l)
	if err != nil {
		return nil, notFound("lender", err)
	}
	return out, nil
}

func validateLender(l *model.Lender) error {
	switch {
	case l.CompanyName == "":
		return invalid("companyName", "company name is required")
	case l.MinLoanAmount < 0 || l.MaxLoanAmount < 0:
		return invalid("maxLoanAmount", "loan amounts cannot be negative")
	case l.MaxLoanAmount > 0 && l.MinLoanAmount > l.MaxLoanAmount:
		return invalid("minLoanAmount", "minimum loan amount cannot exceed the maximum")
	case l.MinCreditScore != 0 && (l.MinCreditScore < 300 || l.MinCreditScore > 850):
		return invalid("minCreditScore", "credit score must be between 300 and 850")
	case l.MinMonthlyIncome < 0:
		return invalid("minMonthlyIncome", "monthly income cannot be negative")
	case l.MaxAge != 0 && l.MinAge >= l.MaxAge:
		return invalid("minAge", "minimum age must be less than maximum age")
	}
	r := l.InterestRateRange
	if r.Min < 0 || r.Max > 100 || r.Min > r.Max {
		return invalid("interestRateRange", "interest rate range must satisfy 0 <= min <= max <= 100")
	}
	for _, t := range l.LoanTerms {
		if t <= 0 {
			return invalid("loanTerms", "loan terms must be positive")
		}
	}
	return nil
}

// ownLender resolves the lender profile of a LENDER caller.
func ownLender(ctx context.Context, lenders repository.LenderRepository, p auth.Principal) (*model.Lender, error) {
	if err := requireRole(p, model.RoleLender); err != nil {
		return nil, err
	}
	l, err := lenders.FindByUserID(ctx, p.UserID)
	if err != nil {
		return nil, notFound("lender profile", err)
	}
	return l, nil
}
