package service

import (
	"context"

	"lendflow/internal/auth"
	"lendflow/internal/lending"
	"lendflow/internal/repository"
)

// QuoteRequest prices a loan. Zero fields take the calculator defaults; a nil
// ProcessingFee does too, so an explicit zero fee is possible.
type QuoteRequest struct {
	LoanAmount      float64  `json:"loanAmount"`
	InterestRate    float64  `json:"interestRate"`
	TenureYears     int      `json:"tenureYears"`
	TenureMonths    int      `json:"tenureMonths"`
	ProcessingFee   *float64 `json:"processingFee"`
	MonthlyIncome   float64  `json:"monthlyIncome"`
	IncludeSchedule bool     `json:"includeSchedule"`
}

// QuoteResult is a priced loan with its affordability verdict.
type QuoteResult struct {
	lending.LoanQuote
	Affordability lending.Affordability `json:"affordability"`
	Schedule      []lending.Installment `json:"schedule,omitempty"`
}

// CalculatorDefaults are the values the calculator starts from.
type CalculatorDefaults struct {
	LoanAmount    float64 `json:"loanAmount"`
	InterestRate  float64 `json:"interestRate"`
	TenureYears   int     `json:"tenureYears"`
	ProcessingFee float64 `json:"processingFee"`
}

// CalculatorService prices loans.
type CalculatorService interface {
	Defaults() CalculatorDefaults
	Quote(ctx context.Context, p auth.Principal, req QuoteRequest) (*QuoteResult, error)
}

type calculatorService struct {
	users repository.UserRepository
}

// NewCalculatorService constructs a CalculatorService.
func NewCalculatorService(users repository.UserRepository) CalculatorService {
	return &calculatorService{users: users}
}

func (s *calculatorService) Defaults() CalculatorDefaults {
	return CalculatorDefaults{
		LoanAmount:    lending.DefaultLoanAmount,
		InterestRate:  lending.DefaultInterestRate,
		TenureYears:   lending.DefaultTenureYears,
		ProcessingFee: lending.DefaultProcessingFee,
	}
}

func (s *calculatorService) Quote(ctx context.Context, p auth.Principal, req QuoteRequest) (*QuoteResult, error) {
	switch {
	case req.LoanAmount < 0:
		return nil, invalid("loanAmount", "loan amount cannot be negative")
	case req.InterestRate < 0 || req.InterestRate > 100:
		return nil, invalid("interestRate", "interest rate must be between 0 and 100")
	case req.TenureYears < 0 || req.TenureMonths < 0:
		return nil, invalid("tenureYears", "tenure cannot be negative")
	case req.ProcessingFee != nil && *req.ProcessingFee < 0:
		return nil, invalid("processingFee", "processing fee cannot be negative")
	case req.MonthlyIncome < 0:
		return nil, invalid("monthlyIncome", "monthly income cannot be negative")
	}

	d := s.Defaults()
	if req.LoanAmount == 0 {
		req.LoanAmount = d.LoanAmount
	}
	if req.InterestRate == 0 {
		req.InterestRate = d.InterestRate
	}
	months := req.TenureMonths
	if months == 0 {
		years := req.TenureYears
		if years == 0 {
			years = d.TenureYears
		}
		months = years * 12
	}
	fee := d.ProcessingFee
	if req.ProcessingFee != nil {
		fee = *req.ProcessingFee
	}
	income := req.MonthlyIncome
	if income == 0 && p.UserID != 0 {
		if u, err := s.users.FindByID(ctx, p.UserID); err == nil {
			income = u.MonthlyIncome
		}
	}

	q := lending.Calculate(lending.LoanInput{
		Principal:     req.LoanAmount,
		AnnualRate:    req.InterestRate,
		Months:        months,
		ProcessingFee: fee,
	})
	res := &QuoteResult{
		LoanQuote:     q,
		Affordability: lending.AssessAffordability(q.MonthlyEMI, income),
	}
	if req.IncludeSchedule {
		res.Schedule = lending.Schedule(req.LoanAmount, req.InterestRate, months)
	}
	return res, nil
}
