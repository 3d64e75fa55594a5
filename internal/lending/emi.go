// Package lending holds the marketplace's numeric routines: amortization,
// rule eligibility, profile and match scoring, risk assessment and portfolio
// analytics. Everything here is pure and safe for concurrent use.
package lending

import (
	"math"
	"time"
)

// Calculator defaults offered to borrowers before they type anything.
const (
	DefaultLoanAmount    = 100000
	DefaultInterestRate  = 8.5
	DefaultTenureYears   = 5
	DefaultProcessingFee = 500

	// ReferenceMonthlyIncome stands in for an unknown borrower income when
	// judging affordability.
	ReferenceMonthlyIncome = 50000
)

// LoanInput describes a loan to be priced.
type LoanInput struct {
	Principal     float64
	AnnualRate    float64
	Months        int
	ProcessingFee float64
}

// LoanQuote is the rounded cost summary of a loan.
type LoanQuote struct {
	LoanAmount    float64 `json:"loanAmount"`
	InterestRate  float64 `json:"interestRate"`
	TenureMonths  int     `json:"tenureMonths"`
	MonthlyEMI    float64 `json:"monthlyEMI"`
	TotalInterest float64 `json:"totalInterest"`
	TotalAmount   float64 `json:"totalAmount"`
	ProcessingFee float64 `json:"processingFee"`
}

// Installment is one row of an amortization schedule.
type Installment struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// EMI returns the unrounded equated monthly installment
// P*r*(1+r)^n / ((1+r)^n - 1) with r the monthly rate.
// A zero rate spreads the principal evenly.
func EMI(principal, annualRate float64, months int) float64 {
	if principal <= 0 || months <= 0 {
		return 0
	}
	r := annualRate / 100 / 12
	if r == 0 {
		return principal / float64(months)
	}
	f := math.Pow(1+r, float64(months))
	return principal * r * f / (f - 1)
}

// Calculate prices a loan. Money values are rounded to whole units.
func Calculate(in LoanInput) LoanQuote {
	emi := EMI(in.Principal, in.AnnualRate, in.Months)
	total := emi * float64(in.Months)
	interest := 0.0
	if total > 0 {
		interest = total - in.Principal
	}
	return LoanQuote{
		LoanAmount:    in.Principal,
		InterestRate:  in.AnnualRate,
		TenureMonths:  in.Months,
		MonthlyEMI:    math.Round(emi),
		TotalInterest: math.Round(interest),
		TotalAmount:   math.Round(total),
		ProcessingFee: in.ProcessingFee,
	}
}

// Schedule returns the month by month amortization table rounded to cents.
func Schedule(principal, annualRate float64, months int) []Installment {
	emi := EMI(principal, annualRate, months)
	if emi == 0 {
		return nil
	}
	r := annualRate / 100 / 12
	balance := principal
	rows := make([]Installment, 0, months)
	for m := 1; m <= months; m++ {
		interest := balance * r
		princ := emi - interest
		payment := emi
		if m == months {
			princ = balance
			payment = princ + interest
		}
		balance -= princ
		if balance < 0 || m == months {
			balance = 0
		}
		rows = append(rows, Installment{
			Month:     m,
			Payment:   round2(payment),
			Principal: round2(princ),
			Interest:  round2(interest),
			Balance:   round2(balance),
		})
	}
	return rows
}

// AffordabilityTier buckets the EMI to income ratio.
type AffordabilityTier string

const (
	AffordabilityExcellent AffordabilityTier = "EXCELLENT"
	AffordabilityGood      AffordabilityTier = "GOOD"
	AffordabilityLimited   AffordabilityTier = "LIMITED"
)

// Affordability describes how comfortably an income carries an EMI.
type Affordability struct {
	Ratio       float64           `json:"ratio"`
	Tier        AffordabilityTier `json:"tier"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
}

// AssessAffordability compares emi with monthlyIncome. A non-positive income
// is replaced by ReferenceMonthlyIncome.
func AssessAffordability(emi, monthlyIncome float64) Affordability {
	if monthlyIncome <= 0 {
		monthlyIncome = ReferenceMonthlyIncome
	}
	ratio := emi / monthlyIncome
	a := Affordability{Ratio: round2(ratio)}
	switch {
	case ratio <= 0.3:
		a.Tier = AffordabilityExcellent
		a.Title = "Excellent Eligibility"
		a.Description = "Your loan application has a very high chance of approval"
	case ratio <= 0.5:
		a.Tier = AffordabilityGood
		a.Title = "Good Eligibility"
		a.Description = "Your loan application has a good chance of approval"
	default:
		a.Tier = AffordabilityLimited
		a.Title = "Limited Eligibility"
		a.Description = "Consider reducing loan amount or increasing tenure for better approval chances"
	}
	return a
}

// Age returns completed years between dob and now.
func Age(dob, now time.Time) int {
	if dob.IsZero() || now.Before(dob) {
		return 0
	}
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
