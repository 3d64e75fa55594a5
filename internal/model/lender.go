package model

import "time"

// RateRange is an annual interest rate band in percent.
type RateRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Lender is the public lending profile owned by a LENDER user.
type Lender struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"userId"`
	CompanyName       string    `json:"companyName"`
	LendingLicense    string    `json:"lendingLicense"`
	MinLoanAmount     float64   `json:"minLoanAmount"`
	MaxLoanAmount     float64   `json:"maxLoanAmount"`
	MinCreditScore    int       `json:"minCreditScore"`
	MinMonthlyIncome  float64   `json:"minMonthlyIncome"`
	MinAge            int       `json:"minAge"`
	MaxAge            int       `json:"maxAge"`
	InterestRateRange RateRange `json:"interestRateRange"`
	LoanTerms         []int     `json:"loanTerms"`
	Specializations   []string  `json:"specializations"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// LenderRule is one eligibility rule set published by a lender.
type LenderRule struct {
	ID               int64     `json:"id"`
	LenderID         int64     `json:"lenderId"`
	RuleName         string    `json:"ruleName"`
	MinMonthlyIncome float64   `json:"minMonthlyIncome"`
	MinLoanAmount    float64   `json:"minLoanAmount"`
	MaxLoanAmount    float64   `json:"maxLoanAmount"`
	MinCreditScore   int       `json:"minCreditScore"`
	MinAge           int       `json:"minAge"`
	MaxAge           int       `json:"maxAge"`
	EmploymentTypes  []string  `json:"employmentTypes"`
	InterestRate     float64   `json:"interestRate"`
	ProcessingFee    float64   `json:"processingFee"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
