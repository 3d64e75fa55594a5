package model

import "time"

// ApplicationStatus is the lifecycle state of a loan application.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "PENDING"
	StatusUnderReview ApplicationStatus = "UNDER_REVIEW"
	StatusApproved    ApplicationStatus = "APPROVED"
	StatusRejected    ApplicationStatus = "REJECTED"
	StatusCancelled   ApplicationStatus = "CANCELLED"
)

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Decided reports whether the application has left the review queue.
func (s ApplicationStatus) Decided() bool {
	return s != StatusPending && s != StatusUnderReview
}

var transitions = map[ApplicationStatus][]ApplicationStatus{
	StatusPending:     {StatusUnderReview, StatusApproved, StatusRejected, StatusCancelled},
	StatusUnderReview: {StatusApproved, StatusRejected},
}

// CanTransition reports whether an application may move from s to next.
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// LoanApplication is a borrower's request to a specific lender.
// Profile fields are captured at submission time.
type LoanApplication struct {
	ID               int64             `json:"id"`
	BorrowerID       int64             `json:"borrowerId"`
	LenderID         int64             `json:"lenderId"`
	RuleID           *int64            `json:"ruleId,omitempty"`
	RequestedAmount  float64           `json:"requestedAmount"`
	LoanAmount       float64           `json:"loanAmount"`
	LoanPurpose      string            `json:"loanPurpose"`
	LoanTerm         int               `json:"loanTerm"`
	InterestRate     float64           `json:"interestRate"`
	Status           ApplicationStatus `json:"status"`
	EligibilityScore int               `json:"eligibilityScore"`
	MonthlyIncome    float64           `json:"monthlyIncome"`
	CreditScore      int               `json:"creditScore"`
	EmploymentStatus string            `json:"employmentStatus"`
	MonthlyEMI       float64           `json:"monthlyEMI"`
	TotalInterest    float64           `json:"totalInterest"`
	TotalAmount      float64           `json:"totalAmount"`
	Comments         string            `json:"comments,omitempty"`
	DecisionDate     *time.Time        `json:"decisionDate,omitempty"`
	DecisionBy       string            `json:"decisionBy,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// Amount is the effective loan amount: the granted amount when set, otherwise the requested one.
func (a LoanApplication) Amount() float64 {
	if a.LoanAmount > 0 {
		return a.LoanAmount
	}
	return a.RequestedAmount
}
