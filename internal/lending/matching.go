package lending

import (
	"fmt"
	"sort"
	"strings"

	"lendflow/internal/model"
)

// MatchStatus buckets a lender match score.
type MatchStatus string

const (
	MatchEligible          MatchStatus = "ELIGIBLE"
	MatchPartiallyEligible MatchStatus = "PARTIALLY_ELIGIBLE"
	MatchNotEligible       MatchStatus = "NOT_ELIGIBLE"
)

// Offer parameters quoted with every lender match.
const (
	MatchProcessingFee = 500
	affordableShare    = 0.4
	personalLoans      = "personal loans"
)

// LenderMatch is a lender scored against a borrower profile.
type LenderMatch struct {
	Lender        model.Lender `json:"lender"`
	MatchScore    int          `json:"matchScore"`
	Status        MatchStatus  `json:"eligibilityStatus"`
	Reasons       []string     `json:"reasons"`
	InterestRate  float64      `json:"interestRate"`
	ProcessingFee float64      `json:"processingFee"`
	MaxLoanAmount float64      `json:"maxLoanAmount"`
}

// MatchFilter narrows a ranked match list. Zero fields fall back to the defaults.
type MatchFilter struct {
	MinMatchScore    int     `json:"minMatchScore"`
	MaxInterestRate  float64 `json:"maxInterestRate"`
	MaxProcessingFee float64 `json:"maxProcessingFee"`
}

// DefaultMatchFilter is what borrowers see before adjusting filters.
func DefaultMatchFilter() MatchFilter {
	return MatchFilter{MinMatchScore: 70, MaxInterestRate: 15, MaxProcessingFee: 1000}
}

// AffordableAmount is the largest principal a borrower is assumed to carry:
// 40% of a year's income.
func AffordableAmount(monthlyIncome float64) float64 {
	return monthlyIncome * 12 * affordableShare
}

// MatchLender scores a lender for a borrower. Weights: credit 30, income 25,
// age 15, affordable amount within the lender's range 20, personal loan
// specialization 10.
func MatchLender(p Profile, l model.Lender) LenderMatch {
	score := 0
	var reasons []string

	if p.CreditScore >= l.MinCreditScore {
		score += 30
		reasons = append(reasons, "Credit score meets requirements")
	} else {
		reasons = append(reasons, fmt.Sprintf("Credit score %d below required %d", p.CreditScore, l.MinCreditScore))
	}

	if p.MonthlyIncome >= l.MinMonthlyIncome {
		score += 25
		reasons = append(reasons, "Income meets requirements")
	} else {
		reasons = append(reasons, fmt.Sprintf("Income %.0f below required %.0f", p.MonthlyIncome, l.MinMonthlyIncome))
	}

	if p.Age >= l.MinAge && p.Age <= l.MaxAge {
		score += 15
		reasons = append(reasons, "Age within range")
	} else {
		reasons = append(reasons, fmt.Sprintf("Age %d outside range %d-%d", p.Age, l.MinAge, l.MaxAge))
	}

	affordable := AffordableAmount(p.MonthlyIncome)
	if affordable >= l.MinLoanAmount && affordable <= l.MaxLoanAmount {
		score += 20
		reasons = append(reasons, "Loan amount within range")
	} else {
		reasons = append(reasons, fmt.Sprintf("Max loan %.0f outside range %.0f-%.0f", affordable, l.MinLoanAmount, l.MaxLoanAmount))
	}

	for _, s := range l.Specializations {
		if strings.EqualFold(strings.TrimSpace(s), personalLoans) {
			score += 10
			reasons = append(reasons, "Specializes in personal loans")
			break
		}
	}

	score = min(score, 100)
	return LenderMatch{
		Lender:        l,
		MatchScore:    score,
		Status:        matchStatus(score),
		Reasons:       reasons,
		InterestRate:  l.InterestRateRange.Min,
		ProcessingFee: MatchProcessingFee,
		MaxLoanAmount: min(l.MaxLoanAmount, affordable),
	}
}

func matchStatus(score int) MatchStatus {
	switch {
	case score >= 80:
		return MatchEligible
	case score >= 60:
		return MatchPartiallyEligible
	default:
		return MatchNotEligible
	}
}

// RankMatches scores every active lender, drops those outside the filter and
// orders the rest by score, highest first. Equal scores keep lender order.
func RankMatches(p Profile, lenders []model.Lender, f MatchFilter) []LenderMatch {
	def := DefaultMatchFilter()
	if f.MinMatchScore <= 0 {
		f.MinMatchScore = def.MinMatchScore
	}
	if f.MaxInterestRate <= 0 {
		f.MaxInterestRate = def.MaxInterestRate
	}
	if f.MaxProcessingFee <= 0 {
		f.MaxProcessingFee = def.MaxProcessingFee
	}

	out := make([]LenderMatch, 0, len(lenders))
	for _, l := range lenders {
		if !l.IsActive {
			continue
		}
		m := MatchLender(p, l)
		if m.MatchScore < f.MinMatchScore || m.InterestRate > f.MaxInterestRate || m.ProcessingFee > f.MaxProcessingFee {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchScore > out[j].MatchScore })
	return out
}
