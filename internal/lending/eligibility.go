package lending

import (
	"fmt"
	"strings"

	"lendflow/internal/model"
)

// Applicant is the borrower data a rule is checked against.
type Applicant struct {
	MonthlyIncome    float64 `json:"monthlyIncome"`
	CreditScore      int     `json:"creditScore"`
	Age              int     `json:"age"`
	EmploymentStatus string  `json:"employmentStatus"`
	RequestedAmount  float64 `json:"requestedAmount"`
}

// RuleCheck is the pass/fail outcome of one rule.
type RuleCheck struct {
	RuleID   int64    `json:"ruleId"`
	LenderID int64    `json:"lenderId"`
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons,omitempty"`
}

// CheckRule applies the rule's thresholds. Each failed threshold adds a reason.
// The minimum loan amount is only enforced when positive, and the employment
// filter only when both the rule and the applicant name one.
func CheckRule(a Applicant, r model.LenderRule) RuleCheck {
	var reasons []string
	if a.MonthlyIncome < r.MinMonthlyIncome {
		reasons = append(reasons, fmt.Sprintf("monthly income %.0f below required %.0f", a.MonthlyIncome, r.MinMonthlyIncome))
	}
	if a.CreditScore < r.MinCreditScore {
		reasons = append(reasons, fmt.Sprintf("credit score %d below required %d", a.CreditScore, r.MinCreditScore))
	}
	if a.Age < r.MinAge || a.Age > r.MaxAge {
		reasons = append(reasons, fmt.Sprintf("age %d outside range %d-%d", a.Age, r.MinAge, r.MaxAge))
	}
	if a.RequestedAmount > r.MaxLoanAmount {
		reasons = append(reasons, fmt.Sprintf("requested amount %.0f above maximum %.0f", a.RequestedAmount, r.MaxLoanAmount))
	}
	if r.MinLoanAmount > 0 && a.RequestedAmount < r.MinLoanAmount {
		reasons = append(reasons, fmt.Sprintf("requested amount %.0f below minimum %.0f", a.RequestedAmount, r.MinLoanAmount))
	}
	if len(r.EmploymentTypes) > 0 && a.EmploymentStatus != "" && !containsFold(r.EmploymentTypes, a.EmploymentStatus) {
		reasons = append(reasons, fmt.Sprintf("employment %s not accepted", a.EmploymentStatus))
	}
	return RuleCheck{
		RuleID:   r.ID,
		LenderID: r.LenderID,
		Eligible: len(reasons) == 0,
		Reasons:  reasons,
	}
}

// MatchResult is the best rule an applicant qualifies for.
type MatchResult struct {
	IsEligible bool              `json:"isEligible"`
	BestMatch  *model.LenderRule `json:"bestMatch"`
	Score      int               `json:"score"`
}

// RuleScore weighs how comfortably a passing applicant clears a rule:
// 20 base, +15 for credit 50 points over the minimum, +15 for income 1.5x the
// minimum, +10 for an amount within 80% of the maximum.
func RuleScore(a Applicant, r model.LenderRule) int {
	score := 20
	if a.CreditScore >= r.MinCreditScore+50 {
		score += 15
	}
	if a.MonthlyIncome >= r.MinMonthlyIncome*1.5 {
		score += 15
	}
	if a.RequestedAmount <= r.MaxLoanAmount*0.8 {
		score += 10
	}
	return score
}

// BestMatch returns the highest scoring active rule the applicant passes.
// The earliest rule wins a tie.
func BestMatch(a Applicant, rules []model.LenderRule) MatchResult {
	var res MatchResult
	for i := range rules {
		r := rules[i]
		if !r.IsActive || !CheckRule(a, r).Eligible {
			continue
		}
		if s := RuleScore(a, r); res.BestMatch == nil || s > res.Score {
			res.BestMatch = &r
			res.Score = s
		}
	}
	res.IsEligible = res.BestMatch != nil
	return res
}

// Profile is the borrower data used by the submission score.
// Zero values count as missing and earn no points.
type Profile struct {
	MonthlyIncome    float64 `json:"monthlyIncome"`
	CreditScore      int     `json:"creditScore"`
	EmploymentStatus string  `json:"employmentStatus"`
	Age              int     `json:"age"`
}

// ScoreTier buckets a 0-100 profile score.
type ScoreTier string

const (
	TierExcellent ScoreTier = "EXCELLENT"
	TierGood      ScoreTier = "GOOD"
	TierFair      ScoreTier = "FAIR"
	TierPoor      ScoreTier = "POOR"
)

// ProfileScore is a score with its per-factor breakdown.
type ProfileScore struct {
	Credit     int       `json:"credit"`
	Income     int       `json:"income"`
	Employment int       `json:"employment"`
	Age        int       `json:"age"`
	Total      int       `json:"total"`
	Tier       ScoreTier `json:"tier"`
	Message    string    `json:"message"`
}

// ScoreProfile computes the eligibility score stored on new applications.
func ScoreProfile(p Profile) ProfileScore {
	var s ProfileScore
	switch {
	case p.CreditScore <= 0:
	case p.CreditScore >= 750:
		s.Credit = 40
	case p.CreditScore >= 650:
		s.Credit = 30
	case p.CreditScore >= 550:
		s.Credit = 20
	default:
		s.Credit = 10
	}
	switch {
	case p.MonthlyIncome <= 0:
	case p.MonthlyIncome >= 100000:
		s.Income = 30
	case p.MonthlyIncome >= 50000:
		s.Income = 25
	case p.MonthlyIncome >= 25000:
		s.Income = 20
	default:
		s.Income = 15
	}
	switch normalizeEmployment(p.EmploymentStatus) {
	case "":
	case model.EmploymentEmployed:
		s.Employment = 20
	case model.EmploymentSelfEmployed:
		s.Employment = 18
	case model.EmploymentStudent:
		s.Employment = 15
	default:
		s.Employment = 10
	}
	switch {
	case p.Age <= 0:
	case p.Age >= 25 && p.Age <= 55:
		s.Age = 10
	case p.Age >= 18 && p.Age <= 65:
		s.Age = 8
	default:
		s.Age = 5
	}
	s.Total = min(s.Credit+s.Income+s.Employment+s.Age, 100)
	s.Tier, s.Message = Tier(s.Total)
	return s
}

// Tier maps a score to its tier and borrower-facing message.
func Tier(score int) (ScoreTier, string) {
	switch {
	case score >= 80:
		return TierExcellent, "Excellent! You have a very high chance of approval."
	case score >= 60:
		return TierGood, "Good! You have a high chance of approval."
	case score >= 40:
		return TierFair, "Fair. Consider improving your profile for better chances."
	default:
		return TierPoor, "Poor. We recommend improving your financial profile before applying."
	}
}

// normalizeEmployment maps spellings such as "self-employed" or "full-time"
// onto the canonical constants.
func normalizeEmployment(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	switch s {
	case "FULL_TIME", "FULLTIME", model.EmploymentEmployed:
		return model.EmploymentEmployed
	case "PARTTIME":
		return model.EmploymentPartTime
	case "SELFEMPLOYED":
		return model.EmploymentSelfEmployed
	}
	return s
}

func containsFold(list []string, v string) bool {
	want := normalizeEmployment(v)
	for _, s := range list {
		if normalizeEmployment(s) == want {
			return true
		}
	}
	return false
}
