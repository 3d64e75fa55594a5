package lending

import (
	"math"

	"lendflow/internal/model"
)

// RiskLevel is the lender-side risk bucket of an application.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskFactors are the three 20..80 components averaged into a RiskLevel.
type RiskFactors struct {
	Credit     int       `json:"credit"`
	Income     int       `json:"income"`
	Employment int       `json:"employment"`
	Average    float64   `json:"average"`
	Level      RiskLevel `json:"level"`
}

// AssessRisk scores credit, loan to monthly income ratio and employment.
// A missing income gives a zero ratio and so the lowest ratio band.
func AssessRisk(app model.LoanApplication) RiskFactors {
	var f RiskFactors
	switch c := app.CreditScore; {
	case c >= 750:
		f.Credit = 20
	case c >= 650:
		f.Credit = 40
	case c >= 550:
		f.Credit = 60
	default:
		f.Credit = 80
	}

	ratio := 0.0
	if app.MonthlyIncome > 0 {
		ratio = app.Amount() / app.MonthlyIncome
	}
	switch {
	case ratio <= 3:
		f.Income = 20
	case ratio <= 5:
		f.Income = 40
	case ratio <= 7:
		f.Income = 60
	default:
		f.Income = 80
	}

	switch normalizeEmployment(app.EmploymentStatus) {
	case model.EmploymentEmployed:
		f.Employment = 20
	case model.EmploymentPartTime:
		f.Employment = 40
	case model.EmploymentSelfEmployed:
		f.Employment = 60
	default:
		f.Employment = 80
	}

	f.Average = float64(f.Credit+f.Income+f.Employment) / 3
	switch {
	case f.Average <= 33:
		f.Level = RiskLow
	case f.Average <= 66:
		f.Level = RiskMedium
	default:
		f.Level = RiskHigh
	}
	return f
}

// Recommendation is the reviewer hint for an application.
func Recommendation(app model.LoanApplication) string {
	level := AssessRisk(app).Level
	switch {
	case level == RiskLow && app.CreditScore >= 700:
		return "Strong candidate - Recommend approval with standard terms"
	case level == RiskMedium && app.CreditScore >= 650:
		return "Moderate risk - Consider approval with adjusted terms or additional documentation"
	case level == RiskHigh && app.CreditScore >= 600:
		return "High risk - Require additional documentation or consider rejection"
	default:
		return "Very high risk - Recommend rejection or require significant collateral"
	}
}

// Confidence rates, 0..100, how much the data supports a decision.
func Confidence(app model.LoanApplication) int {
	score := 0
	switch c := app.CreditScore; {
	case c >= 750:
		score += 40
	case c >= 700:
		score += 35
	case c >= 650:
		score += 30
	case c >= 600:
		score += 25
	default:
		score += 20
	}
	switch i := app.MonthlyIncome; {
	case i >= 50000:
		score += 30
	case i >= 30000:
		score += 25
	case i >= 20000:
		score += 20
	case i >= 10000:
		score += 15
	default:
		score += 10
	}
	switch normalizeEmployment(app.EmploymentStatus) {
	case model.EmploymentEmployed:
		score += 30
	case model.EmploymentPartTime:
		score += 20
	case model.EmploymentSelfEmployed:
		score += 15
	default:
		score += 10
	}
	return min(score, 100)
}

// LoanOption is a priced loan proposal.
type LoanOption struct {
	Type               string  `json:"type"`
	Amount             float64 `json:"amount"`
	TermMonths         int     `json:"term"`
	InterestRate       float64 `json:"interestRate"`
	MonthlyPayment     float64 `json:"monthlyPayment"`
	RequiresCollateral bool    `json:"requiresCollateral,omitempty"`
}

// Terms is the counter-offer suggested to a lender for an application.
type Terms struct {
	RecommendedAmount float64      `json:"recommendedAmount"`
	RecommendedTerm   int          `json:"recommendedTerm"`
	InterestRate      float64      `json:"interestRate"`
	MonthlyPayment    float64      `json:"monthlyPayment"`
	RiskLevel         RiskLevel    `json:"riskLevel"`
	Confidence        int          `json:"confidence"`
	Alternatives      []LoanOption `json:"alternativeOptions"`
}

// RecommendTerms sizes and prices a counter-offer from the risk level,
// then lengthens large loans to 24 months and caps small ones at 12.
func RecommendTerms(app model.LoanApplication) Terms {
	level := AssessRisk(app).Level
	req := app.RequestedAmount
	income := app.MonthlyIncome

	var amount, rate float64
	switch {
	case level == RiskLow && app.CreditScore >= 700:
		amount, rate = math.Min(req*1.2, income*5), 8.5
	case level == RiskMedium && app.CreditScore >= 650:
		amount, rate = math.Min(req, income*4), 12.5
	default:
		amount, rate = math.Min(req*0.8, income*3), 16.5
	}

	term := app.LoanTerm
	if term <= 0 {
		term = 12
	}
	if amount > 50000 {
		term = max(24, term)
	} else if amount < 10000 {
		term = min(12, term)
	}

	return Terms{
		RecommendedAmount: math.Round(amount),
		RecommendedTerm:   term,
		InterestRate:      rate,
		MonthlyPayment:    round2(EMI(amount, rate, term)),
		RiskLevel:         level,
		Confidence:        Confidence(app),
		Alternatives:      Alternatives(req),
	}
}

// Alternatives lists the standard fallback products for a requested amount.
// The micro loan only appears for requests above its own size.
func Alternatives(requested float64) []LoanOption {
	opts := []LoanOption{
		option("Personal Loan", requested*0.8, 12, 14.5, false),
		option("Secured Loan", requested*1.2, 24, 9.5, true),
	}
	if requested > 10000 {
		opts = append(opts, option("Micro Loan", 10000, 6, 18.5, false))
	}
	return opts
}

func option(kind string, amount float64, term int, rate float64, collateral bool) LoanOption {
	return LoanOption{
		Type:               kind,
		Amount:             math.Round(amount),
		TermMonths:         term,
		InterestRate:       rate,
		MonthlyPayment:     round2(EMI(amount, rate, term)),
		RequiresCollateral: collateral,
	}
}

// Assessment bundles everything a reviewer sees for one application.
type Assessment struct {
	ApplicationID  int64       `json:"applicationId"`
	Risk           RiskFactors `json:"risk"`
	Confidence     int         `json:"confidence"`
	Recommendation string      `json:"recommendation"`
	Terms          Terms       `json:"terms"`
}

// Assess runs every reviewer routine on app.
func Assess(app model.LoanApplication) Assessment {
	return Assessment{
		ApplicationID:  app.ID,
		Risk:           AssessRisk(app),
		Confidence:     Confidence(app),
		Recommendation: Recommendation(app),
		Terms:          RecommendTerms(app),
	}
}
