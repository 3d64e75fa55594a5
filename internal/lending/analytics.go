package lending

import (
	"math"
	"sort"
	"time"

	"lendflow/internal/model"
)

// MonthBucket counts applications created in one calendar month.
type MonthBucket struct {
	Month  string  `json:"month"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// LenderRank is a lender's share of application traffic.
type LenderRank struct {
	Lender       model.Lender `json:"lender"`
	Applications int          `json:"applications"`
	ApprovalRate float64      `json:"approvalRate"`
}

// StatusShare is one slice of the status split.
type StatusShare struct {
	Status     model.ApplicationStatus `json:"status"`
	Count      int                     `json:"count"`
	Percentage int                     `json:"percentage"`
}

// RangeShare is one loan size band.
type RangeShare struct {
	Range      string `json:"range"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// PlatformAnalytics is the administrator overview.
type PlatformAnalytics struct {
	TotalUsers            int           `json:"totalUsers"`
	TotalLenders          int           `json:"totalLenders"`
	TotalApplications     int           `json:"totalApplications"`
	TotalLoanAmount       float64       `json:"totalLoanAmount"`
	ApprovalRate          float64       `json:"approvalRate"`
	AverageProcessingTime float64       `json:"averageProcessingTime"`
	MonthlyApplications   []MonthBucket `json:"monthlyApplications"`
	TopLenders            []LenderRank  `json:"topLenders"`
	ApplicationStatuses   []StatusShare `json:"applicationStatuses"`
	LoanAmountRanges      []RangeShare  `json:"loanAmountRanges"`
}

const (
	trendMonths   = 6
	topLenderSize = 5
)

var amountBands = []struct {
	min, max float64
	label    string
}{
	{0, 50_000, "₹0 - ₹50K"},
	{50_000, 200_000, "₹50K - ₹2L"},
	{200_000, 500_000, "₹2L - ₹5L"},
	{500_000, 1_000_000, "₹5L - ₹10L"},
	{1_000_000, math.Inf(1), "₹10L+"},
}

// Platform computes the admin overview as of now. Only BORROWER accounts
// count as users.
func Platform(users []model.User, lenders []model.Lender, apps []model.LoanApplication, now time.Time) PlatformAnalytics {
	out := PlatformAnalytics{
		TotalLenders:      len(lenders),
		TotalApplications: len(apps),
	}
	for _, u := range users {
		if u.Role == model.RoleBorrower {
			out.TotalUsers++
		}
	}

	approved := 0
	var days []float64
	for _, a := range apps {
		out.TotalLoanAmount += a.Amount()
		if a.Status == model.StatusApproved {
			approved++
		}
		if a.Status != model.StatusPending && !a.UpdatedAt.IsZero() {
			days = append(days, a.UpdatedAt.Sub(a.CreatedAt).Hours()/24)
		}
	}
	out.ApprovalRate = percent(approved, len(apps))
	if len(days) > 0 {
		sum := 0.0
		for _, d := range days {
			sum += d
		}
		out.AverageProcessingTime = round2(sum / float64(len(days)))
	}

	out.MonthlyApplications = monthlyBuckets(apps, now)
	out.TopLenders = topLenders(lenders, apps)
	out.ApplicationStatuses = statusSplit(apps)
	out.LoanAmountRanges = amountRanges(apps)
	return out
}

func monthlyBuckets(apps []model.LoanApplication, now time.Time) []MonthBucket {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	buckets := make([]MonthBucket, trendMonths)
	index := make(map[string]int, trendMonths)
	for i := 0; i < trendMonths; i++ {
		key := first.AddDate(0, i-trendMonths+1, 0).Format("Jan 2006")
		buckets[i].Month = key
		index[key] = i
	}
	for _, a := range apps {
		if i, ok := index[a.CreatedAt.In(now.Location()).Format("Jan 2006")]; ok {
			buckets[i].Count++
			buckets[i].Amount += a.Amount()
		}
	}
	return buckets
}

func topLenders(lenders []model.Lender, apps []model.LoanApplication) []LenderRank {
	ranks := make([]LenderRank, 0, len(lenders))
	for _, l := range lenders {
		total, approved := 0, 0
		for _, a := range apps {
			if a.LenderID != l.ID {
				continue
			}
			total++
			if a.Status == model.StatusApproved {
				approved++
			}
		}
		ranks = append(ranks, LenderRank{Lender: l, Applications: total, ApprovalRate: percent(approved, total)})
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Applications > ranks[j].Applications })
	if len(ranks) > topLenderSize {
		ranks = ranks[:topLenderSize]
	}
	return ranks
}

func statusSplit(apps []model.LoanApplication) []StatusShare {
	counts := map[model.ApplicationStatus]int{}
	var order []model.ApplicationStatus
	for _, a := range apps {
		if counts[a.Status] == 0 {
			order = append(order, a.Status)
		}
		counts[a.Status]++
	}
	out := make([]StatusShare, 0, len(order))
	for _, s := range order {
		out = append(out, StatusShare{
			Status:     s,
			Count:      counts[s],
			Percentage: int(math.Round(float64(counts[s]) / float64(len(apps)) * 100)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func amountRanges(apps []model.LoanApplication) []RangeShare {
	var out []RangeShare
	for _, b := range amountBands {
		n := 0
		for _, a := range apps {
			if v := a.Amount(); v >= b.min && v < b.max {
				n++
			}
		}
		if n == 0 {
			continue
		}
		out = append(out, RangeShare{
			Range:      b.label,
			Count:      n,
			Percentage: int(math.Round(float64(n) / float64(len(apps)) * 100)),
		})
	}
	return out
}

// RiskDistribution counts applications per risk level.
type RiskDistribution struct {
	Low    int `json:"lowRisk"`
	Medium int `json:"mediumRisk"`
	High   int `json:"highRisk"`
}

// LenderPerformance is the portfolio summary a lender sees.
type LenderPerformance struct {
	TotalApplications     int              `json:"totalApplications"`
	PendingApplications   int              `json:"pendingApplications"`
	UnderReview           int              `json:"underReviewApplications"`
	ApprovedApplications  int              `json:"approvedApplications"`
	RejectedApplications  int              `json:"rejectedApplications"`
	CancelledApplications int              `json:"cancelledApplications"`
	TotalRequestedAmount  float64          `json:"totalRequestedAmount"`
	AverageLoanAmount     float64          `json:"averageLoanAmount"`
	TotalApprovedAmount   float64          `json:"totalApprovedAmount"`
	AverageApprovedAmount float64          `json:"averageApprovedAmount"`
	ApprovalRate          float64          `json:"approvalRate"`
	RiskDistribution      RiskDistribution `json:"riskDistribution"`
	PurposeBreakdown      map[string]int   `json:"purposeBreakdown"`
	CreditScoreBands      map[string]int   `json:"creditScoreBands"`
	StatusCounts          map[string]int   `json:"statusCounts"`
	AverageEligibility    float64          `json:"averageEligibilityScore"`
	Recommendations       []string         `json:"recommendations"`
}

// Performance summarizes a lender's applications. The risk distribution
// covers approved applications only.
func Performance(apps []model.LoanApplication) LenderPerformance {
	p := LenderPerformance{
		TotalApplications: len(apps),
		PurposeBreakdown:  map[string]int{},
		CreditScoreBands:  map[string]int{},
		StatusCounts:      map[string]int{},
	}
	eligibilitySum := 0
	for _, a := range apps {
		p.StatusCounts[string(a.Status)]++
		p.TotalRequestedAmount += a.Amount()
		eligibilitySum += a.EligibilityScore
		if a.LoanPurpose != "" {
			p.PurposeBreakdown[a.LoanPurpose]++
		}
		p.CreditScoreBands[creditBand(a.CreditScore)]++

		switch a.Status {
		case model.StatusPending:
			p.PendingApplications++
		case model.StatusUnderReview:
			p.UnderReview++
		case model.StatusApproved:
			p.ApprovedApplications++
			p.TotalApprovedAmount += a.Amount()
			switch AssessRisk(a).Level {
			case RiskLow:
				p.RiskDistribution.Low++
			case RiskMedium:
				p.RiskDistribution.Medium++
			default:
				p.RiskDistribution.High++
			}
		case model.StatusRejected:
			p.RejectedApplications++
		case model.StatusCancelled:
			p.CancelledApplications++
		}
	}
	if n := len(apps); n > 0 {
		p.AverageLoanAmount = round2(p.TotalRequestedAmount / float64(n))
		p.AverageEligibility = round2(float64(eligibilitySum) / float64(n))
	}
	if p.ApprovedApplications > 0 {
		p.AverageApprovedAmount = round2(p.TotalApprovedAmount / float64(p.ApprovedApplications))
	}
	p.ApprovalRate = percent(p.ApprovedApplications, len(apps))
	p.Recommendations = portfolioAdvice(p)
	return p
}

func portfolioAdvice(p LenderPerformance) []string {
	var out []string
	if p.TotalApplications > 0 && p.ApprovalRate < 30 {
		out = append(out, "Consider lowering credit score requirements to increase approval rates")
	}
	if p.RiskDistribution.High > p.RiskDistribution.Low {
		out = append(out, "Review lending criteria to reduce high-risk applications")
	}
	if p.TotalApplications < 100 {
		out = append(out, "Focus on customer acquisition strategies to grow portfolio")
	}
	if len(out) == 0 {
		out = append(out, "Portfolio is performing well. Continue current strategies.")
	}
	return out
}

func creditBand(score int) string {
	switch {
	case score >= 750:
		return "750+"
	case score >= 650:
		return "650-749"
	case score >= 550:
		return "550-649"
	default:
		return "below 550"
	}
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}
