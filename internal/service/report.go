package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"lendflow/internal/auth"
	"lendflow/internal/lending"
	"lendflow/internal/model"
	"lendflow/internal/repository"
)

// ReportService renders downloadable reports into w.
type ReportService interface {
	// LenderCSV writes the caller's applications followed by its rules.
	LenderCSV(ctx context.Context, p auth.Principal, w io.Writer) error
	LenderText(ctx context.Context, p auth.Principal, w io.Writer) error
	PlatformCSV(ctx context.Context, p auth.Principal, w io.Writer) error
}

type reportService struct {
	repos repository.Set
	now   func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(repos repository.Set, now func() time.Time) ReportService {
	return &reportService{repos: repos, now: now}
}

type lenderData struct {
	lender *model.Lender
	apps   []model.LoanApplication
	rules  []model.LenderRule
}

func (s *reportService) load(ctx context.Context, p auth.Principal) (*lenderData, error) {
	l, err := ownLender(ctx, s.repos.Lenders, p)
	if err != nil {
		return nil, err
	}
	apps, err := s.repos.Applications.List(ctx, repository.ApplicationFilter{LenderID: l.ID}, repository.All)
	if err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}
	rules, err := s.repos.Rules.List(ctx, repository.RuleFilter{LenderID: l.ID}, repository.All)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return &lenderData{lender: l, apps: apps.Items, rules: rules.Items}, nil
}

func (s *reportService) LenderCSV(ctx context.Context, p auth.Principal, w io.Writer) error {
	d, err := s.load(ctx, p)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Applications"})
	_ = cw.Write([]string{"ID", "Borrower ID", "Requested Amount", "Loan Amount", "Term (months)", "Interest Rate",
		"Status", "Eligibility Score", "Monthly EMI", "Risk Level", "Decision By", "Created At"})
	for _, a := range d.apps {
		_ = cw.Write([]string{
			strconv.FormatInt(a.ID, 10),
			strconv.FormatInt(a.BorrowerID, 10),
			money(a.RequestedAmount),
			money(a.Amount()),
			strconv.Itoa(a.LoanTerm),
			strconv.FormatFloat(a.InterestRate, 'f', 2, 64),
			string(a.Status),
			strconv.Itoa(a.EligibilityScore),
			money(a.MonthlyEMI),
			string(lending.AssessRisk(a).Level),
			a.DecisionBy,
			a.CreatedAt.Format(time.RFC3339),
		})
	}
	_ = cw.Write(nil)
	_ = cw.Write([]string{"Rules"})
	_ = cw.Write([]string{"ID", "Rule Name", "Min Monthly Income", "Min Credit Score", "Age Range", "Loan Range",
		"Employment Types", "Interest Rate", "Processing Fee", "Active"})
	for _, r := range d.rules {
		_ = cw.Write([]string{
			strconv.FormatInt(r.ID, 10),
			r.RuleName,
			money(r.MinMonthlyIncome),
			strconv.Itoa(r.MinCreditScore),
			fmt.Sprintf("%d-%d", r.MinAge, r.MaxAge),
			money(r.MinLoanAmount) + "-" + money(r.MaxLoanAmount),
			strings.Join(r.EmploymentTypes, ";"),
			strconv.FormatFloat(r.InterestRate, 'f', 2, 64),
			money(r.ProcessingFee),
			strconv.FormatBool(r.IsActive),
		})
	}
	cw.Flush()
	return cw.Error()
}

func (s *reportService) LenderText(ctx context.Context, p auth.Principal, w io.Writer) error {
	d, err := s.load(ctx, p)
	if err != nil {
		return err
	}
	perf := lending.Performance(d.apps)
	active := 0
	for _, r := range d.rules {
		if r.IsActive {
			active++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "LENDER ANALYTICS REPORT\n")
	fmt.Fprintf(&b, "Lender: %s\n", d.lender.CompanyName)
	fmt.Fprintf(&b, "Generated: %s\n\n", s.now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "APPLICATIONS\n")
	fmt.Fprintf(&b, "  Total:        %d\n", perf.TotalApplications)
	fmt.Fprintf(&b, "  Pending:      %d\n", perf.PendingApplications)
	fmt.Fprintf(&b, "  Under review: %d\n", perf.UnderReview)
	fmt.Fprintf(&b, "  Approved:     %d\n", perf.ApprovedApplications)
	fmt.Fprintf(&b, "  Rejected:     %d\n", perf.RejectedApplications)
	fmt.Fprintf(&b, "  Approval rate: %.2f%%\n\n", perf.ApprovalRate)
	fmt.Fprintf(&b, "AMOUNTS\n")
	fmt.Fprintf(&b, "  Total requested:  %s\n", money(perf.TotalRequestedAmount))
	fmt.Fprintf(&b, "  Average loan:     %s\n", money(perf.AverageLoanAmount))
	fmt.Fprintf(&b, "  Total approved:   %s\n\n", money(perf.TotalApprovedAmount))
	fmt.Fprintf(&b, "RISK\n")
	fmt.Fprintf(&b, "  Low: %d  Medium: %d  High: %d\n\n", perf.RiskDistribution.Low, perf.RiskDistribution.Medium, perf.RiskDistribution.High)
	fmt.Fprintf(&b, "RULES\n")
	fmt.Fprintf(&b, "  Total: %d  Active: %d\n", len(d.rules), active)
	if len(perf.Recommendations) > 0 {
		fmt.Fprintf(&b, "\nRECOMMENDATIONS\n")
		for _, r := range perf.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}
	_, err = io.WriteString(w, b.String())
	return err
}

func (s *reportService) PlatformCSV(ctx context.Context, p auth.Principal, w io.Writer) error {
	if err := requireRole(p, model.RoleAdmin); err != nil {
		return err
	}
	a, err := platformAnalytics(ctx, s.repos, s.now())
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Metric", "Value"})
	_ = cw.Write([]string{"Total Users", strconv.Itoa(a.TotalUsers)})
	_ = cw.Write([]string{"Total Lenders", strconv.Itoa(a.TotalLenders)})
	_ = cw.Write([]string{"Total Applications", strconv.Itoa(a.TotalApplications)})
	_ = cw.Write([]string{"Total Loan Amount", money(a.TotalLoanAmount)})
	_ = cw.Write([]string{"Approval Rate", strconv.FormatFloat(a.ApprovalRate, 'f', 2, 64)})
	_ = cw.Write([]string{"Average Processing Days", strconv.FormatFloat(a.AverageProcessingTime, 'f', 2, 64)})
	_ = cw.Write(nil)
	_ = cw.Write([]string{"Status", "Count", "Percentage"})
	for _, st := range a.ApplicationStatuses {
		_ = cw.Write([]string{string(st.Status), strconv.Itoa(st.Count), strconv.Itoa(st.Percentage)})
	}
	_ = cw.Write(nil)
	_ = cw.Write([]string{"Lender", "Applications", "Approval Rate"})
	for _, l := range a.TopLenders {
		_ = cw.Write([]string{l.Lender.CompanyName, strconv.Itoa(l.Applications), strconv.FormatFloat(l.ApprovalRate, 'f', 2, 64)})
	}
	cw.Flush()
	return cw.Error()
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
