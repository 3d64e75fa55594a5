package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"lendflow/internal/auth"
	"lendflow/internal/lending"
	"lendflow/internal/model"
	"lendflow/internal/repository"
)

const (
	minLoanAmount     = 1000
	minPurposeLength  = 10
	riskCommentFormat = "Risk assessment: %s risk (confidence %d%%)"
)

// ApplicationInput is a borrower's loan request. Blank profile fields are
// taken from the borrower's account.
type ApplicationInput struct {
	LenderID         int64   `json:"lenderId"`
	LoanAmount       float64 `json:"loanAmount"`
	LoanPurpose      string  `json:"loanPurpose"`
	LoanTerm         int     `json:"loanTerm"`
	MonthlyIncome    float64 `json:"monthlyIncome"`
	CreditScore      int     `json:"creditScore"`
	EmploymentStatus string  `json:"employmentStatus"`
}

// StatusUpdate is a reviewer decision. A positive LoanAmount or InterestRate
// reprices the loan.
type StatusUpdate struct {
	Status       model.ApplicationStatus `json:"status"`
	Comments     string                  `json:"comments"`
	LoanAmount   float64                 `json:"loanAmount"`
	InterestRate float64                 `json:"interestRate"`
}

// BulkOptions drive BulkProcess. A zero Threshold uses the platform setting.
type BulkOptions struct {
	AutoApprove bool `json:"autoApprove"`
	Threshold   int  `json:"threshold"`
}

// BulkResult counts what BulkProcess did.
type BulkResult struct {
	Processed int `json:"processed"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Review    int `json:"review"`
}

// ApplicationService runs the loan application lifecycle.
type ApplicationService interface {
	Create(ctx context.Context, p auth.Principal, in ApplicationInput) (*model.LoanApplication, error)
	List(ctx context.Context, p auth.Principal, f repository.ApplicationFilter, limit, offset int) (*ListResult[model.LoanApplication], error)
	Get(ctx context.Context, p auth.Principal, id int64) (*model.LoanApplication, error)
	UpdateStatus(ctx context.Context, p auth.Principal, id int64, upd StatusUpdate) (*model.LoanApplication, error)
	Cancel(ctx context.Context, p auth.Principal, id int64) (*model.LoanApplication, error)
	Assess(ctx context.Context, p auth.Principal, id int64) (*lending.Assessment, error)
	BulkProcess(ctx context.Context, p auth.Principal, opts BulkOptions) (*BulkResult, error)
}

type applicationService struct {
	repos   repository.Set
	n       *notifier
	metrics *Metrics
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(repos repository.Set, n *notifier, metrics *Metrics, log logrus.FieldLogger, now func() time.Time) ApplicationService {
	return &applicationService{repos: repos, n: n, metrics: metrics, log: log, now: now}
}

func (s *applicationService) Create(ctx context.Context, p auth.Principal, in ApplicationInput) (*model.LoanApplication, error) {
	ctx, span := tracer.Start(ctx, "ApplicationService.Create")
	defer span.End()

	if err := requireRole(p, model.RoleBorrower); err != nil {
		return nil, err
	}
	settings, err := s.repos.Settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	switch {
	case in.LoanAmount < minLoanAmount || in.LoanAmount > settings.MaxLoanAmount:
		return nil, invalid("loanAmount", "loan amount must be between %d and %.0f", minLoanAmount, settings.MaxLoanAmount)
	case in.LoanTerm < 1 || in.LoanTerm > settings.MaxLoanTerm:
		return nil, invalid("loanTerm", "loan term must be between 1 and %d months", settings.MaxLoanTerm)
	case len(strings.TrimSpace(in.LoanPurpose)) < minPurposeLength:
		return nil, invalid("loanPurpose", "loan purpose must be at least %d characters", minPurposeLength)
	}

	lender, err := s.repos.Lenders.FindByID(ctx, in.LenderID)
	if err != nil {
		return nil, notFound("lender", err)
	}
	if !lender.IsActive {
		return nil, invalid("lenderId", "lender %s is not accepting applications", lender.CompanyName)
	}
	borrower, err := s.repos.Users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, notFound("user", err)
	}

	now := s.now().UTC()
	profile := profileOf(borrower, now)
	if in.MonthlyIncome > 0 {
		profile.MonthlyIncome = in.MonthlyIncome
	}
	if in.CreditScore > 0 {
		profile.CreditScore = in.CreditScore
	}
	if in.EmploymentStatus != "" {
		profile.EmploymentStatus = in.EmploymentStatus
	}
	if err := validateProfile(profile.MonthlyIncome, profile.CreditScore); err != nil {
		return nil, err
	}
	// An unknown score is left to the lender's rules.
	if profile.CreditScore > 0 && profile.CreditScore < settings.MinCreditScore {
		return nil, invalid("creditScore", "credit score must be at least %d", settings.MinCreditScore)
	}

	rules, err := s.repos.Rules.List(ctx, repository.RuleFilter{LenderID: lender.ID, ActiveOnly: true}, repository.All)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	match := lending.BestMatch(applicantOf(profile, in.LoanAmount), rules.Items)

	app := &model.LoanApplication{
		BorrowerID:       borrower.ID,
		LenderID:         lender.ID,
		RequestedAmount:  in.LoanAmount,
		LoanAmount:       in.LoanAmount,
		LoanPurpose:      strings.TrimSpace(in.LoanPurpose),
		LoanTerm:         in.LoanTerm,
		InterestRate:     lender.InterestRateRange.Min,
		Status:           model.StatusPending,
		EligibilityScore: lending.ScoreProfile(profile).Total,
		MonthlyIncome:    profile.MonthlyIncome,
		CreditScore:      profile.CreditScore,
		EmploymentStatus: profile.EmploymentStatus,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	fee := 0.0
	if match.BestMatch != nil {
		id := match.BestMatch.ID
		app.RuleID = &id
		app.InterestRate = match.BestMatch.InterestRate
		fee = match.BestMatch.ProcessingFee
	}
	price(app, fee)

	out, err := s.repos.Applications.Create(ctx, app)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return nil, fmt.Errorf("create application: %w", err)
	}
	span.SetAttributes(
		attribute.Int64("application.id", out.ID),
		attribute.Int64("application.lender_id", out.LenderID),
		attribute.Int("application.eligibility_score", out.EligibilityScore),
	)
	s.metrics.applicationCreated()

	s.n.notify(ctx, lender.UserID, model.NotificationInfo, "New Loan Application",
		fmt.Sprintf("%s applied for %.0f over %d months.", borrower.FullName(), out.RequestedAmount, out.LoanTerm))
	s.n.toast(borrower.ID, model.NotificationSuccess, "Application Submitted",
		fmt.Sprintf("Your application to %s was submitted.", lender.CompanyName))
	s.log.WithFields(logrus.Fields{
		"event":          "application_created",
		"application_id": out.ID,
		"lender_id":      out.LenderID,
		"borrower_id":    out.BorrowerID,
	}).Info("loan application submitted")
	return out, nil
}

func (s *applicationService) List(ctx context.Context, p auth.Principal, f repository.ApplicationFilter, limit, offset int) (*ListResult[model.LoanApplication], error) {
	switch p.Role {
	case model.RoleBorrower:
		f.BorrowerID = p.UserID
	case model.RoleLender:
		l, err := ownLender(ctx, s.repos.Lenders, p)
		if err != nil {
			return nil, err
		}
		f.LenderID = l.ID
	case model.RoleAdmin:
	default:
		return nil, ErrForbidden
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalid("status", "unknown status %q", f.Status)
	}
	res, err := s.repos.Applications.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *applicationService) Get(ctx context.Context, p auth.Principal, id int64) (*model.LoanApplication, error) {
	app, err := s.repos.Applications.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("application", err)
	}
	if err := canViewApplication(ctx, s.repos.Lenders, p, app); err != nil {
		return nil, err
	}
	return app, nil
}

// canViewApplication allows admins, the borrower and the lender of app.
func canViewApplication(ctx context.Context, lenders repository.LenderRepository, p auth.Principal, app *model.LoanApplication) error {
	switch p.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleBorrower:
		if app.BorrowerID == p.UserID {
			return nil
		}
	case model.RoleLender:
		l, err := lenders.FindByUserID(ctx, p.UserID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if l != nil && l.ID == app.LenderID {
			return nil
		}
	}
	return forbidden("application %d is not yours", app.ID)
}

func (s *applicationService) reviewable(ctx context.Context, p auth.Principal, id int64) (*model.LoanApplication, error) {
	if err := requireRole(p, model.RoleAdmin, model.RoleLender); err != nil {
		return nil, err
	}
	return s.Get(ctx, p, id)
}

func (s *applicationService) UpdateStatus(ctx context.Context, p auth.Principal, id int64, upd StatusUpdate) (*model.LoanApplication, error) {
	ctx, span := tracer.Start(ctx, "ApplicationService.UpdateStatus")
	defer span.End()

	if !upd.Status.Valid() {
		return nil, invalid("status", "unknown status %q", upd.Status)
	}
	if upd.Status == model.StatusCancelled {
		return nil, invalid("status", "only the borrower can cancel an application")
	}
	if upd.LoanAmount < 0 || upd.InterestRate < 0 || upd.InterestRate > 100 {
		return nil, invalid("loanAmount", "loan amount and interest rate must be non-negative and the rate at most 100")
	}
	app, err := s.reviewable(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !app.Status.CanTransition(upd.Status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, app.Status, upd.Status)
	}

	if upd.LoanAmount > 0 || upd.InterestRate > 0 {
		if upd.LoanAmount > 0 {
			app.LoanAmount = upd.LoanAmount
		}
		if upd.InterestRate > 0 {
			app.InterestRate = upd.InterestRate
		}
		price(app, 0)
	}
	if c := strings.TrimSpace(upd.Comments); c != "" {
		app.Comments = c
	}
	out, err := s.decide(ctx, p, app, upd.Status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, err
	}
	span.SetAttributes(attribute.String("application.status", string(out.Status)))
	s.n.toast(p.UserID, model.NotificationSuccess, "Application Updated",
		fmt.Sprintf("Application #%d is now %s.", out.ID, out.Status))
	return out, nil
}

// decide moves app to status, stamping decisions, and tells the borrower.
func (s *applicationService) decide(ctx context.Context, p auth.Principal, app *model.LoanApplication, status model.ApplicationStatus) (*model.LoanApplication, error) {
	now := s.now().UTC()
	app.Status = status
	app.UpdatedAt = now
	if status.Decided() {
		app.DecisionDate = &now
		app.DecisionBy = p.Username
		a := lending.Assess(*app)
		line := fmt.Sprintf(riskCommentFormat, a.Risk.Level, a.Confidence)
		if app.Comments == "" {
			app.Comments = line
		} else {
			app.Comments += "\n" + line
		}
	}

	out, err := s.repos.Applications.Update(ctx, app)
	if err != nil {
		return nil, notFound("application", err)
	}
	s.metrics.decision(status)

	typ, title := model.NotificationInfo, "Application Under Review"
	switch status {
	case model.StatusApproved:
		typ, title = model.NotificationSuccess, "Loan Approved"
	case model.StatusRejected:
		typ, title = model.NotificationError, "Loan Rejected"
	}
	s.n.notify(ctx, out.BorrowerID, typ, title,
		fmt.Sprintf("Your application #%d for %.0f is now %s.", out.ID, out.Amount(), out.Status))
	s.log.WithFields(logrus.Fields{
		"event":          "application_status_changed",
		"application_id": out.ID,
		"status":         out.Status,
		"actor":          p.Username,
	}).Info("loan application status updated")
	return out, nil
}

func (s *applicationService) Cancel(ctx context.Context, p auth.Principal, id int64) (*model.LoanApplication, error) {
	if err := requireRole(p, model.RoleBorrower); err != nil {
		return nil, err
	}
	app, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if app.Status != model.StatusPending {
		return nil, fmt.Errorf("%w: only pending applications can be cancelled", ErrInvalidTransition)
	}
	app.Status = model.StatusCancelled
	app.UpdatedAt = s.now().UTC()
	out, err := s.repos.Applications.Update(ctx, app)
	if err != nil {
		return nil, notFound("application", err)
	}
	s.metrics.decision(out.Status)

	if l, err := s.repos.Lenders.FindByID(ctx, out.LenderID); err == nil {
		s.n.notify(ctx, l.UserID, model.NotificationWarning, "Application Cancelled",
			fmt.Sprintf("Application #%d was cancelled by the borrower.", out.ID))
	}
	s.n.toast(p.UserID, model.NotificationInfo, "Application Cancelled",
		fmt.Sprintf("Application #%d was cancelled.", out.ID))
	return out, nil
}

func (s *applicationService) Assess(ctx context.Context, p auth.Principal, id int64) (*lending.Assessment, error) {
	app, err := s.reviewable(ctx, p, id)
	if err != nil {
		return nil, err
	}
	a := lending.Assess(*app)
	return &a, nil
}

func (s *applicationService) BulkProcess(ctx context.Context, p auth.Principal, opts BulkOptions) (*BulkResult, error) {
	ctx, span := tracer.Start(ctx, "ApplicationService.BulkProcess")
	defer span.End()

	l, err := ownLender(ctx, s.repos.Lenders, p)
	if err != nil {
		return nil, err
	}
	if opts.Threshold < 0 || opts.Threshold > 100 {
		return nil, invalid("threshold", "threshold must be between 0 and 100")
	}
	if opts.Threshold == 0 {
		settings, err := s.repos.Settings.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
		opts.Threshold = settings.AutoApprovalThreshold
	}

	pending, err := s.repos.Applications.List(ctx, repository.ApplicationFilter{LenderID: l.ID, Status: model.StatusPending}, repository.All)
	if err != nil {
		return nil, err
	}

	res := &BulkResult{}
	for i := range pending.Items {
		app := pending.Items[i]
		level := lending.AssessRisk(app).Level
		next := model.StatusUnderReview
		switch {
		case opts.AutoApprove && (level == lending.RiskLow || app.EligibilityScore >= opts.Threshold):
			next = model.StatusApproved
		case level == lending.RiskHigh:
			next = model.StatusRejected
		}
		if _, err := s.decide(ctx, p, &app, next); err != nil {
			return res, fmt.Errorf("process application %d: %w", app.ID, err)
		}
		res.Processed++
		switch next {
		case model.StatusApproved:
			res.Approved++
		case model.StatusRejected:
			res.Rejected++
		default:
			res.Review++
		}
	}

	span.SetAttributes(attribute.Int("bulk.processed", res.Processed))
	s.n.toast(p.UserID, model.NotificationSuccess, "Bulk Processing Complete",
		fmt.Sprintf("%d processed: %d approved, %d rejected, %d for review.", res.Processed, res.Approved, res.Rejected, res.Review))
	s.log.WithFields(logrus.Fields{
		"event":     "bulk_process",
		"lender_id": l.ID,
		"processed": res.Processed,
		"approved":  res.Approved,
		"rejected":  res.Rejected,
	}).Info("bulk processing finished")
	return res, nil
}

// price fills the repayment figures of app from its amount, rate and term.
func price(app *model.LoanApplication, fee float64) {
	q := lending.Calculate(lending.LoanInput{
		Principal:     app.Amount(),
		AnnualRate:    app.InterestRate,
		Months:        app.LoanTerm,
		ProcessingFee: fee,
	})
	app.MonthlyEMI = q.MonthlyEMI
	app.TotalInterest = q.TotalInterest
	app.TotalAmount = q.TotalAmount
}

func profileOf(u *model.User, now time.Time) lending.Profile {
	p := lending.Profile{
		MonthlyIncome:    u.MonthlyIncome,
		CreditScore:      u.CreditScore,
		EmploymentStatus: u.EmploymentStatus,
	}
	if u.DateOfBirth != nil {
		p.Age = lending.Age(*u.DateOfBirth, now)
	}
	return p
}

func applicantOf(p lending.Profile, amount float64) lending.Applicant {
	return lending.Applicant{
		MonthlyIncome:    p.MonthlyIncome,
		CreditScore:      p.CreditScore,
		Age:              p.Age,
		EmploymentStatus: p.EmploymentStatus,
		RequestedAmount:  amount,
	}
}
