package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendflow/internal/auth"
	"lendflow/internal/lending"
	"lendflow/internal/model"
	"lendflow/internal/repository"
)

func validApplication(lenderID int64) ApplicationInput {
	return ApplicationInput{LenderID: lenderID, LoanAmount: 200000, LoanPurpose: "Home renovation project", LoanTerm: 24}
}

func TestApplicationService_Create(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)

	app, err := h.svc.Applications.Create(ctx, m.borrower, validApplication(m.lenderProfile.ID))
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, app.Status)
	assert.Equal(t, m.borrower.UserID, app.BorrowerID)
	require.NotNil(t, app.RuleID)
	assert.Equal(t, m.rule.ID, *app.RuleID)
	assert.Equal(t, 10.5, app.InterestRate)
	assert.Equal(t, 200000.0, app.RequestedAmount)
	assert.Equal(t, 50000.0, app.MonthlyIncome)
	assert.Equal(t, 750, app.CreditScore)

	want := lending.Calculate(lending.LoanInput{Principal: 200000, AnnualRate: 10.5, Months: 24})
	assert.Equal(t, want.MonthlyEMI, app.MonthlyEMI)
	assert.Equal(t, want.TotalAmount, app.TotalAmount)
	assert.Equal(t, 95, app.EligibilityScore)

	assert.Equal(t, 1.0, testutil.ToFloat64(h.svc.Applications.(*applicationService).metrics.applicationsCreated))

	inbox, err := h.svc.Notifications.List(ctx, m.lender, false, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, inbox.Total)
	assert.Equal(t, "New Loan Application", inbox.Items[0].Title)

	toasts := h.toasts.List(m.borrower.UserID)
	require.Len(t, toasts, 1)
	assert.Equal(t, "Application Submitted", toasts[0].Title)
}

func TestApplicationService_CreateFallsBackToLenderRate(t *testing.T) {
	h := newHarness(t)
	m := h.marketplace(t)

	in := validApplication(m.lenderProfile.ID)
	in.EmploymentStatus = model.EmploymentSelfEmployed
	app, err := h.svc.Applications.Create(context.Background(), m.borrower, in)
	require.NoError(t, err)
	assert.Nil(t, app.RuleID)
	assert.Equal(t, 8.5, app.InterestRate)
	assert.Equal(t, model.EmploymentSelfEmployed, app.EmploymentStatus)
}

func TestApplicationService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)
	lid := m.lenderProfile.ID

	tests := []struct {
		name    string
		p       auth.Principal
		mutate  func(in *ApplicationInput)
		wantErr error
	}{
		{"lender cannot apply", m.lender, func(*ApplicationInput) {}, ErrForbidden},
		{"amount too small", m.borrower, func(in *ApplicationInput) { in.LoanAmount = 999 }, ErrInvalidInput},
		{"amount above platform max", m.borrower, func(in *ApplicationInput) { in.LoanAmount = 10_000_001 }, ErrInvalidInput},
		{"term too long", m.borrower, func(in *ApplicationInput) { in.LoanTerm = 61 }, ErrInvalidInput},
		{"term zero", m.borrower, func(in *ApplicationInput) { in.LoanTerm = 0 }, ErrInvalidInput},
		{"purpose too short", m.borrower, func(in *ApplicationInput) { in.LoanPurpose = "car" }, ErrInvalidInput},
		{"unknown lender", m.borrower, func(in *ApplicationInput) { in.LenderID = 999 }, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validApplication(lid)
			tt.mutate(&in)
			_, err := h.svc.Applications.Create(ctx, tt.p, in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	m.lenderProfile.IsActive = false
	_, err := h.store.Lenders.Update(ctx, m.lenderProfile)
	require.NoError(t, err)
	_, err = h.svc.Applications.Create(ctx, m.borrower, validApplication(lid))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApplicationService_ListAndGetScoping(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)
	other := h.user(t, model.User{Username: "cust2", Role: model.RoleBorrower, MonthlyIncome: 30000, CreditScore: 680})
	otherLender := h.user(t, model.User{Username: "lender2", Role: model.RoleLender})
	_, err := h.store.Lenders.Create(ctx, &model.Lender{UserID: otherLender.UserID, CompanyName: "XYZ", IsActive: true})
	require.NoError(t, err)

	mine, err := h.svc.Applications.Create(ctx, m.borrower, validApplication(m.lenderProfile.ID))
	require.NoError(t, err)
	_, err = h.svc.Applications.Create(ctx, other, validApplication(m.lenderProfile.ID))
	require.NoError(t, err)

	res, err := h.svc.Applications.List(ctx, m.borrower, repository.ApplicationFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	res, err = h.svc.Applications.List(ctx, m.lender, repository.ApplicationFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)

	res, err = h.svc.Applications.List(ctx, otherLender, repository.ApplicationFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)

	res, err = h.svc.Applications.List(ctx, m.admin, repository.ApplicationFilter{BorrowerID: other.UserID}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	_, err = h.svc.Applications.List(ctx, m.admin, repository.ApplicationFilter{Status: "LOST"}, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.svc.Applications.Get(ctx, other, mine.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = h.svc.Applications.Get(ctx, otherLender, mine.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	got, err := h.svc.Applications.Get(ctx, m.lender, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)
}

func TestApplicationService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)
	app, err := h.svc.Applications.Create(ctx, m.borrower, validApplication(m.lenderProfile.ID))
	require.NoError(t, err)

	_, err = h.svc.Applications.UpdateStatus(ctx, m.borrower, app.ID, StatusUpdate{Status: model.StatusApproved})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = h.svc.Applications.UpdateStatus(ctx, m.lender, app.ID, StatusUpdate{Status: model.StatusCancelled})
	assert.ErrorIs(t, err, ErrInvalidInput)

	reviewed, err := h.svc.Applications.UpdateStatus(ctx, m.lender, app.ID, StatusUpdate{Status: model.StatusUnderReview})
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnderReview, reviewed.Status)
	assert.Nil(t, reviewed.DecisionDate)

	approved, err := h.svc.Applications.UpdateStatus(ctx, m.lender, app.ID, StatusUpdate{
		Status: model.StatusApproved, Comments: "Verified salary slips", LoanAmount: 150000, InterestRate: 9.5,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, approved.Status)
	assert.Equal(t, "lender1", approved.DecisionBy)
	require.NotNil(t, approved.DecisionDate)
	assert.True(t, approved.DecisionDate.Equal(fixedNow))
	assert.Equal(t, 150000.0, approved.LoanAmount)
	assert.Equal(t, 200000.0, approved.RequestedAmount)
	assert.Equal(t, lending.Calculate(lending.LoanInput{Principal: 150000, AnnualRate: 9.5, Months: 24}).MonthlyEMI, approved.MonthlyEMI)
	assert.Contains(t, approved.Comments, "Verified salary slips\nRisk assessment: low risk (confidence ")

	_, err = h.svc.Applications.UpdateStatus(ctx, m.admin, app.ID, StatusUpdate{Status: model.StatusRejected})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	inbox, err := h.svc.Notifications.List(ctx, m.borrower, false, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 2, inbox.Total)
	titles := []string{inbox.Items[0].Title, inbox.Items[1].Title}
	assert.ElementsMatch(t, []string{"Application Under Review", "Loan Approved"}, titles)

	metrics := h.svc.Applications.(*applicationService).metrics
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.decisions.WithLabelValues("APPROVED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.decisions.WithLabelValues("UNDER_REVIEW")))
}

func TestApplicationService_NotificationsDisabled(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)
	s := model.DefaultSettings()
	s.NotificationEnabled = false
	_, err := h.svc.Settings.Update(ctx, m.admin, s)
	require.NoError(t, err)

	_, err = h.svc.Applications.Create(ctx, m.borrower, validApplication(m.lenderProfile.ID))
	require.NoError(t, err)

	inbox, err := h.svc.Notifications.List(ctx, m.lender, false, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, inbox.Total)
}

func TestApplicationService_Cancel(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)
	app, err := h.svc.Applications.Create(ctx, m.borrower, validApplication(m.lenderProfile.ID))
	require.NoError(t, err)

	_, err = h.svc.Applications.Cancel(ctx, m.lender, app.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	cancelled, err := h.svc.Applications.Cancel(ctx, m.borrower, app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	_, err = h.svc.Applications.Cancel(ctx, m.borrower, app.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApplicationService_Assess(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)
	app, err := h.svc.Applications.Create(ctx, m.borrower, validApplication(m.lenderProfile.ID))
	require.NoError(t, err)

	_, err = h.svc.Applications.Assess(ctx, m.borrower, app.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	a, err := h.svc.Applications.Assess(ctx, m.lender, app.ID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, a.ApplicationID)
	assert.Equal(t, lending.RiskLow, a.Risk.Level)
}

func TestApplicationService_BulkProcess(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)
	lid := m.lenderProfile.ID

	// low risk, score 95
	_, err := h.svc.Applications.Create(ctx, m.borrower, validApplication(lid))
	require.NoError(t, err)
	// high risk
	_, err = h.svc.Applications.Create(ctx, m.borrower, ApplicationInput{
		LenderID: lid, LoanAmount: 100000, LoanPurpose: "Debt consolidation", LoanTerm: 12,
		MonthlyIncome: 10000, CreditScore: 500, EmploymentStatus: model.EmploymentUnemployed,
	})
	require.NoError(t, err)
	// medium risk, score 78
	_, err = h.svc.Applications.Create(ctx, m.borrower, ApplicationInput{
		LenderID: lid, LoanAmount: 200000, LoanPurpose: "Business expansion", LoanTerm: 36,
		MonthlyIncome: 40000, CreditScore: 680, EmploymentStatus: model.EmploymentSelfEmployed,
	})
	require.NoError(t, err)

	_, err = h.svc.Applications.BulkProcess(ctx, m.admin, BulkOptions{})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = h.svc.Applications.BulkProcess(ctx, m.lender, BulkOptions{Threshold: 101})
	assert.ErrorIs(t, err, ErrInvalidInput)

	res, err := h.svc.Applications.BulkProcess(ctx, m.lender, BulkOptions{AutoApprove: true})
	require.NoError(t, err)
	assert.Equal(t, &BulkResult{Processed: 3, Approved: 1, Rejected: 1, Review: 1}, res)

	again, err := h.svc.Applications.BulkProcess(ctx, m.lender, BulkOptions{AutoApprove: true})
	require.NoError(t, err)
	assert.Zero(t, again.Processed)
}

func TestApplicationService_BulkProcessWithoutAutoApprove(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)
	_, err := h.svc.Applications.Create(ctx, m.borrower, validApplication(m.lenderProfile.ID))
	require.NoError(t, err)

	res, err := h.svc.Applications.BulkProcess(ctx, m.lender, BulkOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Review)
	assert.Zero(t, res.Approved)
}

func TestApplicationService_CreateEnforcesMinCreditScore(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)

	s := model.DefaultSettings()
	s.MinCreditScore = 700
	_, err := h.svc.Settings.Update(ctx, m.admin, s)
	require.NoError(t, err)

	in := validApplication(m.lenderProfile.ID)
	in.CreditScore = 650
	_, err = h.svc.Applications.Create(ctx, m.borrower, in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "creditScore", verr.Field)

	// the borrower's profile score (750) clears the floor
	app, err := h.svc.Applications.Create(ctx, m.borrower, validApplication(m.lenderProfile.ID))
	require.NoError(t, err)
	assert.Equal(t, 750, app.CreditScore)
}
