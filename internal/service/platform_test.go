package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendflow/internal/lending"
	"lendflow/internal/model"
)

func TestNotificationService(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)

	_, err := h.svc.Notifications.Create(ctx, m.borrower, NotificationInput{UserID: m.lender.UserID, Title: "Hi", Message: "there"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = h.svc.Notifications.Create(ctx, m.lender, NotificationInput{UserID: m.admin.UserID, Title: "Hi", Message: "there"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = h.svc.Notifications.Create(ctx, m.lender, NotificationInput{UserID: m.borrower.UserID, Title: "", Message: "there"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.svc.Notifications.Create(ctx, m.admin, NotificationInput{UserID: 404, Title: "Hi", Message: "there"})
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := h.svc.Notifications.Create(ctx, m.lender, NotificationInput{UserID: m.borrower.UserID, Title: "Documents", Message: "Please upload your PAN card"})
	require.NoError(t, err)
	assert.Equal(t, model.NotificationInfo, n.Type)
	assert.Len(t, h.toasts.List(m.borrower.UserID), 1)

	unread, err := h.svc.Notifications.List(ctx, m.borrower, true, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, unread.Total)

	assert.ErrorIs(t, h.svc.Notifications.MarkRead(ctx, m.lender, n.ID), ErrNotFound)
	require.NoError(t, h.svc.Notifications.MarkRead(ctx, m.borrower, n.ID))

	unread, err = h.svc.Notifications.List(ctx, m.borrower, true, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, unread.Total)

	s := model.DefaultSettings()
	s.NotificationEnabled = false
	_, err = h.svc.Settings.Update(ctx, m.admin, s)
	require.NoError(t, err)
	_, err = h.svc.Notifications.Create(ctx, m.admin, NotificationInput{UserID: m.borrower.UserID, Title: "Hi", Message: "there"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSettingsService(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)

	s, err := h.svc.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), s)

	next := s
	next.MaxLoanTerm = 120
	next.MaintenanceMode = true

	_, err = h.svc.Settings.Update(ctx, m.lender, next)
	assert.ErrorIs(t, err, ErrForbidden)

	saved, err := h.svc.Settings.Update(ctx, m.admin, next)
	require.NoError(t, err)
	assert.Equal(t, 120, saved.MaxLoanTerm)
	assert.True(t, saved.UpdatedAt.Equal(fixedNow))

	invalid := []func(s *model.Settings){
		func(s *model.Settings) { s.MaxLoanAmount = 10 },
		func(s *model.Settings) { s.MinCreditScore = 900 },
		func(s *model.Settings) { s.MaxLoanTerm = 0 },
		func(s *model.Settings) { s.AutoApprovalThreshold = 101 },
	}
	for _, mutate := range invalid {
		bad := next
		mutate(&bad)
		_, err := h.svc.Settings.Update(ctx, m.admin, bad)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	reset, err := h.svc.Settings.Reset(ctx, m.admin)
	require.NoError(t, err)
	assert.Equal(t, 60, reset.MaxLoanTerm)
	assert.False(t, reset.MaintenanceMode)
}

func TestAnalyticsService(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)
	app, err := h.svc.Applications.Create(ctx, m.borrower, validApplication(m.lenderProfile.ID))
	require.NoError(t, err)
	_, err = h.svc.Applications.UpdateStatus(ctx, m.lender, app.ID, StatusUpdate{Status: model.StatusApproved})
	require.NoError(t, err)

	_, err = h.svc.Analytics.Platform(ctx, m.lender)
	assert.ErrorIs(t, err, ErrForbidden)

	p, err := h.svc.Analytics.Platform(ctx, m.admin)
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalUsers)
	assert.Equal(t, 1, p.TotalLenders)
	assert.Equal(t, 1, p.TotalApplications)
	assert.Equal(t, 100.0, p.ApprovalRate)

	l, err := h.svc.Analytics.Lender(ctx, m.lender)
	require.NoError(t, err)
	assert.Equal(t, "ABC Finance", l.Lender.CompanyName)
	assert.Equal(t, 1, l.Performance.ApprovedApplications)
	assert.Equal(t, 1, l.Performance.RiskDistribution.Low)

	_, err = h.svc.Analytics.Lender(ctx, m.admin)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReportService(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)
	_, err := h.svc.Applications.Create(ctx, m.borrower, validApplication(m.lenderProfile.ID))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, h.svc.Reports.LenderCSV(ctx, m.lender, &buf))
	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Applications"}, rows[0])
	assert.Equal(t, "ID", rows[1][0])
	assert.Equal(t, "200000", rows[2][2])
	assert.Equal(t, "PENDING", rows[2][6])
	assert.Equal(t, "low", rows[2][9])
	assert.Equal(t, []string{"Rules"}, rows[3])
	assert.Equal(t, "Salaried", rows[5][1])
	assert.Equal(t, "21-60", rows[5][4])

	buf.Reset()
	require.NoError(t, h.svc.Reports.LenderText(ctx, m.lender, &buf))
	text := buf.String()
	assert.True(t, strings.HasPrefix(text, "LENDER ANALYTICS REPORT\n"))
	assert.Contains(t, text, "Lender: ABC Finance")
	assert.Contains(t, text, "  Pending:      1")

	buf.Reset()
	assert.ErrorIs(t, h.svc.Reports.PlatformCSV(ctx, m.lender, &buf), ErrForbidden)
	require.NoError(t, h.svc.Reports.PlatformCSV(ctx, m.admin, &buf))
	assert.Contains(t, buf.String(), "Total Applications,1")
	assert.Contains(t, buf.String(), "ABC Finance,1,0.00")
}

func TestCalculatorService(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)
	calc := h.svc.Calculator

	d := calc.Defaults()
	assert.Equal(t, CalculatorDefaults{LoanAmount: 100000, InterestRate: 8.5, TenureYears: 5, ProcessingFee: 500}, d)

	t.Run("defaults with schedule", func(t *testing.T) {
		q, err := calc.Quote(ctx, m.borrower, QuoteRequest{IncludeSchedule: true})
		require.NoError(t, err)

		want := lending.Calculate(lending.LoanInput{Principal: 100000, AnnualRate: 8.5, Months: 60, ProcessingFee: 500})
		assert.Equal(t, want, q.LoanQuote)
		assert.Len(t, q.Schedule, 60)
		assert.Zero(t, q.Schedule[59].Balance)
		assert.Equal(t, lending.AffordabilityExcellent, q.Affordability.Tier)
	})

	t.Run("profile income drives affordability", func(t *testing.T) {
		req := QuoteRequest{LoanAmount: 1000000, InterestRate: 10, TenureMonths: 12}
		q, err := calc.Quote(ctx, m.borrower, req)
		require.NoError(t, err)
		assert.Equal(t, lending.AffordabilityLimited, q.Affordability.Tier)
		assert.Nil(t, q.Schedule)

		req.MonthlyIncome = 400000
		q, err = calc.Quote(ctx, m.borrower, req)
		require.NoError(t, err)
		assert.Equal(t, lending.AffordabilityExcellent, q.Affordability.Tier)
	})

	t.Run("explicit zero fee", func(t *testing.T) {
		zero := 0.0
		q, err := calc.Quote(ctx, m.borrower, QuoteRequest{ProcessingFee: &zero})
		require.NoError(t, err)
		assert.Zero(t, q.ProcessingFee)
	})

	t.Run("validation", func(t *testing.T) {
		for _, req := range []QuoteRequest{
			{LoanAmount: -1},
			{InterestRate: 101},
			{TenureMonths: -3},
			{MonthlyIncome: -5},
		} {
			_, err := calc.Quote(ctx, m.borrower, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		}
	})
}
