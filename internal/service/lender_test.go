package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendflow/internal/model"
	"lendflow/internal/repository"
)

func TestLenderService_Create(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	admin := h.user(t, model.User{Username: "admin1", Role: model.RoleAdmin})
	bank := h.user(t, model.User{Username: "bank", Role: model.RoleLender})
	staff := h.user(t, model.User{Username: "staff", Role: model.RoleLender})
	cust := h.user(t, model.User{Username: "cust", Role: model.RoleBorrower})

	in := LenderInput{
		CompanyName: "  Bank Co ", MinLoanAmount: 5000, MaxLoanAmount: 500000, MinCreditScore: 650,
		InterestRateRange: model.RateRange{Min: 9, Max: 14}, LoanTerms: []int{12, 24},
	}
	l, err := h.svc.Lenders.Create(ctx, bank, in)
	require.NoError(t, err)
	assert.Equal(t, "Bank Co", l.CompanyName)
	assert.Equal(t, bank.UserID, l.UserID)
	assert.True(t, l.IsActive)

	_, err = h.svc.Lenders.Create(ctx, bank, in)
	assert.ErrorIs(t, err, ErrConflict)

	mine, err := h.svc.Lenders.Mine(ctx, bank)
	require.NoError(t, err)
	assert.Equal(t, l.ID, mine.ID)

	_, err = h.svc.Lenders.Create(ctx, cust, in)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = h.svc.Lenders.Create(ctx, admin, in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in.UserID = cust.UserID
	_, err = h.svc.Lenders.Create(ctx, admin, in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in.UserID = staff.UserID
	l2, err := h.svc.Lenders.Create(ctx, admin, in)
	require.NoError(t, err)
	assert.Equal(t, staff.UserID, l2.UserID)

	bad := in
	bad.UserID = 0
	bad.InterestRateRange = model.RateRange{Min: 20, Max: 10}
	_, err = h.svc.Lenders.Create(ctx, bank, bad)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLenderService_Update(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)
	other := h.user(t, model.User{Username: "lender2", Role: model.RoleLender})

	_, err := h.svc.Lenders.Update(ctx, other, m.lenderProfile.ID, LenderInput{CompanyName: "Hijack"})
	assert.ErrorIs(t, err, ErrForbidden)

	l, err := h.svc.Lenders.Update(ctx, m.lender, m.lenderProfile.ID, LenderInput{MaxLoanAmount: 2000000, IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "ABC Finance", l.CompanyName)
	assert.Equal(t, 2000000.0, l.MaxLoanAmount)
	assert.False(t, l.IsActive)

	_, err = h.svc.Lenders.Update(ctx, m.admin, m.lenderProfile.ID, LenderInput{MinLoanAmount: 5000000})
	assert.ErrorIs(t, err, ErrInvalidInput)

	res, err := h.svc.Lenders.List(ctx, true, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, res.Total)

	_, err = h.svc.Lenders.Get(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRuleService(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.marketplace(t)
	other := h.user(t, model.User{Username: "lender2", Role: model.RoleLender})
	otherProfile, err := h.store.Lenders.Create(ctx, &model.Lender{UserID: other.UserID, CompanyName: "XYZ", IsActive: true})
	require.NoError(t, err)

	in := RuleInput{
		RuleName: "Premium", MinMonthlyIncome: 75000, MinLoanAmount: 50000, MaxLoanAmount: 1000000,
		MinCreditScore: 750, MinAge: 25, MaxAge: 55, InterestRate: 9.5, ProcessingFee: 2000,
	}
	r, err := h.svc.Rules.Create(ctx, m.lender, in)
	require.NoError(t, err)
	assert.Equal(t, m.lenderProfile.ID, r.LenderID)
	assert.True(t, r.IsActive)

	in.LenderID = otherProfile.ID
	_, err = h.svc.Rules.Create(ctx, m.lender, in)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = h.svc.Rules.Create(ctx, m.admin, RuleInput{RuleName: "x", MinAge: 21, MaxAge: 60, MinCreditScore: 600, MaxLoanAmount: 5000})
	assert.ErrorIs(t, err, ErrInvalidInput, "admin must name the lender")

	invalidRules := []struct {
		name   string
		mutate func(in *RuleInput)
	}{
		{"missing name", func(in *RuleInput) { in.RuleName = "" }},
		{"min age below 18", func(in *RuleInput) { in.MinAge = 17 }},
		{"max age above 100", func(in *RuleInput) { in.MaxAge = 101 }},
		{"min age not below max", func(in *RuleInput) { in.MinAge = 55 }},
		{"credit score below 300", func(in *RuleInput) { in.MinCreditScore = 299 }},
		{"max amount below 1000", func(in *RuleInput) { in.MaxLoanAmount = 999; in.MinLoanAmount = 0 }},
		{"min amount above max", func(in *RuleInput) { in.MinLoanAmount = 2000000 }},
		{"negative income", func(in *RuleInput) { in.MinMonthlyIncome = -1 }},
		{"interest above 100", func(in *RuleInput) { in.InterestRate = 101 }},
		{"negative fee", func(in *RuleInput) { in.ProcessingFee = -5 }},
	}
	for _, tt := range invalidRules {
		t.Run(tt.name, func(t *testing.T) {
			bad := in
			bad.LenderID = 0
			tt.mutate(&bad)
			_, err := h.svc.Rules.Create(ctx, m.lender, bad)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	in.LenderID = 0
	in.InterestRate = 9
	in.IsActive = ptr(false)
	updated, err := h.svc.Rules.Update(ctx, m.lender, r.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 9.0, updated.InterestRate)
	assert.False(t, updated.IsActive)

	_, err = h.svc.Rules.Update(ctx, other, r.ID, in)
	assert.ErrorIs(t, err, ErrForbidden)

	res, err := h.svc.Rules.List(ctx, repository.RuleFilter{LenderID: m.lenderProfile.ID, ActiveOnly: true}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	assert.ErrorIs(t, h.svc.Rules.Delete(ctx, other, r.ID), ErrForbidden)
	require.NoError(t, h.svc.Rules.Delete(ctx, m.admin, r.ID))
	_, err = h.svc.Rules.Get(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
