package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"lendflow/internal/auth"
	"lendflow/internal/model"
	"lendflow/internal/repository/memory"
	"lendflow/internal/storage"
	"lendflow/internal/toast"
)

const testPassword = "password123"

// harness wires every service to an in-memory data source.
type harness struct {
	store  *memory.Store
	svc    *Services
	toasts *toast.Queue
	reg    *prometheus.Registry
	tokens *auth.TokenIssuer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.New()
	tokens, err := auth.NewTokenIssuer("test-secret", "lendflow", time.Hour)
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	q := toast.NewQueue(0)
	t.Cleanup(q.Close)

	svc := New(Deps{
		Repos:         store.Set(),
		Storage:       storage.NewMemory("http://files.test", []byte("test-secret")),
		Tokens:        tokens,
		Toasts:        q,
		Metrics:       m,
		BcryptCost:    bcrypt.MinCost,
		PresignExpiry: time.Minute,
		Now:           clock,
	})
	return &harness{store: store, svc: svc, toasts: q, reg: reg, tokens: tokens}
}

func (h *harness) user(t *testing.T, u model.User) auth.Principal {
	t.Helper()
	hash, err := auth.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	u.PasswordHash = hash
	u.IsActive = true
	out, err := h.store.Users.Create(context.Background(), &u)
	require.NoError(t, err)
	return auth.Principal{UserID: out.ID, Username: out.Username, Role: out.Role}
}

// marketplace seeds an admin, a borrower and a lender with one salaried rule.
type marketplace struct {
	admin, borrower, lender auth.Principal
	lenderProfile           *model.Lender
	rule                    *model.LenderRule
}

func (h *harness) marketplace(t *testing.T) marketplace {
	t.Helper()
	ctx := context.Background()
	dob := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)

	var m marketplace
	m.admin = h.user(t, model.User{Username: "admin1", Role: model.RoleAdmin})
	m.borrower = h.user(t, model.User{
		Username: "cust1", Role: model.RoleBorrower, FirstName: "John", LastName: "Doe",
		DateOfBirth: &dob, MonthlyIncome: 50000, CreditScore: 750, EmploymentStatus: model.EmploymentEmployed,
	})
	m.lender = h.user(t, model.User{Username: "lender1", Role: model.RoleLender, Company: "ABC Finance"})

	l, err := h.store.Lenders.Create(ctx, &model.Lender{
		UserID: m.lender.UserID, CompanyName: "ABC Finance", MinLoanAmount: 10000, MaxLoanAmount: 1000000,
		MinCreditScore: 650, MinMonthlyIncome: 25000, MinAge: 21, MaxAge: 60,
		InterestRateRange: model.RateRange{Min: 8.5, Max: 15}, LoanTerms: []int{12, 24, 36},
		Specializations: []string{"Personal Loan"}, IsActive: true,
	})
	require.NoError(t, err)
	m.lenderProfile = l

	r, err := h.store.Rules.Create(ctx, &model.LenderRule{
		LenderID: l.ID, RuleName: "Salaried", MinMonthlyIncome: 25000, MinLoanAmount: 10000, MaxLoanAmount: 500000,
		MinCreditScore: 650, MinAge: 21, MaxAge: 60, EmploymentTypes: []string{model.EmploymentEmployed},
		InterestRate: 10.5, ProcessingFee: 1000, IsActive: true,
	})
	require.NoError(t, err)
	m.rule = r
	return m
}

func TestPageQuery(t *testing.T) {
	assert.Equal(t, 10, pageQuery(0, 0).Limit)
	assert.Equal(t, 100, pageQuery(1000, 0).Limit)
	assert.Equal(t, 0, pageQuery(5, -3).Offset)
	assert.Equal(t, 25, pageQuery(25, 50).Limit)
}

func TestRequireRole(t *testing.T) {
	assert.NoError(t, requireRole(admin, model.RoleAdmin, model.RoleLender))
	assert.ErrorIs(t, requireRole(borrower, model.RoleAdmin), ErrForbidden)
}
