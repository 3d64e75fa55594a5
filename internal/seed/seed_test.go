package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"lendflow/internal/auth"
	"lendflow/internal/model"
	"lendflow/internal/repository"
	"lendflow/internal/repository/memory"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newLoader() (*Loader, repository.Set) {
	repos := memory.New().Set()
	return NewLoader(repos, bcrypt.MinCost, func() time.Time { return fixedNow }), repos
}

func TestDefault_LoadsDemoMarketplace(t *testing.T) {
	l, repos := newLoader()
	ctx := context.Background()

	res, err := l.Load(ctx, Default())
	require.NoError(t, err)
	assert.Equal(t, &Result{Users: 3, Lenders: 1, Rules: 2, Applications: 2}, res)

	cust, err := repos.Users.FindByUsername(ctx, "cust1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleBorrower, cust.Role)
	assert.True(t, cust.IsActive)
	assert.NoError(t, auth.CheckPassword(cust.PasswordHash, "password123"))
	require.NotNil(t, cust.DateOfBirth)

	lenderUser, err := repos.Users.FindByUsername(ctx, "lender1")
	require.NoError(t, err)
	lender, err := repos.Lenders.FindByUserID(ctx, lenderUser.ID)
	require.NoError(t, err)
	assert.Equal(t, "ABC Finance", lender.CompanyName)
	assert.Equal(t, 8.5, lender.InterestRateRange.Min)

	apps, err := repos.Applications.List(ctx, repository.ApplicationFilter{BorrowerID: cust.ID}, repository.All)
	require.NoError(t, err)
	require.Len(t, apps.Items, 2)

	byStatus := map[model.ApplicationStatus]model.LoanApplication{}
	for _, a := range apps.Items {
		byStatus[a.Status] = a
	}
	pending := byStatus[model.StatusPending]
	assert.Equal(t, 250000.0, pending.RequestedAmount)
	assert.Equal(t, 10.5, pending.InterestRate)
	assert.Equal(t, 75000.0, pending.MonthlyIncome)
	assert.Equal(t, 85, pending.EligibilityScore)
	assert.NotNil(t, pending.RuleID)
	assert.Greater(t, pending.MonthlyEMI, 0.0)
	assert.Nil(t, pending.DecisionDate)

	approved := byStatus[model.StatusApproved]
	require.NotNil(t, approved.DecisionDate)
	assert.Equal(t, "lender1", approved.DecisionBy)
}

func TestParse_Settings(t *testing.T) {
	f, err := Parse(strings.NewReader(`
settings:
  maxLoanAmount: 500000
  minCreditScore: 600
  maxLoanTerm: 48
  autoApprovalThreshold: 75
  notificationEnabled: true
`))
	require.NoError(t, err)

	l, repos := newLoader()
	_, err = l.Load(context.Background(), f)
	require.NoError(t, err)

	s, err := repos.Settings.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 500000.0, s.MaxLoanAmount)
	assert.Equal(t, 48, s.MaxLoanTerm)
	assert.Equal(t, fixedNow, s.UpdatedAt)
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Users)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse(strings.NewReader("users:\n  - username: a\n    salary: 10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse seed fixture")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fixture string
		wantErr string
	}{
		{
			name:    "unknown role",
			fixture: "users:\n  - {username: a, password: x, role: GUEST}\n",
			wantErr: `seed user "a": unknown role "GUEST"`,
		},
		{
			name:    "missing password",
			fixture: "users:\n  - {username: a}\n",
			wantErr: "password is required",
		},
		{
			name:    "duplicate username",
			fixture: "users:\n  - {username: a, password: x}\n  - {username: A, password: y}\n",
			wantErr: repository.ErrDuplicate.Error(),
		},
		{
			name:    "lender owner not a lender",
			fixture: "users:\n  - {username: a, password: x}\nlenders:\n  - {owner: a, companyName: Acme}\n",
			wantErr: `owner "a" is not a lender`,
		},
		{
			name:    "rule for unknown lender",
			fixture: "rules:\n  - {lender: Nobody, ruleName: r}\n",
			wantErr: `unknown lender "Nobody"`,
		},
		{
			name: "application with unknown rule",
			fixture: `users:
  - {username: b, password: x}
  - {username: l, password: x, role: LENDER}
lenders:
  - {owner: l, companyName: Acme}
applications:
  - {borrower: b, lender: Acme, rule: Gold, requestedAmount: 5000, loanTerm: 12}
`,
			wantErr: `unknown rule "Gold" for lender "Acme"`,
		},
		{
			name: "application with bad status",
			fixture: `users:
  - {username: b, password: x}
  - {username: l, password: x, role: LENDER}
lenders:
  - {owner: l, companyName: Acme}
applications:
  - {borrower: b, lender: Acme, status: LOST, requestedAmount: 5000, loanTerm: 12}
`,
			wantErr: `unknown status "LOST"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(strings.NewReader(tt.fixture))
			require.NoError(t, err)

			l, _ := newLoader()
			_, err = l.Load(context.Background(), f)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ApplicationDefaultsToLenderMinRate(t *testing.T) {
	f, err := Parse(strings.NewReader(`users:
  - {username: b, password: x, monthlyIncome: 40000, creditScore: 700, employmentStatus: EMPLOYED}
  - {username: l, password: x, role: LENDER}
lenders:
  - {owner: l, companyName: Acme, interestRate: {min: 9, max: 14}}
applications:
  - {borrower: b, lender: Acme, requestedAmount: 50000, loanTerm: 12, creditScore: 780}
`))
	require.NoError(t, err)

	l, repos := newLoader()
	_, err = l.Load(context.Background(), f)
	require.NoError(t, err)

	app, err := repos.Applications.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 9.0, app.InterestRate)
	assert.Equal(t, 780, app.CreditScore)
	assert.Equal(t, 40000.0, app.MonthlyIncome)
	assert.Nil(t, app.RuleID)
	assert.Equal(t, fixedNow, app.CreatedAt)
}
