package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendflow/internal/model"
	"lendflow/internal/repository"
)

var lenderCols = []string{"id", "user_id", "company_name", "lending_license", "min_loan_amount", "max_loan_amount",
	"min_credit_score", "min_monthly_income", "min_age", "max_age", "interest_rate_min", "interest_rate_max",
	"loan_terms", "specializations", "is_active", "created_at", "updated_at"}

var ruleCols = []string{"id", "lender_id", "rule_name", "min_monthly_income", "min_loan_amount", "max_loan_amount",
	"min_credit_score", "min_age", "max_age", "employment_types", "interest_rate", "processing_fee", "is_active",
	"created_at", "updated_at"}

func TestLenderPostgres_CreateStoresJSONColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLenderPostgres(db)
	now := time.Now().UTC()
	l := &model.Lender{
		UserID:            3,
		CompanyName:       "ABC Finance",
		MinLoanAmount:     50000,
		MaxLoanAmount:     5000000,
		MinCreditScore:    650,
		InterestRateRange: model.RateRange{Min: 10.5, Max: 18},
		LoanTerms:         []int{12, 24, 36},
		Specializations:   []string{"Personal Loans"},
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	mock.ExpectQuery("INSERT INTO lenders").
		WithArgs(l.UserID, l.CompanyName, "", l.MinLoanAmount, l.MaxLoanAmount, l.MinCreditScore, 0.0, 0, 0,
			10.5, 18.0, "[12,24,36]", `["Personal Loans"]`, true, now, now).
		WillReturnRows(sqlmock.NewRows(lenderCols).AddRow(1, 3, "ABC Finance", "", 50000.0, 5000000.0, 650, 0.0, 0, 0,
			10.5, 18.0, []byte("[12,24,36]"), []byte(`["Personal Loans"]`), true, now, now))

	got, err := repo.Create(context.Background(), l)

	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, []int{12, 24, 36}, got.LoanTerms)
	assert.Equal(t, []string{"Personal Loans"}, got.Specializations)
	assert.Equal(t, 18.0, got.InterestRateRange.Max)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLenderPostgres_ListActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLenderPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM lenders WHERE is_active = \\$1").
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("FROM lenders WHERE is_active = \\$1 ORDER BY id").
		WithArgs(true, nil, 0).
		WillReturnRows(sqlmock.NewRows(lenderCols).AddRow(1, 3, "ABC Finance", "", 50000.0, 5000000.0, 650, 0.0, 21, 60,
			10.5, 18.0, nil, "[]", true, now, now))

	res, err := repo.List(context.Background(), repository.LenderFilter{ActiveOnly: true}, repository.All)

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, []int{}, res.Items[0].LoanTerms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRulePostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRulePostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("list by lender", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM lender_rules WHERE lender_id = \\$1 AND is_active = \\$2").
			WithArgs(int64(1), true).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("FROM lender_rules WHERE (.+) ORDER BY id").
			WithArgs(int64(1), true, nil, 0).
			WillReturnRows(sqlmock.NewRows(ruleCols).AddRow(4, 1, "Standard", 30000.0, 50000.0, 1000000.0, 650, 21, 60,
				`["EMPLOYED","SELF_EMPLOYED"]`, 12.5, 1000.0, true, now, now))

		res, err := repo.List(ctx, repository.RuleFilter{LenderID: 1, ActiveOnly: true}, repository.All)

		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, []string{"EMPLOYED", "SELF_EMPLOYED"}, res.Items[0].EmploymentTypes)
	})

	t.Run("delete missing", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM lender_rules").
			WithArgs(int64(8)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, 8), repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
