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

var applicationCols = []string{"id", "borrower_id", "lender_id", "rule_id", "requested_amount", "loan_amount",
	"loan_purpose", "loan_term", "interest_rate", "status", "eligibility_score", "monthly_income", "credit_score",
	"employment_status", "monthly_emi", "total_interest", "total_amount", "comments", "decision_date", "decision_by",
	"created_at", "updated_at"}

func TestApplicationPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewApplicationPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM loan_applications WHERE lender_id = \\$1 AND status = \\$2").
		WithArgs(int64(1), "PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("FROM loan_applications WHERE (.+) ORDER BY created_at DESC").
		WithArgs(int64(1), "PENDING", 20, 0).
		WillReturnRows(sqlmock.NewRows(applicationCols).AddRow(10, 2, 1, nil, 500000.0, 500000.0,
			"Home renovation", 36, 12.5, "PENDING", 85, 75000.0, 720, "EMPLOYED", 16726.0, 102136.0, 602136.0,
			"", nil, "", now, now))

	res, err := repo.List(context.Background(),
		repository.ApplicationFilter{LenderID: 1, Status: model.StatusPending},
		repository.PageQuery{Limit: 20})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Items, 1)
	app := res.Items[0]
	assert.Nil(t, app.RuleID)
	assert.Nil(t, app.DecisionDate)
	assert.Equal(t, model.StatusPending, app.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationPostgres_UpdateStampsDecision(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewApplicationPostgres(db)
	now := time.Now().UTC()
	ruleID := int64(4)
	app := &model.LoanApplication{
		ID:           10,
		RuleID:       &ruleID,
		LoanAmount:   500000,
		LoanTerm:     36,
		InterestRate: 12.5,
		Status:       model.StatusApproved,
		DecisionDate: &now,
		DecisionBy:   "lender1",
		UpdatedAt:    now,
	}

	mock.ExpectQuery("UPDATE loan_applications SET").
		WithArgs(app.ID, ruleID, app.LoanAmount, app.LoanTerm, app.InterestRate, "APPROVED",
			0, 0.0, 0.0, 0.0, "", now, "lender1", now).
		WillReturnRows(sqlmock.NewRows(applicationCols).AddRow(10, 2, 1, 4, 500000.0, 500000.0,
			"Home renovation", 36, 12.5, "APPROVED", 85, 75000.0, 720, "EMPLOYED", 0.0, 0.0, 0.0,
			"", now, "lender1", now, now))

	got, err := repo.Update(context.Background(), app)

	require.NoError(t, err)
	require.NotNil(t, got.RuleID)
	assert.Equal(t, ruleID, *got.RuleID)
	require.NotNil(t, got.DecisionDate)
	assert.Equal(t, "lender1", got.DecisionBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationPostgres_FindByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM loan_applications WHERE id = \\$1").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(applicationCols))

	_, err = NewApplicationPostgres(db).FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
