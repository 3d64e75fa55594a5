package postgres

import (
	"context"
	"database/sql"

	"lendflow/internal/model"
	"lendflow/internal/repository"
)

const applicationColumns = `id, borrower_id, lender_id, rule_id, requested_amount, loan_amount, loan_purpose, loan_term,
		interest_rate, status, eligibility_score, monthly_income, credit_score, employment_status, monthly_emi,
		total_interest, total_amount, comments, decision_date, decision_by, created_at, updated_at`

// ApplicationPostgres is a PostgreSQL implementation of repository.ApplicationRepository.
type ApplicationPostgres struct {
	db *sql.DB
}

// NewApplicationPostgres creates a new ApplicationPostgres repository.
func NewApplicationPostgres(db *sql.DB) *ApplicationPostgres {
	return &ApplicationPostgres{db: db}
}

var _ repository.ApplicationRepository = (*ApplicationPostgres)(nil)

func scanApplication(row scanner) (*model.LoanApplication, error) {
	var a model.LoanApplication
	if err := row.Scan(
		&a.ID, &a.BorrowerID, &a.LenderID, &a.RuleID, &a.RequestedAmount, &a.LoanAmount, &a.LoanPurpose, &a.LoanTerm,
		&a.InterestRate, &a.Status, &a.EligibilityScore, &a.MonthlyIncome, &a.CreditScore, &a.EmploymentStatus,
		&a.MonthlyEMI, &a.TotalInterest, &a.TotalAmount, &a.Comments, &a.DecisionDate, &a.DecisionBy,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

// Create inserts an application.
func (r *ApplicationPostgres) Create(ctx context.Context, a *model.LoanApplication) (*model.LoanApplication, error) {
	q := `
		INSERT INTO loan_applications (borrower_id, lender_id, rule_id, requested_amount, loan_amount, loan_purpose,
			loan_term, interest_rate, status, eligibility_score, monthly_income, credit_score, employment_status,
			monthly_emi, total_interest, total_amount, comments, decision_date, decision_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING ` + applicationColumns
	return scanApplication(r.db.QueryRowContext(ctx, q,
		a.BorrowerID, a.LenderID, a.RuleID, a.RequestedAmount, a.LoanAmount, a.LoanPurpose,
		a.LoanTerm, a.InterestRate, a.Status, a.EligibilityScore, a.MonthlyIncome, a.CreditScore, a.EmploymentStatus,
		a.MonthlyEMI, a.TotalInterest, a.TotalAmount, a.Comments, a.DecisionDate, a.DecisionBy, a.CreatedAt, a.UpdatedAt,
	))
}

// FindByID fetches an application by id.
func (r *ApplicationPostgres) FindByID(ctx context.Context, id int64) (*model.LoanApplication, error) {
	return scanApplication(r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM loan_applications WHERE id = $1`, id))
}

// List returns applications, newest first.
func (r *ApplicationPostgres) List(ctx context.Context, f repository.ApplicationFilter, pq repository.PageQuery) (*repository.PageResult[model.LoanApplication], error) {
	w := &where{}
	if f.BorrowerID > 0 {
		w.add("borrower_id = $%d", f.BorrowerID)
	}
	if f.LenderID > 0 {
		w.add("lender_id = $%d", f.LenderID)
	}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM loan_applications`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + applicationColumns + ` FROM loan_applications` + w.String() + ` ORDER BY created_at DESC, id DESC` + w.page(pq)
	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.LoanApplication, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.LoanApplication]{Items: items, Total: total}, nil
}

// Update overwrites the reviewable columns of an application.
func (r *ApplicationPostgres) Update(ctx context.Context, a *model.LoanApplication) (*model.LoanApplication, error) {
	q := `
		UPDATE loan_applications SET rule_id = $2, loan_amount = $3, loan_term = $4, interest_rate = $5, status = $6,
			eligibility_score = $7, monthly_emi = $8, total_interest = $9, total_amount = $10, comments = $11,
			decision_date = $12, decision_by = $13, updated_at = $14
		WHERE id = $1
		RETURNING ` + applicationColumns
	return scanApplication(r.db.QueryRowContext(ctx, q,
		a.ID, a.RuleID, a.LoanAmount, a.LoanTerm, a.InterestRate, a.Status,
		a.EligibilityScore, a.MonthlyEMI, a.TotalInterest, a.TotalAmount, a.Comments,
		a.DecisionDate, a.DecisionBy, a.UpdatedAt,
	))
}
