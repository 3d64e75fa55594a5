package postgres

import (
	"context"
	"database/sql"

	"lendflow/internal/model"
	"lendflow/internal/repository"
)

const lenderColumns = `id, user_id, company_name, lending_license, min_loan_amount, max_loan_amount, min_credit_score,
		min_monthly_income, min_age, max_age, interest_rate_min, interest_rate_max, loan_terms, specializations,
		is_active, created_at, updated_at`

// LenderPostgres is a PostgreSQL implementation of repository.LenderRepository.
type LenderPostgres struct {
	db *sql.DB
}

// NewLenderPostgres creates a new LenderPostgres repository.
func NewLenderPostgres(db *sql.DB) *LenderPostgres {
	return &LenderPostgres{db: db}
}

var _ repository.LenderRepository = (*LenderPostgres)(nil)

func scanLender(row scanner) (*model.Lender, error) {
	var l model.Lender
	if err := row.Scan(
		&l.ID, &l.UserID, &l.CompanyName, &l.LendingLicense, &l.MinLoanAmount, &l.MaxLoanAmount, &l.MinCreditScore,
		&l.MinMonthlyIncome, &l.MinAge, &l.MaxAge, &l.InterestRateRange.Min, &l.InterestRateRange.Max,
		jsonOf(&l.LoanTerms), jsonOf(&l.Specializations), &l.IsActive, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &l, nil
}

// Create inserts a lender profile.
func (r *LenderPostgres) Create(ctx context.Context, l *model.Lender) (*model.Lender, error) {
	q := `
		INSERT INTO lenders (user_id, company_name, lending_license, min_loan_amount, max_loan_amount,
			min_credit_score, min_monthly_income, min_age, max_age, interest_rate_min, interest_rate_max,
			loan_terms, specializations, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + lenderColumns
	return scanLender(r.db.QueryRowContext(ctx, q,
		l.UserID, l.CompanyName, l.LendingLicense, l.MinLoanAmount, l.MaxLoanAmount,
		l.MinCreditScore, l.MinMonthlyIncome, l.MinAge, l.MaxAge, l.InterestRateRange.Min, l.InterestRateRange.Max,
		jsonOf(&l.LoanTerms), jsonOf(&l.Specializations), l.IsActive, l.CreatedAt, l.UpdatedAt,
	))
}

// FindByID fetches a lender by id.
func (r *LenderPostgres) FindByID(ctx context.Context, id int64) (*model.Lender, error) {
	return scanLender(r.db.QueryRowContext(ctx, `SELECT `+lenderColumns+` FROM lenders WHERE id = $1`, id))
}

// FindByUserID fetches the lender profile owned by a user.
func (r *LenderPostgres) FindByUserID(ctx context.Context, userID int64) (*model.Lender, error) {
	return scanLender(r.db.QueryRowContext(ctx, `SELECT `+lenderColumns+` FROM lenders WHERE user_id = $1`, userID))
}

// List returns lenders ordered by id.
func (r *LenderPostgres) List(ctx context.Context, f repository.LenderFilter, pq repository.PageQuery) (*repository.PageResult[model.Lender], error) {
	w := &where{}
	if f.ActiveOnly {
		w.add("is_active = $%d", true)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lenders`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+lenderColumns+` FROM lenders`+w.String()+` ORDER BY id`+w.page(pq), w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Lender, 0)
	for rows.Next() {
		l, err := scanLender(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Lender]{Items: items, Total: total}, nil
}

// Update overwrites the mutable columns of l.
func (r *LenderPostgres) Update(ctx context.Context, l *model.Lender) (*model.Lender, error) {
	q := `
		UPDATE lenders SET company_name = $2, lending_license = $3, min_loan_amount = $4, max_loan_amount = $5,
			min_credit_score = $6, min_monthly_income = $7, min_age = $8, max_age = $9, interest_rate_min = $10,
			interest_rate_max = $11, loan_terms = $12, specializations = $13, is_active = $14, updated_at = $15
		WHERE id = $1
		RETURNING ` + lenderColumns
	return scanLender(r.db.QueryRowContext(ctx, q,
		l.ID, l.CompanyName, l.LendingLicense, l.MinLoanAmount, l.MaxLoanAmount,
		l.MinCreditScore, l.MinMonthlyIncome, l.MinAge, l.MaxAge, l.InterestRateRange.Min,
		l.InterestRateRange.Max, jsonOf(&l.LoanTerms), jsonOf(&l.Specializations), l.IsActive, l.UpdatedAt,
	))
}
