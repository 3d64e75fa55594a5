package postgres

import (
	"context"
	"database/sql"

	"lendflow/internal/model"
	"lendflow/internal/repository"
)

const ruleColumns = `id, lender_id, rule_name, min_monthly_income, min_loan_amount, max_loan_amount, min_credit_score,
		min_age, max_age, employment_types, interest_rate, processing_fee, is_active, created_at, updated_at`

// RulePostgres is a PostgreSQL implementation of repository.RuleRepository.
type RulePostgres struct {
	db *sql.DB
}

// NewRulePostgres creates a new RulePostgres repository.
func NewRulePostgres(db *sql.DB) *RulePostgres {
	return &RulePostgres{db: db}
}

var _ repository.RuleRepository = (*RulePostgres)(nil)

func scanRule(row scanner) (*model.LenderRule, error) {
	var r model.LenderRule
	if err := row.Scan(
		&r.ID, &r.LenderID, &r.RuleName, &r.MinMonthlyIncome, &r.MinLoanAmount, &r.MaxLoanAmount, &r.MinCreditScore,
		&r.MinAge, &r.MaxAge, jsonOf(&r.EmploymentTypes), &r.InterestRate, &r.ProcessingFee, &r.IsActive,
		&r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &r, nil
}

// Create inserts a rule.
func (r *RulePostgres) Create(ctx context.Context, rule *model.LenderRule) (*model.LenderRule, error) {
	q := `
		INSERT INTO lender_rules (lender_id, rule_name, min_monthly_income, min_loan_amount, max_loan_amount,
			min_credit_score, min_age, max_age, employment_types, interest_rate, processing_fee, is_active,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + ruleColumns
	return scanRule(r.db.QueryRowContext(ctx, q,
		rule.LenderID, rule.RuleName, rule.MinMonthlyIncome, rule.MinLoanAmount, rule.MaxLoanAmount,
		rule.MinCreditScore, rule.MinAge, rule.MaxAge, jsonOf(&rule.EmploymentTypes), rule.InterestRate,
		rule.ProcessingFee, rule.IsActive, rule.CreatedAt, rule.UpdatedAt,
	))
}

// FindByID fetches a rule by id.
func (r *RulePostgres) FindByID(ctx context.Context, id int64) (*model.LenderRule, error) {
	return scanRule(r.db.QueryRowContext(ctx, `SELECT `+ruleColumns+` FROM lender_rules WHERE id = $1`, id))
}

// List returns rules ordered by id.
func (r *RulePostgres) List(ctx context.Context, f repository.RuleFilter, pq repository.PageQuery) (*repository.PageResult[model.LenderRule], error) {
	w := &where{}
	if f.LenderID > 0 {
		w.add("lender_id = $%d", f.LenderID)
	}
	if f.ActiveOnly {
		w.add("is_active = $%d", true)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lender_rules`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+ruleColumns+` FROM lender_rules`+w.String()+` ORDER BY id`+w.page(pq), w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.LenderRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.LenderRule]{Items: items, Total: total}, nil
}

// Update overwrites the mutable columns of a rule.
func (r *RulePostgres) Update(ctx context.Context, rule *model.LenderRule) (*model.LenderRule, error) {
	q := `
		UPDATE lender_rules SET rule_name = $2, min_monthly_income = $3, min_loan_amount = $4, max_loan_amount = $5,
			min_credit_score = $6, min_age = $7, max_age = $8, employment_types = $9, interest_rate = $10,
			processing_fee = $11, is_active = $12, updated_at = $13
		WHERE id = $1
		RETURNING ` + ruleColumns
	return scanRule(r.db.QueryRowContext(ctx, q,
		rule.ID, rule.RuleName, rule.MinMonthlyIncome, rule.MinLoanAmount, rule.MaxLoanAmount,
		rule.MinCreditScore, rule.MinAge, rule.MaxAge, jsonOf(&rule.EmploymentTypes), rule.InterestRate,
		rule.ProcessingFee, rule.IsActive, rule.UpdatedAt,
	))
}

// Delete removes a rule.
func (r *RulePostgres) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lender_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
