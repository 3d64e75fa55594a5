package postgres

import (
	"context"
	"database/sql"

	"lendflow/internal/model"
	"lendflow/internal/repository"
)

const userColumns = `id, username, email, password_hash, role, first_name, last_name, phone, company,
		lending_license, date_of_birth, address, city, state, pincode, monthly_income, credit_score,
		employment_status, is_active, created_at, updated_at`

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

func scanUser(row scanner) (*model.User, error) {
	var u model.User
	if err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.FirstName, &u.LastName, &u.Phone, &u.Company,
		&u.LendingLicense, &u.DateOfBirth, &u.Address, &u.City, &u.State, &u.Pincode, &u.MonthlyIncome, &u.CreditScore,
		&u.EmploymentStatus, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

// Create inserts a user and returns the stored row.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	q := `
		INSERT INTO users (username, email, password_hash, role, first_name, last_name, phone, company,
			lending_license, date_of_birth, address, city, state, pincode, monthly_income, credit_score,
			employment_status, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, q,
		u.Username, u.Email, u.PasswordHash, u.Role, u.FirstName, u.LastName, u.Phone, u.Company,
		u.LendingLicense, u.DateOfBirth, u.Address, u.City, u.State, u.Pincode, u.MonthlyIncome, u.CreditScore,
		u.EmploymentStatus, u.IsActive, u.CreatedAt, u.UpdatedAt,
	))
}

// FindByID fetches a single user.
func (r *UserPostgres) FindByID(ctx context.Context, id int64) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// FindByUsername fetches a user by login name, case-insensitively.
func (r *UserPostgres) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE lower(username) = lower($1)`
	return scanUser(r.db.QueryRowContext(ctx, q, username))
}

// List returns users ordered by id.
func (r *UserPostgres) List(ctx context.Context, f repository.UserFilter, pq repository.PageQuery) (*repository.PageResult[model.User], error) {
	w := &where{}
	if f.Role != "" {
		w.add("role = $%d", f.Role)
	}
	if f.Search != "" {
		w.add("(username ILIKE '%%' || $%[1]d || '%%' OR email ILIKE '%%' || $%[1]d || '%%')", f.Search)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + userColumns + ` FROM users` + w.String() + ` ORDER BY id` + w.page(pq)
	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.User]{Items: items, Total: total}, nil
}

// Update overwrites every mutable column of u.
func (r *UserPostgres) Update(ctx context.Context, u *model.User) (*model.User, error) {
	q := `
		UPDATE users SET email = $2, password_hash = $3, role = $4, first_name = $5, last_name = $6, phone = $7,
			company = $8, lending_license = $9, date_of_birth = $10, address = $11, city = $12, state = $13,
			pincode = $14, monthly_income = $15, credit_score = $16, employment_status = $17, is_active = $18,
			updated_at = $19
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, q,
		u.ID, u.Email, u.PasswordHash, u.Role, u.FirstName, u.LastName, u.Phone,
		u.Company, u.LendingLicense, u.DateOfBirth, u.Address, u.City, u.State,
		u.Pincode, u.MonthlyIncome, u.CreditScore, u.EmploymentStatus, u.IsActive,
		u.UpdatedAt,
	))
}

// Delete removes a user.
func (r *UserPostgres) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
