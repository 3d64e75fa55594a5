package postgres

import (
	"context"
	"database/sql"
	"errors"

	"lendflow/internal/model"
	"lendflow/internal/repository"
)

// SettingsPostgres stores platform settings in a single-row table keyed by id 1.
type SettingsPostgres struct {
	db *sql.DB
}

// NewSettingsPostgres creates a new SettingsPostgres repository.
func NewSettingsPostgres(db *sql.DB) *SettingsPostgres {
	return &SettingsPostgres{db: db}
}

var _ repository.SettingsRepository = (*SettingsPostgres)(nil)

const settingsColumns = `max_loan_amount, min_credit_score, max_loan_term, auto_approval_threshold,
		notification_enabled, maintenance_mode, updated_at`

func scanSettings(row scanner) (model.Settings, error) {
	var s model.Settings
	err := row.Scan(&s.MaxLoanAmount, &s.MinCreditScore, &s.MaxLoanTerm, &s.AutoApprovalThreshold,
		&s.NotificationEnabled, &s.MaintenanceMode, &s.UpdatedAt)
	return s, err
}

// Get returns the saved settings or the defaults.
func (r *SettingsPostgres) Get(ctx context.Context) (model.Settings, error) {
	s, err := scanSettings(r.db.QueryRowContext(ctx, `SELECT `+settingsColumns+` FROM settings WHERE id = 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return model.Settings{}, err
	}
	return s, nil
}

// Save upserts the settings row.
func (r *SettingsPostgres) Save(ctx context.Context, s model.Settings) (model.Settings, error) {
	q := `
		INSERT INTO settings (id, max_loan_amount, min_credit_score, max_loan_term, auto_approval_threshold,
			notification_enabled, maintenance_mode, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			max_loan_amount = EXCLUDED.max_loan_amount,
			min_credit_score = EXCLUDED.min_credit_score,
			max_loan_term = EXCLUDED.max_loan_term,
			auto_approval_threshold = EXCLUDED.auto_approval_threshold,
			notification_enabled = EXCLUDED.notification_enabled,
			maintenance_mode = EXCLUDED.maintenance_mode,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + settingsColumns
	return scanSettings(r.db.QueryRowContext(ctx, q, s.MaxLoanAmount, s.MinCreditScore, s.MaxLoanTerm,
		s.AutoApprovalThreshold, s.NotificationEnabled, s.MaintenanceMode, s.UpdatedAt))
}
