// Package migration creates the marketplace schema on first start.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// sentinelTable marks an initialized schema.
const sentinelTable = "users"

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id                BIGSERIAL        PRIMARY KEY,
  username          TEXT             NOT NULL,
  email             TEXT             NOT NULL DEFAULT '',
  password_hash     TEXT             NOT NULL,
  role              TEXT             NOT NULL CHECK (role IN ('ADMIN', 'LENDER', 'BORROWER')),
  first_name        TEXT             NOT NULL DEFAULT '',
  last_name         TEXT             NOT NULL DEFAULT '',
  phone             TEXT             NOT NULL DEFAULT '',
  company           TEXT             NOT NULL DEFAULT '',
  lending_license   TEXT             NOT NULL DEFAULT '',
  date_of_birth     DATE,
  address           TEXT             NOT NULL DEFAULT '',
  city              TEXT             NOT NULL DEFAULT '',
  state             TEXT             NOT NULL DEFAULT '',
  pincode           TEXT             NOT NULL DEFAULT '',
  monthly_income    DOUBLE PRECISION NOT NULL DEFAULT 0,
  credit_score      INTEGER          NOT NULL DEFAULT 0,
  employment_status TEXT             NOT NULL DEFAULT '',
  is_active         BOOLEAN          NOT NULL DEFAULT TRUE,
  created_at        TIMESTAMPTZ      NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_users_username",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users (lower(username));`,
	},
	{
		Name: "create_table_lenders",
		SQL: `CREATE TABLE IF NOT EXISTS lenders (
  id                 BIGSERIAL        PRIMARY KEY,
  user_id            BIGINT           NOT NULL UNIQUE REFERENCES users (id) ON DELETE CASCADE,
  company_name       TEXT             NOT NULL,
  lending_license    TEXT             NOT NULL DEFAULT '',
  min_loan_amount    DOUBLE PRECISION NOT NULL DEFAULT 0,
  max_loan_amount    DOUBLE PRECISION NOT NULL DEFAULT 0,
  min_credit_score   INTEGER          NOT NULL DEFAULT 0,
  min_monthly_income DOUBLE PRECISION NOT NULL DEFAULT 0,
  min_age            INTEGER          NOT NULL DEFAULT 0,
  max_age            INTEGER          NOT NULL DEFAULT 0,
  interest_rate_min  DOUBLE PRECISION NOT NULL DEFAULT 0,
  interest_rate_max  DOUBLE PRECISION NOT NULL DEFAULT 0,
  loan_terms         JSONB            NOT NULL DEFAULT '[]',
  specializations    JSONB            NOT NULL DEFAULT '[]',
  is_active          BOOLEAN          NOT NULL DEFAULT TRUE,
  created_at         TIMESTAMPTZ      NOT NULL DEFAULT now(),
  updated_at         TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_lender_rules",
		SQL: `CREATE TABLE IF NOT EXISTS lender_rules (
  id                 BIGSERIAL        PRIMARY KEY,
  lender_id          BIGINT           NOT NULL REFERENCES lenders (id) ON DELETE CASCADE,
  rule_name          TEXT             NOT NULL,
  min_monthly_income DOUBLE PRECISION NOT NULL DEFAULT 0,
  min_loan_amount    DOUBLE PRECISION NOT NULL DEFAULT 0,
  max_loan_amount    DOUBLE PRECISION NOT NULL DEFAULT 0,
  min_credit_score   INTEGER          NOT NULL DEFAULT 0,
  min_age            INTEGER          NOT NULL DEFAULT 0,
  max_age            INTEGER          NOT NULL DEFAULT 0,
  employment_types   JSONB            NOT NULL DEFAULT '[]',
  interest_rate      DOUBLE PRECISION NOT NULL DEFAULT 0,
  processing_fee     DOUBLE PRECISION NOT NULL DEFAULT 0,
  is_active          BOOLEAN          NOT NULL DEFAULT TRUE,
  created_at         TIMESTAMPTZ      NOT NULL DEFAULT now(),
  updated_at         TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_lender_rules_lender_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_lender_rules_lender_id ON lender_rules (lender_id);`,
	},
	{
		Name: "create_table_loan_applications",
		SQL: `CREATE TABLE IF NOT EXISTS loan_applications (
  id                BIGSERIAL        PRIMARY KEY,
  borrower_id       BIGINT           NOT NULL REFERENCES users (id),
  lender_id         BIGINT           NOT NULL REFERENCES lenders (id),
  rule_id           BIGINT           REFERENCES lender_rules (id) ON DELETE SET NULL,
  requested_amount  DOUBLE PRECISION NOT NULL CHECK (requested_amount > 0),
  loan_amount       DOUBLE PRECISION NOT NULL DEFAULT 0,
  loan_purpose      TEXT             NOT NULL,
  loan_term         INTEGER          NOT NULL CHECK (loan_term > 0),
  interest_rate     DOUBLE PRECISION NOT NULL DEFAULT 0,
  status            TEXT             NOT NULL DEFAULT 'PENDING',
  eligibility_score INTEGER          NOT NULL DEFAULT 0,
  monthly_income    DOUBLE PRECISION NOT NULL DEFAULT 0,
  credit_score      INTEGER          NOT NULL DEFAULT 0,
  employment_status TEXT             NOT NULL DEFAULT '',
  monthly_emi       DOUBLE PRECISION NOT NULL DEFAULT 0,
  total_interest    DOUBLE PRECISION NOT NULL DEFAULT 0,
  total_amount      DOUBLE PRECISION NOT NULL DEFAULT 0,
  comments          TEXT             NOT NULL DEFAULT '',
  decision_date     TIMESTAMPTZ,
  decision_by       TEXT             NOT NULL DEFAULT '',
  created_at        TIMESTAMPTZ      NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_loan_applications_borrower_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_loan_applications_borrower_id ON loan_applications (borrower_id);`,
	},
	{
		Name: "create_index_loan_applications_lender_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_loan_applications_lender_status ON loan_applications (lender_id, status);`,
	},
	{
		Name: "create_table_notifications",
		SQL: `CREATE TABLE IF NOT EXISTS notifications (
  id         BIGSERIAL   PRIMARY KEY,
  user_id    BIGINT      NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  type       TEXT        NOT NULL,
  title      TEXT        NOT NULL,
  message    TEXT        NOT NULL,
  is_read    BOOLEAN     NOT NULL DEFAULT FALSE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_notifications_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications (user_id, is_read);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id             BIGSERIAL   PRIMARY KEY,
  owner_id       BIGINT      NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  application_id BIGINT      REFERENCES loan_applications (id) ON DELETE SET NULL,
  doc_type       TEXT        NOT NULL,
  status         TEXT        NOT NULL DEFAULT 'PENDING',
  filename       TEXT        NOT NULL,
  storage_path   TEXT        NOT NULL UNIQUE,
  size           BIGINT      NOT NULL CHECK (size >= 0),
  content_type   TEXT        NOT NULL,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_owner_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_owner_id ON documents (owner_id);`,
	},
	{
		Name: "create_table_settings",
		SQL: `CREATE TABLE IF NOT EXISTS settings (
  id                      SMALLINT         PRIMARY KEY CHECK (id = 1),
  max_loan_amount         DOUBLE PRECISION NOT NULL,
  min_credit_score        INTEGER          NOT NULL,
  max_loan_term           INTEGER          NOT NULL,
  auto_approval_threshold INTEGER          NOT NULL,
  notification_enabled    BOOLEAN          NOT NULL,
  maintenance_mode        BOOLEAN          NOT NULL,
  updated_at              TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
}

// EnsureMigrated runs every step when the sentinel table is missing.
// An existing schema is left untouched.
func EnsureMigrated(ctx context.Context, db *sql.DB, log logrus.FieldLogger, dbHost string) error {
	start := time.Now()
	log = log.WithFields(logrus.Fields{"component": "database", "db_host": dbHost})

	log.WithField("event", "db_migration_check").Info("checking schema")

	var exists bool
	query := fmt.Sprintf("SELECT to_regclass('public.%s') IS NOT NULL", sentinelTable)
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.WithFields(logrus.Fields{
			"event":       "db_migration_failed",
			"duration_ms": time.Since(start).Milliseconds(),
		}).WithError(err).Error("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.WithFields(logrus.Fields{
			"event":       "db_migration_skip",
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("schema already exists, skipping migration")
		return nil
	}

	log.WithField("event", "db_migration_start").Info("migrating schema")

	for _, step := range steps {
		stepStart := time.Now()
		stepLog := log.WithField("migration_step", step.Name)

		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			stepLog.WithFields(logrus.Fields{
				"event":            "db_migration_failed",
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			}).WithError(err).Error("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		stepLog.WithFields(logrus.Fields{
			"event":            "db_migration_step",
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		}).Debug("migration step applied")
	}

	log.WithFields(logrus.Fields{
		"event":       "db_migration_success",
		"steps":       len(steps),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("schema migrated")

	return nil
}
