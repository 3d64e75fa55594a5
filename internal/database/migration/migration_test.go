package migration

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendflow/internal/logging"
)

func TestEnsureMigrated_SkipsExistingSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	mock.ExpectQuery("SELECT to_regclass\\('public.users'\\) IS NOT NULL").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err = EnsureMigrated(context.Background(), db, logging.New(&buf, time.UTC, "info"), "db")

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"event":"db_migration_skip"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureMigrated_RunsEveryStep(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT to_regclass").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	for range steps {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	var buf bytes.Buffer
	err = EnsureMigrated(context.Background(), db, logging.New(&buf, time.UTC, "info"), "db")

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"event":"db_migration_success"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureMigrated_StopsOnFailedStep(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT to_regclass").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("permission denied"))

	var buf bytes.Buffer
	err = EnsureMigrated(context.Background(), db, logging.New(&buf, time.UTC, "info"), "db")

	assert.ErrorContains(t, err, "migration step create_table_users failed")
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureMigrated_CheckFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT to_regclass").WillReturnError(errors.New("conn refused"))

	err = EnsureMigrated(context.Background(), db, logging.Discard(), "db")
	assert.ErrorContains(t, err, "failed to check sentinel table")
}
