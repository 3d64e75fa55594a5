package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendflow/internal/repository"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(sql.ErrNoRows), repository.ErrNotFound)

	dup := mapError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})
	assert.ErrorIs(t, dup, repository.ErrDuplicate)
	assert.Contains(t, dup.Error(), "users_username_key")

	other := errors.New("boom")
	assert.Equal(t, other, mapError(other))
}

func TestWhere(t *testing.T) {
	w := &where{}
	assert.Equal(t, "", w.String())

	w.add("role = $%d", "LENDER")
	w.add("(username ILIKE '%%' || $%[1]d || '%%')", "jo")
	assert.Equal(t, " WHERE role = $1 AND (username ILIKE '%' || $2 || '%')", w.String())

	assert.Equal(t, " LIMIT $3 OFFSET $4", w.page(repository.PageQuery{Limit: 5, Offset: -1}))
	assert.Equal(t, []any{"LENDER", "jo", 5, 0}, w.args)
}

func TestWhere_PageWithoutLimit(t *testing.T) {
	w := &where{}
	w.page(repository.All)
	assert.Equal(t, []any{nil, 0}, w.args)
}

func TestJSONList(t *testing.T) {
	var terms []int
	v, err := jsonOf(&terms).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	require.NoError(t, jsonOf(&terms).Scan([]byte("[12,24]")))
	assert.Equal(t, []int{12, 24}, terms)

	var names []string
	require.NoError(t, jsonOf(&names).Scan(nil))
	assert.Equal(t, []string{}, names)

	assert.Error(t, jsonOf(&names).Scan(42))
}
