// Package postgres implements the repository contracts on database/sql with
// parameterized queries. It contains no business logic.
package postgres

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"lendflow/internal/repository"
)

const uniqueViolation = "23505"

// NewSet wires every postgres repository to db.
func NewSet(db *sql.DB) repository.Set {
	return repository.Set{
		Users:         NewUserPostgres(db),
		Lenders:       NewLenderPostgres(db),
		Rules:         NewRulePostgres(db),
		Applications:  NewApplicationPostgres(db),
		Notifications: NewNotificationPostgres(db),
		Documents:     NewDocumentPostgres(db),
		Settings:      NewSettingsPostgres(db),
	}
}

type scanner interface {
	Scan(dest ...any) error
}

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

// requireAffected returns ErrNotFound when an update or delete touched nothing.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// where accumulates AND-ed conditions with positional arguments.
type where struct {
	clauses []string
	args    []any
}

// add appends cond, whose single %d is replaced by the argument position.
func (w *where) add(cond string, v any) {
	w.args = append(w.args, v)
	w.clauses = append(w.clauses, fmt.Sprintf(cond, len(w.args)))
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page appends LIMIT/OFFSET placeholders. A NULL limit means no limit.
func (w *where) page(pq repository.PageQuery) string {
	var limit any
	if pq.Limit > 0 {
		limit = pq.Limit
	}
	offset := pq.Offset
	if offset < 0 {
		offset = 0
	}
	w.args = append(w.args, limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}

// jsonList stores a slice in a JSONB column.
type jsonList[T any] struct {
	v *[]T
}

func (j jsonList[T]) Value() (driver.Value, error) {
	if j.v == nil || *j.v == nil {
		return "[]", nil
	}
	b, err := json.Marshal(*j.v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j jsonList[T]) Scan(src any) error {
	var b []byte
	switch s := src.(type) {
	case nil:
		*j.v = []T{}
		return nil
	case []byte:
		b = s
	case string:
		b = []byte(s)
	default:
		return fmt.Errorf("jsonList: unsupported source %T", src)
	}
	out := []T{}
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*j.v = out
	return nil
}

func jsonOf[T any](v *[]T) jsonList[T] { return jsonList[T]{v: v} }
