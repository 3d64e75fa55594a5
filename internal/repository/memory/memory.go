// Package memory implements the repository contracts in process memory.
// It backs the DATA_SOURCE=memory mode and the service tests. Records are
// stored by value so callers never share state with the store.
package memory

import (
	"sort"
	"sync"

	"lendflow/internal/repository"
)

// table is a mutex-guarded auto-increment collection.
type table[T any] struct {
	mu   sync.RWMutex
	rows map[int64]T
	seq  int64
	id   func(*T) *int64
}

func newTable[T any](id func(*T) *int64) *table[T] {
	return &table[T]{rows: make(map[int64]T), id: id}
}

// insert assigns the next id to v unless conflict reports a clash with an existing row.
func (t *table[T]) insert(v T, conflict func(existing T) bool) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if conflict != nil {
		for _, row := range t.rows {
			if conflict(row) {
				var zero T
				return zero, repository.ErrDuplicate
			}
		}
	}
	t.seq++
	*t.id(&v) = t.seq
	t.rows[t.seq] = v
	return v, nil
}

func (t *table[T]) get(id int64) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, repository.ErrNotFound
	}
	return v, nil
}

// find returns the first row, by id, matching keep.
func (t *table[T]) find(keep func(T) bool) (T, error) {
	items := t.selectRows(keep, nil)
	if len(items) == 0 {
		var zero T
		return zero, repository.ErrNotFound
	}
	return items[0], nil
}

// update replaces the row with v's id. mutate may merge the stored row into v first.
func (t *table[T]) update(v T, mutate func(stored T, next *T)) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := *t.id(&v)
	stored, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, repository.ErrNotFound
	}
	if mutate != nil {
		mutate(stored, &v)
	}
	t.rows[id] = v
	return v, nil
}

func (t *table[T]) remove(id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

// selectRows returns matching rows sorted by less, or by id when less is nil.
func (t *table[T]) selectRows(keep func(T) bool, less func(a, b T) bool) []T {
	t.mu.RLock()
	items := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if keep == nil || keep(row) {
			items = append(items, row)
		}
	}
	t.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if less != nil {
			return less(items[i], items[j])
		}
		return *t.id(&items[i]) < *t.id(&items[j])
	})
	return items
}

// page filters, sorts and slices the table.
func (t *table[T]) page(keep func(T) bool, less func(a, b T) bool, pq repository.PageQuery) *repository.PageResult[T] {
	items := t.selectRows(keep, less)
	total := len(items)

	start := pq.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if pq.Limit > 0 && start+pq.Limit < end {
		end = start + pq.Limit
	}
	return &repository.PageResult[T]{Items: items[start:end], Total: total}
}
