package memory

import (
	"context"

	"lendflow/internal/model"
	"lendflow/internal/repository"
)

// DocumentStore is an in-memory repository.DocumentRepository.
type DocumentStore struct {
	t *table[model.Document]
}

// NewDocumentStore creates an empty DocumentStore.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{t: newTable(func(d *model.Document) *int64 { return &d.ID })}
}

var _ repository.DocumentRepository = (*DocumentStore)(nil)

func (s *DocumentStore) Create(_ context.Context, doc *model.Document) (*model.Document, error) {
	out, err := s.t.insert(*doc, nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DocumentStore) FindByID(_ context.Context, id int64) (*model.Document, error) {
	d, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DocumentStore) List(_ context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	return s.t.page(func(d model.Document) bool {
		if f.OwnerID > 0 && d.OwnerID != f.OwnerID {
			return false
		}
		if f.ApplicationID > 0 && (d.ApplicationID == nil || *d.ApplicationID != f.ApplicationID) {
			return false
		}
		return f.Type == "" || d.Type == f.Type
	}, func(a, b model.Document) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	}, pq), nil
}

func (s *DocumentStore) UpdateStatus(_ context.Context, id int64, status model.DocumentStatus) (*model.Document, error) {
	d, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	d.Status = status
	out, err := s.t.update(d, nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DocumentStore) Delete(_ context.Context, id int64) error {
	return s.t.remove(id)
}
