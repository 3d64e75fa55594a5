package repository

import (
	"context"

	"lendflow/internal/model"
)

// DocumentFilter narrows document listings. Zero fields are ignored.
type DocumentFilter struct {
	OwnerID       int64
	ApplicationID int64
	Type          model.DocumentType
}

// DocumentRepository persists document metadata. File bytes live in object storage.
type DocumentRepository interface {
	// Create inserts a document and returns the stored record with its id.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// List returns a page of documents, newest first, and the filtered total.
	List(ctx context.Context, f DocumentFilter, pq PageQuery) (*PageResult[model.Document], error)

	// UpdateStatus sets the review status and returns the updated record.
	UpdateStatus(ctx context.Context, id int64, status model.DocumentStatus) (*model.Document, error)

	// Delete removes a document by ID.
	Delete(ctx context.Context, id int64) error
}
