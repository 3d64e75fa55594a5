package postgres

import (
	"context"
	"database/sql"

	"lendflow/internal/model"
	"lendflow/internal/repository"
)

const documentColumns = `id, owner_id, application_id, doc_type, status, filename, storage_path, size, content_type, created_at`

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

func scanDocument(row scanner) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.ApplicationID,
		&d.Type,
		&d.Status,
		&d.Filename,
		&d.StoragePath,
		&d.Size,
		&d.ContentType,
		&d.CreatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	q := `
		INSERT INTO documents (owner_id, application_id, doc_type, status, filename, storage_path, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + documentColumns
	return scanDocument(r.db.QueryRowContext(ctx, q,
		doc.OwnerID,
		doc.ApplicationID,
		doc.Type,
		doc.Status,
		doc.Filename,
		doc.StoragePath,
		doc.Size,
		doc.ContentType,
		doc.CreatedAt,
	))
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	return scanDocument(r.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	w := &where{}
	if f.OwnerID > 0 {
		w.add("owner_id = $%d", f.OwnerID)
	}
	if f.ApplicationID > 0 {
		w.add("application_id = $%d", f.ApplicationID)
	}
	if f.Type != "" {
		w.add("doc_type = $%d", f.Type)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + documentColumns + ` FROM documents` + w.String() + ` ORDER BY created_at DESC, id DESC` + w.page(pq)
	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// UpdateStatus sets the review status of a document.
func (r *DocumentPostgres) UpdateStatus(ctx context.Context, id int64, status model.DocumentStatus) (*model.Document, error) {
	q := `UPDATE documents SET status = $2 WHERE id = $1 RETURNING ` + documentColumns
	return scanDocument(r.db.QueryRowContext(ctx, q, id, status))
}

// Delete removes a document by ID.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
