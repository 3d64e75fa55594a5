package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"lendflow/internal/auth"
	"lendflow/internal/model"
	"lendflow/internal/repository"
	"lendflow/internal/storage"
)

// MaxDocumentSize caps a single upload at 10 MiB.
const MaxDocumentSize = 10 << 20

var allowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// UploadInput is one file sent by a borrower.
type UploadInput struct {
	Reader        io.Reader
	Filename      string
	ContentType   string
	Size          int64
	Type          model.DocumentType
	ApplicationID *int64
}

// DownloadLink is a presigned URL for a stored document.
type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ChecklistItem is the state of one required document type.
type ChecklistItem struct {
	Type       model.DocumentType   `json:"type"`
	Uploaded   bool                 `json:"uploaded"`
	Status     model.DocumentStatus `json:"status,omitempty"`
	DocumentID int64                `json:"documentId,omitempty"`
}

// Checklist summarizes which required documents a borrower has provided.
// Rejected uploads do not count as completed.
type Checklist struct {
	Items             []ChecklistItem      `json:"items"`
	Completed         int                  `json:"completed"`
	Required          int                  `json:"required"`
	CompletionPercent int                  `json:"completionPercent"`
	Missing           []model.DocumentType `json:"missing"`
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload stores the content, saves its metadata and removes the object again
	// if the metadata cannot be saved.
	Upload(ctx context.Context, p auth.Principal, in UploadInput) (*model.Document, error)

	// List returns the caller's documents. Admins may list anyone's; lenders
	// list the documents attached to one of their applications.
	List(ctx context.Context, p auth.Principal, f repository.DocumentFilter, limit, offset int) (*ListResult[model.Document], error)

	Get(ctx context.Context, p auth.Principal, id int64) (*model.Document, error)
	Download(ctx context.Context, p auth.Principal, id int64) (*DownloadLink, error)

	// Delete removes a document from storage, then its record.
	Delete(ctx context.Context, p auth.Principal, id int64) error

	UpdateStatus(ctx context.Context, p auth.Principal, id int64, status model.DocumentStatus) (*model.Document, error)
	Checklist(ctx context.Context, p auth.Principal) (*Checklist, error)
}

type documentService struct {
	store        storage.Storage
	repo         repository.DocumentRepository
	applications repository.ApplicationRepository
	lenders      repository.LenderRepository
	expiry       time.Duration
	now          func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, applications repository.ApplicationRepository,
	lenders repository.LenderRepository, presignExpiry time.Duration, now func() time.Time) DocumentService {
	if presignExpiry <= 0 {
		presignExpiry = 15 * time.Minute
	}
	return &documentService{
		store:        store,
		repo:         repo,
		applications: applications,
		lenders:      lenders,
		expiry:       presignExpiry,
		now:          now,
	}
}

func (s *documentService) Upload(ctx context.Context, p auth.Principal, in UploadInput) (*model.Document, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	if err := requireRole(p, model.RoleBorrower); err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, invalid("type", "unknown document type %q", in.Type)
	}
	if in.Size > MaxDocumentSize {
		return nil, invalid("file", "file exceeds %d MB", MaxDocumentSize>>20)
	}
	ct := normalizeContentType(in.ContentType, in.Filename)
	if !allowedContentTypes[ct] {
		return nil, invalid("file", "only PDF, JPEG and PNG files are accepted")
	}
	if in.ApplicationID != nil {
		app, err := s.applications.FindByID(ctx, *in.ApplicationID)
		if err != nil {
			return nil, notFound("application", err)
		}
		if app.BorrowerID != p.UserID {
			return nil, forbidden("application %d is not yours", app.ID)
		}
	}

	key := storage.DocumentKey(p.UserID, string(in.Type), in.Filename)
	objInfo, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: ct,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		OwnerID:       p.UserID,
		ApplicationID: in.ApplicationID,
		Type:          in.Type,
		Status:        model.DocumentPending,
		Filename:      path.Base(key),
		StoragePath:   objInfo.Key,
		Size:          objInfo.Size,
		ContentType:   ct,
		CreatedAt:     s.now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func normalizeContentType(ct, filename string) string {
	if mt, _, err := mime.ParseMediaType(ct); err == nil && mt != "application/octet-stream" {
		ct = mt
	} else {
		ct = mime.TypeByExtension(strings.ToLower(path.Ext(filename)))
		ct, _, _ = mime.ParseMediaType(ct)
	}
	if ct == "image/jpg" {
		ct = "image/jpeg"
	}
	return ct
}

func (s *documentService) List(ctx context.Context, p auth.Principal, f repository.DocumentFilter, limit, offset int) (*ListResult[model.Document], error) {
	switch p.Role {
	case model.RoleAdmin:
	case model.RoleLender:
		if f.ApplicationID == 0 {
			return nil, invalid("applicationId", "applicationId is required")
		}
		if err := s.lenderOwnsApplication(ctx, p, f.ApplicationID); err != nil {
			return nil, err
		}
	default:
		f.OwnerID = p.UserID
	}
	res, err := s.repo.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *documentService) Get(ctx context.Context, p auth.Principal, id int64) (*model.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("document", err)
	}
	if p.Is(model.RoleAdmin) || doc.OwnerID == p.UserID {
		return doc, nil
	}
	if p.Is(model.RoleLender) && doc.ApplicationID != nil {
		if err := s.lenderOwnsApplication(ctx, p, *doc.ApplicationID); err == nil {
			return doc, nil
		}
	}
	return nil, forbidden("document %d is not accessible", id)
}

func (s *documentService) lenderOwnsApplication(ctx context.Context, p auth.Principal, applicationID int64) error {
	l, err := ownLender(ctx, s.lenders, p)
	if err != nil {
		return err
	}
	app, err := s.applications.FindByID(ctx, applicationID)
	if err != nil {
		return notFound("application", err)
	}
	if app.LenderID != l.ID {
		return forbidden("application %d belongs to another lender", applicationID)
	}
	return nil
}

func (s *documentService) Download(ctx context.Context, p auth.Principal, id int64) (*DownloadLink, error) {
	doc, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	expires := s.now().UTC().Add(s.expiry)
	url, err := s.store.PresignGet(ctx, doc.StoragePath, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("presign: %w", err)
	}
	return &DownloadLink{URL: url, ExpiresAt: expires}, nil
}

func (s *documentService) Delete(ctx context.Context, p auth.Principal, id int64) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound("document", err)
	}
	if !p.Is(model.RoleAdmin) && doc.OwnerID != p.UserID {
		return forbidden("document %d is not yours", id)
	}
	// A failed storage delete keeps the row so the object is not orphaned.
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("delete storage: %w", err)
	}
	return notFound("document", s.repo.Delete(ctx, id))
}

func (s *documentService) UpdateStatus(ctx context.Context, p auth.Principal, id int64, status model.DocumentStatus) (*model.Document, error) {
	if err := requireRole(p, model.RoleAdmin, model.RoleLender); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid("status", "unknown document status %q", status)
	}
	if _, err := s.Get(ctx, p, id); err != nil {
		return nil, err
	}
	doc, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, notFound("document", err)
	}
	return doc, nil
}

func (s *documentService) Checklist(ctx context.Context, p auth.Principal) (*Checklist, error) {
	res, err := s.repo.List(ctx, repository.DocumentFilter{OwnerID: p.UserID}, repository.All)
	if err != nil {
		return nil, err
	}
	// Newest first, so the first hit per type is the latest upload.
	latest := map[model.DocumentType]model.Document{}
	for _, d := range res.Items {
		if _, ok := latest[d.Type]; !ok {
			latest[d.Type] = d
		}
	}

	c := &Checklist{Required: len(model.RequiredDocuments), Missing: []model.DocumentType{}}
	for _, t := range model.RequiredDocuments {
		item := ChecklistItem{Type: t}
		if d, ok := latest[t]; ok {
			item.Uploaded = true
			item.Status = d.Status
			item.DocumentID = d.ID
		}
		if item.Uploaded && item.Status != model.DocumentRejected {
			c.Completed++
		} else {
			c.Missing = append(c.Missing, t)
		}
		c.Items = append(c.Items, item)
	}
	c.CompletionPercent = c.Completed * 100 / c.Required
	return c, nil
}
