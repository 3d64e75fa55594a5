package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lendflow/internal/auth"
	"lendflow/internal/model"
	"lendflow/internal/repository"
	"lendflow/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, p auth.Principal, in service.UploadInput) (*model.Document, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, p auth.Principal, f repository.DocumentFilter, limit, offset int) (*service.ListResult[model.Document], error) {
	args := m.Called(ctx, p, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Document]), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, p auth.Principal, id int64) (*model.Document, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, p auth.Principal, id int64) (*service.DownloadLink, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DownloadLink), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, p auth.Principal, id int64) error {
	args := m.Called(ctx, p, id)
	return args.Error(0)
}

func (m *MockDocumentService) UpdateStatus(ctx context.Context, p auth.Principal, id int64, status model.DocumentStatus) (*model.Document, error) {
	args := m.Called(ctx, p, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Checklist(ctx context.Context, p auth.Principal) (*service.Checklist, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Checklist), args.Error(1)
}
