package usecase_test

import (
	"context"

	"praxis-rag/internal/domain"
	"praxis-rag/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockDocumentRepository struct {
	mock.Mock
}

func (m *mockDocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *mockDocumentRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *mockDocumentRepository) List(ctx context.Context, categoryID *uuid.UUID) ([]domain.Document, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *mockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockDocumentRepository) SearchTitles(ctx context.Context, query string, limit int) ([]domain.TitleHit, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TitleHit), args.Error(1)
}

func (m *mockDocumentRepository) GetAllTitles(ctx context.Context) ([]domain.TitleHit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TitleHit), args.Error(1)
}

func (m *mockDocumentRepository) GetByEntryID(ctx context.Context, entryID string) (*domain.Document, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *mockDocumentRepository) MarkReady(ctx context.Context, id uuid.UUID, entryID string, pageCount, chunkCount, wordCount int) error {
	args := m.Called(ctx, id, entryID, pageCount, chunkCount, wordCount)
	return args.Error(0)
}

func (m *mockDocumentRepository) MarkError(ctx context.Context, id uuid.UUID, message string) error {
	args := m.Called(ctx, id, message)
	return args.Error(0)
}

type mockContentIndex struct {
	mock.Mock
}

func (m *mockContentIndex) Add(ctx context.Context, req domain.IndexAddRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockContentIndex) Search(ctx context.Context, req domain.IndexSearchRequest) (*domain.IndexSearchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IndexSearchResponse), args.Error(1)
}

func (m *mockContentIndex) Remove(ctx context.Context, namespace, key string) error {
	args := m.Called(ctx, namespace, key)
	return args.Error(0)
}

type mockLLMClient struct {
	mock.Mock
}

func (m *mockLLMClient) Generate(ctx context.Context, prompt string, maxTokens int) (*domain.LLMResponse, error) {
	args := m.Called(ctx, prompt, maxTokens)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LLMResponse), args.Error(1)
}

func (m *mockLLMClient) Version() string {
	return "mock"
}

type mockHybridSearchUsecase struct {
	mock.Mock
}

func (m *mockHybridSearchUsecase) Execute(ctx context.Context, input usecase.HybridSearchInput) (*domain.HybridSearchResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HybridSearchResult), args.Error(1)
}

type mockFileStore struct {
	mock.Mock
}

func (m *mockFileStore) Get(ctx context.Context, storageKey string) ([]byte, error) {
	args := m.Called(ctx, storageKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockFileStore) Put(ctx context.Context, storageKey string, data []byte) error {
	args := m.Called(ctx, storageKey, data)
	return args.Error(0)
}

func (m *mockFileStore) Delete(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

type mockTextExtractor struct {
	mock.Mock
}

func (m *mockTextExtractor) Extract(ctx context.Context, fileBytes []byte, fileType domain.FileType) (*domain.ExtractedText, error) {
	args := m.Called(ctx, fileBytes, fileType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedText), args.Error(1)
}

type mockJobRepository struct {
	mock.Mock
}

func (m *mockJobRepository) Enqueue(ctx context.Context, job *domain.ProcessingJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *mockJobRepository) AcquireNextJob(ctx context.Context) (*domain.ProcessingJob, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessingJob), args.Error(1)
}

func (m *mockJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, errMsg *string) error {
	args := m.Called(ctx, id, status, errMsg)
	return args.Error(0)
}

// passthroughTxManager runs the function without a database.
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
