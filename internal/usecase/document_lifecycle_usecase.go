package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"praxis-rag/internal/domain"

	"github.com/google/uuid"
)

// UploadDocumentInput is a new document to store and index.
type UploadDocumentInput struct {
	Title      string
	CategoryID uuid.UUID
	FileType   domain.FileType
	FileBytes  []byte
	UploadedBy string
}

// DocumentLifecycleUsecase manages documents from upload to deletion.
// Indexing itself happens in the background worker; upload only stores the
// file, records the metadata and enqueues the processing job.
type DocumentLifecycleUsecase interface {
	Upload(ctx context.Context, input UploadDocumentInput) (*domain.Document, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, categoryID *uuid.UUID) ([]domain.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentLifecycleUsecase struct {
	docRepo   domain.DocumentRepository
	jobRepo   domain.JobRepository
	fileStore domain.FileStore
	index     domain.ContentIndex
	txManager domain.TransactionManager
	namespace string
	logger    *slog.Logger
}

// NewDocumentLifecycleUsecase creates the document lifecycle service.
func NewDocumentLifecycleUsecase(
	docRepo domain.DocumentRepository,
	jobRepo domain.JobRepository,
	fileStore domain.FileStore,
	index domain.ContentIndex,
	txManager domain.TransactionManager,
	namespace string,
	logger *slog.Logger,
) DocumentLifecycleUsecase {
	return &documentLifecycleUsecase{
		docRepo:   docRepo,
		jobRepo:   jobRepo,
		fileStore: fileStore,
		index:     index,
		txManager: txManager,
		namespace: namespace,
		logger:    logger,
	}
}

// Upload stores the file, creates the metadata row and enqueues background
// processing. Images are stored but never indexed, so they become ready
// immediately without an index entry.
func (u *documentLifecycleUsecase) Upload(ctx context.Context, input UploadDocumentInput) (*domain.Document, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("title is empty")
	}
	if len(input.FileBytes) == 0 {
		return nil, fmt.Errorf("file is empty")
	}
	switch input.FileType {
	case domain.FileTypePDF, domain.FileTypeDOCX, domain.FileTypeXLSX, domain.FileTypeImage:
	default:
		return nil, fmt.Errorf("unknown file type: %s", input.FileType)
	}

	id := uuid.New()
	storageKey := fmt.Sprintf("documents/%s.%s", id, input.FileType)

	if err := u.fileStore.Put(ctx, storageKey, input.FileBytes); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	status := domain.DocumentStatusProcessing
	if input.FileType == domain.FileTypeImage {
		status = domain.DocumentStatusReady
	}

	doc := &domain.Document{
		ID:         id,
		Title:      title,
		CategoryID: input.CategoryID,
		StorageKey: storageKey,
		FileType:   input.FileType,
		FileSize:   int64(len(input.FileBytes)),
		Status:     status,
		UploadedBy: input.UploadedBy,
		UploadedAt: time.Now(),
	}

	err := u.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := u.docRepo.Create(txCtx, doc); err != nil {
			return fmt.Errorf("failed to create document: %w", err)
		}
		if input.FileType == domain.FileTypeImage {
			return nil
		}
		job := &domain.ProcessingJob{
			ID:      uuid.New(),
			JobType: domain.JobTypeProcessDocument,
			Payload: map[string]interface{}{"document_id": id.String()},
		}
		if err := u.jobRepo.Enqueue(txCtx, job); err != nil {
			return fmt.Errorf("failed to enqueue processing job: %w", err)
		}
		return nil
	})
	if err != nil {
		// Best effort: do not leave an orphaned blob behind.
		_ = u.fileStore.Delete(ctx, storageKey)
		return nil, err
	}

	u.logger.Info("document_uploaded",
		slog.String("document_id", id.String()),
		slog.String("title", title),
		slog.String("file_type", string(input.FileType)),
		slog.Int64("file_size", doc.FileSize))

	return doc, nil
}

func (u *documentLifecycleUsecase) Get(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	return u.docRepo.Get(ctx, id)
}

func (u *documentLifecycleUsecase) List(ctx context.Context, categoryID *uuid.UUID) ([]domain.Document, error) {
	return u.docRepo.List(ctx, categoryID)
}

// Delete removes the index entry, the stored file and the metadata row.
// The index entry goes first so a half-finished delete never leaves
// searchable content pointing at a missing document.
func (u *documentLifecycleUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := u.docRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := u.index.Remove(ctx, u.namespace, doc.ID.String()); err != nil {
		return fmt.Errorf("failed to remove index entry: %w", err)
	}
	if err := u.fileStore.Delete(ctx, doc.StorageKey); err != nil {
		return fmt.Errorf("failed to delete stored file: %w", err)
	}
	if err := u.docRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	u.logger.Info("document_deleted",
		slog.String("document_id", id.String()),
		slog.String("title", doc.Title))

	return nil
}
