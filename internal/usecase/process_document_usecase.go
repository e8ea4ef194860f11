package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"praxis-rag/internal/domain"

	"github.com/google/uuid"
)

// ProcessDocumentUsecase runs the background indexing pipeline for one
// uploaded document: download, extract, chunk, add to the content index,
// then flip the document status.
type ProcessDocumentUsecase interface {
	Execute(ctx context.Context, documentID uuid.UUID) error
}

type processDocumentUsecase struct {
	docRepo   domain.DocumentRepository
	fileStore domain.FileStore
	extractor domain.TextExtractor
	chunker   domain.Chunker
	index     domain.ContentIndex
	namespace string
	logger    *slog.Logger
}

// NewProcessDocumentUsecase creates the document processing pipeline.
func NewProcessDocumentUsecase(
	docRepo domain.DocumentRepository,
	fileStore domain.FileStore,
	extractor domain.TextExtractor,
	chunker domain.Chunker,
	index domain.ContentIndex,
	namespace string,
	logger *slog.Logger,
) ProcessDocumentUsecase {
	return &processDocumentUsecase{
		docRepo:   docRepo,
		fileStore: fileStore,
		extractor: extractor,
		chunker:   chunker,
		index:     index,
		namespace: namespace,
		logger:    logger,
	}
}

// Execute processes one document. Failures are terminal for the document:
// the status is set to error with the message and the job is not retried.
func (u *processDocumentUsecase) Execute(ctx context.Context, documentID uuid.UUID) error {
	doc, err := u.docRepo.Get(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	entryID, pageCount, chunkCount, wordCount, err := u.process(ctx, doc)
	if err != nil {
		u.logger.Error("document_processing_failed",
			slog.String("document_id", documentID.String()),
			slog.String("error", err.Error()))
		if markErr := u.docRepo.MarkError(ctx, documentID, err.Error()); markErr != nil {
			return fmt.Errorf("failed to record processing error: %w", markErr)
		}
		return err
	}

	if err := u.docRepo.MarkReady(ctx, documentID, entryID, pageCount, chunkCount, wordCount); err != nil {
		return fmt.Errorf("failed to mark document ready: %w", err)
	}

	u.logger.Info("document_processed",
		slog.String("document_id", documentID.String()),
		slog.String("entry_id", entryID),
		slog.Int("chunk_count", chunkCount),
		slog.Int("page_count", pageCount))

	return nil
}

func (u *processDocumentUsecase) process(ctx context.Context, doc *domain.Document) (entryID string, pageCount, chunkCount, wordCount int, err error) {
	fileBytes, err := u.fileStore.Get(ctx, doc.StorageKey)
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("failed to fetch file: %w", err)
	}

	extracted, err := u.extractor.Extract(ctx, fileBytes, doc.FileType)
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("text extraction failed: %w", err)
	}
	if strings.TrimSpace(extracted.Text) == "" {
		return "", 0, 0, 0, domain.ErrNoText
	}

	chunks := u.chunker.Chunk(extracted.Text, extracted.PageTexts)
	if len(chunks) == 0 {
		return "", 0, 0, 0, domain.ErrNoChunks
	}

	indexChunks := make([]domain.IndexChunk, len(chunks))
	for i, chunk := range chunks {
		indexChunks[i] = domain.IndexChunk{
			Text: chunk.Text,
			Metadata: domain.ChunkMetadata{
				PageNumber: chunk.PageNumber,
				ChunkIndex: chunk.ChunkIndex,
			},
		}
	}

	entryID, err = u.index.Add(ctx, domain.IndexAddRequest{
		Namespace: u.namespace,
		Key:       doc.ID.String(),
		Title:     doc.Title,
		Chunks:    indexChunks,
		Filters: domain.EntryFilters{
			CategoryID: doc.CategoryID.String(),
			FileType:   doc.FileType,
			UploadedAt: doc.UploadedAt,
		},
	})
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("failed to add to content index: %w", err)
	}

	return entryID, extracted.PageCount, len(chunks), extracted.WordCount, nil
}
