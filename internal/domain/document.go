package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// DocumentStatus is the lifecycle state of an uploaded document.
type DocumentStatus string

const (
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusReady      DocumentStatus = "ready"
	DocumentStatusError      DocumentStatus = "error"
)

// FileType is the upload format. Images are accepted for storage but can
// never be indexed (no OCR).
type FileType string

const (
	FileTypePDF   FileType = "pdf"
	FileTypeDOCX  FileType = "docx"
	FileTypeXLSX  FileType = "xlsx"
	FileTypeImage FileType = "image"
)

// ErrDocumentNotFound is returned when a document id resolves to nothing.
var ErrDocumentNotFound = errors.New("document not found")

// Document is an uploaded regulatory document. Created with status
// processing; flipped to ready with a content-index entry id, or to error
// with a message, when background processing finishes. Immutable once
// ready, except deletion.
type Document struct {
	ID           uuid.UUID
	Title        string
	CategoryID   uuid.UUID
	StorageKey   string
	FileType     FileType
	FileSize     int64
	Status       DocumentStatus
	EntryID      *string // content-index entry, set when ready
	PageCount    int
	ChunkCount   int
	WordCount    int
	ErrorMessage string
	UploadedBy   string
	UploadedAt   time.Time
}

// TitleHit is a document title returned by keyword or fuzzy title search.
type TitleHit struct {
	ID       uuid.UUID
	Title    string
	FileType FileType
}

// Category groups documents for practice staff.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	Order       int
	CreatedAt   time.Time
}

// DocumentRepository is the metadata store for documents. Title searches
// only ever see ready documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	Get(ctx context.Context, id uuid.UUID) (*Document, error)
	List(ctx context.Context, categoryID *uuid.UUID) ([]Document, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// SearchTitles does keyword title search over ready documents,
	// capped at limit.
	SearchTitles(ctx context.Context, query string, limit int) ([]TitleHit, error)
	// GetAllTitles returns every ready document title for the fuzzy pass.
	GetAllTitles(ctx context.Context) ([]TitleHit, error)
	// GetByEntryID resolves a content-index entry back to its document.
	// Returns nil, nil when no document owns the entry.
	GetByEntryID(ctx context.Context, entryID string) (*Document, error)

	// MarkReady records successful indexing.
	MarkReady(ctx context.Context, id uuid.UUID, entryID string, pageCount, chunkCount, wordCount int) error
	// MarkError records a terminal processing failure.
	MarkError(ctx context.Context, id uuid.UUID, message string) error
}

// CategoryRepository manages document categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	List(ctx context.Context) ([]Category, error)
}

// TransactionManager executes a function within a database transaction.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
