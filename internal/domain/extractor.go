package domain

import (
	"context"
	"errors"
)

// ErrUnsupportedFileType is returned for file types that cannot be
// extracted. Image extraction would need OCR, which is out of scope.
var ErrUnsupportedFileType = errors.New("text extraction not supported for this file type")

// ErrNoText means extraction succeeded but produced no usable text.
var ErrNoText = errors.New("no text extracted from document")

// ErrNoChunks means chunking a document's text produced nothing, e.g. the
// text was only whitespace.
var ErrNoChunks = errors.New("no chunks created from text")

// ExtractedText is the result of text extraction. PageTexts maps 1-based
// page numbers to their text and may be empty when the extractor cannot
// attribute text to pages.
type ExtractedText struct {
	Text      string
	PageCount int
	PageTexts map[int]string
	WordCount int
}

// TextExtractor pulls text out of an uploaded file. Implementations must
// fail fast with ErrUnsupportedFileType for image inputs.
type TextExtractor interface {
	Extract(ctx context.Context, fileBytes []byte, fileType FileType) (*ExtractedText, error)
}

// FileStore is the external blob storage documents are uploaded to.
type FileStore interface {
	Get(ctx context.Context, storageKey string) ([]byte, error)
	Put(ctx context.Context, storageKey string, data []byte) error
	Delete(ctx context.Context, storageKey string) error
}
