package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"praxis-rag/internal/domain"
)

// HTTPExtractor calls the external text-extraction service. The service
// handles pdf, docx and xlsx; image inputs are rejected here before any
// network call because extraction would need OCR.
type HTTPExtractor struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPExtractor creates an extraction client for the given base URL.
func NewHTTPExtractor(baseURL string, client *http.Client) *HTTPExtractor {
	return &HTTPExtractor{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  client,
	}
}

type extractResponse struct {
	Text      string         `json:"text"`
	PageCount int            `json:"pageCount"`
	Metadata  struct {
		PageTexts map[string]string `json:"pageTexts"`
		WordCount int               `json:"wordCount"`
	} `json:"metadata"`
}

type extractError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func (e *HTTPExtractor) Extract(ctx context.Context, fileBytes []byte, fileType domain.FileType) (*domain.ExtractedText, error) {
	if len(fileBytes) == 0 {
		return nil, fmt.Errorf("empty file buffer")
	}
	if fileType == domain.FileTypeImage {
		return nil, fmt.Errorf("%w: image (requires OCR)", domain.ErrUnsupportedFileType)
	}
	switch fileType {
	case domain.FileTypePDF, domain.FileTypeDOCX, domain.FileTypeXLSX:
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, fileType)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fmt.Sprintf("document.%s", fileType))
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(fileBytes); err != nil {
		return nil, fmt.Errorf("failed to write file part: %w", err)
	}
	if err := writer.WriteField("fileType", string(fileType)); err != nil {
		return nil, fmt.Errorf("failed to write fileType field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	url := fmt.Sprintf("%s/api/extract-text", e.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var errBody extractError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil {
			if errBody.Details != "" {
				return nil, fmt.Errorf("extraction failed: %s", errBody.Details)
			}
			if errBody.Error != "" {
				return nil, fmt.Errorf("extraction failed: %s", errBody.Error)
			}
		}
		return nil, fmt.Errorf("extraction returned status: %d", resp.StatusCode)
	}

	var extracted extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&extracted); err != nil {
		return nil, fmt.Errorf("failed to decode extraction response: %w", err)
	}

	pageTexts := make(map[int]string, len(extracted.Metadata.PageTexts))
	for pageStr, text := range extracted.Metadata.PageTexts {
		var page int
		if _, err := fmt.Sscanf(pageStr, "%d", &page); err == nil {
			pageTexts[page] = text
		}
	}

	return &domain.ExtractedText{
		Text:      extracted.Text,
		PageCount: extracted.PageCount,
		PageTexts: pageTexts,
		WordCount: extracted.Metadata.WordCount,
	}, nil
}

var _ domain.TextExtractor = (*HTTPExtractor)(nil)
