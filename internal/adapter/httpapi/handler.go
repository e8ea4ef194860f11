package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	"praxis-rag/internal/domain"
	"praxis-rag/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Handler exposes the retrieval pipeline and document management over HTTP.
type Handler struct {
	askUsecase       usecase.AskUsecase
	searchUsecase    usecase.HybridSearchUsecase
	contentUsecase   usecase.SearchContentUsecase
	lifecycleUsecase usecase.DocumentLifecycleUsecase
	categoryRepo     domain.CategoryRepository
	classifier       domain.QueryClassifier
	maxUploadBytes   int64
}

func NewHandler(
	askUsecase usecase.AskUsecase,
	searchUsecase usecase.HybridSearchUsecase,
	contentUsecase usecase.SearchContentUsecase,
	lifecycleUsecase usecase.DocumentLifecycleUsecase,
	categoryRepo domain.CategoryRepository,
	classifier domain.QueryClassifier,
	maxUploadBytes int64,
) *Handler {
	return &Handler{
		askUsecase:       askUsecase,
		searchUsecase:    searchUsecase,
		contentUsecase:   contentUsecase,
		lifecycleUsecase: lifecycleUsecase,
		categoryRepo:     categoryRepo,
		classifier:       classifier,
		maxUploadBytes:   maxUploadBytes,
	}
}

// Register wires all routes onto the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/v1/chat", h.Chat)
	e.POST("/v1/search", h.Search)
	e.GET("/v1/search/content", h.SearchContent)

	e.POST("/v1/documents", h.UploadDocument)
	e.GET("/v1/documents", h.ListDocuments)
	e.GET("/v1/documents/:id", h.GetDocument)
	e.DELETE("/v1/documents/:id", h.DeleteDocument)

	e.GET("/v1/categories", h.ListCategories)
	e.POST("/v1/categories", h.CreateCategory)
}

type chatRequest struct {
	Question string `json:"question"`
}

type sourceDTO struct {
	Title      string  `json:"title"`
	EntryID    string  `json:"entryId"`
	PageNumber *int    `json:"pageNumber,omitempty"`
	Score      float64 `json:"score"`
}

type chatResponse struct {
	Answer             string      `json:"answer"`
	Sources            []sourceDTO `json:"sources"`
	Intent             string      `json:"intent"`
	DocumentMatchCount int         `json:"documentMatchCount"`
	ContentMatchCount  int         `json:"contentMatchCount"`
}

// Chat answers a user question against the indexed documents.
// (POST /v1/chat)
func (h *Handler) Chat(ctx echo.Context) error {
	var req chatRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Question == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "question is required"})
	}

	output, err := h.askUsecase.Execute(ctx.Request().Context(), usecase.AskInput{Question: req.Question})
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	sources := make([]sourceDTO, 0, len(output.Sources))
	for _, s := range output.Sources {
		sources = append(sources, sourceDTO{
			Title:      s.Title,
			EntryID:    s.EntryID,
			PageNumber: s.PageNumber,
			Score:      s.Score,
		})
	}

	return ctx.JSON(http.StatusOK, chatResponse{
		Answer:             output.Answer,
		Sources:            sources,
		Intent:             string(output.Intent),
		DocumentMatchCount: output.DocumentMatchCount,
		ContentMatchCount:  output.ContentMatchCount,
	})
}

type searchRequest struct {
	Query string `json:"query"`
}

type documentMatchDTO struct {
	Title     string  `json:"title"`
	FileType  string  `json:"fileType"`
	Score     float64 `json:"score"`
	MatchType string  `json:"matchType"`
}

type contentMatchDTO struct {
	Title      string  `json:"title"`
	EntryID    string  `json:"entryId"`
	ChunkText  string  `json:"chunkText"`
	PageNumber *int    `json:"pageNumber,omitempty"`
	Score      float64 `json:"score"`
}

type searchResponse struct {
	Intent          string             `json:"intent"`
	DocumentMatches []documentMatchDTO `json:"documentMatches"`
	ContentMatches  []contentMatchDTO  `json:"contentMatches"`
}

// Search runs the full hybrid search without answer generation.
// (POST /v1/search)
func (h *Handler) Search(ctx echo.Context) error {
	var req searchRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Query == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "query is required"})
	}

	classified := h.classifier.Classify(req.Query)

	result, err := h.searchUsecase.Execute(ctx.Request().Context(), usecase.HybridSearchInput{
		Query:          req.Query,
		RewrittenQuery: classified.RewrittenQuery,
		Intent:         classified.Intent,
	})
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	docMatches := make([]documentMatchDTO, 0, len(result.DocumentMatches))
	for _, m := range result.DocumentMatches {
		docMatches = append(docMatches, documentMatchDTO{
			Title:     m.Title,
			FileType:  string(m.FileType),
			Score:     m.Score,
			MatchType: string(m.MatchType),
		})
	}

	contentMatches := make([]contentMatchDTO, 0, len(result.ContentMatches))
	for _, m := range result.ContentMatches {
		contentMatches = append(contentMatches, contentMatchDTO{
			Title:      m.Title,
			EntryID:    m.EntryID,
			ChunkText:  m.ChunkText,
			PageNumber: m.PageNumber,
			Score:      m.Score,
		})
	}

	return ctx.JSON(http.StatusOK, searchResponse{
		Intent:          string(classified.Intent),
		DocumentMatches: docMatches,
		ContentMatches:  contentMatches,
	})
}

// SearchContent runs a plain passage search with the stricter standalone
// score floor. (GET /v1/search/content?q=...)
func (h *Handler) SearchContent(ctx echo.Context) error {
	query := ctx.QueryParam("q")
	if query == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "q is required"})
	}

	matches, err := h.contentUsecase.Execute(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	dtos := make([]contentMatchDTO, 0, len(matches))
	for _, m := range matches {
		dtos = append(dtos, contentMatchDTO{
			Title:      m.Title,
			EntryID:    m.EntryID,
			ChunkText:  m.ChunkText,
			PageNumber: m.PageNumber,
			Score:      m.Score,
		})
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{"contentMatches": dtos})
}

type documentDTO struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CategoryID   string    `json:"categoryId"`
	FileType     string    `json:"fileType"`
	FileSize     int64     `json:"fileSize"`
	Status       string    `json:"status"`
	PageCount    int       `json:"pageCount"`
	ChunkCount   int       `json:"chunkCount"`
	WordCount    int       `json:"wordCount"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	UploadedBy   string    `json:"uploadedBy"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func toDocumentDTO(doc *domain.Document) documentDTO {
	return documentDTO{
		ID:           doc.ID.String(),
		Title:        doc.Title,
		CategoryID:   doc.CategoryID.String(),
		FileType:     string(doc.FileType),
		FileSize:     doc.FileSize,
		Status:       string(doc.Status),
		PageCount:    doc.PageCount,
		ChunkCount:   doc.ChunkCount,
		WordCount:    doc.WordCount,
		ErrorMessage: doc.ErrorMessage,
		UploadedBy:   doc.UploadedBy,
		UploadedAt:   doc.UploadedAt,
	}
}

// UploadDocument accepts a multipart upload and schedules indexing.
// (POST /v1/documents)
func (h *Handler) UploadDocument(ctx echo.Context) error {
	title := ctx.FormValue("title")
	fileType := ctx.FormValue("fileType")
	categoryID, err := uuid.Parse(ctx.FormValue("categoryId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid categoryId"})
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "file is required"})
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		return ctx.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "failed to open upload"})
	}
	defer func() { _ = file.Close() }()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "failed to read upload"})
	}

	doc, err := h.lifecycleUsecase.Upload(ctx.Request().Context(), usecase.UploadDocumentInput{
		Title:      title,
		CategoryID: categoryID,
		FileType:   domain.FileType(fileType),
		FileBytes:  fileBytes,
		UploadedBy: ctx.FormValue("uploadedBy"),
	})
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return ctx.JSON(http.StatusAccepted, toDocumentDTO(doc))
}

// ListDocuments lists documents, optionally filtered by category.
// (GET /v1/documents?categoryId=...)
func (h *Handler) ListDocuments(ctx echo.Context) error {
	var categoryID *uuid.UUID
	if raw := ctx.QueryParam("categoryId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid categoryId"})
		}
		categoryID = &parsed
	}

	docs, err := h.lifecycleUsecase.List(ctx.Request().Context(), categoryID)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	dtos := make([]documentDTO, 0, len(docs))
	for i := range docs {
		dtos = append(dtos, toDocumentDTO(&docs[i]))
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{"documents": dtos})
}

// GetDocument returns one document including processing status.
// (GET /v1/documents/:id)
func (h *Handler) GetDocument(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}

	doc, err := h.lifecycleUsecase.Get(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": "document not found"})
		}
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return ctx.JSON(http.StatusOK, toDocumentDTO(doc))
}

// DeleteDocument removes a document, its file and its index entry.
// (DELETE /v1/documents/:id)
func (h *Handler) DeleteDocument(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}

	if err := h.lifecycleUsecase.Delete(ctx.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return ctx.JSON(http.StatusNotFound, map[string]string{"error": "document not found"})
		}
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return ctx.NoContent(http.StatusNoContent)
}

type categoryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order"`
}

// ListCategories returns all document categories. (GET /v1/categories)
func (h *Handler) ListCategories(ctx echo.Context) error {
	categories, err := h.categoryRepo.List(ctx.Request().Context())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	dtos := make([]categoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, categoryDTO{
			ID:          c.ID.String(),
			Name:        c.Name,
			Description: c.Description,
			Order:       c.Order,
		})
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{"categories": dtos})
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// CreateCategory adds a new document category. (POST /v1/categories)
func (h *Handler) CreateCategory(ctx echo.Context) error {
	var req createCategoryRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Name == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}

	category := &domain.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Order:       req.Order,
		CreatedAt:   time.Now(),
	}
	if err := h.categoryRepo.Create(ctx.Request().Context(), category); err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return ctx.JSON(http.StatusCreated, categoryDTO{
		ID:          category.ID.String(),
		Name:        category.Name,
		Description: category.Description,
		Order:       category.Order,
	})
}
