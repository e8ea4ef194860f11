package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"praxis-rag/internal/domain"
	"praxis-rag/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func emptyIndexResponse() *domain.IndexSearchResponse {
	return &domain.IndexSearchResponse{}
}

func TestHybridSearch_KeywordScoring(t *testing.T) {
	ctx := context.Background()
	docRepo := new(mockDocumentRepository)
	index := new(mockContentIndex)
	cfg := usecase.DefaultRetrievalConfig()

	docRepo.On("SearchTitles", mock.Anything, "Hygieneplan", cfg.TitleSearchLimit).Return([]domain.TitleHit{
		{ID: uuid.New(), Title: "Hygieneplan", FileType: domain.FileTypePDF},
		{ID: uuid.New(), Title: "Hygieneplan Anhang", FileType: domain.FileTypePDF},
	}, nil)
	docRepo.On("GetAllTitles", mock.Anything).Return([]domain.TitleHit{}, nil)
	index.On("Search", mock.Anything, mock.Anything).Return(emptyIndexResponse(), nil)

	uc := usecase.NewHybridSearchUsecase(docRepo, index, cfg, discardLogger())
	result, err := uc.Execute(ctx, usecase.HybridSearchInput{
		Query:  "Hygieneplan",
		Intent: domain.IntentContent,
	})

	assert.NoError(t, err)
	assert.Len(t, result.DocumentMatches, 2)

	// Exact title equality promotes to 1.0; plain keyword hits stay at 0.9.
	assert.Equal(t, "Hygieneplan", result.DocumentMatches[0].Title)
	assert.Equal(t, 1.0, result.DocumentMatches[0].Score)
	assert.Equal(t, domain.MatchTypeExact, result.DocumentMatches[0].MatchType)
	assert.Equal(t, 0.9, result.DocumentMatches[1].Score)
	assert.Equal(t, domain.MatchTypeKeyword, result.DocumentMatches[1].MatchType)
}

func TestHybridSearch_ExactPromotionOnContainment(t *testing.T) {
	ctx := context.Background()
	docRepo := new(mockDocumentRepository)
	index := new(mockContentIndex)
	cfg := usecase.DefaultRetrievalConfig()

	docRepo.On("SearchTitles", mock.Anything, mock.Anything, mock.Anything).Return([]domain.TitleHit{
		{ID: uuid.New(), Title: "Hygieneplan", FileType: domain.FileTypePDF},
	}, nil)
	docRepo.On("GetAllTitles", mock.Anything).Return([]domain.TitleHit{}, nil)
	index.On("Search", mock.Anything, mock.Anything).Return(emptyIndexResponse(), nil)

	uc := usecase.NewHybridSearchUsecase(docRepo, index, cfg, discardLogger())
	result, err := uc.Execute(ctx, usecase.HybridSearchInput{
		Query:  "Wo ist der Hygieneplan abgelegt",
		Intent: domain.IntentLocation,
	})

	assert.NoError(t, err)
	assert.Len(t, result.DocumentMatches, 1)
	assert.Equal(t, 1.0, result.DocumentMatches[0].Score)
	assert.Equal(t, domain.MatchTypeExact, result.DocumentMatches[0].MatchType)
}

func TestHybridSearch_FuzzyBackfill(t *testing.T) {
	ctx := context.Background()
	docRepo := new(mockDocumentRepository)
	index := new(mockContentIndex)
	cfg := usecase.DefaultRetrievalConfig()

	docRepo.On("SearchTitles", mock.Anything, mock.Anything, mock.Anything).Return([]domain.TitleHit{}, nil)
	docRepo.On("GetAllTitles", mock.Anything).Return([]domain.TitleHit{
		{ID: uuid.New(), Title: "Hygieneplan 2024", FileType: domain.FileTypePDF},
		{ID: uuid.New(), Title: "Urlaubsantrag", FileType: domain.FileTypeDOCX},
	}, nil)
	index.On("Search", mock.Anything, mock.Anything).Return(emptyIndexResponse(), nil)

	uc := usecase.NewHybridSearchUsecase(docRepo, index, cfg, discardLogger())
	result, err := uc.Execute(ctx, usecase.HybridSearchInput{
		Query:  "Hygieneplan",
		Intent: domain.IntentLocation,
	})

	assert.NoError(t, err)
	// "Hygieneplan" is contained in "Hygieneplan 2024": similarity 0.8,
	// admitted and weighted to 0.64. "Urlaubsantrag" stays out.
	assert.Len(t, result.DocumentMatches, 1)
	assert.Equal(t, "Hygieneplan 2024", result.DocumentMatches[0].Title)
	assert.InDelta(t, 0.64, result.DocumentMatches[0].Score, 1e-9)
	assert.Equal(t, domain.MatchTypeFuzzy, result.DocumentMatches[0].MatchType)
}

func TestHybridSearch_NoFuzzyBackfillForContentIntent(t *testing.T) {
	ctx := context.Background()
	docRepo := new(mockDocumentRepository)
	index := new(mockContentIndex)
	cfg := usecase.DefaultRetrievalConfig()

	docRepo.On("SearchTitles", mock.Anything, mock.Anything, mock.Anything).Return([]domain.TitleHit{}, nil)
	docRepo.On("GetAllTitles", mock.Anything).Return([]domain.TitleHit{
		{ID: uuid.New(), Title: "Hygieneplan 2024", FileType: domain.FileTypePDF},
	}, nil)
	index.On("Search", mock.Anything, mock.Anything).Return(emptyIndexResponse(), nil)

	uc := usecase.NewHybridSearchUsecase(docRepo, index, cfg, discardLogger())
	result, err := uc.Execute(ctx, usecase.HybridSearchInput{
		Query:  "Hygieneplan",
		Intent: domain.IntentContent,
	})

	assert.NoError(t, err)
	assert.Empty(t, result.DocumentMatches)
}

func TestHybridSearch_VectorSearchUsesRewrittenQuery(t *testing.T) {
	ctx := context.Background()
	docRepo := new(mockDocumentRepository)
	index := new(mockContentIndex)
	cfg := usecase.DefaultRetrievalConfig()

	docRepo.On("SearchTitles", mock.Anything, mock.Anything, mock.Anything).Return([]domain.TitleHit{}, nil)
	docRepo.On("GetAllTitles", mock.Anything).Return([]domain.TitleHit{}, nil)
	index.On("Search", mock.Anything, mock.MatchedBy(func(req domain.IndexSearchRequest) bool {
		return req.Query == "Hygieneplan" &&
			req.Limit == cfg.VectorSearchLimit &&
			req.ScoreThreshold == cfg.VectorScoreThreshold
	})).Return(emptyIndexResponse(), nil)

	uc := usecase.NewHybridSearchUsecase(docRepo, index, cfg, discardLogger())
	_, err := uc.Execute(ctx, usecase.HybridSearchInput{
		Query:          "Wo finde ich den Hygieneplan?",
		RewrittenQuery: "Hygieneplan",
		Intent:         domain.IntentLocation,
	})

	assert.NoError(t, err)
	index.AssertExpectations(t)
}

func TestHybridSearch_ContentMatchFusion(t *testing.T) {
	ctx := context.Background()
	docRepo := new(mockDocumentRepository)
	index := new(mockContentIndex)
	cfg := usecase.DefaultRetrievalConfig()

	pageThree := 3
	docRepo.On("SearchTitles", mock.Anything, mock.Anything, mock.Anything).Return([]domain.TitleHit{}, nil)
	docRepo.On("GetAllTitles", mock.Anything).Return([]domain.TitleHit{}, nil)
	index.On("Search", mock.Anything, mock.Anything).Return(&domain.IndexSearchResponse{
		Results: []domain.IndexSearchHit{
			{
				EntryID: "entry-1",
				Score:   0.62,
				Content: []domain.IndexChunk{{
					Text:     "Die Begehung wird angekündigt.",
					Metadata: domain.ChunkMetadata{PageNumber: &pageThree, ChunkIndex: 4},
				}},
			},
			{
				EntryID: "entry-orphan",
				Score:   0.9,
				Content: []domain.IndexChunk{{Text: "verwaister Treffer"}},
			},
			{
				EntryID: "entry-2",
				Score:   0.7,
				Content: []domain.IndexChunk{{Text: "Titel fehlt im Eintrag"}},
			},
		},
		Entries: []domain.IndexEntryRef{
			{EntryID: "entry-1", Title: "Praxisbegehung Checkliste"},
			{EntryID: "entry-2", Title: ""},
		},
	}, nil)

	uc := usecase.NewHybridSearchUsecase(docRepo, index, cfg, discardLogger())
	result, err := uc.Execute(ctx, usecase.HybridSearchInput{
		Query:  "Wie läuft die Begehung ab?",
		Intent: domain.IntentContent,
	})

	assert.NoError(t, err)
	// The orphan entry is dropped; the empty title falls back.
	assert.Len(t, result.ContentMatches, 2)
	assert.Equal(t, "Unbekanntes Dokument", result.ContentMatches[0].Title)
	assert.Equal(t, 0.7, result.ContentMatches[0].Score)
	assert.Equal(t, "Praxisbegehung Checkliste", result.ContentMatches[1].Title)
	assert.Equal(t, &pageThree, result.ContentMatches[1].PageNumber)
}

func TestHybridSearch_CapsResults(t *testing.T) {
	ctx := context.Background()
	docRepo := new(mockDocumentRepository)
	index := new(mockContentIndex)
	cfg := usecase.DefaultRetrievalConfig()

	var hits []domain.TitleHit
	for _, title := range []string{"A-Plan", "B-Plan", "C-Plan", "D-Plan", "E-Plan", "F-Plan", "G-Plan"} {
		hits = append(hits, domain.TitleHit{ID: uuid.New(), Title: title, FileType: domain.FileTypePDF})
	}
	docRepo.On("SearchTitles", mock.Anything, mock.Anything, mock.Anything).Return(hits, nil)
	docRepo.On("GetAllTitles", mock.Anything).Return([]domain.TitleHit{}, nil)
	index.On("Search", mock.Anything, mock.Anything).Return(emptyIndexResponse(), nil)

	uc := usecase.NewHybridSearchUsecase(docRepo, index, cfg, discardLogger())
	result, err := uc.Execute(ctx, usecase.HybridSearchInput{Query: "Plan", Intent: domain.IntentContent})

	assert.NoError(t, err)
	assert.Len(t, result.DocumentMatches, cfg.MaxDocumentMatches)
}

func TestHybridSearch_StrategyFailureFailsSearch(t *testing.T) {
	ctx := context.Background()
	docRepo := new(mockDocumentRepository)
	index := new(mockContentIndex)
	cfg := usecase.DefaultRetrievalConfig()

	docRepo.On("SearchTitles", mock.Anything, mock.Anything, mock.Anything).Return([]domain.TitleHit{}, nil)
	docRepo.On("GetAllTitles", mock.Anything).Return([]domain.TitleHit{}, nil)
	index.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("index down"))

	uc := usecase.NewHybridSearchUsecase(docRepo, index, cfg, discardLogger())
	result, err := uc.Execute(ctx, usecase.HybridSearchInput{Query: "Hygieneplan", Intent: domain.IntentContent})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "vector search failed")
}
