package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"praxis-rag/internal/domain"

	"golang.org/x/sync/errgroup"
)

// HybridSearchInput carries the classified query into the search engine.
// Query drives title matching; RewrittenQuery drives the vector search.
type HybridSearchInput struct {
	Query          string
	RewrittenQuery string
	Intent         domain.QueryIntent
}

// HybridSearchUsecase fans out to keyword title search, fuzzy title search
// and semantic content search, then fuses the results.
type HybridSearchUsecase interface {
	Execute(ctx context.Context, input HybridSearchInput) (*domain.HybridSearchResult, error)
}

type hybridSearchUsecase struct {
	docRepo domain.DocumentRepository
	index   domain.ContentIndex
	cfg     RetrievalConfig
	logger  *slog.Logger
}

// NewHybridSearchUsecase creates the hybrid search engine.
func NewHybridSearchUsecase(
	docRepo domain.DocumentRepository,
	index domain.ContentIndex,
	cfg RetrievalConfig,
	logger *slog.Logger,
) HybridSearchUsecase {
	return &hybridSearchUsecase{
		docRepo: docRepo,
		index:   index,
		cfg:     cfg,
		logger:  logger,
	}
}

// Execute runs the three strategies concurrently; they are independent
// reads, only fusion needs all of them. A failed strategy fails the whole
// search instead of fusing partial data. Empty results from a strategy are
// fine and fusion proceeds with whatever exists.
func (u *hybridSearchUsecase) Execute(ctx context.Context, input HybridSearchInput) (*domain.HybridSearchResult, error) {
	rewritten := input.RewrittenQuery
	if strings.TrimSpace(rewritten) == "" {
		rewritten = input.Query
	}

	var (
		titleHits []domain.TitleHit
		allTitles []domain.TitleHit
		vectorRes *domain.IndexSearchResponse
	)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hits, err := u.docRepo.SearchTitles(gctx, input.Query, u.cfg.TitleSearchLimit)
		if err != nil {
			return fmt.Errorf("title keyword search failed: %w", err)
		}
		titleHits = hits
		return nil
	})

	g.Go(func() error {
		titles, err := u.docRepo.GetAllTitles(gctx)
		if err != nil {
			return fmt.Errorf("title listing failed: %w", err)
		}
		allTitles = titles
		return nil
	})

	g.Go(func() error {
		res, err := u.index.Search(gctx, domain.IndexSearchRequest{
			Namespace:      u.cfg.Namespace,
			Query:          rewritten,
			Limit:          u.cfg.VectorSearchLimit,
			ScoreThreshold: u.cfg.VectorScoreThreshold,
		})
		if err != nil {
			return fmt.Errorf("vector search failed: %w", err)
		}
		vectorRes = res
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	documentMatches := u.fuseDocumentMatches(input.Query, input.Intent, titleHits, allTitles)
	contentMatches := u.fuseContentMatches(vectorRes)

	u.logger.Info("hybrid_search_completed",
		slog.String("intent", string(input.Intent)),
		slog.Int("document_matches", len(documentMatches)),
		slog.Int("content_matches", len(contentMatches)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return &domain.HybridSearchResult{
		DocumentMatches: documentMatches,
		ContentMatches:  contentMatches,
	}, nil
}

// fuseDocumentMatches seeds a title-keyed map from keyword hits, promotes
// exact matches, and backfills location queries with fuzzy title matches
// when keyword search came up short.
func (u *hybridSearchUsecase) fuseDocumentMatches(
	query string,
	intent domain.QueryIntent,
	titleHits []domain.TitleHit,
	allTitles []domain.TitleHit,
) []domain.DocumentMatch {
	matches := make(map[string]domain.DocumentMatch)
	queryLower := strings.ToLower(query)

	for _, hit := range titleHits {
		titleLower := strings.ToLower(hit.Title)
		score := 0.9
		matchType := domain.MatchTypeKeyword

		if titleLower == queryLower || strings.Contains(queryLower, titleLower) {
			score = 1.0
			matchType = domain.MatchTypeExact
		}

		matches[hit.Title] = domain.DocumentMatch{
			Title:     hit.Title,
			FileType:  hit.FileType,
			Score:     score,
			MatchType: matchType,
		}
	}

	if intent == domain.IntentLocation && len(matches) < u.cfg.FuzzyBackfillMin {
		for _, doc := range allTitles {
			if _, exists := matches[doc.Title]; exists {
				continue
			}
			similarity := domain.Similarity(query, doc.Title)
			if similarity > u.cfg.FuzzyThreshold {
				matches[doc.Title] = domain.DocumentMatch{
					Title:     doc.Title,
					FileType:  doc.FileType,
					Score:     similarity * u.cfg.FuzzyWeight,
					MatchType: domain.MatchTypeFuzzy,
				}
			}
		}
	}

	fused := make([]domain.DocumentMatch, 0, len(matches))
	for _, m := range matches {
		fused = append(fused, m)
	}
	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score > fused[j].Score
	})
	if len(fused) > u.cfg.MaxDocumentMatches {
		fused = fused[:u.cfg.MaxDocumentMatches]
	}
	return fused
}

// fuseContentMatches resolves each vector hit to its parent entry and
// flattens the hit's chunk texts into one passage. Hits whose entry cannot
// be resolved are dropped; they cannot be cited. Expected under eventual
// consistency between index and metadata store, so not an error.
func (u *hybridSearchUsecase) fuseContentMatches(res *domain.IndexSearchResponse) []domain.ContentMatch {
	if res == nil {
		return nil
	}

	entryTitles := make(map[string]string, len(res.Entries))
	for _, entry := range res.Entries {
		entryTitles[entry.EntryID] = entry.Title
	}

	matches := make([]domain.ContentMatch, 0, len(res.Results))
	for _, hit := range res.Results {
		title, ok := entryTitles[hit.EntryID]
		if !ok {
			continue
		}
		if title == "" {
			title = "Unbekanntes Dokument"
		}

		texts := make([]string, 0, len(hit.Content))
		for _, chunk := range hit.Content {
			texts = append(texts, chunk.Text)
		}

		var pageNumber *int
		if len(hit.Content) > 0 {
			pageNumber = hit.Content[0].Metadata.PageNumber
		}

		matches = append(matches, domain.ContentMatch{
			Title:      title,
			EntryID:    hit.EntryID,
			ChunkText:  strings.Join(texts, "\n"),
			PageNumber: pageNumber,
			Score:      hit.Score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > u.cfg.MaxContentMatches {
		matches = matches[:u.cfg.MaxContentMatches]
	}
	return matches
}
