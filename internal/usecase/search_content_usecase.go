package usecase

import (
	"context"
	"fmt"
	"strings"

	"praxis-rag/internal/domain"
)

// SearchContentUsecase serves the plain passage search endpoint: a direct
// vector query without title fusion, with the stricter standalone score
// floor.
type SearchContentUsecase interface {
	Execute(ctx context.Context, query string) ([]domain.ContentMatch, error)
}

type searchContentUsecase struct {
	index domain.ContentIndex
	cfg   RetrievalConfig
}

// NewSearchContentUsecase creates the standalone content search.
func NewSearchContentUsecase(index domain.ContentIndex, cfg RetrievalConfig) SearchContentUsecase {
	return &searchContentUsecase{index: index, cfg: cfg}
}

func (u *searchContentUsecase) Execute(ctx context.Context, query string) ([]domain.ContentMatch, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty")
	}

	res, err := u.index.Search(ctx, domain.IndexSearchRequest{
		Namespace:      u.cfg.Namespace,
		Query:          query,
		Limit:          u.cfg.MaxContentMatches,
		ScoreThreshold: u.cfg.StandaloneVectorThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
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

	return matches, nil
}
