package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"praxis-rag/internal/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// AskInput is a single user question.
type AskInput struct {
	Question string
}

// AskOutput is the generated answer plus the citable sources and the
// diagnostic metadata callers surface next to the answer.
type AskOutput struct {
	Answer             string
	Sources            []domain.Source
	Intent             domain.QueryIntent
	DocumentMatchCount int
	ContentMatchCount  int
}

// AskUsecase runs the full question pipeline: classify, hybrid search,
// context assembly, answer generation.
type AskUsecase interface {
	Execute(ctx context.Context, input AskInput) (*AskOutput, error)
}

// AskOption configures optional behavior of the ask pipeline.
type AskOption func(*askUsecase)

// WithAnswerCache enables an expirable LRU over completed answers keyed by
// the normalized question.
func WithAnswerCache(size int, ttl time.Duration) AskOption {
	return func(u *askUsecase) {
		if size > 0 {
			u.cache = expirable.NewLRU[string, *AskOutput](size, nil, ttl)
		}
	}
}

type askUsecase struct {
	classifier    domain.QueryClassifier
	search        HybridSearchUsecase
	assembler     ContextAssembler
	promptBuilder AnswerPromptBuilder
	llmClient     domain.LLMClient
	maxTokens     int
	logger        *slog.Logger
	cache         *expirable.LRU[string, *AskOutput]
}

// NewAskUsecase wires the question pipeline together.
func NewAskUsecase(
	classifier domain.QueryClassifier,
	search HybridSearchUsecase,
	assembler ContextAssembler,
	promptBuilder AnswerPromptBuilder,
	llmClient domain.LLMClient,
	maxTokens int,
	logger *slog.Logger,
	opts ...AskOption,
) AskUsecase {
	u := &askUsecase{
		classifier:    classifier,
		search:        search,
		assembler:     assembler,
		promptBuilder: promptBuilder,
		llmClient:     llmClient,
		maxTokens:     maxTokens,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *askUsecase) Execute(ctx context.Context, input AskInput) (*AskOutput, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, fmt.Errorf("question is empty")
	}

	cacheKey := strings.ToLower(question)
	if u.cache != nil {
		if cached, ok := u.cache.Get(cacheKey); ok {
			u.logger.Info("ask_cache_hit", slog.String("question", question))
			return cached, nil
		}
	}

	classified := u.classifier.Classify(question)
	u.logger.Info("query_classified",
		slog.String("intent", string(classified.Intent)),
		slog.String("rewritten_query", classified.RewrittenQuery),
		slog.Any("document_names", classified.ExtractedDocumentNames))

	result, err := u.search.Execute(ctx, HybridSearchInput{
		Query:          question,
		RewrittenQuery: classified.RewrittenQuery,
		Intent:         classified.Intent,
	})
	if err != nil {
		return nil, fmt.Errorf("hybrid search failed: %w", err)
	}

	assembled := u.assembler.Assemble(classified.Intent, result.DocumentMatches, result.ContentMatches)

	prompt := u.promptBuilder.Build(assembled.ContextText, question)
	resp, err := u.llmClient.Generate(ctx, prompt, u.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}

	output := &AskOutput{
		Answer:             strings.TrimSpace(resp.Text),
		Sources:            assembled.Sources,
		Intent:             classified.Intent,
		DocumentMatchCount: len(result.DocumentMatches),
		ContentMatchCount:  len(result.ContentMatches),
	}

	if u.cache != nil {
		u.cache.Add(cacheKey, output)
	}

	return output, nil
}
