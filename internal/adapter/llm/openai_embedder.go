package llm

import (
	"context"
	"fmt"
	"log/slog"

	"praxis-rag/internal/domain"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIEmbedder generates embeddings through an OpenAI-compatible API via
// langchaingo. Used when the practice runs against hosted embeddings
// instead of a local Ollama.
type OpenAIEmbedder struct {
	embedder embeddings.Embedder
	model    string
	logger   *slog.Logger
}

// NewOpenAIEmbedder creates an embedder for the given endpoint and model.
// Token may be empty for local OpenAI-compatible services.
func NewOpenAIEmbedder(baseURL, token, model string, logger *slog.Logger) (*OpenAIEmbedder, error) {
	if token == "" {
		token = "none"
	}

	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithEmbeddingModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return &OpenAIEmbedder{
		embedder: embedder,
		model:    model,
		logger:   logger,
	}, nil
}

func (e *OpenAIEmbedder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("openai_embed_failed",
			slog.Int("text_count", len(texts)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to embed texts: %w", err)
	}
	return vectors, nil
}

func (e *OpenAIEmbedder) Version() string {
	return e.model
}

var _ domain.VectorEncoder = (*OpenAIEmbedder)(nil)
