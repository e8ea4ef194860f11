package di

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"praxis-rag/internal/adapter/extract"
	"praxis-rag/internal/adapter/httpapi"
	"praxis-rag/internal/adapter/llm"
	"praxis-rag/internal/adapter/repository"
	"praxis-rag/internal/adapter/storage"
	"praxis-rag/internal/adapter/vectorindex"
	"praxis-rag/internal/domain"
	"praxis-rag/internal/infra/config"
	"praxis-rag/internal/infra/httpclient"
	"praxis-rag/internal/usecase"
	"praxis-rag/internal/worker"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	// Repositories
	DocRepo      domain.DocumentRepository
	CategoryRepo domain.CategoryRepository
	JobRepo      domain.JobRepository

	// Usecases
	AskUsecase       usecase.AskUsecase
	SearchUsecase    usecase.HybridSearchUsecase
	ContentUsecase   usecase.SearchContentUsecase
	LifecycleUsecase usecase.DocumentLifecycleUsecase
	ProcessUsecase   usecase.ProcessDocumentUsecase

	// Worker
	Worker *worker.JobWorker

	// HTTP
	Handler *httpapi.Handler
}

// NewApplicationComponents wires all dependencies from config and database
// pool.
func NewApplicationComponents(cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) (*ApplicationComponents, error) {
	// Repositories
	docRepo := repository.NewDocumentRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	txManager := repository.NewPostgresTransactionManager(pool)

	// Shared HTTP clients with connection pooling
	embedderHTTP := httpclient.NewPooledClient(time.Duration(cfg.Embedder.Timeout) * time.Second)
	generatorHTTP := httpclient.NewPooledClient(time.Duration(cfg.Generator.Timeout) * time.Second)
	extractionHTTP := httpclient.NewPooledClient(time.Duration(cfg.Extraction.Timeout) * time.Second)

	// External clients
	encoder, err := newEncoder(cfg, embedderHTTP, log)
	if err != nil {
		return nil, err
	}
	generator := llm.NewOllamaGenerator(cfg.Generator.URL, cfg.Generator.Model, generatorHTTP, log)
	extractor := extract.NewHTTPExtractor(cfg.Extraction.URL, extractionHTTP)

	fileStore, err := storage.NewFSStore(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to init file store: %w", err)
	}

	// Content index
	index := vectorindex.NewPgvectorIndex(pool, encoder, txManager, log)

	// Domain services
	classifier := domain.NewQueryClassifier(domain.NewGermanClassifierConfig())
	chunker := domain.NewChunker(cfg.Chunking.Size, cfg.Chunking.Overlap)

	// Retrieval config
	retrievalConfig := usecase.RetrievalConfig{
		TitleSearchLimit:          cfg.Retrieval.TitleSearchLimit,
		VectorSearchLimit:         cfg.Retrieval.VectorSearchLimit,
		VectorScoreThreshold:      cfg.Retrieval.VectorScoreThreshold,
		StandaloneVectorThreshold: cfg.Retrieval.StandaloneVectorThreshold,
		FuzzyThreshold:            cfg.Retrieval.FuzzyThreshold,
		FuzzyWeight:               cfg.Retrieval.FuzzyWeight,
		FuzzyBackfillMin:          cfg.Retrieval.FuzzyBackfillMin,
		MaxDocumentMatches:        cfg.Retrieval.MaxDocumentMatches,
		MaxContentMatches:         cfg.Retrieval.MaxContentMatches,
		MaxSources:                cfg.Retrieval.MaxSources,
		Namespace:                 cfg.Retrieval.Namespace,
	}

	// Usecases
	searchUsecase := usecase.NewHybridSearchUsecase(docRepo, index, retrievalConfig, log)
	contentUsecase := usecase.NewSearchContentUsecase(index, retrievalConfig)
	assembler := usecase.NewContextAssembler(retrievalConfig.MaxSources)
	promptBuilder := usecase.NewAnswerPromptBuilder()

	askUsecase := usecase.NewAskUsecase(
		classifier, searchUsecase, assembler, promptBuilder, generator,
		cfg.Generator.MaxTokens, log,
		usecase.WithAnswerCache(cfg.Cache.Size, time.Duration(cfg.Cache.TTL)*time.Minute),
	)

	lifecycleUsecase := usecase.NewDocumentLifecycleUsecase(
		docRepo, jobRepo, fileStore, index, txManager, retrievalConfig.Namespace, log,
	)
	processUsecase := usecase.NewProcessDocumentUsecase(
		docRepo, fileStore, extractor, chunker, index, retrievalConfig.Namespace, log,
	)

	// Worker
	jobWorker := worker.NewJobWorker(jobRepo, processUsecase, cfg.Worker.RatePerMinute, log)

	// HTTP handler
	handler := httpapi.NewHandler(
		askUsecase, searchUsecase, contentUsecase, lifecycleUsecase,
		categoryRepo, classifier, cfg.Server.MaxUploadBytes,
	)

	return &ApplicationComponents{
		DocRepo:          docRepo,
		CategoryRepo:     categoryRepo,
		JobRepo:          jobRepo,
		AskUsecase:       askUsecase,
		SearchUsecase:    searchUsecase,
		ContentUsecase:   contentUsecase,
		LifecycleUsecase: lifecycleUsecase,
		ProcessUsecase:   processUsecase,
		Worker:           jobWorker,
		Handler:          handler,
	}, nil
}

// newEncoder selects the embedding backend from configuration.
func newEncoder(cfg *config.Config, client *http.Client, log *slog.Logger) (domain.VectorEncoder, error) {
	switch cfg.Embedder.Provider {
	case "openai":
		return llm.NewOpenAIEmbedder(cfg.Embedder.URL, cfg.Embedder.Token, cfg.Embedder.Model, log)
	case "ollama", "":
		return llm.NewOllamaEmbedder(cfg.Embedder.URL, cfg.Embedder.Model, client, log), nil
	default:
		return nil, fmt.Errorf("unknown embedder provider: %s", cfg.Embedder.Provider)
	}
}
