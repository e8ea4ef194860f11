package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the full service configuration, loaded from the environment.
type Config struct {
	Env        string
	Server     ServerConfig
	DB         DBConfig
	Embedder   EmbedderConfig
	Generator  GeneratorConfig
	Extraction ExtractionConfig
	Storage    StorageConfig
	Retrieval  RetrievalConfig
	Chunking   ChunkingConfig
	Cache      CacheConfig
	Worker     WorkerConfig
}

type ServerConfig struct {
	Port           string
	MaxUploadBytes int64
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	MaxConns int32
	MinConns int32
}

// DSN builds the postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// EmbedderConfig selects and configures the embedding backend. Provider is
// "ollama" or "openai".
type EmbedderConfig struct {
	Provider string
	URL      string
	Model    string
	Token    string
	Timeout  int
}

type GeneratorConfig struct {
	URL       string
	Model     string
	Timeout   int
	MaxTokens int
}

type ExtractionConfig struct {
	URL     string
	Timeout int
}

type StorageConfig struct {
	Dir string
}

// RetrievalConfig mirrors the tuned retrieval parameters so they can be
// overridden per deployment.
type RetrievalConfig struct {
	TitleSearchLimit          int
	VectorSearchLimit         int
	VectorScoreThreshold      float64
	StandaloneVectorThreshold float64
	FuzzyThreshold            float64
	FuzzyWeight               float64
	FuzzyBackfillMin          int
	MaxDocumentMatches        int
	MaxContentMatches         int
	MaxSources                int
	Namespace                 string
}

type ChunkingConfig struct {
	Size    int
	Overlap int
}

// CacheConfig sizes the answer cache. TTL is in minutes.
type CacheConfig struct {
	Size int
	TTL  int
}

// WorkerConfig throttles background document processing. RatePerMinute
// bounds how many jobs may start per minute, protecting the embedding
// backend from upload bursts.
type WorkerConfig struct {
	RatePerMinute int
}

func Load() *Config {
	return &Config{
		Env: getEnv("ENV", "development"),
		Server: ServerConfig{
			Port:           getEnv("PORT", "9020"),
			MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 25*1024*1024)),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "praxis-db"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "praxis_user"),
			Password: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "praxis_password"),
			Name:     getEnv("DB_NAME", "praxis_db"),
			MaxConns: getEnvInt32("DB_MAX_CONNS", 10),
			MinConns: getEnvInt32("DB_MIN_CONNS", 2),
		},
		Embedder: EmbedderConfig{
			Provider: getEnv("EMBEDDER_PROVIDER", "ollama"),
			URL:      getEnv("EMBEDDER_URL", "http://ollama:11434"),
			Model:    getEnv("EMBEDDING_MODEL", "embeddinggemma"),
			Token:    getSecret("EMBEDDER_TOKEN", "EMBEDDER_TOKEN_FILE", ""),
			Timeout:  getEnvInt("EMBEDDER_TIMEOUT_SECONDS", 60),
		},
		Generator: GeneratorConfig{
			URL:       getEnv("GENERATOR_URL", "http://ollama:11434"),
			Model:     getEnv("GENERATOR_MODEL", "gemma3:12b"),
			Timeout:   getEnvInt("GENERATOR_TIMEOUT_SECONDS", 120),
			MaxTokens: getEnvInt("GENERATOR_MAX_TOKENS", 1024),
		},
		Extraction: ExtractionConfig{
			URL:     getEnv("EXTRACTION_URL", "http://extraction:8080"),
			Timeout: getEnvInt("EXTRACTION_TIMEOUT_SECONDS", 120),
		},
		Storage: StorageConfig{
			Dir: getEnv("STORAGE_DIR", "/var/lib/praxis-rag/files"),
		},
		Retrieval: RetrievalConfig{
			TitleSearchLimit:          getEnvInt("RETRIEVAL_TITLE_SEARCH_LIMIT", 5),
			VectorSearchLimit:         getEnvInt("RETRIEVAL_VECTOR_SEARCH_LIMIT", 10),
			VectorScoreThreshold:      getEnvFloat64("RETRIEVAL_VECTOR_SCORE_THRESHOLD", 0.4),
			StandaloneVectorThreshold: getEnvFloat64("RETRIEVAL_STANDALONE_VECTOR_THRESHOLD", 0.5),
			FuzzyThreshold:            getEnvFloat64("RETRIEVAL_FUZZY_THRESHOLD", 0.5),
			FuzzyWeight:               getEnvFloat64("RETRIEVAL_FUZZY_WEIGHT", 0.8),
			FuzzyBackfillMin:          getEnvInt("RETRIEVAL_FUZZY_BACKFILL_MIN", 3),
			MaxDocumentMatches:        getEnvInt("RETRIEVAL_MAX_DOCUMENT_MATCHES", 5),
			MaxContentMatches:         getEnvInt("RETRIEVAL_MAX_CONTENT_MATCHES", 5),
			MaxSources:                getEnvInt("RETRIEVAL_MAX_SOURCES", 5),
			Namespace:                 getEnv("RETRIEVAL_NAMESPACE", "practice"),
		},
		Chunking: ChunkingConfig{
			Size:    getEnvInt("CHUNK_SIZE", 2000),
			Overlap: getEnvInt("CHUNK_OVERLAP", 200),
		},
		Cache: CacheConfig{
			Size: getEnvInt("ANSWER_CACHE_SIZE", 256),
			TTL:  getEnvInt("ANSWER_CACHE_TTL_MINUTES", 10),
		},
		Worker: WorkerConfig{
			RatePerMinute: getEnvInt("WORKER_RATE_PER_MINUTE", 12),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getSecret reads envKey directly, then falls back to the file named by
// fileEnvKey for docker/k8s secret mounts.
func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) int32 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(parsed)
		}
	}
	return fallback
}

func getEnvFloat64(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
