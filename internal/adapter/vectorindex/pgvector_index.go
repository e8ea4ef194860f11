package vectorindex

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"praxis-rag/internal/adapter/repository"
	"praxis-rag/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PgvectorIndex implements domain.ContentIndex on top of pgvector tables.
// Embedding happens inside the index: callers hand over text, the index
// encodes it and stores or compares vectors.
type PgvectorIndex struct {
	pool      *pgxpool.Pool
	encoder   domain.VectorEncoder
	txManager domain.TransactionManager
	logger    *slog.Logger
}

// NewPgvectorIndex creates a content index backed by the given pool.
func NewPgvectorIndex(
	pool *pgxpool.Pool,
	encoder domain.VectorEncoder,
	txManager domain.TransactionManager,
	logger *slog.Logger,
) *PgvectorIndex {
	return &PgvectorIndex{
		pool:      pool,
		encoder:   encoder,
		txManager: txManager,
		logger:    logger,
	}
}

type indexExecutor interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

func (idx *PgvectorIndex) getExecutor(ctx context.Context) indexExecutor {
	tx := repository.ExtractTx(ctx)
	if tx != nil {
		return tx
	}
	return idx.pool
}

// Add embeds all chunks, then writes the entry row and its chunks in one
// transaction. A re-add for the same key replaces the previous entry so a
// document maps to at most one entry.
func (idx *PgvectorIndex) Add(ctx context.Context, req domain.IndexAddRequest) (string, error) {
	if len(req.Chunks) == 0 {
		return "", fmt.Errorf("cannot index entry without chunks")
	}

	texts := make([]string, len(req.Chunks))
	for i, chunk := range req.Chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := idx.encoder.Encode(ctx, texts)
	if err != nil {
		return "", fmt.Errorf("failed to encode chunks: %w", err)
	}
	if len(embeddings) != len(req.Chunks) {
		return "", fmt.Errorf("expected %d embeddings, got %d", len(req.Chunks), len(embeddings))
	}

	entryID := uuid.New().String()
	now := time.Now()

	err = idx.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		exec := idx.getExecutor(txCtx)

		if _, err := exec.Exec(txCtx,
			`DELETE FROM index_entries WHERE namespace = $1 AND doc_key = $2`,
			req.Namespace, req.Key); err != nil {
			return fmt.Errorf("failed to replace previous entry: %w", err)
		}

		if _, err := exec.Exec(txCtx, `
			INSERT INTO index_entries (entry_id, namespace, doc_key, title, category_id, file_type, uploaded_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, entryID, req.Namespace, req.Key, req.Title,
			req.Filters.CategoryID, req.Filters.FileType, req.Filters.UploadedAt, now); err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}

		rows := make([][]interface{}, len(req.Chunks))
		for i, chunk := range req.Chunks {
			rows[i] = []interface{}{
				uuid.New(),
				entryID,
				chunk.Metadata.ChunkIndex,
				chunk.Text,
				chunk.Metadata.PageNumber,
				pgvector.NewVector(embeddings[i]),
				now,
			}
		}

		if _, err := exec.CopyFrom(txCtx,
			pgx.Identifier{"index_chunks"},
			[]string{"id", "entry_id", "chunk_index", "content", "page_number", "embedding", "created_at"},
			pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("failed to bulk insert chunks: %w", err)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	idx.logger.Info("index_entry_added",
		slog.String("entry_id", entryID),
		slog.String("namespace", req.Namespace),
		slog.Int("chunk_count", len(req.Chunks)))

	return entryID, nil
}

// Search embeds the query and returns the closest chunks above the score
// threshold, grouped one hit per chunk, plus the entries they belong to.
// Cosine distance is mapped to a similarity in [0, 1].
func (idx *PgvectorIndex) Search(ctx context.Context, req domain.IndexSearchRequest) (*domain.IndexSearchResponse, error) {
	embeddings, err := idx.encoder.Encode(ctx, []string{req.Query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(embeddings))
	}

	query := `
		SELECT c.entry_id, e.title, c.content, c.page_number, c.chunk_index,
		       1 - (c.embedding <=> $1) AS score
		FROM index_chunks c
		JOIN index_entries e ON e.entry_id = c.entry_id
		WHERE e.namespace = $2
		  AND 1 - (c.embedding <=> $1) >= $3
		ORDER BY c.embedding <=> $1
		LIMIT $4
	`
	rows, err := idx.pool.Query(ctx, query,
		pgvector.NewVector(embeddings[0]), req.Namespace, req.ScoreThreshold, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	var results []domain.IndexSearchHit
	entriesSeen := make(map[string]string)

	for rows.Next() {
		var entryID, title, content string
		var pageNumber *int
		var chunkIndex int
		var score float64
		if err := rows.Scan(&entryID, &title, &content, &pageNumber, &chunkIndex, &score); err != nil {
			return nil, fmt.Errorf("failed to scan search hit: %w", err)
		}

		results = append(results, domain.IndexSearchHit{
			EntryID: entryID,
			Score:   score,
			Content: []domain.IndexChunk{{
				Text: content,
				Metadata: domain.ChunkMetadata{
					PageNumber: pageNumber,
					ChunkIndex: chunkIndex,
				},
			}},
		})
		entriesSeen[entryID] = title
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	entries := make([]domain.IndexEntryRef, 0, len(entriesSeen))
	for entryID, title := range entriesSeen {
		entries = append(entries, domain.IndexEntryRef{EntryID: entryID, Title: title})
	}

	return &domain.IndexSearchResponse{Results: results, Entries: entries}, nil
}

// Remove deletes the entry for the given key. Chunks go with it through
// the foreign key cascade. Removing a missing key is a no-op.
func (idx *PgvectorIndex) Remove(ctx context.Context, namespace, key string) error {
	exec := idx.getExecutor(ctx)
	tag, err := exec.Exec(ctx,
		`DELETE FROM index_entries WHERE namespace = $1 AND doc_key = $2`,
		namespace, key)
	if err != nil {
		return fmt.Errorf("failed to remove entry: %w", err)
	}
	if tag.RowsAffected() > 0 {
		idx.logger.Info("index_entry_removed",
			slog.String("namespace", namespace),
			slog.String("doc_key", key))
	}
	return nil
}

var _ domain.ContentIndex = (*PgvectorIndex)(nil)
