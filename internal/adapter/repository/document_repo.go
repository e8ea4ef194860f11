package repository

import (
	"context"
	"errors"
	"fmt"

	"praxis-rag/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(pool *pgxpool.Pool) domain.DocumentRepository {
	return &documentRepository{pool: pool}
}

type dbExecutor interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

func (r *documentRepository) getExecutor(ctx context.Context) dbExecutor {
	tx := ExtractTx(ctx)
	if tx != nil {
		return tx
	}
	return r.pool
}

const documentColumns = `
	id, title, category_id, storage_key, file_type, file_size, status,
	entry_id, page_count, chunk_count, word_count, error_message,
	uploaded_by, uploaded_at
`

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (
			id, title, category_id, storage_key, file_type, file_size,
			status, uploaded_by, uploaded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.getExecutor(ctx).Exec(ctx, query,
		doc.ID, doc.Title, doc.CategoryID, doc.StorageKey, doc.FileType,
		doc.FileSize, doc.Status, doc.UploadedBy, doc.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (r *documentRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	query := `SELECT` + documentColumns + `FROM documents WHERE id = $1`
	row := r.getExecutor(ctx).QueryRow(ctx, query, id)

	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}
	return doc, nil
}

func (r *documentRepository) List(ctx context.Context, categoryID *uuid.UUID) ([]domain.Document, error) {
	query := `SELECT` + documentColumns + `FROM documents`
	var args []interface{}
	if categoryID != nil {
		query += ` WHERE category_id = $1`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY uploaded_at DESC`

	rows, err := r.getExecutor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.getExecutor(ctx).Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepository) SearchTitles(ctx context.Context, query string, limit int) ([]domain.TitleHit, error) {
	sql := `
		SELECT id, title, file_type
		FROM documents
		WHERE status = 'ready' AND title ILIKE '%' || $1 || '%'
		ORDER BY uploaded_at DESC
		LIMIT $2
	`
	rows, err := r.getExecutor(ctx).Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search titles: %w", err)
	}
	defer rows.Close()

	return scanTitleHits(rows)
}

func (r *documentRepository) GetAllTitles(ctx context.Context) ([]domain.TitleHit, error) {
	sql := `
		SELECT id, title, file_type
		FROM documents
		WHERE status = 'ready'
		ORDER BY title ASC
	`
	rows, err := r.getExecutor(ctx).Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to list titles: %w", err)
	}
	defer rows.Close()

	return scanTitleHits(rows)
}

func (r *documentRepository) GetByEntryID(ctx context.Context, entryID string) (*domain.Document, error) {
	query := `SELECT` + documentColumns + `FROM documents WHERE entry_id = $1`
	row := r.getExecutor(ctx).QueryRow(ctx, query, entryID)

	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}
	return doc, nil
}

func (r *documentRepository) MarkReady(ctx context.Context, id uuid.UUID, entryID string, pageCount, chunkCount, wordCount int) error {
	query := `
		UPDATE documents
		SET status = 'ready', entry_id = $1, page_count = $2,
		    chunk_count = $3, word_count = $4, error_message = NULL
		WHERE id = $5
	`
	tag, err := r.getExecutor(ctx).Exec(ctx, query, entryID, pageCount, chunkCount, wordCount, id)
	if err != nil {
		return fmt.Errorf("failed to mark document ready: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepository) MarkError(ctx context.Context, id uuid.UUID, message string) error {
	query := `
		UPDATE documents
		SET status = 'error', error_message = $1
		WHERE id = $2
	`
	tag, err := r.getExecutor(ctx).Exec(ctx, query, message, id)
	if err != nil {
		return fmt.Errorf("failed to mark document error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var doc domain.Document
	var entryID, errorMessage pgtype.Text
	err := row.Scan(
		&doc.ID, &doc.Title, &doc.CategoryID, &doc.StorageKey, &doc.FileType,
		&doc.FileSize, &doc.Status, &entryID, &doc.PageCount, &doc.ChunkCount,
		&doc.WordCount, &errorMessage, &doc.UploadedBy, &doc.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	if entryID.Valid {
		doc.EntryID = &entryID.String
	}
	doc.ErrorMessage = errorMessage.String
	return &doc, nil
}

func scanTitleHits(rows pgx.Rows) ([]domain.TitleHit, error) {
	var hits []domain.TitleHit
	for rows.Next() {
		var hit domain.TitleHit
		if err := rows.Scan(&hit.ID, &hit.Title, &hit.FileType); err != nil {
			return nil, fmt.Errorf("failed to scan title hit: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return hits, nil
}
