package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"praxis-rag/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(pool *pgxpool.Pool) domain.JobRepository {
	return &jobRepository{pool: pool}
}

func (r *jobRepository) getExecutor(ctx context.Context) dbExecutor {
	tx := ExtractTx(ctx)
	if tx != nil {
		return tx
	}
	return r.pool
}

func (r *jobRepository) Enqueue(ctx context.Context, job *domain.ProcessingJob) error {
	payloadBytes, err := json.Marshal(job.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if job.Status == "" {
		job.Status = "pending"
	}
	now := time.Now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	if job.UpdatedAt.IsZero() {
		job.UpdatedAt = now
	}

	query := `
		INSERT INTO processing_jobs (id, job_type, payload, status, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.getExecutor(ctx).Exec(ctx, query,
		job.ID, job.JobType, payloadBytes, job.Status, job.Error, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// AcquireNextJob claims the oldest pending job and flips it to running in
// one statement so concurrent workers never pick the same job.
func (r *jobRepository) AcquireNextJob(ctx context.Context) (*domain.ProcessingJob, error) {
	query := `
		WITH next_job AS (
			SELECT id
			FROM processing_jobs
			WHERE status = 'pending'
			ORDER BY created_at ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		UPDATE processing_jobs
		SET status = 'running', updated_at = $1
		FROM next_job
		WHERE processing_jobs.id = next_job.id
		RETURNING processing_jobs.id, processing_jobs.job_type, processing_jobs.payload,
		          processing_jobs.status, processing_jobs.error_message,
		          processing_jobs.created_at, processing_jobs.updated_at
	`

	var job domain.ProcessingJob
	var payloadBytes []byte

	err := r.pool.QueryRow(ctx, query, time.Now()).Scan(
		&job.ID, &job.JobType, &payloadBytes, &job.Status, &job.Error,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire next job: %w", err)
	}

	if err := json.Unmarshal(payloadBytes, &job.Payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &job, nil
}

func (r *jobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, errMsg *string) error {
	query := `
		UPDATE processing_jobs
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`
	_, err := r.pool.Exec(ctx, query, status, errMsg, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	return nil
}
