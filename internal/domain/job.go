package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JobTypeProcessDocument extracts, chunks and indexes an uploaded document.
const JobTypeProcessDocument = "process_document"

// ProcessingJob is a queued unit of background work.
type ProcessingJob struct {
	ID        uuid.UUID
	JobType   string
	Payload   map[string]interface{}
	Status    string // pending, running, completed, failed
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// JobRepository queues and tracks background processing jobs.
type JobRepository interface {
	// Enqueue inserts a pending job.
	Enqueue(ctx context.Context, job *ProcessingJob) error
	// AcquireNextJob claims the oldest pending job, or nil when the
	// queue is empty. Claimed jobs are invisible to other workers.
	AcquireNextJob(ctx context.Context) (*ProcessingJob, error)
	// UpdateStatus finalizes a claimed job.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, errMsg *string) error
}
