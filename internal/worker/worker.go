package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"praxis-rag/internal/domain"
	"praxis-rag/internal/usecase"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	jobTimeout          = 5 * time.Minute
	initialBackoff      = 1 * time.Second
	maxBackoff          = 5 * time.Minute
)

// JobWorker polls the job queue and runs document processing. A rate
// limiter throttles job starts so upload bursts cannot overload the
// extraction and embedding backends.
type JobWorker struct {
	jobRepo        domain.JobRepository
	processUsecase usecase.ProcessDocumentUsecase
	limiter        *rate.Limiter
	logger         *slog.Logger
	stopChan       chan struct{}
	backoff        time.Duration
}

func NewJobWorker(
	jobRepo domain.JobRepository,
	processUsecase usecase.ProcessDocumentUsecase,
	jobsPerMinute int,
	logger *slog.Logger,
) *JobWorker {
	if jobsPerMinute <= 0 {
		jobsPerMinute = 12
	}
	return &JobWorker{
		jobRepo:        jobRepo,
		processUsecase: processUsecase,
		limiter:        rate.NewLimiter(rate.Every(time.Minute/time.Duration(jobsPerMinute)), 1),
		logger:         logger,
		stopChan:       make(chan struct{}),
	}
}

func (w *JobWorker) Start() {
	w.logger.Info("Starting JobWorker")
	go w.run()
}

func (w *JobWorker) Stop() {
	w.logger.Info("Stopping JobWorker")
	close(w.stopChan)
}

func (w *JobWorker) run() {
	ticker := time.NewTicker(defaultPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.processNextJob()
			if w.backoff > 0 {
				ticker.Reset(w.backoff)
			} else {
				ticker.Reset(defaultPollInterval)
			}
		}
	}
}

func (w *JobWorker) processNextJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	job, err := w.jobRepo.AcquireNextJob(ctx)
	if err != nil {
		w.logger.Error("Failed to acquire next job", "error", err)
		return
	}
	if job == nil {
		return // No jobs
	}

	if err := w.limiter.Wait(ctx); err != nil {
		w.logger.Error("Rate limiter wait failed", "job_id", job.ID, "error", err)
		return
	}

	w.logger.Info("Processing job", "job_id", job.ID, "type", job.JobType)

	var processErr error

	switch job.JobType {
	case domain.JobTypeProcessDocument:
		processErr = w.processDocument(ctx, job)
	default:
		processErr = fmt.Errorf("unknown job type: %s", job.JobType)
	}

	status := "completed"
	var errMsg *string
	if processErr != nil {
		status = "failed"
		msg := processErr.Error()
		errMsg = &msg
		w.backoff = w.nextBackoff(w.backoff)
		w.logger.Warn("Worker backing off", "job_id", job.ID, "backoff", w.backoff, "error", processErr)
	} else {
		w.backoff = 0
		w.logger.Info("Job completed", "job_id", job.ID)
	}

	if err := w.jobRepo.UpdateStatus(ctx, job.ID, status, errMsg); err != nil {
		w.logger.Error("Failed to update job status", "job_id", job.ID, "error", err)
	}
}

func (w *JobWorker) nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return initialBackoff
	}
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func (w *JobWorker) processDocument(ctx context.Context, job *domain.ProcessingJob) error {
	raw, ok := job.Payload["document_id"].(string)
	if !ok {
		return fmt.Errorf("missing or invalid document_id")
	}
	documentID, err := uuid.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid document_id: %w", err)
	}

	return w.processUsecase.Execute(ctx, documentID)
}
