package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
)

// RateJobReader defines read operations over the job store
type RateJobReader interface {
	// FindJobByID retrieves one job. Returns apperrors.ErrNotFound when absent.
	FindJobByID(ctx context.Context, jobID string) (*domain.ExchangeRateJob, error)

	// ListActiveJobs returns all jobs whose status is pending or processing,
	// the set the planner dedups new work against.
	ListActiveJobs(ctx context.Context) ([]domain.ExchangeRateJob, error)

	// ListPendingJobIDs returns up to limit pending job IDs, oldest first.
	ListPendingJobIDs(ctx context.Context, limit int) ([]string, error)
}

// RateJobWriter defines write operations over the job store
type RateJobWriter interface {
	// CreateJobs inserts a batch of newly planned jobs in one round trip.
	CreateJobs(ctx context.Context, jobs []domain.ExchangeRateJob) error

	// ClaimJob conditionally transitions a job from pending to processing.
	// Returns apperrors.ErrConflict when the job was not pending, so a worker
	// losing a claim race aborts cleanly without side effects.
	ClaimJob(ctx context.Context, jobID string) error

	// MarkCompleted finalizes a successfully processed job.
	MarkCompleted(ctx context.Context, jobID string) error

	// MarkFailed terminally fails a job, recording the triggering error.
	MarkFailed(ctx context.Context, jobID string, lastError string) error

	// RequeueForRetry increments the job's retry count and returns it to
	// pending, or terminally fails it when the budget is exhausted, in one
	// atomic update. The resulting status is returned.
	RequeueForRetry(ctx context.Context, jobID string, lastError string) (domain.JobStatus, error)

	// ReclaimStaleJobs returns jobs stuck in processing longer than
	// staleAfter back to pending, reporting how many were reclaimed. Covers
	// worker invocations that died mid-flight.
	ReclaimStaleJobs(ctx context.Context, staleAfter time.Duration) (int, error)
}

// RateJobRepositoryFacade combines all job-store repository interfaces
type RateJobRepositoryFacade interface {
	RateJobReader
	RateJobWriter
}
