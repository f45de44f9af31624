package services

import (
	"context"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
)

// RatePlannerSvcFacade plans deduplicated batches of gap-filling work.
type RatePlannerSvcFacade interface {
	// PlanJobs turns the current gap set (optionally scoped to one date)
	// into new pending jobs, skipping signatures that are already in flight.
	// An empty gap set is a successful no-op, not an error.
	PlanJobs(ctx context.Context, date *time.Time) (domain.PlanningResult, error)
}

// RateWorkerSvcFacade executes planned jobs against the rate provider.
type RateWorkerSvcFacade interface {
	// ProcessJob claims and runs a single job, returning the job's status
	// after the invocation. A claim lost to a concurrent worker returns the
	// observed status without error.
	ProcessJob(ctx context.Context, jobID string) (domain.JobStatus, error)

	// ProcessPendingJobs drains up to limit pending jobs with bounded
	// concurrency. One job's failure never blocks the others.
	ProcessPendingJobs(ctx context.Context, limit int) (domain.BatchResult, error)
}

// RateJobReaderSvc exposes job records for audit and replay.
type RateJobReaderSvc interface {
	GetJob(ctx context.Context, jobID string) (*domain.ExchangeRateJob, error)
}
