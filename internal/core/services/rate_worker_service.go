package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/utils/rateconv"
	"golang.org/x/sync/errgroup"
)

// rateWorkerService claims planned jobs, executes them against the rate
// provider and upserts the results into the canonical rate store. Jobs for
// different pairs are fully independent; the job store's status column is
// the only coordination point between concurrent workers.
type rateWorkerService struct {
	BaseService
	jobRepo     portsrepo.RateJobRepositoryFacade
	rateRepo    portsrepo.ExchangeRateRepositoryFacade
	provider    portssvc.RateProvider
	concurrency int
}

// NewRateWorkerService creates the worker. concurrency bounds how many jobs
// a batch drain runs in parallel.
func NewRateWorkerService(jobRepo portsrepo.RateJobRepositoryFacade, rateRepo portsrepo.ExchangeRateRepositoryFacade, provider portssvc.RateProvider, concurrency int) *rateWorkerService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &rateWorkerService{
		jobRepo:     jobRepo,
		rateRepo:    rateRepo,
		provider:    provider,
		concurrency: concurrency,
	}
}

// ProcessJob claims one job and runs it to a terminal or retryable state.
// The claim is a conditional pending->processing update; losing that race
// returns the job's observed status with no side effects. Datastore errors
// abort the invocation without touching job status, leaving the job for a
// later retry or the planner's reclaim sweep.
func (s *rateWorkerService) ProcessJob(ctx context.Context, jobID string) (domain.JobStatus, error) {
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return "", fmt.Errorf("failed to load job %s: %w", jobID, err)
	}
	if job.Status.IsTerminal() {
		// Re-processing a finished job is a no-op; upserts made it safe but
		// there is nothing left to do.
		return job.Status, nil
	}

	if err := s.jobRepo.ClaimJob(ctx, jobID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			current, findErr := s.jobRepo.FindJobByID(ctx, jobID)
			if findErr != nil {
				return "", fmt.Errorf("failed to re-read contested job %s: %w", jobID, findErr)
			}
			s.LogInfo(ctx, "Job claim lost to a concurrent worker",
				slog.String("job_id", jobID),
				slog.String("status", string(current.Status)))
			return current.Status, nil
		}
		return "", fmt.Errorf("failed to claim job %s: %w", jobID, err)
	}

	s.LogInfo(ctx, "Processing exchange rate job",
		slog.String("job_id", jobID),
		slog.Any("pairs", job.CurrencyPairs),
		slog.Int("missing_dates", len(job.MissingDates)))

	rates, err := s.fetchJobRates(ctx, job)
	if err != nil {
		return s.finalizeFailure(ctx, job, err)
	}

	if len(rates) > 0 {
		// Upsert before the status update: a crash between the two leaves a
		// processing job whose re-run rewrites identical rows.
		if err := s.rateRepo.UpsertRates(ctx, rates); err != nil {
			return "", fmt.Errorf("failed to upsert rates for job %s: %w", jobID, err)
		}
	}

	if err := s.jobRepo.MarkCompleted(ctx, jobID); err != nil {
		return "", fmt.Errorf("failed to mark job %s completed: %w", jobID, err)
	}

	s.LogInfo(ctx, "Job completed",
		slog.String("job_id", jobID),
		slog.Int("rates_written", len(rates)))
	return domain.JobStatusCompleted, nil
}

// fetchJobRates queries the provider once per missing date and normalizes
// every returned quote into canonical orientation. Dates the provider has no
// data for contribute nothing; the job still completes.
func (s *rateWorkerService) fetchJobRates(ctx context.Context, job *domain.ExchangeRateJob) ([]domain.ExchangeRate, error) {
	var rates []domain.ExchangeRate
	for _, date := range job.MissingDates {
		quotes, err := s.provider.FetchRates(ctx, job.CurrencyPairs, date)
		if err != nil {
			return nil, err
		}
		for _, quote := range quotes {
			rates = append(rates, domain.ExchangeRate{
				FromCurrencyCode: quote.FromCurrency,
				ToCurrencyCode:   quote.ToCurrency,
				Rate:             rateconv.NormalizeRate(quote.FromCurrency, quote.Rate),
				Date:             quote.Date,
			})
		}
	}
	return rates, nil
}

// finalizeFailure routes a provider failure into the job's retry
// bookkeeping. Permanent failures (malformed responses, rejected requests)
// fail the job immediately; transient ones consume one retry. A cancelled
// context leaves the job in processing for the reclaim sweep.
func (s *rateWorkerService) finalizeFailure(ctx context.Context, job *domain.ExchangeRateJob, cause error) (domain.JobStatus, error) {
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		return "", fmt.Errorf("job %s interrupted: %w", job.JobID, cause)
	}

	var permanent *portssvc.PermanentProviderError
	if errors.As(cause, &permanent) {
		s.LogError(ctx, cause, "Job failed permanently",
			slog.String("job_id", job.JobID),
			slog.String("pair", permanent.Pair))
		if err := s.jobRepo.MarkFailed(ctx, job.JobID, cause.Error()); err != nil {
			return "", fmt.Errorf("failed to mark job %s failed: %w", job.JobID, err)
		}
		return domain.JobStatusFailed, nil
	}

	status, err := s.jobRepo.RequeueForRetry(ctx, job.JobID, cause.Error())
	if err != nil {
		return "", fmt.Errorf("failed to requeue job %s: %w", job.JobID, err)
	}
	s.LogWarn(ctx, "Job hit a transient failure",
		slog.String("job_id", job.JobID),
		slog.String("error", cause.Error()),
		slog.String("status", string(status)),
		slog.Int("retry_count", job.RetryCount+1))
	return status, nil
}

// ProcessPendingJobs drains up to limit pending jobs, oldest first, with
// bounded concurrency. A failed job never blocks its siblings; only
// infrastructure errors from the drain itself are returned.
func (s *rateWorkerService) ProcessPendingJobs(ctx context.Context, limit int) (domain.BatchResult, error) {
	var result domain.BatchResult

	jobIDs, err := s.jobRepo.ListPendingJobIDs(ctx, limit)
	if err != nil {
		return result, fmt.Errorf("failed to list pending jobs: %w", err)
	}
	if len(jobIDs) == 0 {
		result.StopReason = "no_pending_jobs"
		return result, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, jobID := range jobIDs {
		jobID := jobID
		g.Go(func() error {
			status, err := s.ProcessJob(gctx, jobID)

			mu.Lock()
			defer mu.Unlock()
			result.JobsProcessed++
			switch {
			case err != nil:
				// Infra failure for one job; log and keep draining.
				s.LogError(gctx, err, "Job invocation aborted", slog.String("job_id", jobID))
				result.JobsFailed++
			case status == domain.JobStatusCompleted:
				result.JobsCompleted++
			case status == domain.JobStatusFailed:
				result.JobsFailed++
			case status == domain.JobStatusPending:
				result.JobsRequeued++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	result.StopReason = "drained"
	return result, nil
}

// GetJob exposes a job record for audit and replay.
func (s *rateWorkerService) GetJob(ctx context.Context, jobID string) (*domain.ExchangeRateJob, error) {
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job in service: %w", err)
	}
	return job, nil
}
