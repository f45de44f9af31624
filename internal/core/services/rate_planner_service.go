package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"
	"github.com/SscSPs/fintrack_backend/internal/utils/ratechunk"
	"github.com/google/uuid"
)

// maxRetriesCeiling clamps the configured per-job retry budget. Upstream
// operational history showed runaway retry constants; anything above this is
// a misconfiguration, not a policy.
const maxRetriesCeiling = 20

// ratePlannerService turns the current gap set into deduplicated, bounded
// batches of provider work. Planning is idempotent and cheap to re-run, so
// any failure aborts the whole run rather than persisting a partial job set.
type ratePlannerService struct {
	BaseService
	gapRepo    portsrepo.RateGapReader
	jobRepo    portsrepo.RateJobRepositoryFacade
	maxRetries int
	staleAfter time.Duration
}

// NewRatePlannerService creates the planner. maxRetries is the per-job retry
// budget; staleAfter is how long a job may sit in processing before the
// planner's sweep considers its worker dead and reclaims it.
func NewRatePlannerService(gapRepo portsrepo.RateGapReader, jobRepo portsrepo.RateJobRepositoryFacade, maxRetries int, staleAfter time.Duration) *ratePlannerService {
	if maxRetries <= 0 || maxRetries > maxRetriesCeiling {
		maxRetries = 5
	}
	if staleAfter <= 0 {
		staleAfter = 30 * time.Minute
	}
	return &ratePlannerService{
		gapRepo:    gapRepo,
		jobRepo:    jobRepo,
		maxRetries: maxRetries,
		staleAfter: staleAfter,
	}
}

// PlanJobs runs one planning pass: reclaim stale in-flight jobs, read the
// gap set (optionally scoped to a single date), group gaps by currency pair,
// chunk each pair's dates to the provider window, and insert the chunks that
// are not already in flight.
func (s *ratePlannerService) PlanJobs(ctx context.Context, date *time.Time) (domain.PlanningResult, error) {
	var result domain.PlanningResult

	// Stale jobs go back to pending before dedup, so their signatures stay
	// in the active set and the sweep never races a duplicate insert.
	reclaimed, err := s.jobRepo.ReclaimStaleJobs(ctx, s.staleAfter)
	if err != nil {
		return result, fmt.Errorf("failed to reclaim stale jobs: %w", err)
	}
	result.JobsReclaimed = reclaimed
	if reclaimed > 0 {
		s.LogInfo(ctx, "Reclaimed stale processing jobs", slog.Int("count", reclaimed))
	}

	gaps, err := s.gapRepo.ListMissingRateGaps(ctx, date)
	if err != nil {
		return result, fmt.Errorf("failed to list missing rate gaps: %w", err)
	}
	if len(gaps) == 0 {
		s.LogInfo(ctx, "No missing exchange rates, nothing to plan")
		return result, nil
	}
	s.LogInfo(ctx, "Planning exchange rate jobs", slog.Int("gaps", len(gaps)))

	activeJobs, err := s.jobRepo.ListActiveJobs(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list active jobs: %w", err)
	}
	activeSignatures := make(map[string]struct{}, len(activeJobs))
	for _, job := range activeJobs {
		activeSignatures[job.Signature()] = struct{}{}
	}

	now := time.Now().UTC()
	var newJobs []domain.ExchangeRateJob

	for pair, dates := range ratechunk.GroupGapsByPair(gaps) {
		for _, chunk := range ratechunk.ChunkDates(dates, domain.ProviderMaxWindowDays) {
			pairs := []string{pair}
			signature := domain.JobSignature(pairs, chunk[0])
			if _, inFlight := activeSignatures[signature]; inFlight {
				result.JobsSkipped++
				continue
			}
			// Guard against a gap set that repeats a signature within one run.
			activeSignatures[signature] = struct{}{}

			newJobs = append(newJobs, domain.ExchangeRateJob{
				JobID:          uuid.NewString(),
				RangeStartDate: chunk[0],
				RangeEndDate:   chunk[len(chunk)-1],
				MissingDates:   chunk,
				CurrencyPairs:  pairs,
				Status:         domain.JobStatusPending,
				RetryCount:     0,
				MaxRetries:     s.maxRetries,
				CreatedAt:      now,
			})
		}
	}

	if len(newJobs) > 0 {
		if err := s.jobRepo.CreateJobs(ctx, newJobs); err != nil {
			return domain.PlanningResult{JobsReclaimed: result.JobsReclaimed}, fmt.Errorf("failed to create jobs: %w", err)
		}
	}
	result.JobsCreated = len(newJobs)

	s.LogInfo(ctx, "Planning run finished",
		slog.Int("jobs_created", result.JobsCreated),
		slog.Int("jobs_skipped", result.JobsSkipped))
	return result, nil
}
