package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/SscSPs/fintrack_backend/internal/models"
	"github.com/SscSPs/fintrack_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const jobColumns = `job_id, date, end_date, missing_dates, currency_pairs, status, retry_count, max_retries, last_error, created_at, claimed_at, processed_at`

// PgxRateJobRepository implements the ports.RateJobRepositoryFacade interface using pgxpool.
type PgxRateJobRepository struct {
	BaseRepository
}

// NewPgxRateJobRepository creates a new PgxRateJobRepository.
func NewPgxRateJobRepository(db *pgxpool.Pool) *PgxRateJobRepository {
	return &PgxRateJobRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// CreateJobs inserts a batch of newly planned jobs in one queued round trip.
func (r *PgxRateJobRepository) CreateJobs(ctx context.Context, jobs []domain.ExchangeRateJob) error {
	if len(jobs) == 0 {
		return nil
	}

	const query = `
		INSERT INTO exchange_rate_jobs (job_id, date, end_date, missing_dates, currency_pairs, status, retry_count, max_retries, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	batch := &pgx.Batch{}
	for _, job := range jobs {
		modelJob := mapping.ToModelExchangeRateJob(job)
		batch.Queue(query,
			modelJob.JobID, modelJob.Date, modelJob.EndDate, modelJob.MissingDates,
			modelJob.CurrencyPairs, modelJob.Status, modelJob.RetryCount,
			modelJob.MaxRetries, modelJob.CreatedAt,
		)
	}

	results := r.Pool.SendBatch(ctx, batch)
	defer results.Close()
	for range jobs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert job batch: %w", err)
		}
	}
	return nil
}

// FindJobByID retrieves one job by its ID.
func (r *PgxRateJobRepository) FindJobByID(ctx context.Context, jobID string) (*domain.ExchangeRateJob, error) {
	query := `SELECT ` + jobColumns + ` FROM exchange_rate_jobs WHERE job_id = $1`

	modelJob, err := scanJob(r.Pool.QueryRow(ctx, query, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	domainJob := mapping.ToDomainExchangeRateJob(modelJob)
	return &domainJob, nil
}

// ListActiveJobs returns all jobs whose status is pending or processing.
func (r *PgxRateJobRepository) ListActiveJobs(ctx context.Context) ([]domain.ExchangeRateJob, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM exchange_rate_jobs
		WHERE status IN ($1, $2)
		ORDER BY created_at`

	rows, err := r.Pool.Query(ctx, query, string(domain.JobStatusPending), string(domain.JobStatusProcessing))
	if err != nil {
		return nil, fmt.Errorf("failed to list active jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.ExchangeRateJob
	for rows.Next() {
		modelJob, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, mapping.ToDomainExchangeRateJob(modelJob))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}
	return jobs, nil
}

// ListPendingJobIDs returns up to limit pending job IDs, oldest first.
func (r *PgxRateJobRepository) ListPendingJobIDs(ctx context.Context, limit int) ([]string, error) {
	const query = `
		SELECT job_id
		FROM exchange_rate_jobs
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2`

	rows, err := r.Pool.Query(ctx, query, string(domain.JobStatusPending), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending jobs: %w", err)
	}
	defer rows.Close()

	var jobIDs []string
	for rows.Next() {
		var jobID string
		if err := rows.Scan(&jobID); err != nil {
			return nil, fmt.Errorf("failed to scan job id: %w", err)
		}
		jobIDs = append(jobIDs, jobID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job ids: %w", err)
	}
	return jobIDs, nil
}

// ClaimJob conditionally transitions a job from pending to processing. The
// status predicate makes the claim a compare-and-set: of two workers racing
// on the same job, exactly one sees a row affected, the other gets
// apperrors.ErrConflict and must abort.
func (r *PgxRateJobRepository) ClaimJob(ctx context.Context, jobID string) error {
	const query = `
		UPDATE exchange_rate_jobs
		SET status = $1, claimed_at = now()
		WHERE job_id = $2 AND status = $3`

	tag, err := r.Pool.Exec(ctx, query, string(domain.JobStatusProcessing), jobID, string(domain.JobStatusPending))
	if err != nil {
		return fmt.Errorf("failed to claim job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// MarkCompleted finalizes a successfully processed job.
func (r *PgxRateJobRepository) MarkCompleted(ctx context.Context, jobID string) error {
	const query = `
		UPDATE exchange_rate_jobs
		SET status = $1, processed_at = now(), last_error = NULL
		WHERE job_id = $2`

	if _, err := r.Pool.Exec(ctx, query, string(domain.JobStatusCompleted), jobID); err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}
	return nil
}

// MarkFailed terminally fails a job, recording the triggering error.
func (r *PgxRateJobRepository) MarkFailed(ctx context.Context, jobID string, lastError string) error {
	const query = `
		UPDATE exchange_rate_jobs
		SET status = $1, processed_at = now(), last_error = $2
		WHERE job_id = $3`

	if _, err := r.Pool.Exec(ctx, query, string(domain.JobStatusFailed), lastError, jobID); err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	return nil
}

// RequeueForRetry increments the retry count and routes the job back to
// pending, or to failed once the budget is exhausted, in a single update so
// concurrent bookkeeping cannot observe a half-applied transition.
func (r *PgxRateJobRepository) RequeueForRetry(ctx context.Context, jobID string, lastError string) (domain.JobStatus, error) {
	const query = `
		UPDATE exchange_rate_jobs
		SET retry_count = retry_count + 1,
		    status = CASE WHEN retry_count + 1 >= max_retries THEN $1 ELSE $2 END,
		    processed_at = CASE WHEN retry_count + 1 >= max_retries THEN now() ELSE processed_at END,
		    last_error = $3
		WHERE job_id = $4
		RETURNING status`

	var status string
	err := r.Pool.QueryRow(ctx, query,
		string(domain.JobStatusFailed), string(domain.JobStatusPending), lastError, jobID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to requeue job: %w", err)
	}
	return domain.JobStatus(status), nil
}

// ReclaimStaleJobs returns jobs stuck in processing longer than staleAfter
// back to pending so a later worker can pick them up. Retry counts are left
// untouched; a crashed invocation is not the job's fault.
func (r *PgxRateJobRepository) ReclaimStaleJobs(ctx context.Context, staleAfter time.Duration) (int, error) {
	const query = `
		UPDATE exchange_rate_jobs
		SET status = $1, claimed_at = NULL
		WHERE status = $2 AND claimed_at < now() - $3::interval`

	tag, err := r.Pool.Exec(ctx, query,
		string(domain.JobStatusPending), string(domain.JobStatusProcessing), staleAfter.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reclaim stale jobs: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanJob(row pgx.Row) (models.ExchangeRateJob, error) {
	var m models.ExchangeRateJob
	err := row.Scan(
		&m.JobID, &m.Date, &m.EndDate, &m.MissingDates, &m.CurrencyPairs,
		&m.Status, &m.RetryCount, &m.MaxRetries, &m.LastError,
		&m.CreatedAt, &m.ClaimedAt, &m.ProcessedAt,
	)
	return m, err
}
