package domain

import (
	"sort"
	"strings"
	"time"
)

// JobStatus is the lifecycle state of an ExchangeRateJob.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// ProviderMaxWindowDays is the widest date span the rate provider accepts in a
// single query. The planner never emits a job whose range exceeds it.
const ProviderMaxWindowDays = 5000

// ExchangeRateJob is a planned, bounded batch of gap-filling work for one or
// more currency pairs over a date range. Jobs are created by the planner in
// pending state, claimed by a worker (pending -> processing) and terminate at
// completed or failed. They are retained for audit and replay, never deleted.
type ExchangeRateJob struct {
	JobID          string      `json:"jobID"`
	RangeStartDate time.Time   `json:"rangeStartDate"` // == MissingDates[0]
	RangeEndDate   time.Time   `json:"rangeEndDate"`   // == MissingDates[len-1]
	MissingDates   []time.Time `json:"missingDates"`   // sorted ascending
	CurrencyPairs  []string    `json:"currencyPairs"`  // sorted, de-duplicated "{from}/{to}"
	Status         JobStatus   `json:"status"`
	RetryCount     int         `json:"retryCount"`
	MaxRetries     int         `json:"maxRetries"`
	LastError      string      `json:"lastError,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	ClaimedAt      *time.Time  `json:"claimedAt,omitempty"`
	ProcessedAt    *time.Time  `json:"processedAt,omitempty"`
}

// Signature is the dedup key for in-flight jobs: the sorted currency pairs
// joined with the range start date. Two jobs with the same signature must
// never both be pending or processing.
func (j ExchangeRateJob) Signature() string {
	return JobSignature(j.CurrencyPairs, j.RangeStartDate)
}

// JobSignature computes the dedup signature from its raw parts. The pairs
// slice is copied before sorting so callers keep their ordering.
func JobSignature(pairs []string, rangeStart time.Time) string {
	sorted := make([]string, len(pairs))
	copy(sorted, pairs)
	sort.Strings(sorted)
	return strings.Join(sorted, ",") + ":" + rangeStart.Format("2006-01-02")
}

// IsTerminal reports whether the job has finished for good.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// IsActive reports whether the job counts against the dedup invariant.
func (s JobStatus) IsActive() bool {
	return s == JobStatusPending || s == JobStatusProcessing
}

// PlanningResult summarises one planner run.
type PlanningResult struct {
	JobsCreated   int `json:"jobsCreated"`
	JobsSkipped   int `json:"jobsSkipped"`
	JobsReclaimed int `json:"jobsReclaimed"`
}

// BatchResult summarises one batch worker drain.
type BatchResult struct {
	JobsProcessed int    `json:"jobsProcessed"`
	JobsCompleted int    `json:"jobsCompleted"`
	JobsFailed    int    `json:"jobsFailed"`
	JobsRequeued  int    `json:"jobsRequeued"`
	StopReason    string `json:"stopReason"`
}
