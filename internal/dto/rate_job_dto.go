package dto

import (
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
)

// PlanJobsRequest defines the structure for triggering a planning run.
type PlanJobsRequest struct {
	// Date optionally scopes gap detection to a single day (YYYY-MM-DD).
	// When omitted the planner considers every outstanding gap.
	Date *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// PlanJobsResponse summarises one planning run for API responses.
type PlanJobsResponse struct {
	JobsCreated   int `json:"jobsCreated"`
	JobsSkipped   int `json:"jobsSkipped"`
	JobsReclaimed int `json:"jobsReclaimed"`
}

// ProcessJobResponse reports the observed status of one job after a worker
// invocation. Message distinguishes a fresh completion from a no-op on an
// already terminal job.
type ProcessJobResponse struct {
	JobID   string `json:"jobID"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ProcessBatchRequest defines the structure for a batch drain request.
type ProcessBatchRequest struct {
	Limit int `json:"limit" binding:"omitempty,gte=1,lte=100"`
}

// ProcessBatchResponse summarises one batch drain for API responses.
type ProcessBatchResponse struct {
	JobsProcessed int    `json:"jobsProcessed"`
	JobsCompleted int    `json:"jobsCompleted"`
	JobsFailed    int    `json:"jobsFailed"`
	JobsRequeued  int    `json:"jobsRequeued"`
	StopReason    string `json:"stopReason"`
}

// RateJobResponse defines the structure for API responses containing job details.
type RateJobResponse struct {
	JobID          string     `json:"jobID"`
	RangeStartDate string     `json:"rangeStartDate"`
	RangeEndDate   string     `json:"rangeEndDate"`
	MissingDates   []string   `json:"missingDates"`
	CurrencyPairs  []string   `json:"currencyPairs"`
	Status         string     `json:"status"`
	RetryCount     int        `json:"retryCount"`
	MaxRetries     int        `json:"maxRetries"`
	LastError      string     `json:"lastError,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	ClaimedAt      *time.Time `json:"claimedAt,omitempty"`
	ProcessedAt    *time.Time `json:"processedAt,omitempty"`
}

// ToPlanJobsResponse converts a domain.PlanningResult to a PlanJobsResponse DTO.
func ToPlanJobsResponse(result domain.PlanningResult) PlanJobsResponse {
	return PlanJobsResponse{
		JobsCreated:   result.JobsCreated,
		JobsSkipped:   result.JobsSkipped,
		JobsReclaimed: result.JobsReclaimed,
	}
}

// ToProcessBatchResponse converts a domain.BatchResult to a ProcessBatchResponse DTO.
func ToProcessBatchResponse(result domain.BatchResult) ProcessBatchResponse {
	return ProcessBatchResponse{
		JobsProcessed: result.JobsProcessed,
		JobsCompleted: result.JobsCompleted,
		JobsFailed:    result.JobsFailed,
		JobsRequeued:  result.JobsRequeued,
		StopReason:    result.StopReason,
	}
}

// ToRateJobResponse converts a domain.ExchangeRateJob to a RateJobResponse DTO.
func ToRateJobResponse(job *domain.ExchangeRateJob) RateJobResponse {
	missing := make([]string, len(job.MissingDates))
	for i, d := range job.MissingDates {
		missing[i] = d.Format("2006-01-02")
	}
	return RateJobResponse{
		JobID:          job.JobID,
		RangeStartDate: job.RangeStartDate.Format("2006-01-02"),
		RangeEndDate:   job.RangeEndDate.Format("2006-01-02"),
		MissingDates:   missing,
		CurrencyPairs:  job.CurrencyPairs,
		Status:         string(job.Status),
		RetryCount:     job.RetryCount,
		MaxRetries:     job.MaxRetries,
		LastError:      job.LastError,
		CreatedAt:      job.CreatedAt,
		ClaimedAt:      job.ClaimedAt,
		ProcessedAt:    job.ProcessedAt,
	}
}
