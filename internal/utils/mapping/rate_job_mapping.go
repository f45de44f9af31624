package mapping

import (
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/SscSPs/fintrack_backend/internal/models"
)

// ToModelExchangeRateJob converts a domain job to its persistence model
func ToModelExchangeRateJob(d domain.ExchangeRateJob) models.ExchangeRateJob {
	m := models.ExchangeRateJob{
		JobID:         d.JobID,
		Date:          d.RangeStartDate,
		EndDate:       d.RangeEndDate,
		MissingDates:  d.MissingDates,
		CurrencyPairs: d.CurrencyPairs,
		Status:        string(d.Status),
		RetryCount:    d.RetryCount,
		MaxRetries:    d.MaxRetries,
		CreatedAt:     d.CreatedAt,
		ClaimedAt:     d.ClaimedAt,
		ProcessedAt:   d.ProcessedAt,
	}
	if d.LastError != "" {
		m.LastError = &d.LastError
	}
	return m
}

// ToDomainExchangeRateJob converts a persistence model to its domain shape
func ToDomainExchangeRateJob(m models.ExchangeRateJob) domain.ExchangeRateJob {
	d := domain.ExchangeRateJob{
		JobID:          m.JobID,
		RangeStartDate: m.Date,
		RangeEndDate:   m.EndDate,
		MissingDates:   m.MissingDates,
		CurrencyPairs:  m.CurrencyPairs,
		Status:         domain.JobStatus(m.Status),
		RetryCount:     m.RetryCount,
		MaxRetries:     m.MaxRetries,
		CreatedAt:      m.CreatedAt,
		ClaimedAt:      m.ClaimedAt,
		ProcessedAt:    m.ProcessedAt,
	}
	if m.LastError != nil {
		d.LastError = *m.LastError
	}
	return d
}
