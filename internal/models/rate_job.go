package models

import "time"

// ExchangeRateJob is the persistence model for the exchange_rate_jobs table.
// Date and EndDate bound the range covered by MissingDates; CurrencyPairs is
// a sorted text[] of "{from}/{to}" symbols.
type ExchangeRateJob struct {
	JobID         string      `json:"jobID"`
	Date          time.Time   `json:"date"`
	EndDate       time.Time   `json:"endDate"`
	MissingDates  []time.Time `json:"missingDates"`
	CurrencyPairs []string    `json:"currencyPairs"`
	Status        string      `json:"status"`
	RetryCount    int         `json:"retryCount"`
	MaxRetries    int         `json:"maxRetries"`
	LastError     *string     `json:"lastError"`
	CreatedAt     time.Time   `json:"createdAt"`
	ClaimedAt     *time.Time  `json:"claimedAt"`
	ProcessedAt   *time.Time  `json:"processedAt"`
}

// MissingExchangeRate is one row of the missing_exchange_rates view: a
// (pair, date) combination required by recorded activity but absent from the
// canonical rate store.
type MissingExchangeRate struct {
	CurrencyCode     string    `json:"currencyCode"`
	BaseCurrencyCode string    `json:"baseCurrencyCode"`
	Date             time.Time `json:"date"`
}
