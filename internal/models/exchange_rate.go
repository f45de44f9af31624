package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the persistence model for a canonical rate row. The table
// carries a unique index on (from_currency, to_currency, date); writes go
// through an upsert so the store stays idempotent under job retries.
type ExchangeRate struct {
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	Rate         decimal.Decimal `json:"rate"`
	Date         time.Time       `json:"date"`
	AuditFields
}

// AuditFields holds common persistence metadata.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
