package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the canonical conversion rate between two currencies on a
// specific date. The rate store holds exactly one row per
// (FromCurrencyCode, ToCurrencyCode, Date) key; the fetch worker is the only
// writer and writes are upserts, so retries never produce duplicates.
type ExchangeRate struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"` // e.g. "EUR"
	ToCurrencyCode   string          `json:"toCurrencyCode"`   // e.g. "USD"
	Rate             decimal.Decimal `json:"rate"`
	Date             time.Time       `json:"date"` // date only, truncated to UTC midnight
}

// MissingRateGap is one (currency pair, date) combination for which financial
// activity exists but no canonical rate has been recorded. Gaps are derived
// fresh on every planning run and never stored by the pipeline.
type MissingRateGap struct {
	CurrencyCode     string    `json:"currencyCode"`
	BaseCurrencyCode string    `json:"baseCurrencyCode"`
	Date             time.Time `json:"date"`
}

// Pair renders the gap as the provider symbol "{currency}/{base}".
func (g MissingRateGap) Pair() string {
	return g.CurrencyCode + "/" + g.BaseCurrencyCode
}
