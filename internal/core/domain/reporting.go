package domain

import (
	"github.com/shopspring/decimal"
)

// SummaryItem is one financial line needing conversion into the base
// currency: a transaction amount in its original currency, plus the converted
// amount when a canonical rate existed for the transaction date.
type SummaryItem struct {
	CurrencyCode     string           `json:"currencyCode"`
	BaseCurrencyCode string           `json:"baseCurrencyCode"`
	Amount           decimal.Decimal  `json:"amount"`
	AmountInBase     *decimal.Decimal `json:"amountInBase"` // nil when no rate was available
}

// HasExchangeRate reports whether this item can be expressed in the base
// currency. Same-currency items convert trivially.
func (i SummaryItem) HasExchangeRate() bool {
	return i.CurrencyCode == i.BaseCurrencyCode || i.AmountInBase != nil
}

// CurrencyGroupSummary aggregates summary items sharing one original
// currency. TotalInBase is nil and HasExchangeRate false as soon as any
// contributing item of a differing currency lacks a rate.
type CurrencyGroupSummary struct {
	CurrencyCode     string           `json:"currencyCode"`
	BaseCurrencyCode string           `json:"baseCurrencyCode"`
	Total            decimal.Decimal  `json:"total"`
	TotalInBase      *decimal.Decimal `json:"totalInBase"`
	HasExchangeRate  bool             `json:"hasExchangeRate"`
}

// BaseCurrencySummary is the cross-currency grand total. When any group could
// not be converted, CanCalculate is false and Total is nil rather than a
// silently incomplete number.
type BaseCurrencySummary struct {
	BaseCurrencyCode string                 `json:"baseCurrencyCode"`
	Total            *decimal.Decimal       `json:"total"`
	CanCalculate     bool                   `json:"canCalculate"`
	Groups           []CurrencyGroupSummary `json:"groups"`
}
