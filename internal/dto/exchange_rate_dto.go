package dto

import (
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateResponse defines the structure for API responses containing a
// canonical exchange rate.
type ExchangeRateResponse struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	Date             string          `json:"date"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		Date:             rate.Date.Format("2006-01-02"),
	}
}
