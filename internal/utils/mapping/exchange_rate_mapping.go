package mapping

import (
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/SscSPs/fintrack_backend/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		FromCurrency: d.FromCurrencyCode,
		ToCurrency:   d.ToCurrencyCode,
		Rate:         d.Rate,
		Date:         d.Date,
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		FromCurrencyCode: m.FromCurrency,
		ToCurrencyCode:   m.ToCurrency,
		Rate:             m.Rate,
		Date:             m.Date,
	}
}

// ToDomainMissingRateGap converts a missing_exchange_rates view row to its domain shape
func ToDomainMissingRateGap(m models.MissingExchangeRate) domain.MissingRateGap {
	return domain.MissingRateGap{
		CurrencyCode:     m.CurrencyCode,
		BaseCurrencyCode: m.BaseCurrencyCode,
		Date:             m.Date,
	}
}
