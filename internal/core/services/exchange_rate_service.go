package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// ExchangeRateService provides rate lookups for aggregation consumers. It
// only reads; the fetch worker owns all writes into the rate store.
type ExchangeRateService struct {
	BaseService
	rateRepo portsrepo.ExchangeRateReader
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateReader) *ExchangeRateService {
	return &ExchangeRateService{rateRepo: rateRepo}
}

// GetRateForDate retrieves the canonical rate for a currency pair on a date.
// Identical currencies convert trivially at 1:1 without a store lookup. A
// missing rate surfaces as apperrors.ErrNotFound so consumers can degrade to
// an explicit "rate unavailable" state instead of failing.
func (s *ExchangeRateService) GetRateForDate(ctx context.Context, fromCurrency, toCurrency string, date time.Time) (*domain.ExchangeRate, error) {
	fromCurrency = strings.ToUpper(fromCurrency)
	toCurrency = strings.ToUpper(toCurrency)
	if len(fromCurrency) != 3 || len(toCurrency) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	if fromCurrency == toCurrency {
		return &domain.ExchangeRate{
			FromCurrencyCode: fromCurrency,
			ToCurrencyCode:   toCurrency,
			Rate:             decimal.NewFromInt(1),
			Date:             date,
		}, nil
	}

	rate, err := s.rateRepo.FindRate(ctx, fromCurrency, toCurrency, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange rate in service: %w", err)
	}
	return rate, nil
}
