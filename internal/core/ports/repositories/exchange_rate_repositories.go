package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
)

// ExchangeRateReader defines read operations over the canonical rate store
type ExchangeRateReader interface {
	// FindRate retrieves the canonical rate for a pair on an exact date.
	// Returns apperrors.ErrNotFound when no row exists for the key.
	FindRate(ctx context.Context, fromCurrency, toCurrency string, date time.Time) (*domain.ExchangeRate, error)

	// FindNearestRate retrieves the most recent rate on or before the given
	// date, for consumers whose policy accepts a nearby rate.
	FindNearestRate(ctx context.Context, fromCurrency, toCurrency string, date time.Time) (*domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations over the canonical rate store.
// The fetch worker is the sole caller; no other component writes rates.
type ExchangeRateWriter interface {
	// UpsertRates persists a batch of rates keyed on
	// (fromCurrency, toCurrency, date), replacing existing rows. Applying the
	// same batch twice leaves the store unchanged apart from audit timestamps.
	UpsertRates(ctx context.Context, rates []domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all rate-store repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
