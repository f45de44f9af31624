package services

import (
	"context"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
)

// ExchangeRateSvcFacade is the consumer-facing rate lookup surface.
type ExchangeRateSvcFacade interface {
	// GetRateForDate returns the canonical rate for a pair on a date.
	// Identical currencies yield a trivial 1:1 rate without touching the
	// store. A missing rate surfaces apperrors.ErrNotFound; consumers treat
	// that as an "unavailable" state, never a crash.
	GetRateForDate(ctx context.Context, fromCurrency, toCurrency string, date time.Time) (*domain.ExchangeRate, error)
}
