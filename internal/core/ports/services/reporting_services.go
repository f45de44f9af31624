package services

import (
	"context"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
)

// ReportingSvcFacade aggregates multi-currency financial lines into the base
// currency, degrading to an explicit "cannot calculate" state when any
// contributing line lacks an exchange rate.
type ReportingSvcFacade interface {
	BudgetSummary(ctx context.Context, from, to time.Time) (*domain.BaseCurrencySummary, error)
}
