package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
)

// ReportingReader supplies aggregation consumers with financial lines joined
// against the canonical rate store. AmountInBase is left nil when no rate
// existed for the line's date; consumers degrade gracefully instead of
// treating that as an error.
type ReportingReader interface {
	// ListSummaryItems returns spending lines between from and to inclusive,
	// each with its base-currency conversion when a rate was available.
	ListSummaryItems(ctx context.Context, from, to time.Time) ([]domain.SummaryItem, error)
}
