package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
)

// RateGapReader is the planner's view of the gap detector: every
// (pair, date) combination required by recorded financial activity that has
// no canonical rate yet. The underlying query belongs to the aggregation
// domain; the pipeline only consumes its output shape.
type RateGapReader interface {
	// ListMissingRateGaps returns the current gap set ordered by date
	// ascending, optionally filtered to a single date.
	ListMissingRateGaps(ctx context.Context, date *time.Time) ([]domain.MissingRateGap, error)
}
