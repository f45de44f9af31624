package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/SscSPs/fintrack_backend/internal/models"
	"github.com/SscSPs/fintrack_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRateGapRepository reads the missing_exchange_rates view. The view is
// maintained by the aggregation domain; the pipeline only consumes it.
type PgxRateGapRepository struct {
	BaseRepository
}

// NewPgxRateGapRepository creates a new PgxRateGapRepository.
func NewPgxRateGapRepository(db *pgxpool.Pool) *PgxRateGapRepository {
	return &PgxRateGapRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// ListMissingRateGaps returns every (pair, date) combination that recorded
// financial activity needs a rate for, ordered by date ascending, optionally
// filtered to a single date.
func (r *PgxRateGapRepository) ListMissingRateGaps(ctx context.Context, date *time.Time) ([]domain.MissingRateGap, error) {
	query := `
		SELECT currency_code, base_currency_code, date
		FROM missing_exchange_rates`
	args := []interface{}{}
	if date != nil {
		query += ` WHERE date = $1`
		args = append(args, *date)
	}
	query += ` ORDER BY date`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query missing exchange rates: %w", err)
	}
	defer rows.Close()

	var gaps []domain.MissingRateGap
	for rows.Next() {
		var m models.MissingExchangeRate
		if err := rows.Scan(&m.CurrencyCode, &m.BaseCurrencyCode, &m.Date); err != nil {
			return nil, fmt.Errorf("failed to scan missing exchange rate: %w", err)
		}
		gaps = append(gaps, mapping.ToDomainMissingRateGap(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating missing exchange rates: %w", err)
	}
	return gaps, nil
}
