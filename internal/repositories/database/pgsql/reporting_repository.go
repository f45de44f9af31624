package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxReportingRepository supplies aggregation consumers with transaction
// amounts joined against the canonical rate store. The LEFT JOIN keeps lines
// without a rate: their converted amount scans as NULL rather than dropping
// the line, which is what lets consumers report "rate unavailable".
type PgxReportingRepository struct {
	BaseRepository
}

// NewPgxReportingRepository creates a new PgxReportingRepository.
func NewPgxReportingRepository(db *pgxpool.Pool) *PgxReportingRepository {
	return &PgxReportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// ListSummaryItems returns spending lines between from and to inclusive,
// each with its base-currency conversion when a canonical rate existed for
// the transaction date.
func (r *PgxReportingRepository) ListSummaryItems(ctx context.Context, from, to time.Time) ([]domain.SummaryItem, error) {
	const query = `
		SELECT
			t.currency_code,
			t.base_currency_code,
			t.amount,
			t.amount * er.rate AS amount_in_base
		FROM transactions t
		LEFT JOIN exchange_rates er
			ON er.from_currency = t.currency_code
			AND er.to_currency = t.base_currency_code
			AND er.date = t.date
		WHERE t.date BETWEEN $1 AND $2
		ORDER BY t.date`

	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary items: %w", err)
	}
	defer rows.Close()

	var items []domain.SummaryItem
	for rows.Next() {
		var item domain.SummaryItem
		var amountInBase *decimal.Decimal
		if err := rows.Scan(&item.CurrencyCode, &item.BaseCurrencyCode, &item.Amount, &amountInBase); err != nil {
			return nil, fmt.Errorf("failed to scan summary item: %w", err)
		}
		item.AmountInBase = amountInBase
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summary items: %w", err)
	}
	return items, nil
}
