package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/SscSPs/fintrack_backend/internal/models"
	"github.com/SscSPs/fintrack_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxExchangeRateRepository implements the ports.ExchangeRateRepositoryFacade interface using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// NewPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func NewPgxExchangeRateRepository(db *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// UpsertRates persists a batch of canonical rates in one queued round trip.
// The ON CONFLICT target is the store's unique (from, to, date) key, so
// re-running a job after a crash rewrites identical rows instead of
// duplicating them.
func (r *PgxExchangeRateRepository) UpsertRates(ctx context.Context, rates []domain.ExchangeRate) error {
	if len(rates) == 0 {
		return nil
	}

	const query = `
		INSERT INTO exchange_rates (from_currency, to_currency, rate, date, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (from_currency, to_currency, date)
		DO UPDATE SET rate = EXCLUDED.rate, last_updated_at = now()`

	batch := &pgx.Batch{}
	for _, rate := range rates {
		modelRate := mapping.ToModelExchangeRate(rate)
		batch.Queue(query,
			strings.ToUpper(modelRate.FromCurrency),
			strings.ToUpper(modelRate.ToCurrency),
			modelRate.Rate,
			modelRate.Date,
		)
	}

	results := r.Pool.SendBatch(ctx, batch)
	defer results.Close()
	for range rates {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert exchange rate batch: %w", err)
		}
	}
	return nil
}

// FindRate retrieves the canonical rate for a pair on an exact date.
func (r *PgxExchangeRateRepository) FindRate(ctx context.Context, fromCurrency, toCurrency string, date time.Time) (*domain.ExchangeRate, error) {
	const query = `
		SELECT from_currency, to_currency, rate, date
		FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2 AND date = $3`

	return r.scanRate(r.Pool.QueryRow(ctx, query, strings.ToUpper(fromCurrency), strings.ToUpper(toCurrency), date))
}

// FindNearestRate retrieves the most recent rate on or before the given date.
func (r *PgxExchangeRateRepository) FindNearestRate(ctx context.Context, fromCurrency, toCurrency string, date time.Time) (*domain.ExchangeRate, error) {
	const query = `
		SELECT from_currency, to_currency, rate, date
		FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2 AND date <= $3
		ORDER BY date DESC
		LIMIT 1`

	return r.scanRate(r.Pool.QueryRow(ctx, query, strings.ToUpper(fromCurrency), strings.ToUpper(toCurrency), date))
}

func (r *PgxExchangeRateRepository) scanRate(row pgx.Row) (*domain.ExchangeRate, error) {
	var modelRate models.ExchangeRate
	err := row.Scan(&modelRate.FromCurrency, &modelRate.ToCurrency, &modelRate.Rate, &modelRate.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exchange rate: %w", err)
	}
	domainRate := mapping.ToDomainExchangeRate(modelRate)
	return &domainRate, nil
}
