package pgsql

import (
	portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	exchangeRateRepo := NewPgxExchangeRateRepository(dbPool)
	rateJobRepo := NewPgxRateJobRepository(dbPool)
	rateGapRepo := NewPgxRateGapRepository(dbPool)
	reportingRepo := NewPgxReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		ExchangeRateRepo: exchangeRateRepo,
		RateJobRepo:      rateJobRepo,
		RateGapRepo:      rateGapRepo,
		ReportingRepo:    reportingRepo,
	}
}
