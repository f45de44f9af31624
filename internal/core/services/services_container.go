package services

import (
	portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, provider portssvc.RateProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.RatePlanner = NewRatePlannerService(
		repos.RateGapRepo,
		repos.RateJobRepo,
		cfg.JobMaxRetries,
		cfg.JobStaleAfter,
	)

	worker := NewRateWorkerService(
		repos.RateJobRepo,
		repos.ExchangeRateRepo,
		provider,
		cfg.WorkerConcurrency,
	)
	container.RateWorker = worker
	container.RateJobs = worker

	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo)

	return container
}

// Compile-time interface checks
var (
	_ portssvc.RatePlannerSvcFacade  = (*ratePlannerService)(nil)
	_ portssvc.RateWorkerSvcFacade   = (*rateWorkerService)(nil)
	_ portssvc.RateJobReaderSvc      = (*rateWorkerService)(nil)
	_ portssvc.ExchangeRateSvcFacade = (*ExchangeRateService)(nil)
	_ portssvc.ReportingSvcFacade    = (*ReportingService)(nil)
)
