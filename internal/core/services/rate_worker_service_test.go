package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindRate(ctx context.Context, fromCurrency, toCurrency string, date time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCurrency, toCurrency, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) FindNearestRate(ctx context.Context, fromCurrency, toCurrency string, date time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCurrency, toCurrency, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) UpsertRates(ctx context.Context, rates []domain.ExchangeRate) error {
	args := m.Called(ctx, rates)
	return args.Error(0)
}

// --- Mock RateProvider ---
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) FetchRates(ctx context.Context, pairs []string, date time.Time) ([]portssvc.RateQuote, error) {
	args := m.Called(ctx, pairs, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portssvc.RateQuote), args.Error(1)
}

// --- Test Suite ---
type RateWorkerServiceTestSuite struct {
	suite.Suite
	mockJobRepo  *MockRateJobRepository
	mockRateRepo *MockExchangeRateRepository
	mockProvider *MockRateProvider
	service      portssvc.RateWorkerSvcFacade
}

func (suite *RateWorkerServiceTestSuite) SetupTest() {
	suite.mockJobRepo = new(MockRateJobRepository)
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.mockProvider = new(MockRateProvider)
	suite.service = services.NewRateWorkerService(suite.mockJobRepo, suite.mockRateRepo, suite.mockProvider, 2)
}

func pendingJob(jobID string, pairs []string, dates ...time.Time) *domain.ExchangeRateJob {
	return &domain.ExchangeRateJob{
		JobID:          jobID,
		RangeStartDate: dates[0],
		RangeEndDate:   dates[len(dates)-1],
		MissingDates:   dates,
		CurrencyPairs:  pairs,
		Status:         domain.JobStatusPending,
		MaxRetries:     5,
	}
}

// --- Test Cases ---

func (suite *RateWorkerServiceTestSuite) TestProcessJob_Success_PartialProviderData() {
	ctx := context.Background()
	d1 := day("2024-01-01")
	d2 := day("2024-01-02")
	job := pendingJob("job-1", []string{"EUR/USD"}, d1, d2)

	suite.mockJobRepo.On("FindJobByID", ctx, "job-1").Return(job, nil).Once()
	suite.mockJobRepo.On("ClaimJob", ctx, "job-1").Return(nil).Once()

	// Provider has data for the first date only; the second contributes
	// nothing and the job still completes.
	suite.mockProvider.On("FetchRates", ctx, []string{"EUR/USD"}, d1).
		Return([]portssvc.RateQuote{
			{FromCurrency: "EUR", ToCurrency: "USD", Rate: decimal.NewFromFloat(1.09), Date: d1},
		}, nil).Once()
	suite.mockProvider.On("FetchRates", ctx, []string{"EUR/USD"}, d2).
		Return([]portssvc.RateQuote{}, nil).Once()

	var upserted []domain.ExchangeRate
	suite.mockRateRepo.On("UpsertRates", ctx, mock.AnythingOfType("[]domain.ExchangeRate")).
		Run(func(args mock.Arguments) {
			upserted = args.Get(1).([]domain.ExchangeRate)
		}).Return(nil).Once()
	suite.mockJobRepo.On("MarkCompleted", ctx, "job-1").Return(nil).Once()

	status, err := suite.service.ProcessJob(ctx, "job-1")

	suite.Require().NoError(err)
	suite.Equal(domain.JobStatusCompleted, status)
	suite.Require().Len(upserted, 1)
	suite.Equal("EUR", upserted[0].FromCurrencyCode)
	suite.Equal("USD", upserted[0].ToCurrencyCode)
	suite.True(upserted[0].Rate.Equal(decimal.NewFromFloat(1.09)))
	suite.Equal(d1, upserted[0].Date)

	suite.mockJobRepo.AssertExpectations(suite.T())
	suite.mockProvider.AssertExpectations(suite.T())
}

func (suite *RateWorkerServiceTestSuite) TestProcessJob_TerminalJob_NoOp() {
	ctx := context.Background()
	job := pendingJob("job-1", []string{"EUR/USD"}, day("2024-01-01"))
	job.Status = domain.JobStatusCompleted

	suite.mockJobRepo.On("FindJobByID", ctx, "job-1").Return(job, nil).Once()

	status, err := suite.service.ProcessJob(ctx, "job-1")

	suite.Require().NoError(err)
	suite.Equal(domain.JobStatusCompleted, status)
	suite.mockJobRepo.AssertNotCalled(suite.T(), "ClaimJob")
	suite.mockProvider.AssertNotCalled(suite.T(), "FetchRates")
}

func (suite *RateWorkerServiceTestSuite) TestProcessJob_ClaimLost_ReturnsObservedStatus() {
	ctx := context.Background()
	job := pendingJob("job-1", []string{"EUR/USD"}, day("2024-01-01"))
	contested := pendingJob("job-1", []string{"EUR/USD"}, day("2024-01-01"))
	contested.Status = domain.JobStatusProcessing

	suite.mockJobRepo.On("FindJobByID", ctx, "job-1").Return(job, nil).Once()
	suite.mockJobRepo.On("ClaimJob", ctx, "job-1").Return(apperrors.ErrConflict).Once()
	suite.mockJobRepo.On("FindJobByID", ctx, "job-1").Return(contested, nil).Once()

	status, err := suite.service.ProcessJob(ctx, "job-1")

	suite.Require().NoError(err)
	suite.Equal(domain.JobStatusProcessing, status)
	suite.mockProvider.AssertNotCalled(suite.T(), "FetchRates")
	suite.mockRateRepo.AssertNotCalled(suite.T(), "UpsertRates")
}

func (suite *RateWorkerServiceTestSuite) TestProcessJob_RateLimited_Requeued() {
	ctx := context.Background()
	d1 := day("2024-01-01")
	job := pendingJob("job-1", []string{"EUR/USD"}, d1)

	suite.mockJobRepo.On("FindJobByID", ctx, "job-1").Return(job, nil).Once()
	suite.mockJobRepo.On("ClaimJob", ctx, "job-1").Return(nil).Once()
	suite.mockProvider.On("FetchRates", ctx, []string{"EUR/USD"}, d1).
		Return(nil, fmt.Errorf("fetching EUR/USD: %w", portssvc.ErrRateLimited)).Once()
	suite.mockJobRepo.On("RequeueForRetry", ctx, "job-1", mock.AnythingOfType("string")).
		Return(domain.JobStatusPending, nil).Once()

	status, err := suite.service.ProcessJob(ctx, "job-1")

	suite.Require().NoError(err)
	suite.Equal(domain.JobStatusPending, status)
	suite.mockJobRepo.AssertNotCalled(suite.T(), "MarkCompleted")
	suite.mockJobRepo.AssertNotCalled(suite.T(), "MarkFailed")
}

func (suite *RateWorkerServiceTestSuite) TestProcessJob_RetryBudgetExhausted_Failed() {
	ctx := context.Background()
	d1 := day("2024-01-01")
	job := pendingJob("job-1", []string{"EUR/USD"}, d1)
	job.RetryCount = 4

	suite.mockJobRepo.On("FindJobByID", ctx, "job-1").Return(job, nil).Once()
	suite.mockJobRepo.On("ClaimJob", ctx, "job-1").Return(nil).Once()
	suite.mockProvider.On("FetchRates", ctx, []string{"EUR/USD"}, d1).
		Return(nil, portssvc.ErrRateLimited).Once()
	// The repository's atomic bookkeeping decides the terminal transition.
	suite.mockJobRepo.On("RequeueForRetry", ctx, "job-1", mock.AnythingOfType("string")).
		Return(domain.JobStatusFailed, nil).Once()

	status, err := suite.service.ProcessJob(ctx, "job-1")

	suite.Require().NoError(err)
	suite.Equal(domain.JobStatusFailed, status)
}

func (suite *RateWorkerServiceTestSuite) TestProcessJob_PermanentProviderError_FailedImmediately() {
	ctx := context.Background()
	d1 := day("2024-01-01")
	job := pendingJob("job-1", []string{"EUR/USD"}, d1)

	suite.mockJobRepo.On("FindJobByID", ctx, "job-1").Return(job, nil).Once()
	suite.mockJobRepo.On("ClaimJob", ctx, "job-1").Return(nil).Once()
	suite.mockProvider.On("FetchRates", ctx, []string{"EUR/USD"}, d1).
		Return(nil, &portssvc.PermanentProviderError{Pair: "EUR/USD", Detail: "unexpected response shape"}).Once()
	suite.mockJobRepo.On("MarkFailed", ctx, "job-1", mock.AnythingOfType("string")).Return(nil).Once()

	status, err := suite.service.ProcessJob(ctx, "job-1")

	suite.Require().NoError(err)
	suite.Equal(domain.JobStatusFailed, status)
	suite.mockJobRepo.AssertNotCalled(suite.T(), "RequeueForRetry")
}

func (suite *RateWorkerServiceTestSuite) TestProcessJob_UpsertError_NoStatusMutation() {
	ctx := context.Background()
	d1 := day("2024-01-01")
	job := pendingJob("job-1", []string{"EUR/USD"}, d1)

	suite.mockJobRepo.On("FindJobByID", ctx, "job-1").Return(job, nil).Once()
	suite.mockJobRepo.On("ClaimJob", ctx, "job-1").Return(nil).Once()
	suite.mockProvider.On("FetchRates", ctx, []string{"EUR/USD"}, d1).
		Return([]portssvc.RateQuote{
			{FromCurrency: "EUR", ToCurrency: "USD", Rate: decimal.NewFromFloat(1.09), Date: d1},
		}, nil).Once()
	suite.mockRateRepo.On("UpsertRates", ctx, mock.AnythingOfType("[]domain.ExchangeRate")).
		Return(fmt.Errorf("connection reset")).Once()

	_, err := suite.service.ProcessJob(ctx, "job-1")

	suite.Require().Error(err)
	// The job stays in processing for the reclaim sweep.
	suite.mockJobRepo.AssertNotCalled(suite.T(), "MarkCompleted")
	suite.mockJobRepo.AssertNotCalled(suite.T(), "MarkFailed")
	suite.mockJobRepo.AssertNotCalled(suite.T(), "RequeueForRetry")
}

func (suite *RateWorkerServiceTestSuite) TestProcessJob_ContextCanceled_NoStatusMutation() {
	ctx := context.Background()
	d1 := day("2024-01-01")
	job := pendingJob("job-1", []string{"EUR/USD"}, d1)

	suite.mockJobRepo.On("FindJobByID", ctx, "job-1").Return(job, nil).Once()
	suite.mockJobRepo.On("ClaimJob", ctx, "job-1").Return(nil).Once()
	suite.mockProvider.On("FetchRates", ctx, []string{"EUR/USD"}, d1).
		Return(nil, context.Canceled).Once()

	_, err := suite.service.ProcessJob(ctx, "job-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, context.Canceled)
	suite.mockJobRepo.AssertNotCalled(suite.T(), "MarkFailed")
	suite.mockJobRepo.AssertNotCalled(suite.T(), "RequeueForRetry")
}

func (suite *RateWorkerServiceTestSuite) TestProcessPendingJobs_NoPendingJobs() {
	ctx := context.Background()

	suite.mockJobRepo.On("ListPendingJobIDs", ctx, 10).Return([]string{}, nil).Once()

	result, err := suite.service.ProcessPendingJobs(ctx, 10)

	suite.Require().NoError(err)
	suite.Equal(0, result.JobsProcessed)
	suite.Equal("no_pending_jobs", result.StopReason)
}

func (suite *RateWorkerServiceTestSuite) TestProcessPendingJobs_MixedOutcomes() {
	ctx := context.Background()
	d1 := day("2024-01-01")
	okJob := pendingJob("job-ok", []string{"EUR/USD"}, d1)
	retryJob := pendingJob("job-retry", []string{"GBP/USD"}, d1)

	suite.mockJobRepo.On("ListPendingJobIDs", ctx, 10).Return([]string{"job-ok", "job-retry"}, nil).Once()

	suite.mockJobRepo.On("FindJobByID", mock.Anything, "job-ok").Return(okJob, nil).Once()
	suite.mockJobRepo.On("ClaimJob", mock.Anything, "job-ok").Return(nil).Once()
	suite.mockProvider.On("FetchRates", mock.Anything, []string{"EUR/USD"}, d1).
		Return([]portssvc.RateQuote{
			{FromCurrency: "EUR", ToCurrency: "USD", Rate: decimal.NewFromFloat(1.09), Date: d1},
		}, nil).Once()
	suite.mockRateRepo.On("UpsertRates", mock.Anything, mock.AnythingOfType("[]domain.ExchangeRate")).Return(nil).Once()
	suite.mockJobRepo.On("MarkCompleted", mock.Anything, "job-ok").Return(nil).Once()

	suite.mockJobRepo.On("FindJobByID", mock.Anything, "job-retry").Return(retryJob, nil).Once()
	suite.mockJobRepo.On("ClaimJob", mock.Anything, "job-retry").Return(nil).Once()
	suite.mockProvider.On("FetchRates", mock.Anything, []string{"GBP/USD"}, d1).
		Return(nil, portssvc.ErrRateLimited).Once()
	suite.mockJobRepo.On("RequeueForRetry", mock.Anything, "job-retry", mock.AnythingOfType("string")).
		Return(domain.JobStatusPending, nil).Once()

	result, err := suite.service.ProcessPendingJobs(ctx, 10)

	suite.Require().NoError(err)
	suite.Equal(2, result.JobsProcessed)
	suite.Equal(1, result.JobsCompleted)
	suite.Equal(1, result.JobsRequeued)
	suite.Equal(0, result.JobsFailed)
	suite.Equal("drained", result.StopReason)
}

func (suite *RateWorkerServiceTestSuite) TestGetJob_NotFound() {
	ctx := context.Background()

	suite.mockJobRepo.On("FindJobByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	jobSvc, ok := suite.service.(portssvc.RateJobReaderSvc)
	suite.Require().True(ok)

	job, err := jobSvc.GetJob(ctx, "missing")

	suite.Require().Error(err)
	suite.Nil(job)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Run Suite ---
func TestRateWorkerService(t *testing.T) {
	suite.Run(t, new(RateWorkerServiceTestSuite))
}
