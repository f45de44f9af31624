package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo *MockExchangeRateRepository
	service      portssvc.ExchangeRateSvcFacade
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.service = services.NewExchangeRateService(suite.mockRateRepo)
}

// --- Test Cases ---

func (suite *ExchangeRateServiceTestSuite) TestGetRateForDate_Success() {
	ctx := context.Background()
	date := day("2024-01-01")
	expected := &domain.ExchangeRate{
		FromCurrencyCode: "EUR",
		ToCurrencyCode:   "USD",
		Rate:             decimal.NewFromFloat(1.09),
		Date:             date,
	}

	suite.mockRateRepo.On("FindRate", ctx, "EUR", "USD", date).Return(expected, nil).Once()

	rate, err := suite.service.GetRateForDate(ctx, "EUR", "USD", date)

	suite.Require().NoError(err)
	suite.Equal(expected, rate)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestGetRateForDate_NormalizesCase() {
	ctx := context.Background()
	date := day("2024-01-01")
	expected := &domain.ExchangeRate{FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Date: date}

	suite.mockRateRepo.On("FindRate", ctx, "EUR", "USD", date).Return(expected, nil).Once()

	rate, err := suite.service.GetRateForDate(ctx, "eur", "usd", date)

	suite.Require().NoError(err)
	suite.Equal(expected, rate)
}

func (suite *ExchangeRateServiceTestSuite) TestGetRateForDate_SameCurrency() {
	ctx := context.Background()
	date := day("2024-01-01")

	rate, err := suite.service.GetRateForDate(ctx, "USD", "USD", date)

	suite.Require().NoError(err)
	suite.Require().NotNil(rate)
	suite.True(rate.Rate.Equal(decimal.NewFromInt(1)))
	suite.Equal(date, rate.Date)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindRate")
}

func (suite *ExchangeRateServiceTestSuite) TestGetRateForDate_InvalidCode() {
	ctx := context.Background()
	date := day("2024-01-01")

	rate, err := suite.service.GetRateForDate(ctx, "EU", "USD", date)

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindRate")
}

func (suite *ExchangeRateServiceTestSuite) TestGetRateForDate_NotFound() {
	ctx := context.Background()
	date := day("2024-01-01")

	suite.mockRateRepo.On("FindRate", ctx, "EUR", "USD", date).Return(nil, apperrors.ErrNotFound).Once()

	rate, err := suite.service.GetRateForDate(ctx, "EUR", "USD", date)

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Run Suite ---
func TestExchangeRateService(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
