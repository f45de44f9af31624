package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/SscSPs/fintrack_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) ListSummaryItems(ctx context.Context, from, to time.Time) ([]domain.SummaryItem, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SummaryItem), args.Error(1)
}

// --- Test Suite ---
type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockReportingRepository
	service  *services.ReportingService
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReportingRepository)
	suite.service = services.NewReportingService(suite.mockRepo)
}

func dec(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

// --- Test Cases ---

func (suite *ReportingServiceTestSuite) TestBudgetSummary_AllRatesAvailable() {
	ctx := context.Background()
	from := day("2024-01-01")
	to := day("2024-01-31")
	items := []domain.SummaryItem{
		{CurrencyCode: "USD", BaseCurrencyCode: "USD", Amount: decimal.NewFromInt(100)},
		{CurrencyCode: "EUR", BaseCurrencyCode: "USD", Amount: decimal.NewFromInt(50), AmountInBase: dec(54.5)},
		{CurrencyCode: "EUR", BaseCurrencyCode: "USD", Amount: decimal.NewFromInt(10), AmountInBase: dec(10.9)},
	}

	suite.mockRepo.On("ListSummaryItems", ctx, from, to).Return(items, nil).Once()

	summary, err := suite.service.BudgetSummary(ctx, from, to)

	suite.Require().NoError(err)
	suite.True(summary.CanCalculate)
	suite.Equal("USD", summary.BaseCurrencyCode)
	suite.Require().NotNil(summary.Total)
	suite.True(summary.Total.Equal(decimal.NewFromFloat(165.4)))
	suite.Require().Len(summary.Groups, 2)

	for _, group := range summary.Groups {
		suite.True(group.HasExchangeRate)
		suite.Require().NotNil(group.TotalInBase)
		switch group.CurrencyCode {
		case "USD":
			suite.True(group.Total.Equal(decimal.NewFromInt(100)))
			suite.True(group.TotalInBase.Equal(decimal.NewFromInt(100)))
		case "EUR":
			suite.True(group.Total.Equal(decimal.NewFromInt(60)))
			suite.True(group.TotalInBase.Equal(decimal.NewFromFloat(65.4)))
		default:
			suite.Failf("unexpected group", "currency %s", group.CurrencyCode)
		}
	}
}

func (suite *ReportingServiceTestSuite) TestBudgetSummary_MissingRateDegradesGracefully() {
	ctx := context.Background()
	from := day("2024-01-01")
	to := day("2024-01-31")
	items := []domain.SummaryItem{
		{CurrencyCode: "USD", BaseCurrencyCode: "USD", Amount: decimal.NewFromInt(100)},
		{CurrencyCode: "EUR", BaseCurrencyCode: "USD", Amount: decimal.NewFromInt(50), AmountInBase: dec(54.5)},
		// No rate for this one; its group and the grand total degrade.
		{CurrencyCode: "EUR", BaseCurrencyCode: "USD", Amount: decimal.NewFromInt(10)},
	}

	suite.mockRepo.On("ListSummaryItems", ctx, from, to).Return(items, nil).Once()

	summary, err := suite.service.BudgetSummary(ctx, from, to)

	suite.Require().NoError(err)
	suite.False(summary.CanCalculate)
	suite.Nil(summary.Total)
	suite.Require().Len(summary.Groups, 2)

	for _, group := range summary.Groups {
		switch group.CurrencyCode {
		case "USD":
			suite.True(group.HasExchangeRate)
			suite.Require().NotNil(group.TotalInBase)
		case "EUR":
			suite.False(group.HasExchangeRate)
			suite.Nil(group.TotalInBase)
			// The original-currency total is still reported in full.
			suite.True(group.Total.Equal(decimal.NewFromInt(60)))
		}
	}
}

func (suite *ReportingServiceTestSuite) TestBudgetSummary_NoItems() {
	ctx := context.Background()
	from := day("2024-01-01")
	to := day("2024-01-31")

	suite.mockRepo.On("ListSummaryItems", ctx, from, to).Return([]domain.SummaryItem{}, nil).Once()

	summary, err := suite.service.BudgetSummary(ctx, from, to)

	suite.Require().NoError(err)
	suite.True(summary.CanCalculate)
	suite.Nil(summary.Total)
	suite.Empty(summary.Groups)
}

func (suite *ReportingServiceTestSuite) TestBudgetSummary_RepositoryError() {
	ctx := context.Background()
	from := day("2024-01-01")
	to := day("2024-01-31")

	suite.mockRepo.On("ListSummaryItems", ctx, from, to).Return(nil, fmt.Errorf("connection refused")).Once()

	summary, err := suite.service.BudgetSummary(ctx, from, to)

	suite.Require().Error(err)
	suite.Nil(summary)
}

func TestSummarizeItems_SameCurrencyOnly(t *testing.T) {
	items := []domain.SummaryItem{
		{CurrencyCode: "USD", BaseCurrencyCode: "USD", Amount: decimal.NewFromInt(25)},
		{CurrencyCode: "USD", BaseCurrencyCode: "USD", Amount: decimal.NewFromInt(75)},
	}

	summary := services.SummarizeItems(items)

	if !summary.CanCalculate {
		t.Fatal("expected same-currency items to always be calculable")
	}
	if summary.Total == nil || !summary.Total.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected total 100, got %v", summary.Total)
	}
}

// --- Run Suite ---
func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
