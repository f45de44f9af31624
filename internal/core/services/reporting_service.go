package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// ReportingService aggregates multi-currency financial lines into the base
// currency. A missing exchange rate is a first-class outcome here, never an
// error: each line always reports its original-currency amount, and the
// cross-currency total downgrades to "cannot calculate" when any group lacks
// a rate.
type ReportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingReader
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingReader) *ReportingService {
	return &ReportingService{reportingRepo: reportingRepo}
}

// BudgetSummary aggregates spending between from and to inclusive, grouped
// by original currency with per-group conversion state and a base-currency
// grand total.
func (s *ReportingService) BudgetSummary(ctx context.Context, from, to time.Time) (*domain.BaseCurrencySummary, error) {
	items, err := s.reportingRepo.ListSummaryItems(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list summary items: %w", err)
	}
	return SummarizeItems(items), nil
}

// SummarizeItems folds summary lines into currency groups and the grand
// total. Exposed separately so tests and other consumers (debt, goal, asset
// reporting) can reuse the aggregation without a repository.
func SummarizeItems(items []domain.SummaryItem) *domain.BaseCurrencySummary {
	summary := &domain.BaseCurrencySummary{CanCalculate: true}
	groupIndex := make(map[string]int)

	for _, item := range items {
		if summary.BaseCurrencyCode == "" {
			summary.BaseCurrencyCode = item.BaseCurrencyCode
		}

		idx, exists := groupIndex[item.CurrencyCode]
		if !exists {
			zero := decimal.Zero
			summary.Groups = append(summary.Groups, domain.CurrencyGroupSummary{
				CurrencyCode:     item.CurrencyCode,
				BaseCurrencyCode: item.BaseCurrencyCode,
				Total:            decimal.Zero,
				TotalInBase:      &zero,
				HasExchangeRate:  true,
			})
			idx = len(summary.Groups) - 1
			groupIndex[item.CurrencyCode] = idx
		}
		group := &summary.Groups[idx]

		// The original-currency amount is always reported.
		group.Total = group.Total.Add(item.Amount)

		switch {
		case item.CurrencyCode == item.BaseCurrencyCode:
			// Same currency converts trivially.
			if group.TotalInBase != nil {
				converted := group.TotalInBase.Add(item.Amount)
				group.TotalInBase = &converted
			}
		case item.AmountInBase != nil:
			if group.TotalInBase != nil {
				converted := group.TotalInBase.Add(*item.AmountInBase)
				group.TotalInBase = &converted
			}
		default:
			// One unconverted item poisons the whole group.
			group.TotalInBase = nil
			group.HasExchangeRate = false
		}
	}

	total := decimal.Zero
	for _, group := range summary.Groups {
		if group.TotalInBase == nil {
			summary.CanCalculate = false
			summary.Total = nil
			return summary
		}
		total = total.Add(*group.TotalInBase)
	}
	if len(summary.Groups) > 0 {
		summary.Total = &total
	}
	return summary
}
