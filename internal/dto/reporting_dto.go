package dto

import (
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyGroupResponse represents one original-currency group in the budget
// summary response.
type CurrencyGroupResponse struct {
	CurrencyCode    string           `json:"currencyCode"`
	Total           decimal.Decimal  `json:"total"`
	TotalInBase     *decimal.Decimal `json:"totalInBase"`
	HasExchangeRate bool             `json:"hasExchangeRate"`
}

// BudgetSummaryResponse represents the budget summary report response. Total
// is null whenever any contributing group lacks an exchange rate, which
// canCalculate makes explicit for clients.
type BudgetSummaryResponse struct {
	FromDate         string                  `json:"fromDate"`
	ToDate           string                  `json:"toDate"`
	BaseCurrencyCode string                  `json:"baseCurrencyCode"`
	Total            *decimal.Decimal        `json:"total"`
	CanCalculate     bool                    `json:"canCalculate"`
	Groups           []CurrencyGroupResponse `json:"groups"`
}

// ToBudgetSummaryResponse converts a domain summary to a DTO response.
func ToBudgetSummaryResponse(summary *domain.BaseCurrencySummary, from, to string) BudgetSummaryResponse {
	response := BudgetSummaryResponse{
		FromDate:         from,
		ToDate:           to,
		BaseCurrencyCode: summary.BaseCurrencyCode,
		Total:            summary.Total,
		CanCalculate:     summary.CanCalculate,
		Groups:           make([]CurrencyGroupResponse, len(summary.Groups)),
	}

	for i, group := range summary.Groups {
		response.Groups[i] = CurrencyGroupResponse{
			CurrencyCode:    group.CurrencyCode,
			Total:           group.Total,
			TotalInBase:     group.TotalInBase,
			HasExchangeRate: group.HasExchangeRate,
		}
	}

	return response
}
