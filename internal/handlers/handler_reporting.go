package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/dto"
	"github.com/SscSPs/fintrack_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/budget-summary", h.getBudgetSummary)
	}
}

// getBudgetSummary godoc
// @Summary Generate budget summary report
// @Description Aggregates spending per currency into the base currency; totals are null when any rate is missing
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)" default(first of current month)
// @Param to query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.BudgetSummaryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/budget-summary [get]
func (h *reportingHandler) getBudgetSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	fromStr := c.DefaultQuery("from", monthStart.Format("2006-01-02"))
	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		logger.Warn("Invalid from date format", slog.String("from", fromStr), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	toStr := c.DefaultQuery("to", now.Format("2006-01-02"))
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		logger.Warn("Invalid to date format", slog.String("to", toStr), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to date must not precede from date"})
		return
	}

	logger = logger.With(slog.String("from", fromStr), slog.String("to", toStr))
	logger.Info("Received request for budget summary")

	summary, err := h.reportingService.BudgetSummary(c.Request.Context(), from, to)
	if err != nil {
		logger.Error("Failed to generate budget summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	logger.Info("Budget summary generated", slog.Bool("can_calculate", summary.CanCalculate))
	c.JSON(http.StatusOK, dto.ToBudgetSummaryResponse(summary, fromStr, toStr))
}
