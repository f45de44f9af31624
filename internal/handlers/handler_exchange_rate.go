package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/dto"
	"github.com/SscSPs/fintrack_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.GET("/:from/:to", h.getExchangeRate)
	}
}

// getExchangeRate godoc
// @Summary Get an exchange rate
// @Description Retrieves the canonical exchange rate for a currency pair on a given date
// @Tags exchange rates
// @Produce  json
// @Param   from path string true "From Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   to   path string true "To Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   date query string false "Rate date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid currency code format"
// @Failure 404 {object} map[string]string "Exchange rate not found"
// @Failure 500 {object} map[string]string "Failed to retrieve exchange rate"
// @Security BearerAuth
// @Router /exchange-rates/{from}/{to} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode := c.Param("from")
	toCode := c.Param("to")

	dateStr := c.DefaultQuery("date", time.Now().UTC().Format("2006-01-02"))
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		logger.Warn("Invalid date format", slog.String("date", dateStr), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	logger = logger.With(slog.String("from_code", fromCode), slog.String("to_code", toCode), slog.String("date", dateStr))
	logger.Info("Received request to get exchange rate")

	rate, err := h.exchangeRateService.GetRateForDate(c.Request.Context(), fromCode, toCode, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error getting exchange rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Exchange rate not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Exchange rate not found"})
		} else {
			logger.Error("Failed to get exchange rate from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve exchange rate"})
		}
		return
	}

	logger.Info("Exchange rate retrieved successfully")
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}
