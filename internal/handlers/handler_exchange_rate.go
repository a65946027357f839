package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/dejan-marlovic/relief-finance/internal/core/ports/services"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
	"github.com/dejan-marlovic/relief-finance/internal/middleware"
)

type exchangeRateHandler struct {
	rateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(rs portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{rateService: rs}
}

// registerExchangeRateRoutes registers routes for exchange rate master data.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(rateService)

	rates := rg.Group("/exchange-rates")
	{
		rates.POST("", h.createRate)
		rates.GET("/:id", h.getRate)
		rates.GET("", h.listRates)
	}
}

func (h *exchangeRateHandler) createRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rate, err := h.rateService.CreateRate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create exchange rate")
		return
	}
	c.JSON(http.StatusCreated, rate)
}

func (h *exchangeRateHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	rateID := c.Param("id")

	rate, err := h.rateService.GetRateByID(c.Request.Context(), rateID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve exchange rate")
		return
	}
	c.JSON(http.StatusOK, rate)
}

func (h *exchangeRateHandler) listRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	rates, err := h.rateService.ListRates(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list exchange rates")
		return
	}
	c.JSON(http.StatusOK, rates)
}
