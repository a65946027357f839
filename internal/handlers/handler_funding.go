package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/dejan-marlovic/relief-finance/internal/core/ports/services"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
	"github.com/dejan-marlovic/relief-finance/internal/middleware"
)

// fundingHandler handles HTTP requests for funding transactions.
type fundingHandler struct {
	fundingService portssvc.FundingSvcFacade
}

func newFundingHandler(fs portssvc.FundingSvcFacade) *fundingHandler {
	return &fundingHandler{fundingService: fs}
}

// registerFundingRoutes registers routes for funding transactions.
func registerFundingRoutes(rg *gin.RouterGroup, fundingService portssvc.FundingSvcFacade) {
	h := newFundingHandler(fundingService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("/:id", h.getTransaction)
		transactions.PUT("/:id", h.updateTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
	}

	rg.GET("/projects/:id/transactions", h.listTransactionsByProject)
}

func (h *fundingHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.fundingService.CreateTransaction(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

func (h *fundingHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	txn, err := h.fundingService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

func (h *fundingHandler) listTransactionsByProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("id")

	txns, err := h.fundingService.ListTransactionsByProject(c.Request.Context(), projectID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}

func (h *fundingHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.fundingService.UpdateTransaction(c.Request.Context(), transactionID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

func (h *fundingHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.fundingService.DeleteTransaction(c.Request.Context(), transactionID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}
