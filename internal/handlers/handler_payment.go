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

// paymentHandler handles HTTP requests for payment orders, lines and
// signatures.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// registerPaymentRoutes registers routes for the payment order aggregate.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	orders := rg.Group("/payment-orders")
	{
		orders.POST("", h.createOrder)
		orders.GET("", h.listOrders)
		orders.GET("/:id", h.getOrder)
		orders.PUT("/:id", h.updateOrder)
		orders.DELETE("/:id", h.deleteOrder)

		orders.POST("/:id/lines", h.createLine)
		orders.POST("/:id/signatures", h.addSignature)
	}

	lines := rg.Group("/payment-lines")
	{
		lines.PUT("/:id", h.updateLine)
		lines.DELETE("/:id", h.deleteLine)
	}

	rg.DELETE("/signatures/:id", h.removeSignature)
}

func (h *paymentHandler) createOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePaymentOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	order, err := h.paymentService.CreateOrder(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create payment order")
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *paymentHandler) getOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentOrderID := c.Param("id")

	resp, err := h.paymentService.GetOrder(c.Request.Context(), paymentOrderID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve payment order")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *paymentHandler) listOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	orders, err := h.paymentService.ListOrders(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payment orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *paymentHandler) updateOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentOrderID := c.Param("id")

	var req dto.UpdatePaymentOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	order, err := h.paymentService.UpdateOrder(c.Request.Context(), paymentOrderID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update payment order")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *paymentHandler) deleteOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentOrderID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.paymentService.DeleteOrder(c.Request.Context(), paymentOrderID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete payment order")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *paymentHandler) createLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentOrderID := c.Param("id")

	var req dto.CreatePaymentLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLine", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	line, err := h.paymentService.CreateLine(c.Request.Context(), paymentOrderID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create payment line")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPaymentLineResponse(line))
}

func (h *paymentHandler) updateLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	lineID := c.Param("id")

	var req dto.UpdatePaymentLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateLine", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	line, err := h.paymentService.UpdateLine(c.Request.Context(), lineID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update payment line")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentLineResponse(line))
}

func (h *paymentHandler) deleteLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	lineID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.paymentService.DeleteLine(c.Request.Context(), lineID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete payment line")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *paymentHandler) addSignature(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentOrderID := c.Param("id")

	var req dto.CreateSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddSignature", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	signerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	signature, err := h.paymentService.AddSignature(c.Request.Context(), paymentOrderID, req, signerUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add signature")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSignatureResponse(signature))
}

func (h *paymentHandler) removeSignature(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	signatureID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.paymentService.RemoveSignature(c.Request.Context(), signatureID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to remove signature")
		return
	}
	c.Status(http.StatusNoContent)
}
