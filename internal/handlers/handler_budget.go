package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/dejan-marlovic/relief-finance/internal/core/ports/services"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
	"github.com/dejan-marlovic/relief-finance/internal/middleware"
)

// budgetHandler handles HTTP requests for budgets and their cost lines.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

func newBudgetHandler(bs portssvc.BudgetSvcFacade) *budgetHandler {
	return &budgetHandler{budgetService: bs}
}

// registerBudgetRoutes registers routes for budgets and cost details.
func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := newBudgetHandler(budgetService)

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("/:id", h.getBudget)
		budgets.GET("/:id/cost-details", h.listCostDetails)
		budgets.PUT("/:id/rates", h.updateBudgetRates)
		budgets.DELETE("/:id", h.deleteBudget)
	}

	costDetails := rg.Group("/cost-details")
	{
		costDetails.POST("", h.createCostDetail)
		costDetails.GET("/:id", h.getCostDetail)
		costDetails.PUT("/:id", h.updateCostDetail)
		costDetails.DELETE("/:id", h.deleteCostDetail)
	}

	rg.GET("/projects/:id/budgets", h.listBudgetsByProject)
}

func (h *budgetHandler) listBudgetsByProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("id")

	budgets, err := h.budgetService.ListBudgetsByProject(c.Request.Context(), projectID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list budgets")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponses(budgets))
}

func (h *budgetHandler) createBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBudget", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create budget")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

func (h *budgetHandler) getBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("id")

	budget, err := h.budgetService.GetBudgetByID(c.Request.Context(), budgetID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

func (h *budgetHandler) updateBudgetRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("id")

	var req dto.UpdateBudgetRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateBudgetRates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	budget, err := h.budgetService.UpdateBudgetRates(c.Request.Context(), budgetID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update budget rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

func (h *budgetHandler) deleteBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), budgetID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete budget")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *budgetHandler) createCostDetail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCostDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCostDetail", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cd, err := h.budgetService.CreateCostDetail(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create cost detail")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCostDetailResponse(cd))
}

func (h *budgetHandler) getCostDetail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	costDetailID := c.Param("id")

	cd, err := h.budgetService.GetCostDetailByID(c.Request.Context(), costDetailID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve cost detail")
		return
	}
	c.JSON(http.StatusOK, dto.ToCostDetailResponse(cd))
}

func (h *budgetHandler) listCostDetails(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("id")

	details, err := h.budgetService.ListCostDetailsByBudget(c.Request.Context(), budgetID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list cost details")
		return
	}
	c.JSON(http.StatusOK, dto.ToCostDetailResponses(details))
}

func (h *budgetHandler) updateCostDetail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	costDetailID := c.Param("id")

	var req dto.UpdateCostDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCostDetail", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cd, err := h.budgetService.UpdateCostDetail(c.Request.Context(), costDetailID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update cost detail")
		return
	}
	c.JSON(http.StatusOK, dto.ToCostDetailResponse(cd))
}

func (h *budgetHandler) deleteCostDetail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	costDetailID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.budgetService.DeleteCostDetail(c.Request.Context(), costDetailID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete cost detail")
		return
	}
	c.Status(http.StatusNoContent)
}
