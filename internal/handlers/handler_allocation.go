package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/dejan-marlovic/relief-finance/internal/core/ports/services"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
	"github.com/dejan-marlovic/relief-finance/internal/middleware"
)

// allocationHandler handles HTTP requests for cost allocations.
type allocationHandler struct {
	allocationService portssvc.AllocationSvcFacade
}

func newAllocationHandler(as portssvc.AllocationSvcFacade) *allocationHandler {
	return &allocationHandler{allocationService: as}
}

// registerAllocationRoutes registers routes for cost allocations.
func registerAllocationRoutes(rg *gin.RouterGroup, allocationService portssvc.AllocationSvcFacade) {
	h := newAllocationHandler(allocationService)

	allocations := rg.Group("/allocations")
	{
		allocations.POST("", h.createAllocation)
		allocations.GET("/:id", h.getAllocation)
		allocations.PUT("/:id", h.updateAllocation)
		allocations.DELETE("/:id", h.deleteAllocation)
	}

	rg.GET("/transactions/:id/allocations", h.listAllocationsByTransaction)
	rg.GET("/cost-details/:id/allocations", h.listAllocationsByCostDetail)
}

func (h *allocationHandler) createAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAllocation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	allocation, err := h.allocationService.CreateAllocation(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create allocation")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAllocationResponse(allocation))
}

func (h *allocationHandler) getAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	allocationID := c.Param("id")

	allocation, err := h.allocationService.GetAllocationByID(c.Request.Context(), allocationID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve allocation")
		return
	}
	c.JSON(http.StatusOK, dto.ToAllocationResponse(allocation))
}

func (h *allocationHandler) listAllocationsByTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	allocations, err := h.allocationService.ListAllocationsByTransaction(c.Request.Context(), transactionID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list allocations")
		return
	}
	c.JSON(http.StatusOK, dto.ToAllocationResponses(allocations))
}

func (h *allocationHandler) listAllocationsByCostDetail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	costDetailID := c.Param("id")

	allocations, err := h.allocationService.ListAllocationsByCostDetail(c.Request.Context(), costDetailID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list allocations")
		return
	}
	c.JSON(http.StatusOK, dto.ToAllocationResponses(allocations))
}

func (h *allocationHandler) updateAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	allocationID := c.Param("id")

	var req dto.UpdateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAllocation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	allocation, err := h.allocationService.UpdateAllocation(c.Request.Context(), allocationID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update allocation")
		return
	}
	c.JSON(http.StatusOK, dto.ToAllocationResponse(allocation))
}

func (h *allocationHandler) deleteAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	allocationID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.allocationService.DeleteAllocation(c.Request.Context(), allocationID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete allocation")
		return
	}
	c.Status(http.StatusNoContent)
}
