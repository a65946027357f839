package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dejan-marlovic/relief-finance/internal/apperrors"
)

// respondServiceError maps service errors onto HTTP statuses. Consistency
// rule failures are conflicts: the request was well-formed but the current
// state of the books refuses it.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyDeleted):
		logger.Warn("Resource already deleted", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrCapExceeded),
		errors.Is(err, apperrors.ErrPaidFloorViolation),
		errors.Is(err, apperrors.ErrNoTransaction),
		errors.Is(err, apperrors.ErrExceedsAllocation),
		errors.Is(err, apperrors.ErrExceedsApproval),
		errors.Is(err, apperrors.ErrOrderLocked),
		errors.Is(err, apperrors.ErrCrossProjectMismatch):
		logger.Warn("Consistency rule rejected write", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
