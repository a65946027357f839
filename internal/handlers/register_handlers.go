package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/dejan-marlovic/relief-finance/internal/core/ports/services"
	"github.com/dejan-marlovic/relief-finance/internal/middleware"
	"github.com/dejan-marlovic/relief-finance/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/", getHome)
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	registerAuthRoutes(r, cfg, services.User)

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the
// per-entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerUserRoutes(v1, services.User)
	registerCurrencyRoutes(v1, services.Currency)
	registerExchangeRateRoutes(v1, services.ExchangeRate)
	registerMasterDataRoutes(v1, services.Project, services.Organization)
	registerBudgetRoutes(v1, services.Budget)
	registerFundingRoutes(v1, services.Funding)
	registerAllocationRoutes(v1, services.Allocation)
	registerPaymentRoutes(v1, services.Payment)
}
