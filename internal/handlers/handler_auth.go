package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/dejan-marlovic/relief-finance/internal/core/ports/services"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
	"github.com/dejan-marlovic/relief-finance/internal/middleware"
	"github.com/dejan-marlovic/relief-finance/internal/platform/config"
	"github.com/dejan-marlovic/relief-finance/internal/utils"
)

// authHandler handles login and self-registration.
type authHandler struct {
	userService portssvc.UserSvcFacade
	jwtSecret   string
	jwtIssuer   string
	jwtDuration time.Duration
}

func newAuthHandler(us portssvc.UserSvcFacade, cfg *config.Config) *authHandler {
	return &authHandler{
		userService: us,
		jwtSecret:   cfg.JWTSecret,
		jwtIssuer:   cfg.JWTIssuer,
		jwtDuration: cfg.JWTExpiryDuration,
	}
}

// registerAuthRoutes sets up the public authentication routes. Login is
// rate limited per client IP.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, userService portssvc.UserSvcFacade) {
	h := newAuthHandler(userService, cfg)

	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := limitergin.NewMiddleware(ipLimiter)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", limitMiddleware, h.login)
		auth.POST("/register", h.register)
	}
}

func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := utils.CreateToken(user.UserID, h.jwtSecret, h.jwtIssuer, h.jwtDuration)
	if err != nil {
		logger.Error("Failed to sign JWT token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}

func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	// Self-registration has no authenticated creator.
	user, err := h.userService.CreateUser(c.Request.Context(), req, "")
	if err != nil {
		respondServiceError(c, logger, err, "Failed to register user")
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}
