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

// masterDataHandler handles HTTP requests for projects and payee
// organizations.
type masterDataHandler struct {
	projectService portssvc.ProjectSvcFacade
	orgService     portssvc.OrganizationSvcFacade
}

// registerMasterDataRoutes registers routes for projects and organizations.
func registerMasterDataRoutes(rg *gin.RouterGroup, projectService portssvc.ProjectSvcFacade, orgService portssvc.OrganizationSvcFacade) {
	h := &masterDataHandler{projectService: projectService, orgService: orgService}

	projects := rg.Group("/projects")
	{
		projects.POST("", h.createProject)
		projects.GET("/:id", h.getProject)
		projects.GET("", h.listProjects)
	}

	organizations := rg.Group("/organizations")
	{
		organizations.POST("", h.createOrganization)
		organizations.GET("/:id", h.getOrganization)
		organizations.GET("", h.listOrganizations)
	}
}

func pageParams(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *masterDataHandler) createProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateProject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create project")
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *masterDataHandler) getProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	project, err := h.projectService.GetProjectByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve project")
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *masterDataHandler) listProjects(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, offset := pageParams(c)

	projects, err := h.projectService.ListProjects(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list projects")
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *masterDataHandler) createOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateOrganization", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create organization")
		return
	}
	c.JSON(http.StatusCreated, org)
}

func (h *masterDataHandler) getOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	org, err := h.orgService.GetOrganizationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve organization")
		return
	}
	c.JSON(http.StatusOK, org)
}

func (h *masterDataHandler) listOrganizations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, offset := pageParams(c)

	orgs, err := h.orgService.ListOrganizations(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list organizations")
		return
	}
	c.JSON(http.StatusOK, orgs)
}
