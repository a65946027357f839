package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	portsrepo "github.com/dejan-marlovic/relief-finance/internal/core/ports/repositories"
	portssvc "github.com/dejan-marlovic/relief-finance/internal/core/ports/services"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
	"github.com/dejan-marlovic/relief-finance/internal/middleware"
)

type projectService struct {
	projectRepo portsrepo.ProjectRepositoryFacade
}

// NewProjectService creates a new project service.
func NewProjectService(projectRepo portsrepo.ProjectRepositoryFacade) portssvc.ProjectSvcFacade {
	return &projectService{projectRepo: projectRepo}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

// CreateProject registers a relief project.
func (s *projectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest, creatorUserID string) (*domain.Project, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	project := domain.Project{
		ProjectID: uuid.NewString(),
		Name:      req.Name,
		Country:   req.Country,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	logger.Info("Project created", "project_id", project.ProjectID)
	return &project, nil
}

// GetProjectByID retrieves an active project.
func (s *projectService) GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.projectRepo.FindProjectByID(ctx, projectID)
}

// ListProjects retrieves a page of active projects.
func (s *projectService) ListProjects(ctx context.Context, limit, offset int) ([]domain.Project, error) {
	return s.projectRepo.ListProjects(ctx, limit, offset)
}
