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

type organizationService struct {
	orgRepo portsrepo.OrganizationRepositoryFacade
}

// NewOrganizationService creates a new organization service.
func NewOrganizationService(orgRepo portsrepo.OrganizationRepositoryFacade) portssvc.OrganizationSvcFacade {
	return &organizationService{orgRepo: orgRepo}
}

var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

// CreateOrganization registers a payee organization.
func (s *organizationService) CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	org := domain.Organization{
		OrganizationID: uuid.NewString(),
		Name:           req.Name,
		AccountNumber:  req.AccountNumber,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.orgRepo.SaveOrganization(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to save organization: %w", err)
	}

	logger.Info("Organization created", "organization_id", org.OrganizationID)
	return &org, nil
}

// GetOrganizationByID retrieves an active organization.
func (s *organizationService) GetOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	return s.orgRepo.FindOrganizationByID(ctx, organizationID)
}

// ListOrganizations retrieves a page of active organizations.
func (s *organizationService) ListOrganizations(ctx context.Context, limit, offset int) ([]domain.Organization, error) {
	return s.orgRepo.ListOrganizations(ctx, limit, offset)
}
