package repositories

import (
	"context"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
)

// CurrencyRepositoryFacade defines operations for currency master data.
type CurrencyRepositoryFacade interface {
	SaveCurrency(ctx context.Context, currency domain.Currency) error
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// OrganizationRepositoryFacade defines operations for payee organizations.
type OrganizationRepositoryFacade interface {
	SaveOrganization(ctx context.Context, organization domain.Organization) error
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)
	ListOrganizations(ctx context.Context, limit, offset int) ([]domain.Organization, error)
}

// ProjectRepositoryFacade defines operations for projects.
type ProjectRepositoryFacade interface {
	SaveProject(ctx context.Context, project domain.Project) error
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, limit, offset int) ([]domain.Project, error)
}

// UserRepositoryFacade defines operations for operator accounts.
type UserRepositoryFacade interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
