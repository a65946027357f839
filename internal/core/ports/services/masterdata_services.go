package services

import (
	"context"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
)

// CurrencySvcFacade manages currency master data.
type CurrencySvcFacade interface {
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// ExchangeRateSvcFacade manages exchange rate master data. The consistency
// engine only reads rates; this facade is the master-data entry point.
type ExchangeRateSvcFacade interface {
	CreateRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)
	GetRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error)
	GetRate(ctx context.Context, baseCurrencyCode, quoteCurrencyCode string) (*domain.ExchangeRate, error)
	ListRates(ctx context.Context, limit, offset int) ([]domain.ExchangeRate, error)
}

// OrganizationSvcFacade manages payee organizations.
type OrganizationSvcFacade interface {
	CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error)
	GetOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)
	ListOrganizations(ctx context.Context, limit, offset int) ([]domain.Organization, error)
}

// ProjectSvcFacade manages projects.
type ProjectSvcFacade interface {
	CreateProject(ctx context.Context, req dto.CreateProjectRequest, creatorUserID string) (*domain.Project, error)
	GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, limit, offset int) ([]domain.Project, error)
}
