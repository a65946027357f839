package services

import (
	"context"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
)

// BudgetSvcFacade is the validated write and read path for the budget
// aggregate: the budget header, its rate references and its cost lines.
// Every cost line write recomputes the derived amounts; a rate reference
// change recomputes every line under the budget in one atomic batch.
type BudgetSvcFacade interface {
	CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error)
	GetBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)
	ListBudgetsByProject(ctx context.Context, projectID string) ([]domain.Budget, error)
	UpdateBudgetRates(ctx context.Context, budgetID string, req dto.UpdateBudgetRatesRequest, userID string) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, budgetID string, userID string) error

	CreateCostDetail(ctx context.Context, req dto.CreateCostDetailRequest, creatorUserID string) (*domain.CostDetail, error)
	GetCostDetailByID(ctx context.Context, costDetailID string) (*domain.CostDetail, error)
	ListCostDetailsByBudget(ctx context.Context, budgetID string) ([]domain.CostDetail, error)
	UpdateCostDetail(ctx context.Context, costDetailID string, req dto.UpdateCostDetailRequest, userID string) (*domain.CostDetail, error)
	DeleteCostDetail(ctx context.Context, costDetailID string, userID string) error
}
