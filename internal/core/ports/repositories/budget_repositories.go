package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
)

// BudgetReader defines read operations for budgets and their cost lines.
// All reads return active (non-deleted) rows only.
type BudgetReader interface {
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)
	ListBudgetsByProject(ctx context.Context, projectID string) ([]domain.Budget, error)
	FindCostDetailByID(ctx context.Context, costDetailID string) (*domain.CostDetail, error)
	ListCostDetailsByBudget(ctx context.Context, budgetID string) ([]domain.CostDetail, error)
}

// BudgetTxReader defines reads executed inside an open transaction so the
// budget aggregate can be validated against the same snapshot it is
// written under.
type BudgetTxReader interface {
	// FindBudgetByIDForUpdate locks the budget row, serializing writers of
	// the budget aggregate (the budget and its cost details).
	FindBudgetByIDForUpdate(ctx context.Context, tx pgx.Tx, budgetID string) (*domain.Budget, error)
	FindCostDetailByIDTx(ctx context.Context, tx pgx.Tx, costDetailID string) (*domain.CostDetail, error)
	ListCostDetailsByBudgetTx(ctx context.Context, tx pgx.Tx, budgetID string) ([]domain.CostDetail, error)
}

// BudgetWriter defines write operations for budgets and cost lines.
type BudgetWriter interface {
	SaveBudget(ctx context.Context, tx pgx.Tx, budget domain.Budget) error
	UpdateBudget(ctx context.Context, tx pgx.Tx, budget domain.Budget) error

	// SoftDeleteBudget tombstones the budget and cascades to its cost details.
	SoftDeleteBudget(ctx context.Context, tx pgx.Tx, budgetID string, deletedBy string, deletedAt time.Time) error

	SaveCostDetail(ctx context.Context, tx pgx.Tx, costDetail domain.CostDetail) error
	UpdateCostDetail(ctx context.Context, tx pgx.Tx, costDetail domain.CostDetail) error
	SoftDeleteCostDetail(ctx context.Context, tx pgx.Tx, costDetailID string, deletedBy string, deletedAt time.Time) error

	// UpdateCostDetailAmounts persists recomputed derived amounts for a
	// batch of cost lines in one round trip. Used when a budget's rate
	// references change and every line under it must be rewritten together.
	UpdateCostDetailAmounts(ctx context.Context, tx pgx.Tx, costDetails []domain.CostDetail, updatedBy string, updatedAt time.Time) error
}

// BudgetRepositoryFacade combines all budget repository interfaces.
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetTxReader
	BudgetWriter
}

// BudgetRepositoryWithTx extends the facade with transaction capabilities.
type BudgetRepositoryWithTx interface {
	BudgetRepositoryFacade
	TransactionManager
}
