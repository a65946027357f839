package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
)

// AllocationReader defines read operations for cost allocations.
type AllocationReader interface {
	FindAllocationByID(ctx context.Context, allocationID string) (*domain.CostAllocation, error)
	ListAllocationsByTransaction(ctx context.Context, transactionID string) ([]domain.CostAllocation, error)
	ListAllocationsByCostDetail(ctx context.Context, costDetailID string) ([]domain.CostAllocation, error)
}

// AllocationTxReader defines in-transaction reads used by the cap checks.
type AllocationTxReader interface {
	FindAllocationByIDTx(ctx context.Context, tx pgx.Tx, allocationID string) (*domain.CostAllocation, error)
	ListAllocationsByTransactionTx(ctx context.Context, tx pgx.Tx, transactionID string) ([]domain.CostAllocation, error)
	ListAllocationsByCostDetailTx(ctx context.Context, tx pgx.Tx, costDetailID string) ([]domain.CostAllocation, error)
}

// AllocationWriter defines write operations for cost allocations.
type AllocationWriter interface {
	SaveAllocation(ctx context.Context, tx pgx.Tx, allocation domain.CostAllocation) error
	UpdateAllocation(ctx context.Context, tx pgx.Tx, allocation domain.CostAllocation) error
	SoftDeleteAllocation(ctx context.Context, tx pgx.Tx, allocationID string, deletedBy string, deletedAt time.Time) error
}

// AllocationRepositoryFacade combines all allocation repository interfaces.
type AllocationRepositoryFacade interface {
	AllocationReader
	AllocationTxReader
	AllocationWriter
}

// AllocationRepositoryWithTx extends the facade with transaction capabilities.
type AllocationRepositoryWithTx interface {
	AllocationRepositoryFacade
	TransactionManager
}
