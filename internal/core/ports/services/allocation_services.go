package services

import (
	"context"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
)

// AllocationSvcFacade is the validated write and read path for cost
// allocations. Every write runs the transaction cap, the cost-line cap and
// the paid-safety floor under the funding transaction's serialization lock.
type AllocationSvcFacade interface {
	CreateAllocation(ctx context.Context, req dto.CreateAllocationRequest, creatorUserID string) (*domain.CostAllocation, error)
	GetAllocationByID(ctx context.Context, allocationID string) (*domain.CostAllocation, error)
	ListAllocationsByTransaction(ctx context.Context, transactionID string) ([]domain.CostAllocation, error)
	ListAllocationsByCostDetail(ctx context.Context, costDetailID string) ([]domain.CostAllocation, error)
	UpdateAllocation(ctx context.Context, allocationID string, req dto.UpdateAllocationRequest, userID string) (*domain.CostAllocation, error)
	DeleteAllocation(ctx context.Context, allocationID string, userID string) error
}
