package dto

import (
	"github.com/shopspring/decimal"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
)

// CreateAllocationRequest defines the payload for planning an allocation
// of a funding transaction against a cost line.
type CreateAllocationRequest struct {
	TransactionID string          `json:"transactionID" binding:"required"`
	CostDetailID  string          `json:"costDetailID" binding:"required"`
	PlannedAmount decimal.Decimal `json:"plannedAmount"`
}

// UpdateAllocationRequest defines the payload for changing an allocation's
// planned amount.
type UpdateAllocationRequest struct {
	PlannedAmount decimal.Decimal `json:"plannedAmount"`
}

// AllocationResponse defines the data returned for a cost allocation.
type AllocationResponse struct {
	AllocationID  string          `json:"allocationID"`
	TransactionID string          `json:"transactionID"`
	CostDetailID  string          `json:"costDetailID"`
	PlannedAmount decimal.Decimal `json:"plannedAmount"`
}

// ToAllocationResponse converts a domain.CostAllocation to its DTO.
func ToAllocationResponse(a *domain.CostAllocation) AllocationResponse {
	return AllocationResponse{
		AllocationID:  a.AllocationID,
		TransactionID: a.TransactionID,
		CostDetailID:  a.CostDetailID,
		PlannedAmount: a.PlannedAmount,
	}
}

// ToAllocationResponses converts a slice of domain.CostAllocation.
func ToAllocationResponses(allocations []domain.CostAllocation) []AllocationResponse {
	responses := make([]AllocationResponse, len(allocations))
	for i := range allocations {
		responses[i] = ToAllocationResponse(&allocations[i])
	}
	return responses
}
