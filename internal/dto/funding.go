package dto

import (
	"github.com/shopspring/decimal"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
)

// CreateTransactionRequest defines the payload for recording a funding
// transaction.
type CreateTransactionRequest struct {
	ProjectID         string          `json:"projectID" binding:"required"`
	BudgetID          string          `json:"budgetID" binding:"required"`
	Description       string          `json:"description"`
	AppliedForAmount  decimal.Decimal `json:"appliedForAmount"`
	ApprovedAmount    decimal.Decimal `json:"approvedAmount"`
	FirstShareAmount  decimal.Decimal `json:"firstShareAmount"`
	SecondShareAmount decimal.Decimal `json:"secondShareAmount"`
}

// UpdateTransactionRequest defines the payload for updating a funding
// transaction. Nil fields are left unchanged.
type UpdateTransactionRequest struct {
	Description       *string          `json:"description"`
	AppliedForAmount  *decimal.Decimal `json:"appliedForAmount"`
	ApprovedAmount    *decimal.Decimal `json:"approvedAmount"`
	FirstShareAmount  *decimal.Decimal `json:"firstShareAmount"`
	SecondShareAmount *decimal.Decimal `json:"secondShareAmount"`
}

// TransactionResponse defines the data returned for a funding transaction.
type TransactionResponse struct {
	TransactionID     string          `json:"transactionID"`
	ProjectID         string          `json:"projectID"`
	BudgetID          string          `json:"budgetID"`
	Description       string          `json:"description"`
	AppliedForAmount  decimal.Decimal `json:"appliedForAmount"`
	ApprovedAmount    decimal.Decimal `json:"approvedAmount"`
	FirstShareAmount  decimal.Decimal `json:"firstShareAmount"`
	SecondShareAmount decimal.Decimal `json:"secondShareAmount"`
}

// ToTransactionResponse converts a domain.FundingTransaction to its DTO.
func ToTransactionResponse(t *domain.FundingTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:     t.TransactionID,
		ProjectID:         t.ProjectID,
		BudgetID:          t.BudgetID,
		Description:       t.Description,
		AppliedForAmount:  t.AppliedForAmount,
		ApprovedAmount:    t.ApprovedAmount,
		FirstShareAmount:  t.FirstShareAmount,
		SecondShareAmount: t.SecondShareAmount,
	}
}

// ToTransactionResponses converts a slice of domain.FundingTransaction.
func ToTransactionResponses(txns []domain.FundingTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
