package services

import (
	"context"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
)

// FundingSvcFacade is the validated write and read path for funding
// transactions. Creation and update reject budgets belonging to another
// project.
type FundingSvcFacade interface {
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.FundingTransaction, error)
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.FundingTransaction, error)
	ListTransactionsByProject(ctx context.Context, projectID string) ([]domain.FundingTransaction, error)
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.FundingTransaction, error)
	DeleteTransaction(ctx context.Context, transactionID string, userID string) error
}
