package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dejan-marlovic/relief-finance/internal/apperrors"
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	portsrepo "github.com/dejan-marlovic/relief-finance/internal/core/ports/repositories"
	portssvc "github.com/dejan-marlovic/relief-finance/internal/core/ports/services"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
	"github.com/dejan-marlovic/relief-finance/internal/middleware"
)

// fundingService is the validated write path for funding transactions.
type fundingService struct {
	fundingRepo    portsrepo.FundingRepositoryWithTx
	budgetRepo     portsrepo.BudgetRepositoryWithTx
	projectRepo    portsrepo.ProjectRepositoryFacade
	allocationRepo portsrepo.AllocationRepositoryWithTx
}

// NewFundingService creates a new funding service.
func NewFundingService(
	fundingRepo portsrepo.FundingRepositoryWithTx,
	budgetRepo portsrepo.BudgetRepositoryWithTx,
	projectRepo portsrepo.ProjectRepositoryFacade,
	allocationRepo portsrepo.AllocationRepositoryWithTx,
) portssvc.FundingSvcFacade {
	return &fundingService{
		fundingRepo:    fundingRepo,
		budgetRepo:     budgetRepo,
		projectRepo:    projectRepo,
		allocationRepo: allocationRepo,
	}
}

var _ portssvc.FundingSvcFacade = (*fundingService)(nil)

// CreateTransaction records a funding transaction. The referenced budget
// must belong to the referenced project.
func (s *fundingService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.FundingTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.projectRepo.FindProjectByID(ctx, req.ProjectID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %s not found", apperrors.ErrValidation, req.ProjectID)
		}
		return nil, fmt.Errorf("failed to validate project %s: %w", req.ProjectID, err)
	}
	budget, err := s.budgetRepo.FindBudgetByID(ctx, req.BudgetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: budget %s not found", apperrors.ErrValidation, req.BudgetID)
		}
		return nil, fmt.Errorf("failed to validate budget %s: %w", req.BudgetID, err)
	}
	if budget.ProjectID != req.ProjectID {
		return nil, fmt.Errorf("%w: budget %s belongs to project %s, not %s",
			apperrors.ErrCrossProjectMismatch, req.BudgetID, budget.ProjectID, req.ProjectID)
	}
	if err := validateAmounts(req.AppliedForAmount, req.ApprovedAmount, req.FirstShareAmount, req.SecondShareAmount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.FundingTransaction{
		TransactionID:     uuid.NewString(),
		ProjectID:         req.ProjectID,
		BudgetID:          req.BudgetID,
		Description:       req.Description,
		AppliedForAmount:  req.AppliedForAmount,
		ApprovedAmount:    req.ApprovedAmount,
		FirstShareAmount:  req.FirstShareAmount,
		SecondShareAmount: req.SecondShareAmount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	tx, err := s.fundingRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.fundingRepo.Rollback(ctx, tx)

	if err := s.fundingRepo.SaveTransaction(ctx, tx, txn); err != nil {
		logger.Error("Failed to save funding transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	if err := s.fundingRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Funding transaction created", slog.String("transaction_id", txn.TransactionID), slog.String("project_id", txn.ProjectID))
	return &txn, nil
}

// GetTransactionByID retrieves an active funding transaction.
func (s *fundingService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.FundingTransaction, error) {
	return s.fundingRepo.FindTransactionByID(ctx, transactionID)
}

// ListTransactionsByProject retrieves a project's active transactions.
func (s *fundingService) ListTransactionsByProject(ctx context.Context, projectID string) ([]domain.FundingTransaction, error) {
	return s.fundingRepo.ListTransactionsByProject(ctx, projectID)
}

// UpdateTransaction applies a partial edit. Lowering the approved amount
// below the total already allocated is rejected, otherwise existing
// allocations would silently exceed their ceiling.
func (s *fundingService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.FundingTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.fundingRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.fundingRepo.Rollback(ctx, tx)

	txn, err := s.fundingRepo.FindTransactionByIDForUpdate(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.AppliedForAmount != nil {
		txn.AppliedForAmount = *req.AppliedForAmount
	}
	if req.ApprovedAmount != nil {
		txn.ApprovedAmount = *req.ApprovedAmount
	}
	if req.FirstShareAmount != nil {
		txn.FirstShareAmount = *req.FirstShareAmount
	}
	if req.SecondShareAmount != nil {
		txn.SecondShareAmount = *req.SecondShareAmount
	}
	if err := validateAmounts(txn.AppliedForAmount, txn.ApprovedAmount, txn.FirstShareAmount, txn.SecondShareAmount); err != nil {
		return nil, err
	}

	if req.ApprovedAmount != nil {
		allocations, err := s.allocationRepo.ListAllocationsByTransactionTx(ctx, tx, transactionID)
		if err != nil {
			return nil, err
		}
		allocated := sumPlannedExcluding(allocations, "")
		if allocated.GreaterThan(txn.ApprovedAmount) {
			return nil, fmt.Errorf("%w: transaction %s already has %s allocated, cannot lower approved amount to %s",
				apperrors.ErrCapExceeded, transactionID, allocated, txn.ApprovedAmount)
		}
	}

	txn.LastUpdatedAt = time.Now().UTC()
	txn.LastUpdatedBy = userID

	if err := s.fundingRepo.UpdateTransaction(ctx, tx, *txn); err != nil {
		logger.Error("Failed to update funding transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	if err := s.fundingRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Funding transaction updated", slog.String("transaction_id", transactionID))
	return txn, nil
}

// DeleteTransaction tombstones a transaction. A transaction with active
// allocations cannot be deleted; the allocations must be removed first.
func (s *fundingService) DeleteTransaction(ctx context.Context, transactionID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.fundingRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.fundingRepo.Rollback(ctx, tx)

	if _, err := s.fundingRepo.FindTransactionByIDForUpdate(ctx, tx, transactionID); err != nil {
		return err
	}
	allocations, err := s.allocationRepo.ListAllocationsByTransactionTx(ctx, tx, transactionID)
	if err != nil {
		return err
	}
	if len(allocations) > 0 {
		return fmt.Errorf("%w: transaction %s still has %d active allocations",
			apperrors.ErrValidation, transactionID, len(allocations))
	}

	if err := s.fundingRepo.SoftDeleteTransaction(ctx, tx, transactionID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to delete funding transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if err := s.fundingRepo.Commit(ctx, tx); err != nil {
		return err
	}

	logger.Info("Funding transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

func validateAmounts(amounts ...decimal.Decimal) error {
	for _, a := range amounts {
		if a.IsNegative() {
			return fmt.Errorf("%w: transaction amounts must not be negative", apperrors.ErrValidation)
		}
	}
	return nil
}
