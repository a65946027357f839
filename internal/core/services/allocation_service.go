package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	portsrepo "github.com/dejan-marlovic/relief-finance/internal/core/ports/repositories"
	portssvc "github.com/dejan-marlovic/relief-finance/internal/core/ports/services"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
	"github.com/dejan-marlovic/relief-finance/internal/middleware"
)

// allocationService is the validated write path for cost allocations.
// Every write locks the funding transaction row first, then the cost line's
// budget is read in the same database transaction, so the cap sums cannot
// race a concurrent allocation against the same ceiling.
type allocationService struct {
	allocationRepo portsrepo.AllocationRepositoryWithTx
	fundingRepo    portsrepo.FundingRepositoryWithTx
	budgetRepo     portsrepo.BudgetRepositoryWithTx
	paymentRepo    portsrepo.PaymentRepositoryWithTx
	ledger         AllocationLedger
}

// NewAllocationService creates a new allocation service.
func NewAllocationService(
	allocationRepo portsrepo.AllocationRepositoryWithTx,
	fundingRepo portsrepo.FundingRepositoryWithTx,
	budgetRepo portsrepo.BudgetRepositoryWithTx,
	paymentRepo portsrepo.PaymentRepositoryWithTx,
) portssvc.AllocationSvcFacade {
	return &allocationService{
		allocationRepo: allocationRepo,
		fundingRepo:    fundingRepo,
		budgetRepo:     budgetRepo,
		paymentRepo:    paymentRepo,
	}
}

var _ portssvc.AllocationSvcFacade = (*allocationService)(nil)

// CreateAllocation plans an amount of a funding transaction against a cost
// line, subject to the transaction cap and the cost-line cap.
func (s *allocationService) CreateAllocation(ctx context.Context, req dto.CreateAllocationRequest, creatorUserID string) (*domain.CostAllocation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	allocation := domain.CostAllocation{
		AllocationID:  uuid.NewString(),
		TransactionID: req.TransactionID,
		CostDetailID:  req.CostDetailID,
		PlannedAmount: req.PlannedAmount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	tx, err := s.allocationRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.allocationRepo.Rollback(ctx, tx)

	check, err := s.buildCheck(ctx, tx, OpCreate, allocation)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Validate(*check); err != nil {
		return nil, err
	}

	if err := s.allocationRepo.SaveAllocation(ctx, tx, allocation); err != nil {
		logger.Error("Failed to save allocation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save allocation: %w", err)
	}
	if err := s.allocationRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Allocation created",
		slog.String("allocation_id", allocation.AllocationID),
		slog.String("transaction_id", allocation.TransactionID),
		slog.String("cost_detail_id", allocation.CostDetailID))
	return &allocation, nil
}

// GetAllocationByID retrieves an active allocation.
func (s *allocationService) GetAllocationByID(ctx context.Context, allocationID string) (*domain.CostAllocation, error) {
	return s.allocationRepo.FindAllocationByID(ctx, allocationID)
}

// ListAllocationsByTransaction retrieves a transaction's active allocations.
func (s *allocationService) ListAllocationsByTransaction(ctx context.Context, transactionID string) ([]domain.CostAllocation, error) {
	return s.allocationRepo.ListAllocationsByTransaction(ctx, transactionID)
}

// ListAllocationsByCostDetail retrieves a cost line's active allocations.
func (s *allocationService) ListAllocationsByCostDetail(ctx context.Context, costDetailID string) ([]domain.CostAllocation, error) {
	return s.allocationRepo.ListAllocationsByCostDetail(ctx, costDetailID)
}

// UpdateAllocation changes an allocation's planned amount. Shrinking it
// below what payment order lines have already paid for the pair is
// rejected.
func (s *allocationService) UpdateAllocation(ctx context.Context, allocationID string, req dto.UpdateAllocationRequest, userID string) (*domain.CostAllocation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.allocationRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.allocationRepo.Rollback(ctx, tx)

	existing, err := s.allocationRepo.FindAllocationByIDTx(ctx, tx, allocationID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.PlannedAmount = req.PlannedAmount
	updated.LastUpdatedAt = time.Now().UTC()
	updated.LastUpdatedBy = userID

	check, err := s.buildCheck(ctx, tx, OpUpdate, updated)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Validate(*check); err != nil {
		return nil, err
	}

	if err := s.allocationRepo.UpdateAllocation(ctx, tx, updated); err != nil {
		logger.Error("Failed to update allocation", slog.String("error", err.Error()), slog.String("allocation_id", allocationID))
		return nil, fmt.Errorf("failed to update allocation: %w", err)
	}
	if err := s.allocationRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Allocation updated", slog.String("allocation_id", allocationID))
	return &updated, nil
}

// DeleteAllocation tombstones an allocation. The delete is refused while
// payments exist for the pair; the planned amount must keep covering them.
func (s *allocationService) DeleteAllocation(ctx context.Context, allocationID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.allocationRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.allocationRepo.Rollback(ctx, tx)

	existing, err := s.allocationRepo.FindAllocationByIDTx(ctx, tx, allocationID)
	if err != nil {
		return err
	}

	check, err := s.buildCheck(ctx, tx, OpDelete, *existing)
	if err != nil {
		return err
	}
	if err := s.ledger.Validate(*check); err != nil {
		return err
	}

	if err := s.allocationRepo.SoftDeleteAllocation(ctx, tx, allocationID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to delete allocation", slog.String("error", err.Error()), slog.String("allocation_id", allocationID))
		return fmt.Errorf("failed to delete allocation: %w", err)
	}
	if err := s.allocationRepo.Commit(ctx, tx); err != nil {
		return err
	}

	logger.Info("Allocation deleted", slog.String("allocation_id", allocationID))
	return nil
}

// buildCheck locks the funding transaction, loads the cost line and the
// active allocation rows on both axes, and sums what payment lines have
// already paid for the pair. Everything comes from the one open database
// transaction.
func (s *allocationService) buildCheck(ctx context.Context, tx pgx.Tx, op WriteOp, allocation domain.CostAllocation) (*AllocationCheck, error) {
	txn, err := s.fundingRepo.FindTransactionByIDForUpdate(ctx, tx, allocation.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction %s: %w", allocation.TransactionID, err)
	}
	costDetail, err := s.budgetRepo.FindCostDetailByIDTx(ctx, tx, allocation.CostDetailID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cost detail %s: %w", allocation.CostDetailID, err)
	}

	forTxn, err := s.allocationRepo.ListAllocationsByTransactionTx(ctx, tx, allocation.TransactionID)
	if err != nil {
		return nil, err
	}
	forCostLine, err := s.allocationRepo.ListAllocationsByCostDetailTx(ctx, tx, allocation.CostDetailID)
	if err != nil {
		return nil, err
	}
	paidForPair, err := s.paymentRepo.SumLineAmountsForPair(ctx, tx, allocation.TransactionID, allocation.CostDetailID, "")
	if err != nil {
		return nil, err
	}

	return &AllocationCheck{
		Op:          op,
		Proposed:    allocation,
		Transaction: *txn,
		CostDetail:  *costDetail,
		ForTxn:      forTxn,
		ForCostLine: forCostLine,
		PaidForPair: paidForPair,
	}, nil
}
