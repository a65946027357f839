package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dejan-marlovic/relief-finance/internal/apperrors"
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	portsrepo "github.com/dejan-marlovic/relief-finance/internal/core/ports/repositories"
	portssvc "github.com/dejan-marlovic/relief-finance/internal/core/ports/services"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
	"github.com/dejan-marlovic/relief-finance/internal/middleware"
)

// paymentService is the validated write path for the payment order
// aggregate. Every mutation locks the order row first; the signature read
// that decides the lock state, the guard's sums and the write itself all
// share that database transaction. A booked order therefore rejects
// mutations without any window for a concurrent writer to slip through.
type paymentService struct {
	paymentRepo    portsrepo.PaymentRepositoryWithTx
	fundingRepo    portsrepo.FundingRepositoryWithTx
	allocationRepo portsrepo.AllocationRepositoryWithTx
	orgRepo        portsrepo.OrganizationRepositoryFacade
	budgetRepo     portsrepo.BudgetRepositoryWithTx
	guard          PaymentGuard
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	paymentRepo portsrepo.PaymentRepositoryWithTx,
	fundingRepo portsrepo.FundingRepositoryWithTx,
	allocationRepo portsrepo.AllocationRepositoryWithTx,
	orgRepo portsrepo.OrganizationRepositoryFacade,
	budgetRepo portsrepo.BudgetRepositoryWithTx,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo:    paymentRepo,
		fundingRepo:    fundingRepo,
		allocationRepo: allocationRepo,
		orgRepo:        orgRepo,
		budgetRepo:     budgetRepo,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// CreateOrder creates an empty payment order. The header transaction, when
// given, must exist; the total starts at zero and is only ever derived.
func (s *paymentService) CreateOrder(ctx context.Context, req dto.CreatePaymentOrderRequest, creatorUserID string) (*domain.PaymentOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.TransactionID != nil && *req.TransactionID != "" {
		if _, err := s.fundingRepo.FindTransactionByID(ctx, *req.TransactionID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: transaction %s not found", apperrors.ErrValidation, *req.TransactionID)
			}
			return nil, fmt.Errorf("failed to validate transaction %s: %w", *req.TransactionID, err)
		}
	}

	now := time.Now().UTC()
	order := domain.PaymentOrder{
		PaymentOrderID: uuid.NewString(),
		TransactionID:  req.TransactionID,
		Reference:      req.Reference,
		TotalAmount:    decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.paymentRepo.Rollback(ctx, tx)

	if err := s.paymentRepo.SaveOrder(ctx, tx, order); err != nil {
		logger.Error("Failed to save payment order", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save payment order: %w", err)
	}
	if err := s.paymentRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Payment order created", slog.String("payment_order_id", order.PaymentOrderID))
	return &order, nil
}

// GetOrder retrieves an order with its lines, signatures and derived state.
func (s *paymentService) GetOrder(ctx context.Context, paymentOrderID string) (*dto.PaymentOrderResponse, error) {
	order, err := s.paymentRepo.FindOrderByID(ctx, paymentOrderID)
	if err != nil {
		return nil, err
	}
	lines, err := s.paymentRepo.ListLinesByOrder(ctx, paymentOrderID)
	if err != nil {
		return nil, err
	}
	signatures, err := s.paymentRepo.ListSignaturesByOrder(ctx, paymentOrderID)
	if err != nil {
		return nil, err
	}

	resp := dto.ToPaymentOrderResponse(order, OrderStateOf(signatures), lines, signatures)
	return &resp, nil
}

// ListOrders retrieves a page of active payment orders.
func (s *paymentService) ListOrders(ctx context.Context, limit, offset int) ([]domain.PaymentOrder, error) {
	return s.paymentRepo.ListOrders(ctx, limit, offset)
}

// UpdateOrder edits an order header. Changing the header transaction
// re-validates every line that inherits it, since their effective
// transaction changes with the header.
func (s *paymentService) UpdateOrder(ctx context.Context, paymentOrderID string, req dto.UpdatePaymentOrderRequest, userID string) (*domain.PaymentOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.paymentRepo.Rollback(ctx, tx)

	order, state, err := s.lockOrder(ctx, tx, paymentOrderID)
	if err != nil {
		return nil, err
	}
	if state == domain.OrderLocked {
		return nil, fmt.Errorf("%w: payment order %s is booked", apperrors.ErrOrderLocked, paymentOrderID)
	}

	transactionChanged := false
	if req.TransactionID != nil {
		if *req.TransactionID == "" {
			order.TransactionID = nil
		} else {
			order.TransactionID = req.TransactionID
		}
		transactionChanged = true
	}
	if req.Reference != nil {
		order.Reference = *req.Reference
	}

	order.LastUpdatedAt = time.Now().UTC()
	order.LastUpdatedBy = userID

	// The header row must be written before the inheriting lines are
	// re-checked: the guard's paid sums resolve each sibling line's
	// effective transaction through the stored header, so validating
	// against the old row would leave every sibling out of the new
	// transaction's totals. A failing line rolls the header write back.
	if err := s.paymentRepo.UpdateOrder(ctx, tx, *order); err != nil {
		logger.Error("Failed to update payment order", slog.String("error", err.Error()), slog.String("payment_order_id", paymentOrderID))
		return nil, fmt.Errorf("failed to update payment order: %w", err)
	}

	if transactionChanged {
		lines, err := s.paymentRepo.ListLinesByOrderTx(ctx, tx, paymentOrderID)
		if err != nil {
			return nil, err
		}
		for i := range lines {
			if lines[i].TransactionID != nil && *lines[i].TransactionID != "" {
				continue // own override, unaffected by the header
			}
			if err := s.validateLine(ctx, tx, OpUpdate, lines[i], *order, state); err != nil {
				return nil, fmt.Errorf("line %s no longer valid under new header transaction: %w", lines[i].LineID, err)
			}
		}
	}

	if err := s.paymentRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Payment order updated", slog.String("payment_order_id", paymentOrderID))
	return order, nil
}

// DeleteOrder tombstones an order and its lines. Booked orders are
// permanent and cannot be deleted.
func (s *paymentService) DeleteOrder(ctx context.Context, paymentOrderID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.paymentRepo.Rollback(ctx, tx)

	_, state, err := s.lockOrder(ctx, tx, paymentOrderID)
	if err != nil {
		return err
	}
	if state == domain.OrderLocked {
		return fmt.Errorf("%w: payment order %s is booked", apperrors.ErrOrderLocked, paymentOrderID)
	}

	if err := s.paymentRepo.SoftDeleteOrder(ctx, tx, paymentOrderID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to delete payment order", slog.String("error", err.Error()), slog.String("payment_order_id", paymentOrderID))
		return fmt.Errorf("failed to delete payment order: %w", err)
	}
	if err := s.paymentRepo.Commit(ctx, tx); err != nil {
		return err
	}

	logger.Info("Payment order deleted", slog.String("payment_order_id", paymentOrderID))
	return nil
}

// CreateLine adds a line to an order, subject to the payment guard, and
// refreshes the order's derived total in the same transaction.
func (s *paymentService) CreateLine(ctx context.Context, paymentOrderID string, req dto.CreatePaymentLineRequest, creatorUserID string) (*domain.PaymentOrderLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	line := domain.PaymentOrderLine{
		LineID:         uuid.NewString(),
		PaymentOrderID: paymentOrderID,
		TransactionID:  req.TransactionID,
		OrganizationID: req.OrganizationID,
		CostDetailID:   req.CostDetailID,
		Amount:         req.Amount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.paymentRepo.Rollback(ctx, tx)

	order, state, err := s.lockOrder(ctx, tx, paymentOrderID)
	if err != nil {
		return nil, err
	}
	if err := s.validateLineRefs(ctx, line); err != nil {
		return nil, err
	}
	if err := s.validateLine(ctx, tx, OpCreate, line, *order, state); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SaveLine(ctx, tx, line); err != nil {
		logger.Error("Failed to save payment line", slog.String("error", err.Error()), slog.String("payment_order_id", paymentOrderID))
		return nil, fmt.Errorf("failed to save payment line: %w", err)
	}
	if err := s.refreshOrderTotal(ctx, tx, paymentOrderID, creatorUserID, now); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Payment line created", slog.String("line_id", line.LineID), slog.String("payment_order_id", paymentOrderID))
	return &line, nil
}

// UpdateLine edits a line, subject to the payment guard, and refreshes the
// order's derived total.
func (s *paymentService) UpdateLine(ctx context.Context, lineID string, req dto.UpdatePaymentLineRequest, userID string) (*domain.PaymentOrderLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.paymentRepo.Rollback(ctx, tx)

	existing, err := s.paymentRepo.FindLineByIDTx(ctx, tx, lineID)
	if err != nil {
		return nil, err
	}
	order, state, err := s.lockOrder(ctx, tx, existing.PaymentOrderID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if req.TransactionID != nil {
		if *req.TransactionID == "" {
			updated.TransactionID = nil
		} else {
			updated.TransactionID = req.TransactionID
		}
	}
	if req.OrganizationID != nil {
		updated.OrganizationID = *req.OrganizationID
	}
	if req.CostDetailID != nil {
		updated.CostDetailID = *req.CostDetailID
	}
	if req.Amount != nil {
		updated.Amount = *req.Amount
	}

	now := time.Now().UTC()
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = userID

	if err := s.validateLineRefs(ctx, updated); err != nil {
		return nil, err
	}
	if err := s.validateLine(ctx, tx, OpUpdate, updated, *order, state); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.UpdateLine(ctx, tx, updated); err != nil {
		logger.Error("Failed to update payment line", slog.String("error", err.Error()), slog.String("line_id", lineID))
		return nil, fmt.Errorf("failed to update payment line: %w", err)
	}
	if err := s.refreshOrderTotal(ctx, tx, updated.PaymentOrderID, userID, now); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Payment line updated", slog.String("line_id", lineID))
	return &updated, nil
}

// DeleteLine tombstones a line and refreshes the order's derived total.
// Only the lock state and transaction resolution guard a delete; removing
// a payment can never push a sum over a ceiling.
func (s *paymentService) DeleteLine(ctx context.Context, lineID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.paymentRepo.Rollback(ctx, tx)

	existing, err := s.paymentRepo.FindLineByIDTx(ctx, tx, lineID)
	if err != nil {
		return err
	}
	order, state, err := s.lockOrder(ctx, tx, existing.PaymentOrderID)
	if err != nil {
		return err
	}
	if err := s.validateLine(ctx, tx, OpDelete, *existing, *order, state); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.paymentRepo.SoftDeleteLine(ctx, tx, lineID, userID, now); err != nil {
		logger.Error("Failed to delete payment line", slog.String("error", err.Error()), slog.String("line_id", lineID))
		return fmt.Errorf("failed to delete payment line: %w", err)
	}
	if err := s.refreshOrderTotal(ctx, tx, existing.PaymentOrderID, userID, now); err != nil {
		return err
	}
	if err := s.paymentRepo.Commit(ctx, tx); err != nil {
		return err
	}

	logger.Info("Payment line deleted", slog.String("line_id", lineID))
	return nil
}

// AddSignature records an approval on an order. The first active BOOKED
// signature flips the derived state to locked; once locked, no further
// signatures are accepted either.
func (s *paymentService) AddSignature(ctx context.Context, paymentOrderID string, req dto.CreateSignatureRequest, signerUserID string) (*domain.Signature, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	kind := domain.SignatureKind(req.StatusKind)
	switch kind {
	case domain.SignatureDraft, domain.SignatureVerified, domain.SignatureBooked:
	default:
		return nil, fmt.Errorf("%w: unknown signature kind %q", apperrors.ErrValidation, req.StatusKind)
	}

	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.paymentRepo.Rollback(ctx, tx)

	_, state, err := s.lockOrder(ctx, tx, paymentOrderID)
	if err != nil {
		return nil, err
	}
	if state == domain.OrderLocked {
		return nil, fmt.Errorf("%w: payment order %s is booked", apperrors.ErrOrderLocked, paymentOrderID)
	}

	now := time.Now().UTC()
	signature := domain.Signature{
		SignatureID:    uuid.NewString(),
		PaymentOrderID: paymentOrderID,
		StatusKind:     kind,
		SignedBy:       signerUserID,
		SignedAt:       now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     signerUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: signerUserID,
		},
	}

	if err := s.paymentRepo.SaveSignature(ctx, tx, signature); err != nil {
		logger.Error("Failed to save signature", slog.String("error", err.Error()), slog.String("payment_order_id", paymentOrderID))
		return nil, fmt.Errorf("failed to save signature: %w", err)
	}
	if err := s.paymentRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Signature added",
		slog.String("signature_id", signature.SignatureID),
		slog.String("payment_order_id", paymentOrderID),
		slog.String("status_kind", string(kind)))
	return &signature, nil
}

// RemoveSignature tombstones a signature. A booked order keeps all of its
// signatures: there is no path back to the open state.
func (s *paymentService) RemoveSignature(ctx context.Context, signatureID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.paymentRepo.Rollback(ctx, tx)

	signature, err := s.paymentRepo.FindSignatureByIDTx(ctx, tx, signatureID)
	if err != nil {
		return err
	}
	_, state, err := s.lockOrder(ctx, tx, signature.PaymentOrderID)
	if err != nil {
		return err
	}
	if state == domain.OrderLocked {
		return fmt.Errorf("%w: payment order %s is booked", apperrors.ErrOrderLocked, signature.PaymentOrderID)
	}

	if err := s.paymentRepo.SoftDeleteSignature(ctx, tx, signatureID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to delete signature", slog.String("error", err.Error()), slog.String("signature_id", signatureID))
		return fmt.Errorf("failed to delete signature: %w", err)
	}
	if err := s.paymentRepo.Commit(ctx, tx); err != nil {
		return err
	}

	logger.Info("Signature removed", slog.String("signature_id", signatureID))
	return nil
}

// lockOrder locks the order row and derives its state from the signatures
// read under that lock.
func (s *paymentService) lockOrder(ctx context.Context, tx pgx.Tx, paymentOrderID string) (*domain.PaymentOrder, domain.OrderState, error) {
	order, err := s.paymentRepo.FindOrderByIDForUpdate(ctx, tx, paymentOrderID)
	if err != nil {
		return nil, domain.OrderOpen, err
	}
	signatures, err := s.paymentRepo.ListSignaturesByOrderTx(ctx, tx, paymentOrderID)
	if err != nil {
		return nil, domain.OrderOpen, err
	}
	return order, OrderStateOf(signatures), nil
}

// validateLineRefs checks the line's foreign references outside the guard:
// payee organization and cost detail must exist and be active.
func (s *paymentService) validateLineRefs(ctx context.Context, line domain.PaymentOrderLine) error {
	if line.OrganizationID != "" {
		if _, err := s.orgRepo.FindOrganizationByID(ctx, line.OrganizationID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: organization %s not found", apperrors.ErrValidation, line.OrganizationID)
			}
			return fmt.Errorf("failed to validate organization %s: %w", line.OrganizationID, err)
		}
	}
	if line.CostDetailID != "" {
		if _, err := s.budgetRepo.FindCostDetailByID(ctx, line.CostDetailID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: cost detail %s not found", apperrors.ErrValidation, line.CostDetailID)
			}
			return fmt.Errorf("failed to validate cost detail %s: %w", line.CostDetailID, err)
		}
	}
	return nil
}

// validateLine assembles the guard's sums from the open transaction and
// runs it. The effective funding transaction row is locked too, so the
// approval bound is serialized across orders paying from the same
// transaction. Lock order is always payment order first, then funding
// transaction.
func (s *paymentService) validateLine(ctx context.Context, tx pgx.Tx, op WriteOp, line domain.PaymentOrderLine, order domain.PaymentOrder, state domain.OrderState) error {
	check := PaymentCheck{
		Op:    op,
		Line:  line,
		Order: order,
		State: state,
	}

	effTxnID := line.EffectiveTransactionID(&order)
	if effTxnID != "" && op != OpDelete {
		txn, err := s.fundingRepo.FindTransactionByIDForUpdate(ctx, tx, effTxnID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to load transaction %s: %w", effTxnID, err)
		}
		check.Transaction = txn

		if txn != nil {
			allocations, err := s.allocationRepo.ListAllocationsByTransactionTx(ctx, tx, effTxnID)
			if err != nil {
				return err
			}
			pairAllocated := decimal.Zero
			for _, a := range allocations {
				if a.CostDetailID == line.CostDetailID {
					pairAllocated = pairAllocated.Add(a.PlannedAmount)
				}
			}
			check.PairAllocated = pairAllocated

			check.PairPaid, err = s.paymentRepo.SumLineAmountsForPair(ctx, tx, effTxnID, line.CostDetailID, line.LineID)
			if err != nil {
				return err
			}
			check.TxnPaid, err = s.paymentRepo.SumLineAmountsForTransaction(ctx, tx, effTxnID, line.LineID)
			if err != nil {
				return err
			}
		}
	}

	return s.guard.Validate(check)
}

// refreshOrderTotal rederives the order total from its active lines as
// seen by the open transaction, including the write that just happened.
func (s *paymentService) refreshOrderTotal(ctx context.Context, tx pgx.Tx, paymentOrderID string, userID string, at time.Time) error {
	lines, err := s.paymentRepo.ListLinesByOrderTx(ctx, tx, paymentOrderID)
	if err != nil {
		return err
	}
	return s.paymentRepo.UpdateOrderTotal(ctx, tx, paymentOrderID, TotalOf(lines), userID, at)
}
