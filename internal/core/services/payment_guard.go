package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dejan-marlovic/relief-finance/internal/apperrors"
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
)

// PaymentGuard validates payment order line mutations against the lock
// state, the planned allocations and the approved funding. Like the other
// validators it is pure; the orchestrating service supplies sums computed
// from the same database transaction that performs the write.
type PaymentGuard struct{}

// PaymentCheck carries one line validation. The two sums exclude the line
// being written; PairAllocated is the total active planned amount for the
// line's (effective transaction, cost detail) pair, PairPaid and TxnPaid
// are active line amount sums for the pair and for the whole transaction.
type PaymentCheck struct {
	Op            WriteOp
	Line          domain.PaymentOrderLine
	Order         domain.PaymentOrder
	State         domain.OrderState
	Transaction   *domain.FundingTransaction
	PairAllocated decimal.Decimal
	PairPaid      decimal.Decimal
	TxnPaid       decimal.Decimal
}

// Validate runs the guard's preconditions in order: lock state, effective
// transaction resolution, required fields, allocation bound, approval
// bound. The first violation is returned.
func (PaymentGuard) Validate(check PaymentCheck) error {
	if check.State == domain.OrderLocked {
		return fmt.Errorf("%w: payment order %s is booked", apperrors.ErrOrderLocked, check.Order.PaymentOrderID)
	}

	effTxnID := check.Line.EffectiveTransactionID(&check.Order)
	if effTxnID == "" {
		return fmt.Errorf("%w: line %s has no transaction and order %s has no header transaction",
			apperrors.ErrNoTransaction, check.Line.LineID, check.Order.PaymentOrderID)
	}

	// A delete cannot raise any sum; only the lock and resolution checks apply.
	if check.Op == OpDelete {
		return nil
	}

	if check.Line.OrganizationID == "" {
		return fmt.Errorf("%w: line %s requires a payee organization", apperrors.ErrValidation, check.Line.LineID)
	}
	if check.Line.CostDetailID == "" {
		return fmt.Errorf("%w: line %s requires a cost detail", apperrors.ErrValidation, check.Line.LineID)
	}
	if !check.Line.Amount.IsPositive() {
		return fmt.Errorf("%w: line %s amount must be positive, got %s", apperrors.ErrValidation, check.Line.LineID, check.Line.Amount)
	}
	if check.Transaction == nil {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, effTxnID)
	}

	pairTotal := check.PairPaid.Add(check.Line.Amount)
	if pairTotal.GreaterThan(check.PairAllocated) {
		return fmt.Errorf("%w: transaction %s / cost detail %s would have %s paid, planned allocation is %s",
			apperrors.ErrExceedsAllocation, effTxnID, check.Line.CostDetailID, pairTotal, check.PairAllocated)
	}

	txnTotal := check.TxnPaid.Add(check.Line.Amount)
	if txnTotal.GreaterThan(check.Transaction.ApprovedAmount) {
		return fmt.Errorf("%w: transaction %s would have %s paid, approved amount is %s",
			apperrors.ErrExceedsApproval, effTxnID, txnTotal, check.Transaction.ApprovedAmount)
	}

	return nil
}

// TotalOf derives a payment order's total from its active lines.
func TotalOf(lines []domain.PaymentOrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.Deleted {
			continue
		}
		total = total.Add(l.Amount)
	}
	return total
}
