package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dejan-marlovic/relief-finance/internal/apperrors"
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
)

// AllocationLedger enforces the two allocation ceilings and the paid-safety
// floor. It is pure: the orchestrating service loads the active rows for
// the affected transaction and cost line (from the same database
// transaction that performs the write) and passes them in.
type AllocationLedger struct{}

// AllocationCheck carries everything the ledger needs for one validation.
// Existing slices hold active allocation rows only and may contain the old
// version of the row under edit; it is excluded by AllocationID before
// summing. PaidForPair is the sum of active payment order line amounts
// whose effective transaction and cost detail match the allocation's pair.
type AllocationCheck struct {
	Op          WriteOp
	Proposed    domain.CostAllocation
	Transaction domain.FundingTransaction
	CostDetail  domain.CostDetail
	ForTxn      []domain.CostAllocation // active rows for the transaction, across all cost lines
	ForCostLine []domain.CostAllocation // active rows for the cost line, across all transactions
	PaidForPair decimal.Decimal
}

// Validate runs the transaction cap, the cost-line cap and the paid floor,
// in that order, and returns the first violation.
func (AllocationLedger) Validate(check AllocationCheck) error {
	newPlanned := check.Proposed.PlannedAmount
	if check.Op == OpDelete {
		newPlanned = decimal.Zero
	}
	if newPlanned.IsNegative() {
		return fmt.Errorf("%w: allocation %s planned amount must not be negative, got %s",
			apperrors.ErrValidation, check.Proposed.AllocationID, newPlanned)
	}

	if check.Op != OpDelete {
		txnTotal := sumPlannedExcluding(check.ForTxn, check.Proposed.AllocationID).Add(newPlanned)
		if txnTotal.GreaterThan(check.Transaction.ApprovedAmount) {
			return fmt.Errorf("%w: transaction %s would have %s allocated, approved amount is %s",
				apperrors.ErrCapExceeded, check.Transaction.TransactionID, txnTotal, check.Transaction.ApprovedAmount)
		}

		lineTotal := sumPlannedExcluding(check.ForCostLine, check.Proposed.AllocationID).Add(newPlanned)
		if lineTotal.GreaterThan(check.CostDetail.AmountLocal) {
			return fmt.Errorf("%w: cost detail %s would have %s allocated, budgeted local amount is %s",
				apperrors.ErrCapExceeded, check.CostDetail.CostDetailID, lineTotal, check.CostDetail.AmountLocal)
		}
	}

	// The floor only guards shrinks: money already paid for the pair may
	// never end up above the row's planned amount.
	if shrinks(check) && newPlanned.LessThan(check.PaidForPair) {
		return fmt.Errorf("%w: allocation %s planned amount %s is below %s already paid for transaction %s / cost detail %s",
			apperrors.ErrPaidFloorViolation, check.Proposed.AllocationID, newPlanned,
			check.PaidForPair, check.Proposed.TransactionID, check.Proposed.CostDetailID)
	}

	return nil
}

func shrinks(check AllocationCheck) bool {
	if check.Op == OpDelete {
		return true
	}
	if check.Op != OpUpdate {
		return false
	}
	for _, a := range check.ForTxn {
		if a.AllocationID == check.Proposed.AllocationID {
			return check.Proposed.PlannedAmount.LessThan(a.PlannedAmount)
		}
	}
	return false
}

func sumPlannedExcluding(allocations []domain.CostAllocation, excludeID string) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocations {
		if a.AllocationID == excludeID {
			continue
		}
		total = total.Add(a.PlannedAmount)
	}
	return total
}
