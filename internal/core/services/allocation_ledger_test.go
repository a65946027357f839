package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dejan-marlovic/relief-finance/internal/apperrors"
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	"github.com/dejan-marlovic/relief-finance/internal/core/services"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ledgerCheck() services.AllocationCheck {
	return services.AllocationCheck{
		Op: services.OpCreate,
		Proposed: domain.CostAllocation{
			AllocationID:  "alloc-new",
			TransactionID: "txn-1",
			CostDetailID:  "cd-1",
		},
		Transaction: domain.FundingTransaction{
			TransactionID:  "txn-1",
			ApprovedAmount: dec("1000"),
		},
		CostDetail: domain.CostDetail{
			CostDetailID: "cd-1",
			AmountLocal:  dec("2000"),
		},
		PaidForPair: decimal.Zero,
	}
}

func TestAllocationLedger_TransactionCap(t *testing.T) {
	var ledger services.AllocationLedger

	check := ledgerCheck()
	check.ForTxn = []domain.CostAllocation{
		{AllocationID: "alloc-a", PlannedAmount: dec("600")},
	}

	check.Proposed.PlannedAmount = dec("400")
	assert.NoError(t, ledger.Validate(check), "at exactly the approved amount")

	check.Proposed.PlannedAmount = dec("450")
	assert.ErrorIs(t, ledger.Validate(check), apperrors.ErrCapExceeded)
}

func TestAllocationLedger_CostLineCap(t *testing.T) {
	var ledger services.AllocationLedger

	check := ledgerCheck()
	check.Transaction.ApprovedAmount = dec("100000")
	check.ForCostLine = []domain.CostAllocation{
		{AllocationID: "alloc-b", TransactionID: "txn-other", PlannedAmount: dec("1500")},
	}

	check.Proposed.PlannedAmount = dec("500")
	assert.NoError(t, ledger.Validate(check))

	check.Proposed.PlannedAmount = dec("500.001")
	assert.ErrorIs(t, ledger.Validate(check), apperrors.ErrCapExceeded)
}

func TestAllocationLedger_DuplicatePairRowsAllCount(t *testing.T) {
	var ledger services.AllocationLedger

	// Two rows for the same (transaction, cost detail) pair are legal;
	// their planned amounts both count toward each ceiling.
	check := ledgerCheck()
	check.ForTxn = []domain.CostAllocation{
		{AllocationID: "alloc-a", TransactionID: "txn-1", CostDetailID: "cd-1", PlannedAmount: dec("400")},
		{AllocationID: "alloc-b", TransactionID: "txn-1", CostDetailID: "cd-1", PlannedAmount: dec("500")},
	}

	check.Proposed.PlannedAmount = dec("100")
	assert.NoError(t, ledger.Validate(check))

	check.Proposed.PlannedAmount = dec("101")
	assert.ErrorIs(t, ledger.Validate(check), apperrors.ErrCapExceeded)
}

func TestAllocationLedger_UpdateExcludesOwnOldRow(t *testing.T) {
	var ledger services.AllocationLedger

	check := ledgerCheck()
	check.Op = services.OpUpdate
	check.Proposed.AllocationID = "alloc-a"
	check.ForTxn = []domain.CostAllocation{
		{AllocationID: "alloc-a", PlannedAmount: dec("900")},
	}
	check.ForCostLine = []domain.CostAllocation{
		{AllocationID: "alloc-a", PlannedAmount: dec("900")},
	}

	// Growing the row to the full approved amount works because its old
	// planned amount is not double counted.
	check.Proposed.PlannedAmount = dec("1000")
	assert.NoError(t, ledger.Validate(check))

	check.Proposed.PlannedAmount = dec("1000.5")
	assert.ErrorIs(t, ledger.Validate(check), apperrors.ErrCapExceeded)
}

func TestAllocationLedger_PaidFloorOnShrink(t *testing.T) {
	var ledger services.AllocationLedger

	check := ledgerCheck()
	check.Op = services.OpUpdate
	check.Proposed.AllocationID = "alloc-a"
	check.ForTxn = []domain.CostAllocation{
		{AllocationID: "alloc-a", PlannedAmount: dec("800")},
	}
	check.ForCostLine = []domain.CostAllocation{
		{AllocationID: "alloc-a", PlannedAmount: dec("800")},
	}
	check.PaidForPair = dec("300")

	check.Proposed.PlannedAmount = dec("300")
	assert.NoError(t, ledger.Validate(check), "shrinking to exactly the paid amount")

	check.Proposed.PlannedAmount = dec("299.999")
	assert.ErrorIs(t, ledger.Validate(check), apperrors.ErrPaidFloorViolation)
}

func TestAllocationLedger_PaidFloorOnDelete(t *testing.T) {
	var ledger services.AllocationLedger

	check := ledgerCheck()
	check.Op = services.OpDelete
	check.Proposed.AllocationID = "alloc-a"
	check.Proposed.PlannedAmount = dec("800")
	check.PaidForPair = dec("0.001")

	assert.ErrorIs(t, ledger.Validate(check), apperrors.ErrPaidFloorViolation)

	check.PaidForPair = decimal.Zero
	assert.NoError(t, ledger.Validate(check), "deleting an unpaid allocation")
}

func TestAllocationLedger_GrowNeverHitsPaidFloor(t *testing.T) {
	var ledger services.AllocationLedger

	check := ledgerCheck()
	check.Op = services.OpUpdate
	check.Proposed.AllocationID = "alloc-a"
	check.ForTxn = []domain.CostAllocation{
		{AllocationID: "alloc-a", PlannedAmount: dec("100")},
	}
	check.ForCostLine = []domain.CostAllocation{
		{AllocationID: "alloc-a", PlannedAmount: dec("100")},
	}
	check.PaidForPair = dec("500")

	// Planned below paid is a pre-existing condition; growing toward the
	// paid amount must not be blocked.
	check.Proposed.PlannedAmount = dec("200")
	assert.NoError(t, ledger.Validate(check))
}

func TestAllocationLedger_RejectsNegativePlanned(t *testing.T) {
	var ledger services.AllocationLedger

	check := ledgerCheck()
	check.Proposed.PlannedAmount = dec("-1")
	assert.ErrorIs(t, ledger.Validate(check), apperrors.ErrValidation)
}
