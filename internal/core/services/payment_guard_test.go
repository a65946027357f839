package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dejan-marlovic/relief-finance/internal/apperrors"
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	"github.com/dejan-marlovic/relief-finance/internal/core/services"
)

func guardCheck() services.PaymentCheck {
	return services.PaymentCheck{
		Op: services.OpCreate,
		Line: domain.PaymentOrderLine{
			LineID:         "line-new",
			PaymentOrderID: "po-1",
			OrganizationID: "org-1",
			CostDetailID:   "cd-1",
			Amount:         dec("100"),
		},
		Order: domain.PaymentOrder{
			PaymentOrderID: "po-1",
			TransactionID:  strPtr("txn-1"),
		},
		State: domain.OrderOpen,
		Transaction: &domain.FundingTransaction{
			TransactionID:  "txn-1",
			ApprovedAmount: dec("1000"),
		},
		PairAllocated: dec("900"),
		PairPaid:      decimal.Zero,
		TxnPaid:       decimal.Zero,
	}
}

func TestPaymentGuard_AllocationBound(t *testing.T) {
	var guard services.PaymentGuard

	check := guardCheck()
	check.PairPaid = dec("850")

	check.Line.Amount = dec("50")
	assert.NoError(t, guard.Validate(check), "paying up to the planned allocation")

	check.Line.Amount = dec("100")
	assert.ErrorIs(t, guard.Validate(check), apperrors.ErrExceedsAllocation)
}

func TestPaymentGuard_ApprovalBound(t *testing.T) {
	var guard services.PaymentGuard

	check := guardCheck()
	check.PairAllocated = dec("100000")
	check.TxnPaid = dec("950")

	check.Line.Amount = dec("50")
	assert.NoError(t, guard.Validate(check))

	check.Line.Amount = dec("50.001")
	assert.ErrorIs(t, guard.Validate(check), apperrors.ErrExceedsApproval)
}

func TestPaymentGuard_LockedOrderRejectsEverything(t *testing.T) {
	var guard services.PaymentGuard

	for _, op := range []services.WriteOp{services.OpCreate, services.OpUpdate, services.OpDelete} {
		check := guardCheck()
		check.Op = op
		check.State = domain.OrderLocked
		assert.ErrorIs(t, guard.Validate(check), apperrors.ErrOrderLocked, "op %v", op)
	}
}

func TestPaymentGuard_EffectiveTransactionResolution(t *testing.T) {
	var guard services.PaymentGuard

	// Line inherits the header transaction.
	check := guardCheck()
	check.Line.TransactionID = nil
	assert.NoError(t, guard.Validate(check))

	// Line's own transaction wins over the header.
	check = guardCheck()
	check.Line.TransactionID = strPtr("txn-2")
	check.Transaction = &domain.FundingTransaction{TransactionID: "txn-2", ApprovedAmount: dec("1000")}
	assert.NoError(t, guard.Validate(check))

	// Neither resolves.
	check = guardCheck()
	check.Line.TransactionID = nil
	check.Order.TransactionID = nil
	assert.ErrorIs(t, guard.Validate(check), apperrors.ErrNoTransaction)
}

func TestPaymentGuard_RequiredFields(t *testing.T) {
	var guard services.PaymentGuard

	check := guardCheck()
	check.Line.OrganizationID = ""
	assert.ErrorIs(t, guard.Validate(check), apperrors.ErrValidation)

	check = guardCheck()
	check.Line.CostDetailID = ""
	assert.ErrorIs(t, guard.Validate(check), apperrors.ErrValidation)

	check = guardCheck()
	check.Line.Amount = decimal.Zero
	assert.ErrorIs(t, guard.Validate(check), apperrors.ErrValidation)

	check = guardCheck()
	check.Line.Amount = dec("-5")
	assert.ErrorIs(t, guard.Validate(check), apperrors.ErrValidation)
}

func TestPaymentGuard_MissingTransactionRow(t *testing.T) {
	var guard services.PaymentGuard

	check := guardCheck()
	check.Transaction = nil
	assert.ErrorIs(t, guard.Validate(check), apperrors.ErrNotFound)
}

func TestPaymentGuard_DeleteOnlyChecksLockAndResolution(t *testing.T) {
	var guard services.PaymentGuard

	// A delete with sums already over every bound still passes: removing a
	// line cannot raise any total.
	check := guardCheck()
	check.Op = services.OpDelete
	check.Line.Amount = dec("999999")
	check.PairPaid = dec("999999")
	check.TxnPaid = dec("999999")
	check.Transaction = nil
	assert.NoError(t, guard.Validate(check))

	check.Line.TransactionID = nil
	check.Order.TransactionID = nil
	assert.ErrorIs(t, guard.Validate(check), apperrors.ErrNoTransaction)
}

func TestPaymentGuard_CheckOrderPrecedence(t *testing.T) {
	var guard services.PaymentGuard

	// Lock state outranks resolution failure.
	check := guardCheck()
	check.State = domain.OrderLocked
	check.Line.TransactionID = nil
	check.Order.TransactionID = nil
	assert.ErrorIs(t, guard.Validate(check), apperrors.ErrOrderLocked)

	// Resolution outranks the sums.
	check = guardCheck()
	check.Line.TransactionID = nil
	check.Order.TransactionID = nil
	check.PairPaid = dec("999999")
	assert.ErrorIs(t, guard.Validate(check), apperrors.ErrNoTransaction)

	// Allocation bound outranks approval bound.
	check = guardCheck()
	check.PairAllocated = decimal.Zero
	check.TxnPaid = dec("999999")
	assert.ErrorIs(t, guard.Validate(check), apperrors.ErrExceedsAllocation)
}

func TestTotalOf_SkipsDeletedLines(t *testing.T) {
	lines := []domain.PaymentOrderLine{
		{LineID: "l1", Amount: dec("100")},
		{LineID: "l2", Amount: dec("250.5")},
		{LineID: "l3", Amount: dec("999"), SoftDelete: domain.SoftDelete{Deleted: true}},
	}
	assert.True(t, services.TotalOf(lines).Equal(dec("350.5")))
}
