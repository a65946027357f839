package domain

import "github.com/shopspring/decimal"

// CostAllocation plans a split of a funding transaction's approved amount
// against one budgeted cost line. The (transaction, costDetail) pair is not
// unique; cap checks sum every active row for the pair.
type CostAllocation struct {
	AllocationID  string          `json:"allocationID"`  // Primary Key (UUID)
	TransactionID string          `json:"transactionID"` // FK -> FundingTransaction.transactionID (Not Null)
	CostDetailID  string          `json:"costDetailID"`  // FK -> CostDetail.costDetailID (Not Null)
	PlannedAmount decimal.Decimal `json:"plannedAmount"` // >= 0
	AuditFields
	SoftDelete
}
