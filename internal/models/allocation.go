package models

import "github.com/shopspring/decimal"

// CostAllocation represents a planned allocation row linking a funding
// transaction to a budgeted cost line.
type CostAllocation struct {
	AllocationID  string          `db:"allocation_id"`
	TransactionID string          `db:"transaction_id"`
	CostDetailID  string          `db:"cost_detail_id"`
	PlannedAmount decimal.Decimal `db:"planned_amount"`
	AuditFields
	SoftDelete
}
