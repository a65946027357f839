package models

import "github.com/shopspring/decimal"

// FundingTransaction represents a funding transaction row.
type FundingTransaction struct {
	TransactionID     string          `db:"transaction_id"`
	ProjectID         string          `db:"project_id"`
	BudgetID          string          `db:"budget_id"`
	Description       string          `db:"description"`
	AppliedForAmount  decimal.Decimal `db:"applied_for_amount"`
	ApprovedAmount    decimal.Decimal `db:"approved_amount"`
	FirstShareAmount  decimal.Decimal `db:"first_share_amount"`
	SecondShareAmount decimal.Decimal `db:"second_share_amount"`
	AuditFields
	SoftDelete
}
