package domain

import "github.com/shopspring/decimal"

// FundingTransaction is a funding record backing a project. Its approved
// amount is the authoritative ceiling for allocations against it. The
// referenced budget must belong to the same project.
type FundingTransaction struct {
	TransactionID     string          `json:"transactionID"` // Primary Key (UUID)
	ProjectID         string          `json:"projectID"`     // FK -> Project.projectID (Not Null)
	BudgetID          string          `json:"budgetID"`      // FK -> Budget.budgetID (Not Null)
	Description       string          `json:"description"`
	AppliedForAmount  decimal.Decimal `json:"appliedForAmount"`
	ApprovedAmount    decimal.Decimal `json:"approvedAmount"`
	FirstShareAmount  decimal.Decimal `json:"firstShareAmount"`
	SecondShareAmount decimal.Decimal `json:"secondShareAmount"`
	AuditFields
	SoftDelete
}
