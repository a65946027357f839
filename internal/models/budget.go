package models

import (
	"github.com/shopspring/decimal"
)

// Budget represents a budget header row.
type Budget struct {
	BudgetID          string  `db:"budget_id"`
	ProjectID         string  `db:"project_id"`
	Name              string  `db:"name"`
	LocalCurrencyCode string  `db:"local_currency_code"`
	LocalToGBPRateID  *string `db:"local_to_gbp_rate_id"` // Nullable
	LocalToSEKRateID  *string `db:"local_to_sek_rate_id"` // Nullable
	LocalToEURRateID  *string `db:"local_to_eur_rate_id"` // Nullable
	AuditFields
	SoftDelete
}

// CostDetail represents a budgeted cost line row. The amount columns are
// derived and only written by the recompute path.
type CostDetail struct {
	CostDetailID       string              `db:"cost_detail_id"`
	BudgetID           string              `db:"budget_id"`
	Description        string              `db:"description"`
	Units              int64               `db:"units"`
	UnitPrice          decimal.Decimal     `db:"unit_price"`
	PercentageCharging decimal.Decimal     `db:"percentage_charging"`
	AmountLocal        decimal.Decimal     `db:"amount_local"`
	AmountGBP          decimal.NullDecimal `db:"amount_gbp"` // Nullable
	AmountSEK          decimal.NullDecimal `db:"amount_sek"` // Nullable
	AmountEUR          decimal.NullDecimal `db:"amount_eur"` // Nullable
	AuditFields
	SoftDelete
}
