package domain

import "github.com/shopspring/decimal"

// Budget is a project's planned spend header. It fixes the local currency
// and the exchange rates used to express cost lines in the reporting
// currencies. Each rate reference must resolve to a rate whose base matches
// the budget's local currency and whose quote matches the reporting
// currency it is assigned to.
type Budget struct {
	BudgetID          string  `json:"budgetID"`  // Primary Key (UUID)
	ProjectID         string  `json:"projectID"` // FK -> Project.projectID (Not Null)
	Name              string  `json:"name"`
	LocalCurrencyCode string  `json:"localCurrencyCode"` // FK -> Currency.currencyCode
	LocalToGBPRateID  *string `json:"localToGBPRateID,omitempty"`
	LocalToSEKRateID  *string `json:"localToSEKRateID,omitempty"`
	LocalToEURRateID  *string `json:"localToEURRateID,omitempty"`
	AuditFields
	SoftDelete
}

// RateRefFor returns the exchange rate reference assigned for the given
// reporting currency, or nil if none is assigned.
func (b *Budget) RateRefFor(reportingCurrency string) *string {
	switch reportingCurrency {
	case CurrencyGBP:
		return b.LocalToGBPRateID
	case CurrencySEK:
		return b.LocalToSEKRateID
	case CurrencyEUR:
		return b.LocalToEURRateID
	}
	return nil
}

// SetRateRefFor assigns the exchange rate reference for the given reporting
// currency. Unknown targets are ignored.
func (b *Budget) SetRateRefFor(reportingCurrency string, rateID *string) {
	switch reportingCurrency {
	case CurrencyGBP:
		b.LocalToGBPRateID = rateID
	case CurrencySEK:
		b.LocalToSEKRateID = rateID
	case CurrencyEUR:
		b.LocalToEURRateID = rateID
	}
}

// CostDetail is one budgeted cost line. The four amount fields are derived
// projections: they are recomputed from units, unit price, percentage
// charging and the owning budget's rates on every relevant write, never
// written independently. A reporting amount is left unset (invalid
// NullDecimal) when the budget has no rate assigned for that target.
type CostDetail struct {
	CostDetailID       string              `json:"costDetailID"` // Primary Key (UUID)
	BudgetID           string              `json:"budgetID"`     // FK -> Budget.budgetID (Not Null)
	Description        string              `json:"description"`
	Units              int64               `json:"units"`              // >= 0
	UnitPrice          decimal.Decimal     `json:"unitPrice"`          // >= 0
	PercentageCharging decimal.Decimal     `json:"percentageCharging"` // >= 0, <= configured max
	AmountLocal        decimal.Decimal     `json:"amountLocal"`        // derived
	AmountGBP          decimal.NullDecimal `json:"amountGBP"`          // derived, unset without a rate
	AmountSEK          decimal.NullDecimal `json:"amountSEK"`          // derived, unset without a rate
	AmountEUR          decimal.NullDecimal `json:"amountEUR"`          // derived, unset without a rate
	AuditFields
	SoftDelete
}

// ReportingAmountFor returns the derived amount for the given reporting
// currency. The bool reports whether the amount has been computed.
func (c *CostDetail) ReportingAmountFor(reportingCurrency string) (decimal.Decimal, bool) {
	var nd decimal.NullDecimal
	switch reportingCurrency {
	case CurrencyGBP:
		nd = c.AmountGBP
	case CurrencySEK:
		nd = c.AmountSEK
	case CurrencyEUR:
		nd = c.AmountEUR
	}
	return nd.Decimal, nd.Valid
}
