package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate represents an exchange rate row. Rows are append-only:
// budgets pin a rate by ID and rely on it never changing.
type ExchangeRate struct {
	ExchangeRateID    string          `db:"exchange_rate_id"`
	BaseCurrencyCode  string          `db:"base_currency_code"`
	QuoteCurrencyCode string          `db:"quote_currency_code"`
	Rate              decimal.Decimal `db:"rate"`
	DateEffective     time.Time       `db:"date_effective"`
	AuditFields
	SoftDelete
}
