package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the conversion rate between two currencies.
type ExchangeRate struct {
	ExchangeRateID    string          `json:"exchangeRateID"`    // Primary Key (UUID)
	BaseCurrencyCode  string          `json:"baseCurrencyCode"`  // FK -> Currency.currencyCode
	QuoteCurrencyCode string          `json:"quoteCurrencyCode"` // FK -> Currency.currencyCode
	Rate              decimal.Decimal `json:"rate"`              // Must be > 0
	DateEffective     time.Time       `json:"dateEffective"`
	AuditFields
	SoftDelete
}
