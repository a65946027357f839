package domain

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol       string `json:"symbol"`       // e.g., "$"
	Name         string `json:"name"`         // e.g., "US Dollar"
	AuditFields
	SoftDelete
}

// Fixed reporting currencies every budget converts its cost lines into.
const (
	CurrencyGBP = "GBP"
	CurrencySEK = "SEK"
	CurrencyEUR = "EUR"
)

// ReportingCurrencies lists the conversion targets in a stable order.
var ReportingCurrencies = []string{CurrencyGBP, CurrencySEK, CurrencyEUR}
