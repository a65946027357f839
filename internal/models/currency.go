package models

// Currency represents a currency master data row.
type Currency struct {
	CurrencyCode string `db:"currency_code"`
	Symbol       string `db:"symbol"`
	Name         string `db:"name"`
	AuditFields
	SoftDelete
}
