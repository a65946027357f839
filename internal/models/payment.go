package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentOrder represents a payment order header row. The total column is
// derived from active lines.
type PaymentOrder struct {
	PaymentOrderID string          `db:"payment_order_id"`
	TransactionID  *string         `db:"transaction_id"` // Nullable
	Reference      string          `db:"reference"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	AuditFields
	SoftDelete
}

// PaymentOrderLine represents an individual payment row within an order.
type PaymentOrderLine struct {
	LineID         string          `db:"line_id"`
	PaymentOrderID string          `db:"payment_order_id"`
	TransactionID  *string         `db:"transaction_id"` // Nullable, overrides the header
	OrganizationID string          `db:"organization_id"`
	CostDetailID   string          `db:"cost_detail_id"`
	Amount         decimal.Decimal `db:"amount"`
	AuditFields
	SoftDelete
}

// Signature represents an approval row on a payment order.
type Signature struct {
	SignatureID    string    `db:"signature_id"`
	PaymentOrderID string    `db:"payment_order_id"`
	StatusKind     string    `db:"status_kind"`
	SignedBy       string    `db:"signed_by"`
	SignedAt       time.Time `db:"signed_at"`
	AuditFields
	SoftDelete
}
