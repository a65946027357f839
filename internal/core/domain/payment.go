package domain

import "github.com/shopspring/decimal"

// OrderState is the derived lock state of a payment order.
type OrderState string

const (
	OrderOpen   OrderState = "OPEN"
	OrderLocked OrderState = "LOCKED"
)

// PaymentOrder is a disbursement batch. TotalAmount is a derived
// projection, the sum of amounts over active lines; it is never accepted
// as user input. Project membership is derived from the header transaction
// or any line's effective transaction.
type PaymentOrder struct {
	PaymentOrderID string          `json:"paymentOrderID"` // Primary Key (UUID)
	TransactionID  *string         `json:"transactionID,omitempty"`
	Reference      string          `json:"reference"`
	TotalAmount    decimal.Decimal `json:"totalAmount"` // derived
	AuditFields
	SoftDelete
}

// PaymentOrderLine is an individual payment within an order. A line without
// its own transaction inherits the order header's; at least one of the two
// must resolve.
type PaymentOrderLine struct {
	LineID         string          `json:"lineID"`         // Primary Key (UUID)
	PaymentOrderID string          `json:"paymentOrderID"` // FK -> PaymentOrder.paymentOrderID (Not Null)
	TransactionID  *string         `json:"transactionID,omitempty"`
	OrganizationID string          `json:"organizationID"` // FK -> Organization.organizationID (Not Null)
	CostDetailID   string          `json:"costDetailID"`   // FK -> CostDetail.costDetailID (Not Null)
	Amount         decimal.Decimal `json:"amount"`         // > 0
	AuditFields
	SoftDelete
}

// EffectiveTransactionID resolves the funding transaction governing this
// line: its own override if set, otherwise the order header's. Returns ""
// when neither resolves.
func (l *PaymentOrderLine) EffectiveTransactionID(order *PaymentOrder) string {
	if l.TransactionID != nil && *l.TransactionID != "" {
		return *l.TransactionID
	}
	if order != nil && order.TransactionID != nil {
		return *order.TransactionID
	}
	return ""
}
