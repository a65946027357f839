package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
)

// CreatePaymentOrderRequest defines the payload for creating a payment
// order. The total is derived from lines and never accepted as input.
type CreatePaymentOrderRequest struct {
	TransactionID *string `json:"transactionID"`
	Reference     string  `json:"reference"`
}

// UpdatePaymentOrderRequest defines the payload for updating an order
// header. Nil fields are left unchanged.
type UpdatePaymentOrderRequest struct {
	TransactionID *string `json:"transactionID"`
	Reference     *string `json:"reference"`
}

// CreatePaymentLineRequest defines the payload for adding a line to an
// order. TransactionID overrides the order header's transaction when set.
type CreatePaymentLineRequest struct {
	TransactionID  *string         `json:"transactionID"`
	OrganizationID string          `json:"organizationID" binding:"required"`
	CostDetailID   string          `json:"costDetailID" binding:"required"`
	Amount         decimal.Decimal `json:"amount"`
}

// UpdatePaymentLineRequest defines the payload for editing a line. Nil
// fields are left unchanged.
type UpdatePaymentLineRequest struct {
	TransactionID  *string          `json:"transactionID"`
	OrganizationID *string          `json:"organizationID"`
	CostDetailID   *string          `json:"costDetailID"`
	Amount         *decimal.Decimal `json:"amount"`
}

// CreateSignatureRequest defines the payload for signing an order. A
// BOOKED signature locks the order permanently.
type CreateSignatureRequest struct {
	StatusKind string `json:"statusKind" binding:"required,oneof=DRAFT VERIFIED BOOKED"`
}

// PaymentLineResponse defines the data returned for a payment order line.
type PaymentLineResponse struct {
	LineID         string          `json:"lineID"`
	PaymentOrderID string          `json:"paymentOrderID"`
	TransactionID  *string         `json:"transactionID,omitempty"`
	OrganizationID string          `json:"organizationID"`
	CostDetailID   string          `json:"costDetailID"`
	Amount         decimal.Decimal `json:"amount"`
}

// SignatureResponse defines the data returned for a signature.
type SignatureResponse struct {
	SignatureID    string    `json:"signatureID"`
	PaymentOrderID string    `json:"paymentOrderID"`
	StatusKind     string    `json:"statusKind"`
	SignedBy       string    `json:"signedBy"`
	SignedAt       time.Time `json:"signedAt"`
}

// PaymentOrderResponse defines the data returned for an order, including
// its derived state and total.
type PaymentOrderResponse struct {
	PaymentOrderID string                `json:"paymentOrderID"`
	TransactionID  *string               `json:"transactionID,omitempty"`
	Reference      string                `json:"reference"`
	TotalAmount    decimal.Decimal       `json:"totalAmount"`
	State          string                `json:"state"`
	Lines          []PaymentLineResponse `json:"lines,omitempty"`
	Signatures     []SignatureResponse   `json:"signatures,omitempty"`
}

// ToPaymentLineResponse converts a domain.PaymentOrderLine to its DTO.
func ToPaymentLineResponse(l *domain.PaymentOrderLine) PaymentLineResponse {
	return PaymentLineResponse{
		LineID:         l.LineID,
		PaymentOrderID: l.PaymentOrderID,
		TransactionID:  l.TransactionID,
		OrganizationID: l.OrganizationID,
		CostDetailID:   l.CostDetailID,
		Amount:         l.Amount,
	}
}

// ToSignatureResponse converts a domain.Signature to its DTO.
func ToSignatureResponse(s *domain.Signature) SignatureResponse {
	return SignatureResponse{
		SignatureID:    s.SignatureID,
		PaymentOrderID: s.PaymentOrderID,
		StatusKind:     string(s.StatusKind),
		SignedBy:       s.SignedBy,
		SignedAt:       s.SignedAt,
	}
}

// ToPaymentOrderResponse converts an order plus its loaded children.
func ToPaymentOrderResponse(o *domain.PaymentOrder, state domain.OrderState, lines []domain.PaymentOrderLine, signatures []domain.Signature) PaymentOrderResponse {
	resp := PaymentOrderResponse{
		PaymentOrderID: o.PaymentOrderID,
		TransactionID:  o.TransactionID,
		Reference:      o.Reference,
		TotalAmount:    o.TotalAmount,
		State:          string(state),
	}
	for i := range lines {
		resp.Lines = append(resp.Lines, ToPaymentLineResponse(&lines[i]))
	}
	for i := range signatures {
		resp.Signatures = append(resp.Signatures, ToSignatureResponse(&signatures[i]))
	}
	return resp
}
