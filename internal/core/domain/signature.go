package domain

import "time"

// SignatureKind is an ordered approval stage. Booked is the terminal stage:
// any active booked signature locks the owning payment order.
type SignatureKind string

const (
	SignatureDraft    SignatureKind = "DRAFT"
	SignatureVerified SignatureKind = "VERIFIED"
	SignatureBooked   SignatureKind = "BOOKED"
)

// Signature is an approval record on a payment order.
type Signature struct {
	SignatureID    string        `json:"signatureID"`    // Primary Key (UUID)
	PaymentOrderID string        `json:"paymentOrderID"` // FK -> PaymentOrder.paymentOrderID (Not Null)
	StatusKind     SignatureKind `json:"statusKind"`
	SignedBy       string        `json:"signedBy"` // UserID reference
	SignedAt       time.Time     `json:"signedAt"`
	AuditFields
	SoftDelete
}
