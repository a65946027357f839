package mapping

import (
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	"github.com/dejan-marlovic/relief-finance/internal/models"
)

// ToModelPaymentOrder converts a domain PaymentOrder to its model
func ToModelPaymentOrder(d domain.PaymentOrder) models.PaymentOrder {
	return models.PaymentOrder{
		PaymentOrderID: d.PaymentOrderID,
		TransactionID:  d.TransactionID,
		Reference:      d.Reference,
		TotalAmount:    d.TotalAmount,
		AuditFields:    ToModelAuditFields(d.AuditFields),
		SoftDelete:     ToModelSoftDelete(d.SoftDelete),
	}
}

// ToDomainPaymentOrder converts a model PaymentOrder to its domain form
func ToDomainPaymentOrder(m models.PaymentOrder) domain.PaymentOrder {
	return domain.PaymentOrder{
		PaymentOrderID: m.PaymentOrderID,
		TransactionID:  m.TransactionID,
		Reference:      m.Reference,
		TotalAmount:    m.TotalAmount,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
		SoftDelete:     ToDomainSoftDelete(m.SoftDelete),
	}
}

// ToModelPaymentLine converts a domain PaymentOrderLine to its model
func ToModelPaymentLine(d domain.PaymentOrderLine) models.PaymentOrderLine {
	return models.PaymentOrderLine{
		LineID:         d.LineID,
		PaymentOrderID: d.PaymentOrderID,
		TransactionID:  d.TransactionID,
		OrganizationID: d.OrganizationID,
		CostDetailID:   d.CostDetailID,
		Amount:         d.Amount,
		AuditFields:    ToModelAuditFields(d.AuditFields),
		SoftDelete:     ToModelSoftDelete(d.SoftDelete),
	}
}

// ToDomainPaymentLine converts a model PaymentOrderLine to its domain form
func ToDomainPaymentLine(m models.PaymentOrderLine) domain.PaymentOrderLine {
	return domain.PaymentOrderLine{
		LineID:         m.LineID,
		PaymentOrderID: m.PaymentOrderID,
		TransactionID:  m.TransactionID,
		OrganizationID: m.OrganizationID,
		CostDetailID:   m.CostDetailID,
		Amount:         m.Amount,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
		SoftDelete:     ToDomainSoftDelete(m.SoftDelete),
	}
}

// ToModelSignature converts a domain Signature to its model
func ToModelSignature(d domain.Signature) models.Signature {
	return models.Signature{
		SignatureID:    d.SignatureID,
		PaymentOrderID: d.PaymentOrderID,
		StatusKind:     string(d.StatusKind),
		SignedBy:       d.SignedBy,
		SignedAt:       d.SignedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
		SoftDelete:     ToModelSoftDelete(d.SoftDelete),
	}
}

// ToDomainSignature converts a model Signature to its domain form
func ToDomainSignature(m models.Signature) domain.Signature {
	return domain.Signature{
		SignatureID:    m.SignatureID,
		PaymentOrderID: m.PaymentOrderID,
		StatusKind:     domain.SignatureKind(m.StatusKind),
		SignedBy:       m.SignedBy,
		SignedAt:       m.SignedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
		SoftDelete:     ToDomainSoftDelete(m.SoftDelete),
	}
}
