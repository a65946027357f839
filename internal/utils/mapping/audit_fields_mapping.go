package mapping

import (
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	"github.com/dejan-marlovic/relief-finance/internal/models"
)

// ToModelAuditFields converts a domain AuditFields to a model AuditFields
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// ToDomainAuditFields converts a model AuditFields to a domain AuditFields
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt,
		LastUpdatedBy: m.LastUpdatedBy,
	}
}

// ToModelSoftDelete converts a domain SoftDelete to a model SoftDelete
func ToModelSoftDelete(d domain.SoftDelete) models.SoftDelete {
	return models.SoftDelete{
		Deleted:   d.Deleted,
		DeletedAt: d.DeletedAt,
	}
}

// ToDomainSoftDelete converts a model SoftDelete to a domain SoftDelete
func ToDomainSoftDelete(m models.SoftDelete) domain.SoftDelete {
	return domain.SoftDelete{
		Deleted:   m.Deleted,
		DeletedAt: m.DeletedAt,
	}
}
