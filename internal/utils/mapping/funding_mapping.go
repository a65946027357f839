package mapping

import (
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	"github.com/dejan-marlovic/relief-finance/internal/models"
)

// ToModelTransaction converts a domain FundingTransaction to its model
func ToModelTransaction(d domain.FundingTransaction) models.FundingTransaction {
	return models.FundingTransaction{
		TransactionID:     d.TransactionID,
		ProjectID:         d.ProjectID,
		BudgetID:          d.BudgetID,
		Description:       d.Description,
		AppliedForAmount:  d.AppliedForAmount,
		ApprovedAmount:    d.ApprovedAmount,
		FirstShareAmount:  d.FirstShareAmount,
		SecondShareAmount: d.SecondShareAmount,
		AuditFields:       ToModelAuditFields(d.AuditFields),
		SoftDelete:        ToModelSoftDelete(d.SoftDelete),
	}
}

// ToDomainTransaction converts a model FundingTransaction to its domain form
func ToDomainTransaction(m models.FundingTransaction) domain.FundingTransaction {
	return domain.FundingTransaction{
		TransactionID:     m.TransactionID,
		ProjectID:         m.ProjectID,
		BudgetID:          m.BudgetID,
		Description:       m.Description,
		AppliedForAmount:  m.AppliedForAmount,
		ApprovedAmount:    m.ApprovedAmount,
		FirstShareAmount:  m.FirstShareAmount,
		SecondShareAmount: m.SecondShareAmount,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
		SoftDelete:        ToDomainSoftDelete(m.SoftDelete),
	}
}

// ToModelAllocation converts a domain CostAllocation to its model
func ToModelAllocation(d domain.CostAllocation) models.CostAllocation {
	return models.CostAllocation{
		AllocationID:  d.AllocationID,
		TransactionID: d.TransactionID,
		CostDetailID:  d.CostDetailID,
		PlannedAmount: d.PlannedAmount,
		AuditFields:   ToModelAuditFields(d.AuditFields),
		SoftDelete:    ToModelSoftDelete(d.SoftDelete),
	}
}

// ToDomainAllocation converts a model CostAllocation to its domain form
func ToDomainAllocation(m models.CostAllocation) domain.CostAllocation {
	return domain.CostAllocation{
		AllocationID:  m.AllocationID,
		TransactionID: m.TransactionID,
		CostDetailID:  m.CostDetailID,
		PlannedAmount: m.PlannedAmount,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
		SoftDelete:    ToDomainSoftDelete(m.SoftDelete),
	}
}
