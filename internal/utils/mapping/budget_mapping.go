package mapping

import (
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	"github.com/dejan-marlovic/relief-finance/internal/models"
)

// ToModelBudget converts a domain Budget to a model Budget
func ToModelBudget(d domain.Budget) models.Budget {
	return models.Budget{
		BudgetID:          d.BudgetID,
		ProjectID:         d.ProjectID,
		Name:              d.Name,
		LocalCurrencyCode: d.LocalCurrencyCode,
		LocalToGBPRateID:  d.LocalToGBPRateID,
		LocalToSEKRateID:  d.LocalToSEKRateID,
		LocalToEURRateID:  d.LocalToEURRateID,
		AuditFields:       ToModelAuditFields(d.AuditFields),
		SoftDelete:        ToModelSoftDelete(d.SoftDelete),
	}
}

// ToDomainBudget converts a model Budget to a domain Budget
func ToDomainBudget(m models.Budget) domain.Budget {
	return domain.Budget{
		BudgetID:          m.BudgetID,
		ProjectID:         m.ProjectID,
		Name:              m.Name,
		LocalCurrencyCode: m.LocalCurrencyCode,
		LocalToGBPRateID:  m.LocalToGBPRateID,
		LocalToSEKRateID:  m.LocalToSEKRateID,
		LocalToEURRateID:  m.LocalToEURRateID,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
		SoftDelete:        ToDomainSoftDelete(m.SoftDelete),
	}
}

// ToModelCostDetail converts a domain CostDetail to a model CostDetail
func ToModelCostDetail(d domain.CostDetail) models.CostDetail {
	return models.CostDetail{
		CostDetailID:       d.CostDetailID,
		BudgetID:           d.BudgetID,
		Description:        d.Description,
		Units:              d.Units,
		UnitPrice:          d.UnitPrice,
		PercentageCharging: d.PercentageCharging,
		AmountLocal:        d.AmountLocal,
		AmountGBP:          d.AmountGBP,
		AmountSEK:          d.AmountSEK,
		AmountEUR:          d.AmountEUR,
		AuditFields:        ToModelAuditFields(d.AuditFields),
		SoftDelete:         ToModelSoftDelete(d.SoftDelete),
	}
}

// ToDomainCostDetail converts a model CostDetail to a domain CostDetail
func ToDomainCostDetail(m models.CostDetail) domain.CostDetail {
	return domain.CostDetail{
		CostDetailID:       m.CostDetailID,
		BudgetID:           m.BudgetID,
		Description:        m.Description,
		Units:              m.Units,
		UnitPrice:          m.UnitPrice,
		PercentageCharging: m.PercentageCharging,
		AmountLocal:        m.AmountLocal,
		AmountGBP:          m.AmountGBP,
		AmountSEK:          m.AmountSEK,
		AmountEUR:          m.AmountEUR,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
		SoftDelete:         ToDomainSoftDelete(m.SoftDelete),
	}
}
