package mapping

import (
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	"github.com/dejan-marlovic/relief-finance/internal/models"
)

// ToModelCurrency converts a domain Currency to its model
func ToModelCurrency(d domain.Currency) models.Currency {
	return models.Currency{
		CurrencyCode: d.CurrencyCode,
		Symbol:       d.Symbol,
		Name:         d.Name,
		AuditFields:  ToModelAuditFields(d.AuditFields),
		SoftDelete:   ToModelSoftDelete(d.SoftDelete),
	}
}

// ToDomainCurrency converts a model Currency to its domain form
func ToDomainCurrency(m models.Currency) domain.Currency {
	return domain.Currency{
		CurrencyCode: m.CurrencyCode,
		Symbol:       m.Symbol,
		Name:         m.Name,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
		SoftDelete:   ToDomainSoftDelete(m.SoftDelete),
	}
}

// ToModelExchangeRate converts a domain ExchangeRate to its model
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID:    d.ExchangeRateID,
		BaseCurrencyCode:  d.BaseCurrencyCode,
		QuoteCurrencyCode: d.QuoteCurrencyCode,
		Rate:              d.Rate,
		DateEffective:     d.DateEffective,
		AuditFields:       ToModelAuditFields(d.AuditFields),
		SoftDelete:        ToModelSoftDelete(d.SoftDelete),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to its domain form
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID:    m.ExchangeRateID,
		BaseCurrencyCode:  m.BaseCurrencyCode,
		QuoteCurrencyCode: m.QuoteCurrencyCode,
		Rate:              m.Rate,
		DateEffective:     m.DateEffective,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
		SoftDelete:        ToDomainSoftDelete(m.SoftDelete),
	}
}

// ToModelProject converts a domain Project to its model
func ToModelProject(d domain.Project) models.Project {
	return models.Project{
		ProjectID:   d.ProjectID,
		Name:        d.Name,
		Country:     d.Country,
		AuditFields: ToModelAuditFields(d.AuditFields),
		SoftDelete:  ToModelSoftDelete(d.SoftDelete),
	}
}

// ToDomainProject converts a model Project to its domain form
func ToDomainProject(m models.Project) domain.Project {
	return domain.Project{
		ProjectID:   m.ProjectID,
		Name:        m.Name,
		Country:     m.Country,
		AuditFields: ToDomainAuditFields(m.AuditFields),
		SoftDelete:  ToDomainSoftDelete(m.SoftDelete),
	}
}

// ToModelOrganization converts a domain Organization to its model
func ToModelOrganization(d domain.Organization) models.Organization {
	return models.Organization{
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		AccountNumber:  d.AccountNumber,
		AuditFields:    ToModelAuditFields(d.AuditFields),
		SoftDelete:     ToModelSoftDelete(d.SoftDelete),
	}
}

// ToDomainOrganization converts a model Organization to its domain form
func ToDomainOrganization(m models.Organization) domain.Organization {
	return domain.Organization{
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		AccountNumber:  m.AccountNumber,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
		SoftDelete:     ToDomainSoftDelete(m.SoftDelete),
	}
}

// ToModelUser converts a domain User to its model
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:       d.UserID,
		Username:     d.Username,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		AuditFields:  ToModelAuditFields(d.AuditFields),
		SoftDelete:   ToModelSoftDelete(d.SoftDelete),
	}
}

// ToDomainUser converts a model User to its domain form
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Username:     m.Username,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
		SoftDelete:   ToDomainSoftDelete(m.SoftDelete),
	}
}
