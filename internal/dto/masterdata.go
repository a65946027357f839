package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCurrencyRequest defines the payload for creating a currency.
type CreateCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,len=3"`
	Symbol       string `json:"symbol" binding:"required"`
	Name         string `json:"name" binding:"required"`
}

// CreateExchangeRateRequest defines the payload for creating an exchange rate.
type CreateExchangeRateRequest struct {
	BaseCurrencyCode  string          `json:"baseCurrencyCode" binding:"required,len=3"`
	QuoteCurrencyCode string          `json:"quoteCurrencyCode" binding:"required,len=3"`
	Rate              decimal.Decimal `json:"rate"`
	DateEffective     time.Time       `json:"dateEffective" binding:"required"`
}

// CreateOrganizationRequest defines the payload for creating a payee
// organization.
type CreateOrganizationRequest struct {
	Name          string `json:"name" binding:"required"`
	AccountNumber string `json:"accountNumber"`
}

// CreateProjectRequest defines the payload for creating a project.
type CreateProjectRequest struct {
	Name    string `json:"name" binding:"required"`
	Country string `json:"country"`
}
