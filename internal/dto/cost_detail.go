package dto

import (
	"github.com/shopspring/decimal"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
)

// CreateCostDetailRequest defines the payload for creating a cost line.
// The derived amounts are never accepted as input.
type CreateCostDetailRequest struct {
	BudgetID           string          `json:"budgetID" binding:"required"`
	Description        string          `json:"description" binding:"required"`
	Units              int64           `json:"units" binding:"min=0"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	PercentageCharging decimal.Decimal `json:"percentageCharging"`
}

// UpdateCostDetailRequest defines the payload for updating a cost line's
// quantity fields. Nil fields are left unchanged.
type UpdateCostDetailRequest struct {
	Description        *string          `json:"description"`
	Units              *int64           `json:"units"`
	UnitPrice          *decimal.Decimal `json:"unitPrice"`
	PercentageCharging *decimal.Decimal `json:"percentageCharging"`
}

// CostDetailResponse defines the data returned for a cost line. Reporting
// amounts are nil while the owning budget has no rate assigned for them.
type CostDetailResponse struct {
	CostDetailID       string           `json:"costDetailID"`
	BudgetID           string           `json:"budgetID"`
	Description        string           `json:"description"`
	Units              int64            `json:"units"`
	UnitPrice          decimal.Decimal  `json:"unitPrice"`
	PercentageCharging decimal.Decimal  `json:"percentageCharging"`
	AmountLocal        decimal.Decimal  `json:"amountLocal"`
	AmountGBP          *decimal.Decimal `json:"amountGBP,omitempty"`
	AmountSEK          *decimal.Decimal `json:"amountSEK,omitempty"`
	AmountEUR          *decimal.Decimal `json:"amountEUR,omitempty"`
}

// ToCostDetailResponse converts a domain.CostDetail to CostDetailResponse DTO.
func ToCostDetailResponse(c *domain.CostDetail) CostDetailResponse {
	resp := CostDetailResponse{
		CostDetailID:       c.CostDetailID,
		BudgetID:           c.BudgetID,
		Description:        c.Description,
		Units:              c.Units,
		UnitPrice:          c.UnitPrice,
		PercentageCharging: c.PercentageCharging,
		AmountLocal:        c.AmountLocal,
	}
	if c.AmountGBP.Valid {
		v := c.AmountGBP.Decimal
		resp.AmountGBP = &v
	}
	if c.AmountSEK.Valid {
		v := c.AmountSEK.Decimal
		resp.AmountSEK = &v
	}
	if c.AmountEUR.Valid {
		v := c.AmountEUR.Decimal
		resp.AmountEUR = &v
	}
	return resp
}

// ToCostDetailResponses converts a slice of domain.CostDetail.
func ToCostDetailResponses(details []domain.CostDetail) []CostDetailResponse {
	responses := make([]CostDetailResponse, len(details))
	for i := range details {
		responses[i] = ToCostDetailResponse(&details[i])
	}
	return responses
}
