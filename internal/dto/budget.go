package dto

import (
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
)

// CreateBudgetRequest defines the payload for creating a budget.
type CreateBudgetRequest struct {
	ProjectID         string `json:"projectID" binding:"required"`
	Name              string `json:"name" binding:"required"`
	LocalCurrencyCode string `json:"localCurrencyCode" binding:"required,len=3"`
}

// UpdateBudgetRatesRequest replaces the budget's full set of rate
// references. A nil field unassigns the rate for that reporting currency,
// which leaves the corresponding cost line amounts unset after recompute.
type UpdateBudgetRatesRequest struct {
	LocalToGBPRateID *string `json:"localToGBPRateID"`
	LocalToSEKRateID *string `json:"localToSEKRateID"`
	LocalToEURRateID *string `json:"localToEURRateID"`
}

// BudgetResponse defines the data returned for a budget.
type BudgetResponse struct {
	BudgetID          string  `json:"budgetID"`
	ProjectID         string  `json:"projectID"`
	Name              string  `json:"name"`
	LocalCurrencyCode string  `json:"localCurrencyCode"`
	LocalToGBPRateID  *string `json:"localToGBPRateID,omitempty"`
	LocalToSEKRateID  *string `json:"localToSEKRateID,omitempty"`
	LocalToEURRateID  *string `json:"localToEURRateID,omitempty"`
}

// ToBudgetResponse converts a domain.Budget to BudgetResponse DTO.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:          b.BudgetID,
		ProjectID:         b.ProjectID,
		Name:              b.Name,
		LocalCurrencyCode: b.LocalCurrencyCode,
		LocalToGBPRateID:  b.LocalToGBPRateID,
		LocalToSEKRateID:  b.LocalToSEKRateID,
		LocalToEURRateID:  b.LocalToEURRateID,
	}
}

// ToBudgetResponses converts a slice of domain.Budget.
func ToBudgetResponses(budgets []domain.Budget) []BudgetResponse {
	responses := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		responses[i] = ToBudgetResponse(&budgets[i])
	}
	return responses
}
