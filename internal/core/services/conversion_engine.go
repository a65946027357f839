package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dejan-marlovic/relief-finance/internal/apperrors"
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
)

// amountScale is the fractional precision of all derived amounts.
const amountScale = 3

var oneHundred = decimal.NewFromInt(100)

// ConversionEngine derives a cost line's gross local amount and its
// reporting-currency equivalents from the owning budget's assigned rates.
// It is pure: callers load the budget's resolved rates and persist the
// returned copy.
type ConversionEngine struct {
	maxPercentageCharging decimal.Decimal
}

// NewConversionEngine creates a ConversionEngine with the configured
// upper bound for percentage charging.
func NewConversionEngine(maxPercentageCharging decimal.Decimal) *ConversionEngine {
	return &ConversionEngine{maxPercentageCharging: maxPercentageCharging}
}

// Recompute returns a copy of cd with all four derived amounts recalculated.
//
//	gross = units * unitPrice * (1 + percentageCharging/100)
//
// Each reporting amount is rounded half-up to three decimals directly from
// the gross figure, never chained from another converted amount. A target
// without an assigned rate is left unset rather than zeroed: unset means
// "not yet computable" and downstream caps refuse to assume compliance.
func (e *ConversionEngine) Recompute(cd domain.CostDetail, budget domain.Budget, rates map[string]domain.ExchangeRate) (domain.CostDetail, error) {
	if cd.Units < 0 {
		return cd, fmt.Errorf("%w: cost detail %s units must not be negative, got %d", apperrors.ErrValidation, cd.CostDetailID, cd.Units)
	}
	if cd.UnitPrice.IsNegative() {
		return cd, fmt.Errorf("%w: cost detail %s unit price must not be negative, got %s", apperrors.ErrValidation, cd.CostDetailID, cd.UnitPrice)
	}
	if cd.PercentageCharging.IsNegative() {
		return cd, fmt.Errorf("%w: cost detail %s percentage charging must not be negative, got %s", apperrors.ErrValidation, cd.CostDetailID, cd.PercentageCharging)
	}
	if cd.PercentageCharging.GreaterThan(e.maxPercentageCharging) {
		return cd, fmt.Errorf("%w: cost detail %s percentage charging %s exceeds maximum %s", apperrors.ErrValidation, cd.CostDetailID, cd.PercentageCharging, e.maxPercentageCharging)
	}

	gross := decimal.NewFromInt(cd.Units).
		Mul(cd.UnitPrice).
		Mul(decimal.NewFromInt(1).Add(cd.PercentageCharging.Div(oneHundred)))

	cd.AmountLocal = gross.Round(amountScale)
	cd.AmountGBP = convertTarget(gross, budget, rates, domain.CurrencyGBP)
	cd.AmountSEK = convertTarget(gross, budget, rates, domain.CurrencySEK)
	cd.AmountEUR = convertTarget(gross, budget, rates, domain.CurrencyEUR)

	return cd, nil
}

func convertTarget(gross decimal.Decimal, budget domain.Budget, rates map[string]domain.ExchangeRate, target string) decimal.NullDecimal {
	if budget.RateRefFor(target) == nil {
		return decimal.NullDecimal{}
	}
	rate, ok := rates[target]
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{
		Decimal: gross.Mul(rate.Rate).Round(amountScale),
		Valid:   true,
	}
}

// ValidateRateRef checks that an exchange rate can serve as a budget's rate
// reference for the given reporting currency: the base must be the budget's
// local currency, the quote the reporting currency, and the rate positive.
func ValidateRateRef(budget domain.Budget, target string, rate domain.ExchangeRate) error {
	if rate.BaseCurrencyCode != budget.LocalCurrencyCode {
		return fmt.Errorf("%w: rate %s has base %s, budget %s uses local currency %s",
			apperrors.ErrValidation, rate.ExchangeRateID, rate.BaseCurrencyCode, budget.BudgetID, budget.LocalCurrencyCode)
	}
	if rate.QuoteCurrencyCode != target {
		return fmt.Errorf("%w: rate %s has quote %s, expected reporting currency %s",
			apperrors.ErrValidation, rate.ExchangeRateID, rate.QuoteCurrencyCode, target)
	}
	if !rate.Rate.IsPositive() {
		return fmt.Errorf("%w: rate %s must be positive, got %s", apperrors.ErrValidation, rate.ExchangeRateID, rate.Rate)
	}
	return nil
}
