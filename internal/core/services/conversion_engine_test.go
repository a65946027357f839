package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejan-marlovic/relief-finance/internal/apperrors"
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	"github.com/dejan-marlovic/relief-finance/internal/core/services"
)

func strPtr(s string) *string { return &s }

func testBudget() domain.Budget {
	return domain.Budget{
		BudgetID:          "budget-1",
		ProjectID:         "project-1",
		Name:              "Field operations",
		LocalCurrencyCode: "TRY",
		LocalToGBPRateID:  strPtr("rate-gbp"),
		LocalToSEKRateID:  strPtr("rate-sek"),
	}
}

func testRates() map[string]domain.ExchangeRate {
	return map[string]domain.ExchangeRate{
		domain.CurrencyGBP: {
			ExchangeRateID:    "rate-gbp",
			BaseCurrencyCode:  "TRY",
			QuoteCurrencyCode: "GBP",
			Rate:              decimal.RequireFromString("0.025"),
		},
		domain.CurrencySEK: {
			ExchangeRateID:    "rate-sek",
			BaseCurrencyCode:  "TRY",
			QuoteCurrencyCode: "SEK",
			Rate:              decimal.RequireFromString("3.5"),
		},
	}
}

func TestRecompute_DerivesAllAmounts(t *testing.T) {
	engine := services.NewConversionEngine(decimal.NewFromInt(100))

	cd := domain.CostDetail{
		CostDetailID:       "cd-1",
		BudgetID:           "budget-1",
		Units:              10,
		UnitPrice:          decimal.NewFromInt(100),
		PercentageCharging: decimal.NewFromInt(10),
	}

	got, err := engine.Recompute(cd, testBudget(), testRates())
	require.NoError(t, err)

	// 10 * 100 * 1.10 = 1100 local
	assert.True(t, got.AmountLocal.Equal(decimal.RequireFromString("1100")), "local = %s", got.AmountLocal)

	require.True(t, got.AmountGBP.Valid)
	assert.True(t, got.AmountGBP.Decimal.Equal(decimal.RequireFromString("27.5")), "gbp = %s", got.AmountGBP.Decimal)

	require.True(t, got.AmountSEK.Valid)
	assert.True(t, got.AmountSEK.Decimal.Equal(decimal.RequireFromString("3850")), "sek = %s", got.AmountSEK.Decimal)

	// No EUR rate assigned on the budget: the amount stays unset.
	assert.False(t, got.AmountEUR.Valid)
}

func TestRecompute_RoundsHalfUpToThreeDecimals(t *testing.T) {
	engine := services.NewConversionEngine(decimal.NewFromInt(100))

	cd := domain.CostDetail{
		CostDetailID: "cd-1",
		Units:        1,
		UnitPrice:    decimal.RequireFromString("2.2225"),
	}

	got, err := engine.Recompute(cd, testBudget(), testRates())
	require.NoError(t, err)
	assert.Equal(t, "2.223", got.AmountLocal.String())
}

func TestRecompute_ConvertsFromGrossNotChained(t *testing.T) {
	engine := services.NewConversionEngine(decimal.NewFromInt(100))

	// A gross that rounds in local currency. If SEK were derived from the
	// rounded local figure instead of the gross it would differ here.
	cd := domain.CostDetail{
		CostDetailID: "cd-1",
		Units:        3,
		UnitPrice:    decimal.RequireFromString("0.3334"),
	}

	got, err := engine.Recompute(cd, testBudget(), testRates())
	require.NoError(t, err)

	// gross = 1.0002, local = 1.000, sek = 1.0002 * 3.5 = 3.5007 -> 3.501
	assert.Equal(t, "1", got.AmountLocal.String())
	require.True(t, got.AmountSEK.Valid)
	assert.Equal(t, "3.501", got.AmountSEK.Decimal.String())
}

func TestRecompute_IsIdempotent(t *testing.T) {
	engine := services.NewConversionEngine(decimal.NewFromInt(100))

	cd := domain.CostDetail{
		CostDetailID:       "cd-1",
		Units:              7,
		UnitPrice:          decimal.RequireFromString("13.37"),
		PercentageCharging: decimal.RequireFromString("2.5"),
	}

	first, err := engine.Recompute(cd, testBudget(), testRates())
	require.NoError(t, err)
	second, err := engine.Recompute(first, testBudget(), testRates())
	require.NoError(t, err)

	assert.True(t, first.AmountLocal.Equal(second.AmountLocal))
	assert.Equal(t, first.AmountGBP, second.AmountGBP)
	assert.Equal(t, first.AmountSEK, second.AmountSEK)
	assert.Equal(t, first.AmountEUR, second.AmountEUR)
}

func TestRecompute_MissingRateLeavesAmountUnset(t *testing.T) {
	engine := services.NewConversionEngine(decimal.NewFromInt(100))

	budget := testBudget()
	budget.LocalToGBPRateID = nil

	cd := domain.CostDetail{
		CostDetailID: "cd-1",
		Units:        2,
		UnitPrice:    decimal.NewFromInt(50),
	}

	got, err := engine.Recompute(cd, budget, testRates())
	require.NoError(t, err)
	assert.False(t, got.AmountGBP.Valid)
	assert.True(t, got.AmountSEK.Valid)
}

func TestRecompute_RejectsInvalidInputs(t *testing.T) {
	engine := services.NewConversionEngine(decimal.NewFromInt(100))
	budget := testBudget()
	rates := testRates()

	cases := []struct {
		name string
		cd   domain.CostDetail
	}{
		{"negative units", domain.CostDetail{Units: -1, UnitPrice: decimal.NewFromInt(1)}},
		{"negative unit price", domain.CostDetail{Units: 1, UnitPrice: decimal.NewFromInt(-1)}},
		{"negative percentage", domain.CostDetail{Units: 1, UnitPrice: decimal.NewFromInt(1), PercentageCharging: decimal.NewFromInt(-5)}},
		{"percentage above max", domain.CostDetail{Units: 1, UnitPrice: decimal.NewFromInt(1), PercentageCharging: decimal.NewFromInt(101)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Recompute(tc.cd, budget, rates)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestRecompute_ZeroUnitsYieldsZeroAmounts(t *testing.T) {
	engine := services.NewConversionEngine(decimal.NewFromInt(100))

	cd := domain.CostDetail{
		CostDetailID: "cd-1",
		Units:        0,
		UnitPrice:    decimal.NewFromInt(500),
	}

	got, err := engine.Recompute(cd, testBudget(), testRates())
	require.NoError(t, err)
	assert.True(t, got.AmountLocal.IsZero())
	require.True(t, got.AmountSEK.Valid)
	assert.True(t, got.AmountSEK.Decimal.IsZero())
}

func TestValidateRateRef(t *testing.T) {
	budget := testBudget()

	valid := domain.ExchangeRate{
		ExchangeRateID:    "rate-1",
		BaseCurrencyCode:  "TRY",
		QuoteCurrencyCode: "GBP",
		Rate:              decimal.RequireFromString("0.025"),
	}
	assert.NoError(t, services.ValidateRateRef(budget, domain.CurrencyGBP, valid))

	wrongBase := valid
	wrongBase.BaseCurrencyCode = "USD"
	assert.ErrorIs(t, services.ValidateRateRef(budget, domain.CurrencyGBP, wrongBase), apperrors.ErrValidation)

	wrongQuote := valid
	wrongQuote.QuoteCurrencyCode = "SEK"
	assert.ErrorIs(t, services.ValidateRateRef(budget, domain.CurrencyGBP, wrongQuote), apperrors.ErrValidation)

	nonPositive := valid
	nonPositive.Rate = decimal.Zero
	assert.ErrorIs(t, services.ValidateRateRef(budget, domain.CurrencyGBP, nonPositive), apperrors.ErrValidation)
}
