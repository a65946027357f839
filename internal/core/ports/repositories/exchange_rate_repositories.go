package repositories

import (
	"context"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rates. The
// engine never mutates rates through these ports; budgets only reference
// them.
type ExchangeRateReader interface {
	FindRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error)
	FindRatesByIDs(ctx context.Context, rateIDs []string) (map[string]domain.ExchangeRate, error)

	// FindRate retrieves the most recent active rate for a currency pair.
	FindRate(ctx context.Context, baseCurrencyCode, quoteCurrencyCode string) (*domain.ExchangeRate, error)
	ListRates(ctx context.Context, limit, offset int) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for rate master data.
type ExchangeRateWriter interface {
	SaveRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines the exchange rate interfaces.
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
