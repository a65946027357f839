package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dejan-marlovic/relief-finance/internal/apperrors"
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	portsrepo "github.com/dejan-marlovic/relief-finance/internal/core/ports/repositories"
	"github.com/dejan-marlovic/relief-finance/internal/models"
	"github.com/dejan-marlovic/relief-finance/internal/utils/mapping"
)

type PgxExchangeRateRepository struct {
	pool *pgxpool.Pool
}

// newPgxExchangeRateRepository creates a new repository for exchange rates.
func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{pool: pool}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

const rateColumns = `exchange_rate_id, base_currency_code, quote_currency_code, rate, date_effective, created_at, created_by, last_updated_at, last_updated_by, deleted, deleted_at`

func scanRate(row pgx.Row) (models.ExchangeRate, error) {
	var m models.ExchangeRate
	err := row.Scan(
		&m.ExchangeRateID,
		&m.BaseCurrencyCode,
		&m.QuoteCurrencyCode,
		&m.Rate,
		&m.DateEffective,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Deleted,
		&m.DeletedAt,
	)
	return m, err
}

// SaveRate inserts a new exchange rate row.
func (r *PgxExchangeRateRepository) SaveRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)

	query := `
		INSERT INTO exchange_rates (` + rateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		m.ExchangeRateID,
		m.BaseCurrencyCode,
		m.QuoteCurrencyCode,
		m.Rate,
		m.DateEffective,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Deleted,
		m.DeletedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: exchange rate with ID %s already exists", apperrors.ErrDuplicate, m.ExchangeRateID)
		}
		return fmt.Errorf("failed to save exchange rate %s: %w", m.ExchangeRateID, err)
	}
	return nil
}

// FindRateByID retrieves an active exchange rate by its ID.
func (r *PgxExchangeRateRepository) FindRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM exchange_rates
		WHERE exchange_rate_id = $1 AND NOT deleted;
	`
	m, err := scanRate(r.pool.QueryRow(ctx, query, rateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exchange rate " + rateID + " not found")
		}
		return nil, fmt.Errorf("failed to find exchange rate %s: %w", rateID, err)
	}
	d := mapping.ToDomainExchangeRate(m)
	return &d, nil
}

// FindRatesByIDs retrieves the active rates for the given IDs, keyed by ID.
// Missing IDs are simply absent from the result.
func (r *PgxExchangeRateRepository) FindRatesByIDs(ctx context.Context, rateIDs []string) (map[string]domain.ExchangeRate, error) {
	if len(rateIDs) == 0 {
		return map[string]domain.ExchangeRate{}, nil
	}

	query := `
		SELECT ` + rateColumns + `
		FROM exchange_rates
		WHERE exchange_rate_id = ANY($1) AND NOT deleted;
	`
	rows, err := r.pool.Query(ctx, query, rateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find exchange rates: %w", err)
	}
	defer rows.Close()

	modelRates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ExchangeRate, error) {
		return scanRate(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan exchange rates: %w", err)
	}

	rates := make(map[string]domain.ExchangeRate, len(modelRates))
	for _, m := range modelRates {
		rates[m.ExchangeRateID] = mapping.ToDomainExchangeRate(m)
	}
	return rates, nil
}

// FindRate retrieves the most recent active rate for a currency pair.
func (r *PgxExchangeRateRepository) FindRate(ctx context.Context, baseCurrencyCode, quoteCurrencyCode string) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM exchange_rates
		WHERE base_currency_code = $1 AND quote_currency_code = $2 AND NOT deleted
		ORDER BY date_effective DESC
		LIMIT 1;
	`
	m, err := scanRate(r.pool.QueryRow(ctx, query, baseCurrencyCode, quoteCurrencyCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exchange rate " + baseCurrencyCode + "/" + quoteCurrencyCode + " not found")
		}
		return nil, fmt.Errorf("failed to find exchange rate %s/%s: %w", baseCurrencyCode, quoteCurrencyCode, err)
	}
	d := mapping.ToDomainExchangeRate(m)
	return &d, nil
}

// ListRates retrieves a page of active exchange rates, newest first.
func (r *PgxExchangeRateRepository) ListRates(ctx context.Context, limit, offset int) ([]domain.ExchangeRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM exchange_rates
		WHERE NOT deleted
		ORDER BY date_effective DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	defer rows.Close()

	modelRates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ExchangeRate, error) {
		return scanRate(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan exchange rates: %w", err)
	}

	rates := make([]domain.ExchangeRate, len(modelRates))
	for i, m := range modelRates {
		rates[i] = mapping.ToDomainExchangeRate(m)
	}
	return rates, nil
}
