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

type PgxCurrencyRepository struct {
	pool *pgxpool.Pool
}

// newPgxCurrencyRepository creates a new repository for currency master data.
func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryFacade {
	return &PgxCurrencyRepository{pool: pool}
}

var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

const currencyColumns = `currency_code, symbol, name, created_at, created_by, last_updated_at, last_updated_by, deleted, deleted_at`

func scanCurrency(row pgx.Row) (models.Currency, error) {
	var m models.Currency
	err := row.Scan(
		&m.CurrencyCode,
		&m.Symbol,
		&m.Name,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Deleted,
		&m.DeletedAt,
	)
	return m, err
}

// SaveCurrency inserts a new currency.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	m := mapping.ToModelCurrency(currency)

	query := `
		INSERT INTO currencies (` + currencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		m.CurrencyCode,
		m.Symbol,
		m.Name,
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
			return fmt.Errorf("%w: currency %s already exists", apperrors.ErrDuplicate, m.CurrencyCode)
		}
		return fmt.Errorf("failed to save currency %s: %w", m.CurrencyCode, err)
	}
	return nil
}

// FindCurrencyByCode retrieves an active currency by its ISO code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	query := `
		SELECT ` + currencyColumns + `
		FROM currencies
		WHERE currency_code = $1 AND NOT deleted;
	`
	m, err := scanCurrency(r.pool.QueryRow(ctx, query, currencyCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("currency " + currencyCode + " not found")
		}
		return nil, fmt.Errorf("failed to find currency %s: %w", currencyCode, err)
	}
	d := mapping.ToDomainCurrency(m)
	return &d, nil
}

// ListCurrencies retrieves all active currencies.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `
		SELECT ` + currencyColumns + `
		FROM currencies
		WHERE NOT deleted
		ORDER BY currency_code;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer rows.Close()

	modelCurrencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Currency, error) {
		return scanCurrency(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan currencies: %w", err)
	}

	currencies := make([]domain.Currency, len(modelCurrencies))
	for i, m := range modelCurrencies {
		currencies[i] = mapping.ToDomainCurrency(m)
	}
	return currencies, nil
}
