package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dejan-marlovic/relief-finance/internal/apperrors"
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	portsrepo "github.com/dejan-marlovic/relief-finance/internal/core/ports/repositories"
	"github.com/dejan-marlovic/relief-finance/internal/models"
	"github.com/dejan-marlovic/relief-finance/internal/utils/mapping"
)

type PgxFundingRepository struct {
	BaseRepository
}

// newPgxFundingRepository creates a new repository for funding transactions.
func newPgxFundingRepository(pool *pgxpool.Pool) portsrepo.FundingRepositoryWithTx {
	return &PgxFundingRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.FundingRepositoryWithTx = (*PgxFundingRepository)(nil)

const transactionColumns = `transaction_id, project_id, budget_id, description, applied_for_amount, approved_amount, first_share_amount, second_share_amount, created_at, created_by, last_updated_at, last_updated_by, deleted, deleted_at`

func scanTransaction(row pgx.Row) (models.FundingTransaction, error) {
	var m models.FundingTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.ProjectID,
		&m.BudgetID,
		&m.Description,
		&m.AppliedForAmount,
		&m.ApprovedAmount,
		&m.FirstShareAmount,
		&m.SecondShareAmount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Deleted,
		&m.DeletedAt,
	)
	return m, err
}

// SaveTransaction inserts a new funding transaction.
func (r *PgxFundingRepository) SaveTransaction(ctx context.Context, tx pgx.Tx, transaction domain.FundingTransaction) error {
	m := mapping.ToModelTransaction(transaction)

	query := `
		INSERT INTO funding_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.ProjectID,
		m.BudgetID,
		m.Description,
		m.AppliedForAmount,
		m.ApprovedAmount,
		m.FirstShareAmount,
		m.SecondShareAmount,
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
			return fmt.Errorf("%w: transaction with ID %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves an active funding transaction.
func (r *PgxFundingRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.FundingTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM funding_transactions
		WHERE transaction_id = $1 AND NOT deleted;
	`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction " + transactionID + " not found")
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// FindTransactionByIDForUpdate retrieves an active funding transaction and
// locks its row. Allocation and payment writers against the same approved
// amount serialize on this lock.
func (r *PgxFundingRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.FundingTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM funding_transactions
		WHERE transaction_id = $1 AND NOT deleted
		FOR UPDATE;
	`
	m, err := scanTransaction(tx.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction " + transactionID + " not found")
		}
		return nil, fmt.Errorf("failed to lock transaction %s: %w", transactionID, err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// ListTransactionsByProject retrieves a project's active transactions.
func (r *PgxFundingRepository) ListTransactionsByProject(ctx context.Context, projectID string) ([]domain.FundingTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM funding_transactions
		WHERE project_id = $1 AND NOT deleted
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for project %s: %w", projectID, err)
	}
	defer rows.Close()

	modelTxns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.FundingTransaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions for project %s: %w", projectID, err)
	}

	txns := make([]domain.FundingTransaction, len(modelTxns))
	for i, m := range modelTxns {
		txns[i] = mapping.ToDomainTransaction(m)
	}
	return txns, nil
}

// UpdateTransaction updates a funding transaction.
func (r *PgxFundingRepository) UpdateTransaction(ctx context.Context, tx pgx.Tx, transaction domain.FundingTransaction) error {
	m := mapping.ToModelTransaction(transaction)

	query := `
		UPDATE funding_transactions
		SET description = $2, applied_for_amount = $3, approved_amount = $4,
		    first_share_amount = $5, second_share_amount = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE transaction_id = $1 AND NOT deleted;
	`
	tag, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.Description,
		m.AppliedForAmount,
		m.ApprovedAmount,
		m.FirstShareAmount,
		m.SecondShareAmount,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction " + m.TransactionID + " not found")
	}
	return nil
}

// SoftDeleteTransaction tombstones a funding transaction.
func (r *PgxFundingRepository) SoftDeleteTransaction(ctx context.Context, tx pgx.Tx, transactionID string, deletedBy string, deletedAt time.Time) error {
	query := `
		UPDATE funding_transactions
		SET deleted = TRUE, deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $1 AND NOT deleted;
	`
	tag, err := tx.Exec(ctx, query, transactionID, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrAlreadyDeleted, transactionID)
	}
	return nil
}
