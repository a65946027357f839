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

type PgxAllocationRepository struct {
	BaseRepository
}

// newPgxAllocationRepository creates a new repository for cost allocations.
func newPgxAllocationRepository(pool *pgxpool.Pool) portsrepo.AllocationRepositoryWithTx {
	return &PgxAllocationRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AllocationRepositoryWithTx = (*PgxAllocationRepository)(nil)

const allocationColumns = `allocation_id, transaction_id, cost_detail_id, planned_amount, created_at, created_by, last_updated_at, last_updated_by, deleted, deleted_at`

func scanAllocation(row pgx.Row) (models.CostAllocation, error) {
	var m models.CostAllocation
	err := row.Scan(
		&m.AllocationID,
		&m.TransactionID,
		&m.CostDetailID,
		&m.PlannedAmount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Deleted,
		&m.DeletedAt,
	)
	return m, err
}

// SaveAllocation inserts a new allocation row.
func (r *PgxAllocationRepository) SaveAllocation(ctx context.Context, tx pgx.Tx, allocation domain.CostAllocation) error {
	m := mapping.ToModelAllocation(allocation)

	query := `
		INSERT INTO cost_allocations (` + allocationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, query,
		m.AllocationID,
		m.TransactionID,
		m.CostDetailID,
		m.PlannedAmount,
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
			return fmt.Errorf("%w: allocation with ID %s already exists", apperrors.ErrDuplicate, m.AllocationID)
		}
		return fmt.Errorf("failed to save allocation %s: %w", m.AllocationID, err)
	}
	return nil
}

// FindAllocationByID retrieves an active allocation.
func (r *PgxAllocationRepository) FindAllocationByID(ctx context.Context, allocationID string) (*domain.CostAllocation, error) {
	query := `
		SELECT ` + allocationColumns + `
		FROM cost_allocations
		WHERE allocation_id = $1 AND NOT deleted;
	`
	m, err := scanAllocation(r.Pool.QueryRow(ctx, query, allocationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("allocation " + allocationID + " not found")
		}
		return nil, fmt.Errorf("failed to find allocation %s: %w", allocationID, err)
	}
	d := mapping.ToDomainAllocation(m)
	return &d, nil
}

// FindAllocationByIDTx retrieves an active allocation inside an open
// transaction.
func (r *PgxAllocationRepository) FindAllocationByIDTx(ctx context.Context, tx pgx.Tx, allocationID string) (*domain.CostAllocation, error) {
	query := `
		SELECT ` + allocationColumns + `
		FROM cost_allocations
		WHERE allocation_id = $1 AND NOT deleted;
	`
	m, err := scanAllocation(tx.QueryRow(ctx, query, allocationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("allocation " + allocationID + " not found")
		}
		return nil, fmt.Errorf("failed to find allocation %s: %w", allocationID, err)
	}
	d := mapping.ToDomainAllocation(m)
	return &d, nil
}

// ListAllocationsByTransaction retrieves a transaction's active allocations.
func (r *PgxAllocationRepository) ListAllocationsByTransaction(ctx context.Context, transactionID string) ([]domain.CostAllocation, error) {
	return r.listAllocations(ctx, r.Pool, "transaction_id", transactionID)
}

// ListAllocationsByTransactionTx is the in-transaction variant used by cap
// checks.
func (r *PgxAllocationRepository) ListAllocationsByTransactionTx(ctx context.Context, tx pgx.Tx, transactionID string) ([]domain.CostAllocation, error) {
	return r.listAllocations(ctx, tx, "transaction_id", transactionID)
}

// ListAllocationsByCostDetail retrieves a cost line's active allocations.
func (r *PgxAllocationRepository) ListAllocationsByCostDetail(ctx context.Context, costDetailID string) ([]domain.CostAllocation, error) {
	return r.listAllocations(ctx, r.Pool, "cost_detail_id", costDetailID)
}

// ListAllocationsByCostDetailTx is the in-transaction variant used by cap
// checks.
func (r *PgxAllocationRepository) ListAllocationsByCostDetailTx(ctx context.Context, tx pgx.Tx, costDetailID string) ([]domain.CostAllocation, error) {
	return r.listAllocations(ctx, tx, "cost_detail_id", costDetailID)
}

func (r *PgxAllocationRepository) listAllocations(ctx context.Context, q querier, column, id string) ([]domain.CostAllocation, error) {
	query := `
		SELECT ` + allocationColumns + `
		FROM cost_allocations
		WHERE ` + column + ` = $1 AND NOT deleted
		ORDER BY created_at;
	`
	rows, err := q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations by %s %s: %w", column, id, err)
	}
	defer rows.Close()

	modelAllocations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CostAllocation, error) {
		return scanAllocation(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan allocations by %s %s: %w", column, id, err)
	}

	allocations := make([]domain.CostAllocation, len(modelAllocations))
	for i, m := range modelAllocations {
		allocations[i] = mapping.ToDomainAllocation(m)
	}
	return allocations, nil
}

// UpdateAllocation updates an allocation's planned amount.
func (r *PgxAllocationRepository) UpdateAllocation(ctx context.Context, tx pgx.Tx, allocation domain.CostAllocation) error {
	m := mapping.ToModelAllocation(allocation)

	query := `
		UPDATE cost_allocations
		SET planned_amount = $2, last_updated_at = $3, last_updated_by = $4
		WHERE allocation_id = $1 AND NOT deleted;
	`
	tag, err := tx.Exec(ctx, query, m.AllocationID, m.PlannedAmount, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update allocation %s: %w", m.AllocationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("allocation " + m.AllocationID + " not found")
	}
	return nil
}

// SoftDeleteAllocation tombstones an allocation.
func (r *PgxAllocationRepository) SoftDeleteAllocation(ctx context.Context, tx pgx.Tx, allocationID string, deletedBy string, deletedAt time.Time) error {
	query := `
		UPDATE cost_allocations
		SET deleted = TRUE, deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE allocation_id = $1 AND NOT deleted;
	`
	tag, err := tx.Exec(ctx, query, allocationID, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to delete allocation %s: %w", allocationID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: allocation %s", apperrors.ErrAlreadyDeleted, allocationID)
	}
	return nil
}
