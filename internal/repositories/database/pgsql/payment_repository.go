package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dejan-marlovic/relief-finance/internal/apperrors"
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	portsrepo "github.com/dejan-marlovic/relief-finance/internal/core/ports/repositories"
	"github.com/dejan-marlovic/relief-finance/internal/models"
	"github.com/dejan-marlovic/relief-finance/internal/utils/mapping"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for the payment order
// aggregate.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryWithTx {
	return &PgxPaymentRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryWithTx = (*PgxPaymentRepository)(nil)

const orderColumns = `payment_order_id, transaction_id, reference, total_amount, created_at, created_by, last_updated_at, last_updated_by, deleted, deleted_at`

const lineColumns = `line_id, payment_order_id, transaction_id, organization_id, cost_detail_id, amount, created_at, created_by, last_updated_at, last_updated_by, deleted, deleted_at`

const signatureColumns = `signature_id, payment_order_id, status_kind, signed_by, signed_at, created_at, created_by, last_updated_at, last_updated_by, deleted, deleted_at`

func scanOrder(row pgx.Row) (models.PaymentOrder, error) {
	var m models.PaymentOrder
	err := row.Scan(
		&m.PaymentOrderID,
		&m.TransactionID,
		&m.Reference,
		&m.TotalAmount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Deleted,
		&m.DeletedAt,
	)
	return m, err
}

func scanLine(row pgx.Row) (models.PaymentOrderLine, error) {
	var m models.PaymentOrderLine
	err := row.Scan(
		&m.LineID,
		&m.PaymentOrderID,
		&m.TransactionID,
		&m.OrganizationID,
		&m.CostDetailID,
		&m.Amount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Deleted,
		&m.DeletedAt,
	)
	return m, err
}

func scanSignature(row pgx.Row) (models.Signature, error) {
	var m models.Signature
	err := row.Scan(
		&m.SignatureID,
		&m.PaymentOrderID,
		&m.StatusKind,
		&m.SignedBy,
		&m.SignedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Deleted,
		&m.DeletedAt,
	)
	return m, err
}

// SaveOrder inserts a new payment order header.
func (r *PgxPaymentRepository) SaveOrder(ctx context.Context, tx pgx.Tx, order domain.PaymentOrder) error {
	m := mapping.ToModelPaymentOrder(order)

	query := `
		INSERT INTO payment_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, query,
		m.PaymentOrderID,
		m.TransactionID,
		m.Reference,
		m.TotalAmount,
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
			return fmt.Errorf("%w: payment order with ID %s already exists", apperrors.ErrDuplicate, m.PaymentOrderID)
		}
		return fmt.Errorf("failed to save payment order %s: %w", m.PaymentOrderID, err)
	}
	return nil
}

// FindOrderByID retrieves an active payment order.
func (r *PgxPaymentRepository) FindOrderByID(ctx context.Context, paymentOrderID string) (*domain.PaymentOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM payment_orders
		WHERE payment_order_id = $1 AND NOT deleted;
	`
	m, err := scanOrder(r.Pool.QueryRow(ctx, query, paymentOrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payment order " + paymentOrderID + " not found")
		}
		return nil, fmt.Errorf("failed to find payment order %s: %w", paymentOrderID, err)
	}
	d := mapping.ToDomainPaymentOrder(m)
	return &d, nil
}

// FindOrderByIDForUpdate retrieves an active payment order and locks its
// row. Every writer of the aggregate takes this lock first, so the lock
// state derived afterwards cannot go stale before the write commits.
func (r *PgxPaymentRepository) FindOrderByIDForUpdate(ctx context.Context, tx pgx.Tx, paymentOrderID string) (*domain.PaymentOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM payment_orders
		WHERE payment_order_id = $1 AND NOT deleted
		FOR UPDATE;
	`
	m, err := scanOrder(tx.QueryRow(ctx, query, paymentOrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payment order " + paymentOrderID + " not found")
		}
		return nil, fmt.Errorf("failed to lock payment order %s: %w", paymentOrderID, err)
	}
	d := mapping.ToDomainPaymentOrder(m)
	return &d, nil
}

// ListOrders retrieves a page of active payment orders, newest first.
func (r *PgxPaymentRepository) ListOrders(ctx context.Context, limit, offset int) ([]domain.PaymentOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM payment_orders
		WHERE NOT deleted
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment orders: %w", err)
	}
	defer rows.Close()

	modelOrders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PaymentOrder, error) {
		return scanOrder(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan payment orders: %w", err)
	}

	orders := make([]domain.PaymentOrder, len(modelOrders))
	for i, m := range modelOrders {
		orders[i] = mapping.ToDomainPaymentOrder(m)
	}
	return orders, nil
}

// UpdateOrder updates a payment order header.
func (r *PgxPaymentRepository) UpdateOrder(ctx context.Context, tx pgx.Tx, order domain.PaymentOrder) error {
	m := mapping.ToModelPaymentOrder(order)

	query := `
		UPDATE payment_orders
		SET transaction_id = $2, reference = $3, last_updated_at = $4, last_updated_by = $5
		WHERE payment_order_id = $1 AND NOT deleted;
	`
	tag, err := tx.Exec(ctx, query, m.PaymentOrderID, m.TransactionID, m.Reference, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update payment order %s: %w", m.PaymentOrderID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payment order " + m.PaymentOrderID + " not found")
	}
	return nil
}

// SoftDeleteOrder tombstones an order and every active line under it.
func (r *PgxPaymentRepository) SoftDeleteOrder(ctx context.Context, tx pgx.Tx, paymentOrderID string, deletedBy string, deletedAt time.Time) error {
	orderQuery := `
		UPDATE payment_orders
		SET deleted = TRUE, deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE payment_order_id = $1 AND NOT deleted;
	`
	tag, err := tx.Exec(ctx, orderQuery, paymentOrderID, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to delete payment order %s: %w", paymentOrderID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment order %s", apperrors.ErrAlreadyDeleted, paymentOrderID)
	}

	lineQuery := `
		UPDATE payment_order_lines
		SET deleted = TRUE, deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE payment_order_id = $1 AND NOT deleted;
	`
	if _, err := tx.Exec(ctx, lineQuery, paymentOrderID, deletedAt, deletedBy); err != nil {
		return fmt.Errorf("failed to delete lines of payment order %s: %w", paymentOrderID, err)
	}
	return nil
}

// SaveLine inserts a new payment order line.
func (r *PgxPaymentRepository) SaveLine(ctx context.Context, tx pgx.Tx, line domain.PaymentOrderLine) error {
	m := mapping.ToModelPaymentLine(line)

	query := `
		INSERT INTO payment_order_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		m.LineID,
		m.PaymentOrderID,
		m.TransactionID,
		m.OrganizationID,
		m.CostDetailID,
		m.Amount,
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
			return fmt.Errorf("%w: payment line with ID %s already exists", apperrors.ErrDuplicate, m.LineID)
		}
		return fmt.Errorf("failed to save payment line %s: %w", m.LineID, err)
	}
	return nil
}

// FindLineByIDTx retrieves an active line inside an open transaction.
func (r *PgxPaymentRepository) FindLineByIDTx(ctx context.Context, tx pgx.Tx, lineID string) (*domain.PaymentOrderLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM payment_order_lines
		WHERE line_id = $1 AND NOT deleted;
	`
	m, err := scanLine(tx.QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payment line " + lineID + " not found")
		}
		return nil, fmt.Errorf("failed to find payment line %s: %w", lineID, err)
	}
	d := mapping.ToDomainPaymentLine(m)
	return &d, nil
}

// ListLinesByOrder retrieves an order's active lines.
func (r *PgxPaymentRepository) ListLinesByOrder(ctx context.Context, paymentOrderID string) ([]domain.PaymentOrderLine, error) {
	return r.listLines(ctx, r.Pool, paymentOrderID)
}

// ListLinesByOrderTx is the in-transaction variant used after line writes.
func (r *PgxPaymentRepository) ListLinesByOrderTx(ctx context.Context, tx pgx.Tx, paymentOrderID string) ([]domain.PaymentOrderLine, error) {
	return r.listLines(ctx, tx, paymentOrderID)
}

func (r *PgxPaymentRepository) listLines(ctx context.Context, q querier, paymentOrderID string) ([]domain.PaymentOrderLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM payment_order_lines
		WHERE payment_order_id = $1 AND NOT deleted
		ORDER BY created_at;
	`
	rows, err := q.Query(ctx, query, paymentOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lines for payment order %s: %w", paymentOrderID, err)
	}
	defer rows.Close()

	modelLines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PaymentOrderLine, error) {
		return scanLine(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan lines for payment order %s: %w", paymentOrderID, err)
	}

	lines := make([]domain.PaymentOrderLine, len(modelLines))
	for i, m := range modelLines {
		lines[i] = mapping.ToDomainPaymentLine(m)
	}
	return lines, nil
}

// UpdateLine updates a payment order line.
func (r *PgxPaymentRepository) UpdateLine(ctx context.Context, tx pgx.Tx, line domain.PaymentOrderLine) error {
	m := mapping.ToModelPaymentLine(line)

	query := `
		UPDATE payment_order_lines
		SET transaction_id = $2, organization_id = $3, cost_detail_id = $4, amount = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE line_id = $1 AND NOT deleted;
	`
	tag, err := tx.Exec(ctx, query,
		m.LineID,
		m.TransactionID,
		m.OrganizationID,
		m.CostDetailID,
		m.Amount,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment line %s: %w", m.LineID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payment line " + m.LineID + " not found")
	}
	return nil
}

// SoftDeleteLine tombstones a payment order line.
func (r *PgxPaymentRepository) SoftDeleteLine(ctx context.Context, tx pgx.Tx, lineID string, deletedBy string, deletedAt time.Time) error {
	query := `
		UPDATE payment_order_lines
		SET deleted = TRUE, deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE line_id = $1 AND NOT deleted;
	`
	tag, err := tx.Exec(ctx, query, lineID, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to delete payment line %s: %w", lineID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment line %s", apperrors.ErrAlreadyDeleted, lineID)
	}
	return nil
}

// UpdateOrderTotal persists the derived total after a line write.
func (r *PgxPaymentRepository) UpdateOrderTotal(ctx context.Context, tx pgx.Tx, paymentOrderID string, total decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE payment_orders
		SET total_amount = $2, last_updated_at = $3, last_updated_by = $4
		WHERE payment_order_id = $1 AND NOT deleted;
	`
	tag, err := tx.Exec(ctx, query, paymentOrderID, total, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update total of payment order %s: %w", paymentOrderID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payment order " + paymentOrderID + " not found")
	}
	return nil
}

// SumLineAmountsForPair sums active line amounts whose effective
// transaction and cost detail match the pair, across all orders. A line's
// effective transaction is its own when set, otherwise the owning order's
// header transaction.
func (r *PgxPaymentRepository) SumLineAmountsForPair(ctx context.Context, tx pgx.Tx, transactionID, costDetailID string, excludeLineID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.amount), 0)
		FROM payment_order_lines l
		JOIN payment_orders o ON o.payment_order_id = l.payment_order_id
		WHERE NOT l.deleted AND NOT o.deleted
		  AND COALESCE(l.transaction_id, o.transaction_id) = $1
		  AND l.cost_detail_id = $2
		  AND l.line_id <> $3;
	`
	var total decimal.Decimal
	if err := tx.QueryRow(ctx, query, transactionID, costDetailID, excludeLineID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments for transaction %s / cost detail %s: %w", transactionID, costDetailID, err)
	}
	return total, nil
}

// SumLineAmountsForTransaction sums active line amounts whose effective
// transaction matches, across all cost details and orders.
func (r *PgxPaymentRepository) SumLineAmountsForTransaction(ctx context.Context, tx pgx.Tx, transactionID string, excludeLineID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.amount), 0)
		FROM payment_order_lines l
		JOIN payment_orders o ON o.payment_order_id = l.payment_order_id
		WHERE NOT l.deleted AND NOT o.deleted
		  AND COALESCE(l.transaction_id, o.transaction_id) = $1
		  AND l.line_id <> $2;
	`
	var total decimal.Decimal
	if err := tx.QueryRow(ctx, query, transactionID, excludeLineID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments for transaction %s: %w", transactionID, err)
	}
	return total, nil
}

// SaveSignature inserts a new signature row.
func (r *PgxPaymentRepository) SaveSignature(ctx context.Context, tx pgx.Tx, signature domain.Signature) error {
	m := mapping.ToModelSignature(signature)

	query := `
		INSERT INTO signatures (` + signatureColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, query,
		m.SignatureID,
		m.PaymentOrderID,
		m.StatusKind,
		m.SignedBy,
		m.SignedAt,
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
			return fmt.Errorf("%w: signature with ID %s already exists", apperrors.ErrDuplicate, m.SignatureID)
		}
		return fmt.Errorf("failed to save signature %s: %w", m.SignatureID, err)
	}
	return nil
}

// FindSignatureByIDTx retrieves an active signature inside an open
// transaction.
func (r *PgxPaymentRepository) FindSignatureByIDTx(ctx context.Context, tx pgx.Tx, signatureID string) (*domain.Signature, error) {
	query := `
		SELECT ` + signatureColumns + `
		FROM signatures
		WHERE signature_id = $1 AND NOT deleted;
	`
	m, err := scanSignature(tx.QueryRow(ctx, query, signatureID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("signature " + signatureID + " not found")
		}
		return nil, fmt.Errorf("failed to find signature %s: %w", signatureID, err)
	}
	d := mapping.ToDomainSignature(m)
	return &d, nil
}

// SoftDeleteSignature tombstones a signature.
func (r *PgxPaymentRepository) SoftDeleteSignature(ctx context.Context, tx pgx.Tx, signatureID string, deletedBy string, deletedAt time.Time) error {
	query := `
		UPDATE signatures
		SET deleted = TRUE, deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE signature_id = $1 AND NOT deleted;
	`
	tag, err := tx.Exec(ctx, query, signatureID, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to delete signature %s: %w", signatureID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: signature %s", apperrors.ErrAlreadyDeleted, signatureID)
	}
	return nil
}

// ListSignaturesByOrder retrieves an order's active signatures.
func (r *PgxPaymentRepository) ListSignaturesByOrder(ctx context.Context, paymentOrderID string) ([]domain.Signature, error) {
	return r.listSignatures(ctx, r.Pool, paymentOrderID)
}

// ListSignaturesByOrderTx reads signatures inside an open transaction. The
// lock state derived from this read holds until the transaction commits.
func (r *PgxPaymentRepository) ListSignaturesByOrderTx(ctx context.Context, tx pgx.Tx, paymentOrderID string) ([]domain.Signature, error) {
	return r.listSignatures(ctx, tx, paymentOrderID)
}

func (r *PgxPaymentRepository) listSignatures(ctx context.Context, q querier, paymentOrderID string) ([]domain.Signature, error) {
	query := `
		SELECT ` + signatureColumns + `
		FROM signatures
		WHERE payment_order_id = $1 AND NOT deleted
		ORDER BY signed_at;
	`
	rows, err := q.Query(ctx, query, paymentOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list signatures for payment order %s: %w", paymentOrderID, err)
	}
	defer rows.Close()

	modelSignatures, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Signature, error) {
		return scanSignature(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan signatures for payment order %s: %w", paymentOrderID, err)
	}

	signatures := make([]domain.Signature, len(modelSignatures))
	for i, m := range modelSignatures {
		signatures[i] = mapping.ToDomainSignature(m)
	}
	return signatures, nil
}
