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

type PgxBudgetRepository struct {
	BaseRepository
}

// newPgxBudgetRepository creates a new repository for budgets and cost lines.
func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryWithTx {
	return &PgxBudgetRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepositoryWithTx = (*PgxBudgetRepository)(nil)

const budgetColumns = `budget_id, project_id, name, local_currency_code, local_to_gbp_rate_id, local_to_sek_rate_id, local_to_eur_rate_id, created_at, created_by, last_updated_at, last_updated_by, deleted, deleted_at`

const costDetailColumns = `cost_detail_id, budget_id, description, units, unit_price, percentage_charging, amount_local, amount_gbp, amount_sek, amount_eur, created_at, created_by, last_updated_at, last_updated_by, deleted, deleted_at`

func scanBudget(row pgx.Row) (models.Budget, error) {
	var m models.Budget
	err := row.Scan(
		&m.BudgetID,
		&m.ProjectID,
		&m.Name,
		&m.LocalCurrencyCode,
		&m.LocalToGBPRateID,
		&m.LocalToSEKRateID,
		&m.LocalToEURRateID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Deleted,
		&m.DeletedAt,
	)
	return m, err
}

func scanCostDetail(row pgx.Row) (models.CostDetail, error) {
	var m models.CostDetail
	err := row.Scan(
		&m.CostDetailID,
		&m.BudgetID,
		&m.Description,
		&m.Units,
		&m.UnitPrice,
		&m.PercentageCharging,
		&m.AmountLocal,
		&m.AmountGBP,
		&m.AmountSEK,
		&m.AmountEUR,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Deleted,
		&m.DeletedAt,
	)
	return m, err
}

// SaveBudget inserts a new budget header.
func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, tx pgx.Tx, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)

	query := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		m.BudgetID,
		m.ProjectID,
		m.Name,
		m.LocalCurrencyCode,
		m.LocalToGBPRateID,
		m.LocalToSEKRateID,
		m.LocalToEURRateID,
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
			return fmt.Errorf("%w: budget with ID %s already exists", apperrors.ErrDuplicate, m.BudgetID)
		}
		return fmt.Errorf("failed to save budget %s: %w", m.BudgetID, err)
	}
	return nil
}

// FindBudgetByID retrieves an active budget by its ID.
func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE budget_id = $1 AND NOT deleted;
	`
	m, err := scanBudget(r.Pool.QueryRow(ctx, query, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("budget " + budgetID + " not found")
		}
		return nil, fmt.Errorf("failed to find budget %s: %w", budgetID, err)
	}
	d := mapping.ToDomainBudget(m)
	return &d, nil
}

// FindBudgetByIDForUpdate retrieves an active budget and locks its row for
// the remainder of the transaction.
func (r *PgxBudgetRepository) FindBudgetByIDForUpdate(ctx context.Context, tx pgx.Tx, budgetID string) (*domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE budget_id = $1 AND NOT deleted
		FOR UPDATE;
	`
	m, err := scanBudget(tx.QueryRow(ctx, query, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("budget " + budgetID + " not found")
		}
		return nil, fmt.Errorf("failed to lock budget %s: %w", budgetID, err)
	}
	d := mapping.ToDomainBudget(m)
	return &d, nil
}

// ListBudgetsByProject retrieves a project's active budgets.
func (r *PgxBudgetRepository) ListBudgetsByProject(ctx context.Context, projectID string) ([]domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE project_id = $1 AND NOT deleted
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets for project %s: %w", projectID, err)
	}
	defer rows.Close()

	modelBudgets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Budget, error) {
		return scanBudget(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan budgets for project %s: %w", projectID, err)
	}

	budgets := make([]domain.Budget, len(modelBudgets))
	for i, m := range modelBudgets {
		budgets[i] = mapping.ToDomainBudget(m)
	}
	return budgets, nil
}

// UpdateBudget updates a budget header, including its rate references.
func (r *PgxBudgetRepository) UpdateBudget(ctx context.Context, tx pgx.Tx, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)

	query := `
		UPDATE budgets
		SET name = $2, local_to_gbp_rate_id = $3, local_to_sek_rate_id = $4, local_to_eur_rate_id = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE budget_id = $1 AND NOT deleted;
	`
	tag, err := tx.Exec(ctx, query,
		m.BudgetID,
		m.Name,
		m.LocalToGBPRateID,
		m.LocalToSEKRateID,
		m.LocalToEURRateID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget %s: %w", m.BudgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("budget " + m.BudgetID + " not found")
	}
	return nil
}

// SoftDeleteBudget tombstones a budget and every active cost line under it.
func (r *PgxBudgetRepository) SoftDeleteBudget(ctx context.Context, tx pgx.Tx, budgetID string, deletedBy string, deletedAt time.Time) error {
	budgetQuery := `
		UPDATE budgets
		SET deleted = TRUE, deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE budget_id = $1 AND NOT deleted;
	`
	tag, err := tx.Exec(ctx, budgetQuery, budgetID, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", budgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: budget %s", apperrors.ErrAlreadyDeleted, budgetID)
	}

	detailQuery := `
		UPDATE cost_details
		SET deleted = TRUE, deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE budget_id = $1 AND NOT deleted;
	`
	if _, err := tx.Exec(ctx, detailQuery, budgetID, deletedAt, deletedBy); err != nil {
		return fmt.Errorf("failed to delete cost details of budget %s: %w", budgetID, err)
	}
	return nil
}

// SaveCostDetail inserts a new cost line.
func (r *PgxBudgetRepository) SaveCostDetail(ctx context.Context, tx pgx.Tx, costDetail domain.CostDetail) error {
	m := mapping.ToModelCostDetail(costDetail)

	query := `
		INSERT INTO cost_details (` + costDetailColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := tx.Exec(ctx, query,
		m.CostDetailID,
		m.BudgetID,
		m.Description,
		m.Units,
		m.UnitPrice,
		m.PercentageCharging,
		m.AmountLocal,
		m.AmountGBP,
		m.AmountSEK,
		m.AmountEUR,
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
			return fmt.Errorf("%w: cost detail with ID %s already exists", apperrors.ErrDuplicate, m.CostDetailID)
		}
		return fmt.Errorf("failed to save cost detail %s: %w", m.CostDetailID, err)
	}
	return nil
}

// FindCostDetailByID retrieves an active cost line by its ID.
func (r *PgxBudgetRepository) FindCostDetailByID(ctx context.Context, costDetailID string) (*domain.CostDetail, error) {
	query := `
		SELECT ` + costDetailColumns + `
		FROM cost_details
		WHERE cost_detail_id = $1 AND NOT deleted;
	`
	m, err := scanCostDetail(r.Pool.QueryRow(ctx, query, costDetailID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("cost detail " + costDetailID + " not found")
		}
		return nil, fmt.Errorf("failed to find cost detail %s: %w", costDetailID, err)
	}
	d := mapping.ToDomainCostDetail(m)
	return &d, nil
}

// FindCostDetailByIDTx retrieves an active cost line inside an open
// transaction, locking its row so concurrent cap checks serialize.
func (r *PgxBudgetRepository) FindCostDetailByIDTx(ctx context.Context, tx pgx.Tx, costDetailID string) (*domain.CostDetail, error) {
	query := `
		SELECT ` + costDetailColumns + `
		FROM cost_details
		WHERE cost_detail_id = $1 AND NOT deleted
		FOR UPDATE;
	`
	m, err := scanCostDetail(tx.QueryRow(ctx, query, costDetailID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("cost detail " + costDetailID + " not found")
		}
		return nil, fmt.Errorf("failed to lock cost detail %s: %w", costDetailID, err)
	}
	d := mapping.ToDomainCostDetail(m)
	return &d, nil
}

// ListCostDetailsByBudget retrieves a budget's active cost lines.
func (r *PgxBudgetRepository) ListCostDetailsByBudget(ctx context.Context, budgetID string) ([]domain.CostDetail, error) {
	return r.listCostDetails(ctx, r.Pool, budgetID)
}

// ListCostDetailsByBudgetTx retrieves a budget's active cost lines inside
// an open transaction.
func (r *PgxBudgetRepository) ListCostDetailsByBudgetTx(ctx context.Context, tx pgx.Tx, budgetID string) ([]domain.CostDetail, error) {
	return r.listCostDetails(ctx, tx, budgetID)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PgxBudgetRepository) listCostDetails(ctx context.Context, q querier, budgetID string) ([]domain.CostDetail, error) {
	query := `
		SELECT ` + costDetailColumns + `
		FROM cost_details
		WHERE budget_id = $1 AND NOT deleted
		ORDER BY created_at;
	`
	rows, err := q.Query(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cost details for budget %s: %w", budgetID, err)
	}
	defer rows.Close()

	modelDetails, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CostDetail, error) {
		return scanCostDetail(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan cost details for budget %s: %w", budgetID, err)
	}

	details := make([]domain.CostDetail, len(modelDetails))
	for i, m := range modelDetails {
		details[i] = mapping.ToDomainCostDetail(m)
	}
	return details, nil
}

// UpdateCostDetail updates a cost line including its derived amounts.
func (r *PgxBudgetRepository) UpdateCostDetail(ctx context.Context, tx pgx.Tx, costDetail domain.CostDetail) error {
	m := mapping.ToModelCostDetail(costDetail)

	query := `
		UPDATE cost_details
		SET description = $2, units = $3, unit_price = $4, percentage_charging = $5,
		    amount_local = $6, amount_gbp = $7, amount_sek = $8, amount_eur = $9,
		    last_updated_at = $10, last_updated_by = $11
		WHERE cost_detail_id = $1 AND NOT deleted;
	`
	tag, err := tx.Exec(ctx, query,
		m.CostDetailID,
		m.Description,
		m.Units,
		m.UnitPrice,
		m.PercentageCharging,
		m.AmountLocal,
		m.AmountGBP,
		m.AmountSEK,
		m.AmountEUR,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update cost detail %s: %w", m.CostDetailID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("cost detail " + m.CostDetailID + " not found")
	}
	return nil
}

// SoftDeleteCostDetail tombstones a cost line.
func (r *PgxBudgetRepository) SoftDeleteCostDetail(ctx context.Context, tx pgx.Tx, costDetailID string, deletedBy string, deletedAt time.Time) error {
	query := `
		UPDATE cost_details
		SET deleted = TRUE, deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE cost_detail_id = $1 AND NOT deleted;
	`
	tag, err := tx.Exec(ctx, query, costDetailID, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to delete cost detail %s: %w", costDetailID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cost detail %s", apperrors.ErrAlreadyDeleted, costDetailID)
	}
	return nil
}

// UpdateCostDetailAmounts rewrites the derived amount columns for a batch
// of cost lines in one round trip. Used when a budget's rate references
// change and every line under it is recomputed together.
func (r *PgxBudgetRepository) UpdateCostDetailAmounts(ctx context.Context, tx pgx.Tx, costDetails []domain.CostDetail, updatedBy string, updatedAt time.Time) error {
	batch := &pgx.Batch{}
	query := `
		UPDATE cost_details
		SET amount_local = $2, amount_gbp = $3, amount_sek = $4, amount_eur = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE cost_detail_id = $1 AND NOT deleted;
	`
	for _, cd := range costDetails {
		m := mapping.ToModelCostDetail(cd)
		batch.Queue(query,
			m.CostDetailID,
			m.AmountLocal,
			m.AmountGBP,
			m.AmountSEK,
			m.AmountEUR,
			updatedAt,
			updatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute cost detail amount batch", err)
	}
	return nil
}
