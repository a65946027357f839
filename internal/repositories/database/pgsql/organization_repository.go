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

type PgxOrganizationRepository struct {
	pool *pgxpool.Pool
}

// newPgxOrganizationRepository creates a new repository for payee
// organizations.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{pool: pool}
}

var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

const organizationColumns = `organization_id, name, account_number, created_at, created_by, last_updated_at, last_updated_by, deleted, deleted_at`

func scanOrganization(row pgx.Row) (models.Organization, error) {
	var m models.Organization
	err := row.Scan(
		&m.OrganizationID,
		&m.Name,
		&m.AccountNumber,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Deleted,
		&m.DeletedAt,
	)
	return m, err
}

// SaveOrganization inserts a new organization.
func (r *PgxOrganizationRepository) SaveOrganization(ctx context.Context, organization domain.Organization) error {
	m := mapping.ToModelOrganization(organization)

	query := `
		INSERT INTO organizations (` + organizationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		m.OrganizationID,
		m.Name,
		m.AccountNumber,
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
			return fmt.Errorf("%w: organization with ID %s already exists", apperrors.ErrDuplicate, m.OrganizationID)
		}
		return fmt.Errorf("failed to save organization %s: %w", m.OrganizationID, err)
	}
	return nil
}

// FindOrganizationByID retrieves an active organization.
func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := `
		SELECT ` + organizationColumns + `
		FROM organizations
		WHERE organization_id = $1 AND NOT deleted;
	`
	m, err := scanOrganization(r.pool.QueryRow(ctx, query, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("organization " + organizationID + " not found")
		}
		return nil, fmt.Errorf("failed to find organization %s: %w", organizationID, err)
	}
	d := mapping.ToDomainOrganization(m)
	return &d, nil
}

// ListOrganizations retrieves a page of active organizations.
func (r *PgxOrganizationRepository) ListOrganizations(ctx context.Context, limit, offset int) ([]domain.Organization, error) {
	query := `
		SELECT ` + organizationColumns + `
		FROM organizations
		WHERE NOT deleted
		ORDER BY name
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	modelOrgs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Organization, error) {
		return scanOrganization(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan organizations: %w", err)
	}

	orgs := make([]domain.Organization, len(modelOrgs))
	for i, m := range modelOrgs {
		orgs[i] = mapping.ToDomainOrganization(m)
	}
	return orgs, nil
}
