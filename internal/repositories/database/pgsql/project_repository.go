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

type PgxProjectRepository struct {
	pool *pgxpool.Pool
}

// newPgxProjectRepository creates a new repository for projects.
func newPgxProjectRepository(pool *pgxpool.Pool) portsrepo.ProjectRepositoryFacade {
	return &PgxProjectRepository{pool: pool}
}

var _ portsrepo.ProjectRepositoryFacade = (*PgxProjectRepository)(nil)

const projectColumns = `project_id, name, country, created_at, created_by, last_updated_at, last_updated_by, deleted, deleted_at`

func scanProject(row pgx.Row) (models.Project, error) {
	var m models.Project
	err := row.Scan(
		&m.ProjectID,
		&m.Name,
		&m.Country,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Deleted,
		&m.DeletedAt,
	)
	return m, err
}

// SaveProject inserts a new project.
func (r *PgxProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	m := mapping.ToModelProject(project)

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		m.ProjectID,
		m.Name,
		m.Country,
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
			return fmt.Errorf("%w: project with ID %s already exists", apperrors.ErrDuplicate, m.ProjectID)
		}
		return fmt.Errorf("failed to save project %s: %w", m.ProjectID, err)
	}
	return nil
}

// FindProjectByID retrieves an active project.
func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE project_id = $1 AND NOT deleted;
	`
	m, err := scanProject(r.pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("project " + projectID + " not found")
		}
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}
	d := mapping.ToDomainProject(m)
	return &d, nil
}

// ListProjects retrieves a page of active projects.
func (r *PgxProjectRepository) ListProjects(ctx context.Context, limit, offset int) ([]domain.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE NOT deleted
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	modelProjects, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Project, error) {
		return scanProject(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan projects: %w", err)
	}

	projects := make([]domain.Project, len(modelProjects))
	for i, m := range modelProjects {
		projects[i] = mapping.ToDomainProject(m)
	}
	return projects, nil
}
