package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
)

const (
	insertProjectSQL = `
INSERT INTO projects (id, name, description, owner_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	insertMembershipSQL = `
INSERT INTO project_members (project_id, user_id, role, created_at)
VALUES ($1, $2, $3, $4)`

	selectProjectSQL = `
SELECT id, name, COALESCE(description, ''), owner_id, status, created_at, updated_at
FROM projects WHERE id = $1`

	listProjectsForUserSQL = `
SELECT p.id, p.name, COALESCE(p.description, ''), p.owner_id, p.status, p.created_at, p.updated_at
FROM projects p
JOIN project_members m ON m.project_id = p.id
WHERE m.user_id = $1
  AND ($2 = '' OR p.status = $2)
  AND ($3 = '' OR ($3 = 'owned' AND p.owner_id = $1) OR ($3 = 'shared' AND p.owner_id <> $1))
ORDER BY p.created_at DESC`

	updateProjectSQL = `
UPDATE projects SET name = $2, description = $3, status = $4, updated_at = $5 WHERE id = $1`

	deleteProjectSQL = `
DELETE FROM projects WHERE id = $1`
)

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

// Create inserts the project and the creator's owner membership in one
// transaction; a project never exists without its owner row.
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project, owner *domain.Membership) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if _, err := tx.Exec(ctx, insertProjectSQL,
		project.ID.UUID, project.Name, project.Description, project.OwnerID.UUID,
		string(project.Status), project.CreatedAt, project.UpdatedAt); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, insertMembershipSQL,
		owner.ProjectID.UUID, owner.UserID.UUID, string(owner.Role), owner.CreatedAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	var p domain.Project
	var status string
	err := r.pool.QueryRow(ctx, selectProjectSQL, id.UUID).
		Scan(&p.ID.UUID, &p.Name, &p.Description, &p.OwnerID.UUID, &status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Status = domain.ProjectStatus(status)
	return &p, nil
}

func (r *ProjectRepository) ListForUser(ctx context.Context, userID domain.UserID, filter ports.ProjectFilter) ([]domain.Project, error) {
	status := string(filter.Status)
	typ := filter.Type
	switch typ {
	case "archived":
		// type=archived is shorthand for the status filter.
		typ = ""
		if status == "" {
			status = string(domain.ProjectArchived)
		}
	case "owned", "shared":
	default:
		typ = ""
	}
	rows, err := r.pool.Query(ctx, listProjectsForUserSQL, userID.UUID, status, typ)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		var st string
		if err := rows.Scan(&p.ID.UUID, &p.Name, &p.Description, &p.OwnerID.UUID, &st, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Status = domain.ProjectStatus(st)
		// Archived projects stay out of listings unless asked for.
		if status == "" && p.Status == domain.ProjectArchived {
			continue
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	_, err := r.pool.Exec(ctx, updateProjectSQL,
		project.ID.UUID, project.Name, project.Description, string(project.Status), project.UpdatedAt)
	return err
}

func (r *ProjectRepository) Delete(ctx context.Context, id domain.ProjectID) error {
	_, err := r.pool.Exec(ctx, deleteProjectSQL, id.UUID)
	return err
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)
