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
	selectMembershipSQL = `
SELECT project_id, user_id, role, created_at
FROM project_members WHERE project_id = $1 AND user_id = $2`

	listMembershipsSQL = `
SELECT project_id, user_id, role, created_at
FROM project_members WHERE project_id = $1 ORDER BY created_at`

	listProjectIDsForUserSQL = `
SELECT project_id FROM project_members WHERE user_id = $1`

	updateMembershipRoleSQL = `
UPDATE project_members SET role = $3 WHERE project_id = $1 AND user_id = $2`

	deleteMembershipSQL = `
DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`
)

type MembershipRepository struct {
	pool *pgxpool.Pool
}

func NewMembershipRepository(pool *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

func (r *MembershipRepository) Add(ctx context.Context, m *domain.Membership) error {
	_, err := r.pool.Exec(ctx, insertMembershipSQL,
		m.ProjectID.UUID, m.UserID.UUID, string(m.Role), m.CreatedAt)
	return err
}

func (r *MembershipRepository) Get(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) (*domain.Membership, error) {
	var m domain.Membership
	var role string
	err := r.pool.QueryRow(ctx, selectMembershipSQL, projectID.UUID, userID.UUID).
		Scan(&m.ProjectID.UUID, &m.UserID.UUID, &role, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.Role = domain.Role(role)
	return &m, nil
}

func (r *MembershipRepository) ListByProject(ctx context.Context, projectID domain.ProjectID) ([]domain.Membership, error) {
	rows, err := r.pool.Query(ctx, listMembershipsSQL, projectID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Membership
	for rows.Next() {
		var m domain.Membership
		var role string
		if err := rows.Scan(&m.ProjectID.UUID, &m.UserID.UUID, &role, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = domain.Role(role)
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *MembershipRepository) ListProjectIDsForUser(ctx context.Context, userID domain.UserID) ([]domain.ProjectID, error) {
	rows, err := r.pool.Query(ctx, listProjectIDsForUserSQL, userID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []domain.ProjectID
	for rows.Next() {
		var id domain.ProjectID
		if err := rows.Scan(&id.UUID); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *MembershipRepository) UpdateRole(ctx context.Context, projectID domain.ProjectID, userID domain.UserID, role domain.Role) error {
	_, err := r.pool.Exec(ctx, updateMembershipRoleSQL, projectID.UUID, userID.UUID, string(role))
	return err
}

func (r *MembershipRepository) Remove(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) error {
	_, err := r.pool.Exec(ctx, deleteMembershipSQL, projectID.UUID, userID.UUID)
	return err
}

var _ ports.MembershipRepository = (*MembershipRepository)(nil)
