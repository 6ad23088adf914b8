package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
)

const (
	insertActivitySQL = `
INSERT INTO activity_log (id, project_id, user_id, action, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	listActivityByProjectSQL = `
SELECT id, project_id, user_id, action, metadata, created_at
FROM activity_log WHERE project_id = $1 ORDER BY created_at DESC LIMIT $2`

	listRecentActivityForUserSQL = `
SELECT a.id, a.project_id, a.user_id, a.action, a.metadata, a.created_at
FROM activity_log a
JOIN project_members m ON m.project_id = a.project_id
WHERE m.user_id = $1
ORDER BY a.created_at DESC LIMIT $2`
)

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Insert(ctx context.Context, entry *domain.ActivityEntry) error {
	meta, err := json.Marshal(entry.Metadata)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, insertActivitySQL,
		entry.ID, entry.ProjectID.UUID, entry.UserID.UUID, entry.Action, meta, entry.CreatedAt)
	return err
}

func (r *ActivityRepository) ListByProject(ctx context.Context, projectID domain.ProjectID, limit int) ([]domain.ActivityEntry, error) {
	rows, err := r.pool.Query(ctx, listActivityByProjectSQL, projectID.UUID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivity(rows)
}

func (r *ActivityRepository) ListRecentForUser(ctx context.Context, userID domain.UserID, limit int) ([]domain.ActivityEntry, error) {
	rows, err := r.pool.Query(ctx, listRecentActivityForUserSQL, userID.UUID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivity(rows)
}

func scanActivity(rows pgx.Rows) ([]domain.ActivityEntry, error) {
	var entries []domain.ActivityEntry
	for rows.Next() {
		var e domain.ActivityEntry
		var meta []byte
		if err := rows.Scan(&e.ID, &e.ProjectID.UUID, &e.UserID.UUID, &e.Action, &meta, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &e.Metadata); err != nil {
				return nil, err
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

var _ ports.ActivityRepository = (*ActivityRepository)(nil)
