package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
)

const (
	insertTaskSQL = `
INSERT INTO tasks (id, project_id, title, description, status, priority, due_date, assignee_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	selectTaskSQL = `
SELECT id, project_id, title, COALESCE(description, ''), status, priority, due_date, assignee_id, created_at, updated_at
FROM tasks WHERE id = $1`

	updateTaskSQL = `
UPDATE tasks SET title = $2, description = $3, status = $4, priority = $5, due_date = $6, assignee_id = $7, updated_at = $8
WHERE id = $1`

	deleteTaskSQL = `
DELETE FROM tasks WHERE id = $1`

	listTasksForProjectsSQL = `
SELECT id, project_id, title, COALESCE(description, ''), status, priority, due_date, assignee_id, created_at, updated_at
FROM tasks WHERE project_id = ANY($1) ORDER BY updated_at DESC`
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	_, err := r.pool.Exec(ctx, insertTaskSQL,
		task.ID.UUID, task.ProjectID.UUID, task.Title, task.Description, string(task.Status),
		task.Priority, task.DueDate, assigneeUUID(task), task.CreatedAt, task.UpdatedAt)
	return err
}

func (r *TaskRepository) GetByID(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	return scanTask(r.pool.QueryRow(ctx, selectTaskSQL, id.UUID))
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	_, err := r.pool.Exec(ctx, updateTaskSQL,
		task.ID.UUID, task.Title, task.Description, string(task.Status),
		task.Priority, task.DueDate, assigneeUUID(task), task.UpdatedAt)
	return err
}

func (r *TaskRepository) Delete(ctx context.Context, id domain.TaskID) error {
	_, err := r.pool.Exec(ctx, deleteTaskSQL, id.UUID)
	return err
}

func (r *TaskRepository) ListForProjects(ctx context.Context, projectIDs []domain.ProjectID) ([]domain.Task, error) {
	ids := make([]uuid.UUID, len(projectIDs))
	for i, id := range projectIDs {
		ids[i] = id.UUID
	}
	rows, err := r.pool.Query(ctx, listTasksForProjectsSQL, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	var status string
	var assignee *uuid.UUID
	err := row.Scan(&t.ID.UUID, &t.ProjectID.UUID, &t.Title, &t.Description, &status,
		&t.Priority, &t.DueDate, &assignee, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	if assignee != nil {
		id := domain.NewUserID(*assignee)
		t.AssigneeID = &id
	}
	return &t, nil
}

func assigneeUUID(task *domain.Task) *uuid.UUID {
	if task.AssigneeID == nil {
		return nil
	}
	return &task.AssigneeID.UUID
}

var _ ports.TaskRepository = (*TaskRepository)(nil)
