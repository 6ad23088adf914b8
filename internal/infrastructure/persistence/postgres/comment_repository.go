package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
)

const (
	insertCommentSQL = `
INSERT INTO task_comments (id, task_id, user_id, content, created_at)
VALUES ($1, $2, $3, $4, $5)`

	listCommentsSQL = `
SELECT id, task_id, user_id, content, created_at
FROM task_comments WHERE task_id = $1 ORDER BY created_at ASC`
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	_, err := r.pool.Exec(ctx, insertCommentSQL,
		comment.ID.UUID, comment.TaskID.UUID, comment.UserID.UUID, comment.Content, comment.CreatedAt)
	return err
}

func (r *CommentRepository) ListByTask(ctx context.Context, taskID domain.TaskID) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, listCommentsSQL, taskID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID.UUID, &c.TaskID.UUID, &c.UserID.UUID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

var _ ports.CommentRepository = (*CommentRepository)(nil)
