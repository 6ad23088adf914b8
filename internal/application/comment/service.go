package comment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/application/activity"
	"github.com/taskhive/taskhive/internal/application/authz"
	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
	domerrors "github.com/taskhive/taskhive/internal/domain/errors"
)

// Service implements task comments. Any member of the task's project may
// comment and read; non-members get forbidden without learning whether the
// task exists.
type Service struct {
	comments ports.CommentRepository
	tasks    ports.TaskRepository
	gate     *authz.Gate
	activity *activity.Service
}

func NewService(comments ports.CommentRepository, tasks ports.TaskRepository, gate *authz.Gate, activity *activity.Service) *Service {
	return &Service{comments: comments, tasks: tasks, gate: gate, activity: activity}
}

func (s *Service) Add(ctx context.Context, callerID domain.UserID, taskID domain.TaskID, content string) (*domain.Comment, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domerrors.ErrForbidden
	}
	if err := s.gate.RequireMember(ctx, callerID, task.ProjectID); err != nil {
		return nil, err
	}
	comment := &domain.Comment{
		ID:        domain.NewCommentID(uuid.New()),
		TaskID:    taskID,
		UserID:    callerID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, task.ProjectID, callerID, domain.ActionCommentAdded, map[string]string{
		"task_id":    task.ID.String(),
		"task_title": task.Title,
	})
	return comment, nil
}

func (s *Service) List(ctx context.Context, callerID domain.UserID, taskID domain.TaskID) ([]domain.Comment, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domerrors.ErrForbidden
	}
	if err := s.gate.RequireMember(ctx, callerID, task.ProjectID); err != nil {
		return nil, err
	}
	return s.comments.ListByTask(ctx, taskID)
}
