package task

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

type CreateInput struct {
	Title       string
	Description string
	Priority    int
	DueDate     *time.Time
	AssigneeID  *domain.UserID
}

type UpdateInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *int
	DueDate     *time.Time
	AssigneeID  *domain.UserID
}

// Service implements task lifecycle operations. Creation is open to any member;
// mutation layers the assignee rule on top of the role check; deletion needs
// admin or owner.
type Service struct {
	tasks    ports.TaskRepository
	members  ports.MembershipRepository
	gate     *authz.Gate
	activity *activity.Service
}

func NewService(tasks ports.TaskRepository, members ports.MembershipRepository, gate *authz.Gate, activity *activity.Service) *Service {
	return &Service{tasks: tasks, members: members, gate: gate, activity: activity}
}

func (s *Service) Create(ctx context.Context, callerID domain.UserID, projectID domain.ProjectID, input CreateInput) (*domain.Task, error) {
	if err := s.gate.RequireMember(ctx, callerID, projectID); err != nil {
		return nil, err
	}
	priority := input.Priority
	if priority == 0 {
		priority = 1
	}
	now := time.Now()
	task := &domain.Task{
		ID:          domain.NewTaskID(uuid.New()),
		ProjectID:   projectID,
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.TaskPending,
		Priority:    priority,
		DueDate:     input.DueDate,
		AssigneeID:  input.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, projectID, callerID, domain.ActionTaskCreated, map[string]string{"title": task.Title})
	return task, nil
}

func (s *Service) Update(ctx context.Context, callerID domain.UserID, taskID domain.TaskID, input UpdateInput) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		// Collapse into forbidden: non-members must not learn whether the task exists.
		return nil, domerrors.ErrForbidden
	}
	if err := s.gate.RequireTaskMutation(ctx, callerID, task); err != nil {
		return nil, err
	}
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.AssigneeID != nil {
		task.AssigneeID = input.AssigneeID
	}
	task.UpdatedAt = time.Now()
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	action := domain.ActionTaskUpdated
	if input.Status != nil && *input.Status == domain.TaskCompleted {
		action = domain.ActionTaskCompleted
	}
	s.activity.Record(ctx, task.ProjectID, callerID, action, map[string]string{"title": task.Title})
	return task, nil
}

func (s *Service) Delete(ctx context.Context, callerID domain.UserID, taskID domain.TaskID) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return domerrors.ErrForbidden
	}
	if err := s.gate.Require(ctx, callerID, task.ProjectID, domain.RoleAdmin, domain.RoleOwner); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}
	s.activity.Record(ctx, task.ProjectID, callerID, domain.ActionTaskDeleted, map[string]string{"title": task.Title})
	return nil
}

// ListForUser returns every task across the caller's projects.
func (s *Service) ListForUser(ctx context.Context, callerID domain.UserID) ([]domain.Task, error) {
	projectIDs, err := s.members.ListProjectIDsForUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if len(projectIDs) == 0 {
		return nil, nil
	}
	return s.tasks.ListForProjects(ctx, projectIDs)
}
