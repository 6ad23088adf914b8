package project

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/application/activity"
	"github.com/taskhive/taskhive/internal/application/authz"
	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
	domerrors "github.com/taskhive/taskhive/internal/domain/errors"
)

type CreateInput struct {
	Name        string
	Description string
}

type UpdateInput struct {
	Name        *string
	Description *string
	Status      *domain.ProjectStatus
}

// Detail is a project with its members and tasks resolved.
type Detail struct {
	Project *domain.Project
	Members []domain.Membership
	Tasks   []domain.Task
}

// Service implements project lifecycle operations. Every operation states its
// allowed-role set explicitly at the call site of the gate.
type Service struct {
	projects ports.ProjectRepository
	members  ports.MembershipRepository
	tasks    ports.TaskRepository
	gate     *authz.Gate
	activity *activity.Service
}

func NewService(projects ports.ProjectRepository, members ports.MembershipRepository, tasks ports.TaskRepository, gate *authz.Gate, activity *activity.Service) *Service {
	return &Service{projects: projects, members: members, tasks: tasks, gate: gate, activity: activity}
}

// Create inserts the project with the creator as its sole owner member.
func (s *Service) Create(ctx context.Context, creatorID domain.UserID, input CreateInput) (*domain.Project, error) {
	now := time.Now()
	project := &domain.Project{
		ID:          domain.NewProjectID(uuid.New()),
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     creatorID,
		Status:      domain.ProjectActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	owner := &domain.Membership{
		ProjectID: project.ID,
		UserID:    creatorID,
		Role:      domain.RoleOwner,
		CreatedAt: now,
	}
	if err := s.projects.Create(ctx, project, owner); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, project.ID, creatorID, domain.ActionProjectCreated, map[string]string{"name": project.Name})
	return project, nil
}

func (s *Service) List(ctx context.Context, callerID domain.UserID, filter ports.ProjectFilter) ([]domain.Project, error) {
	return s.projects.ListForUser(ctx, callerID, filter)
}

// Get returns the project with members and tasks. Membership is required; a
// non-member gets the same forbidden error whether or not the project exists.
func (s *Service) Get(ctx context.Context, callerID domain.UserID, projectID domain.ProjectID) (*Detail, error) {
	if err := s.gate.RequireMember(ctx, callerID, projectID); err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domerrors.ErrNotFound
	}
	members, err := s.members.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListForProjects(ctx, []domain.ProjectID{projectID})
	if err != nil {
		return nil, err
	}
	return &Detail{Project: project, Members: members, Tasks: tasks}, nil
}

func (s *Service) Update(ctx context.Context, callerID domain.UserID, projectID domain.ProjectID, input UpdateInput) (*domain.Project, error) {
	if err := s.gate.Require(ctx, callerID, projectID, domain.RoleAdmin, domain.RoleOwner); err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domerrors.ErrNotFound
	}
	var changes []string
	if input.Name != nil && *input.Name != project.Name {
		project.Name = *input.Name
		changes = append(changes, "name")
	}
	if input.Description != nil {
		project.Description = *input.Description
		changes = append(changes, "description")
	}
	if input.Status != nil {
		project.Status = *input.Status
		changes = append(changes, "status")
	}
	project.UpdatedAt = time.Now()
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	if len(changes) > 0 {
		s.activity.Record(ctx, projectID, callerID, domain.ActionProjectUpdated, map[string]string{"changes": strings.Join(changes, ", ")})
	}
	return project, nil
}

func (s *Service) Archive(ctx context.Context, callerID domain.UserID, projectID domain.ProjectID) (*domain.Project, error) {
	if err := s.gate.Require(ctx, callerID, projectID, domain.RoleOwner); err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domerrors.ErrNotFound
	}
	project.Status = domain.ProjectArchived
	project.UpdatedAt = time.Now()
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, projectID, callerID, domain.ActionProjectArchived, map[string]string{"name": project.Name})
	return project, nil
}

// ActivityLog returns the project's recent activity, member-only.
func (s *Service) ActivityLog(ctx context.Context, callerID domain.UserID, projectID domain.ProjectID) ([]domain.ActivityEntry, error) {
	if err := s.gate.RequireMember(ctx, callerID, projectID); err != nil {
		return nil, err
	}
	return s.activity.ProjectLog(ctx, projectID)
}

func (s *Service) Delete(ctx context.Context, callerID domain.UserID, projectID domain.ProjectID) error {
	if err := s.gate.Require(ctx, callerID, projectID, domain.RoleOwner); err != nil {
		return err
	}
	return s.projects.Delete(ctx, projectID)
}
