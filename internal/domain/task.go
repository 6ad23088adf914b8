package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskID is a value object for task identity.
type TaskID struct{ uuid.UUID }

// NewTaskID creates a new TaskID from uuid.
func NewTaskID(id uuid.UUID) TaskID { return TaskID{UUID: id} }

// String returns the canonical string form.
func (t TaskID) String() string { return t.UUID.String() }

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// ParseTaskStatus returns the TaskStatus for s, or false if unknown.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case TaskPending, TaskInProgress, TaskCompleted:
		return TaskStatus(s), true
	}
	return "", false
}

// Task is a unit of work inside a project. AssigneeID is nil for unassigned tasks.
type Task struct {
	ID          TaskID
	ProjectID   ProjectID
	Title       string
	Description string
	Status      TaskStatus
	Priority    int
	DueDate     *time.Time
	AssigneeID  *UserID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
