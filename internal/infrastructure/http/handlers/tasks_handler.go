package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/application/task"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/infrastructure/http/middleware"
)

type TasksHandler struct {
	tasks    *task.Service
	validate *validator.Validate
	log      zerolog.Logger
}

func NewTasksHandler(tasks *task.Service, log zerolog.Logger) *TasksHandler {
	return &TasksHandler{tasks: tasks, validate: validator.New(), log: log}
}

type taskBody struct {
	Title       *string    `json:"title" validate:"omitempty,max=300"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    *int       `json:"priority" validate:"omitempty,min=1,max=5"`
	DueDate     *time.Time `json:"dueDate"`
	AssigneeID  *string    `json:"assigneeId" validate:"omitempty,uuid"`
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	var body taskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	if body.Title == nil || *body.Title == "" {
		writeErr(w, http.StatusBadRequest, "", "title is required")
		return
	}
	input := task.CreateInput{Title: *body.Title, DueDate: body.DueDate}
	if body.Description != nil {
		input.Description = *body.Description
	}
	if body.Priority != nil {
		input.Priority = *body.Priority
	}
	assigneeID, ok := assigneeFromBody(w, body.AssigneeID)
	if !ok {
		return
	}
	input.AssigneeID = assigneeID
	t, err := h.tasks.Create(r.Context(), identity.UserID, projectID, input)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, taskJSON(t))
}

func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}
	var body taskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	input := task.UpdateInput{
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		DueDate:     body.DueDate,
	}
	if body.Status != nil {
		status, valid := domain.ParseTaskStatus(*body.Status)
		if !valid {
			writeErr(w, http.StatusBadRequest, "", "invalid status")
			return
		}
		input.Status = &status
	}
	assigneeID, ok := assigneeFromBody(w, body.AssigneeID)
	if !ok {
		return
	}
	input.AssigneeID = assigneeID
	t, err := h.tasks.Update(r.Context(), identity.UserID, taskID, input)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, taskJSON(t))
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}
	if err := h.tasks.Delete(r.Context(), identity.UserID, taskID); err != nil {
		respondError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMine returns tasks assigned to the caller across all their projects.
func (h *TasksHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	tasks, err := h.tasks.ListForUser(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(tasks))
	for i := range tasks {
		out = append(out, taskJSON(&tasks[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func taskIDParam(w http.ResponseWriter, r *http.Request) (domain.TaskID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid task id")
		return domain.TaskID{}, false
	}
	return domain.NewTaskID(id), true
}

func assigneeFromBody(w http.ResponseWriter, raw *string) (*domain.UserID, bool) {
	if raw == nil {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid assignee id")
		return nil, false
	}
	assignee := domain.NewUserID(id)
	return &assignee, true
}

func taskJSON(t *domain.Task) map[string]interface{} {
	out := map[string]interface{}{
		"id":          t.ID.String(),
		"projectId":   t.ProjectID.String(),
		"title":       t.Title,
		"description": t.Description,
		"status":      string(t.Status),
		"priority":    t.Priority,
		"dueDate":     t.DueDate,
		"createdAt":   t.CreatedAt,
		"updatedAt":   t.UpdatedAt,
	}
	if t.AssigneeID != nil {
		out["assigneeId"] = t.AssigneeID.String()
	} else {
		out["assigneeId"] = nil
	}
	return out
}
