package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/application/project"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/infrastructure/http/middleware"
)

type ProjectsHandler struct {
	projects *project.Service
	members  *project.Members
	validate *validator.Validate
	log      zerolog.Logger
}

func NewProjectsHandler(projects *project.Service, members *project.Members, log zerolog.Logger) *ProjectsHandler {
	return &ProjectsHandler{projects: projects, members: members, validate: validator.New(), log: log}
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	var body struct {
		Name        string `json:"name" validate:"required,max=200"`
		Description string `json:"description" validate:"max=2000"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	p, err := h.projects.Create(r.Context(), identity.UserID, project.CreateInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, projectJSON(p))
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	filter := ports.ProjectFilter{
		Type:   r.URL.Query().Get("type"),
		Status: domain.ProjectStatus(r.URL.Query().Get("status")),
	}
	projects, err := h.projects.List(r.Context(), identity.UserID, filter)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(projects))
	for i := range projects {
		out = append(out, projectJSON(&projects[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	detail, err := h.projects.Get(r.Context(), identity.UserID, projectID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	out := projectJSON(detail.Project)
	out["members"] = membershipsJSON(detail.Members)
	tasks := make([]map[string]interface{}, 0, len(detail.Tasks))
	for i := range detail.Tasks {
		tasks = append(tasks, taskJSON(&detail.Tasks[i]))
	}
	out["tasks"] = tasks
	writeJSON(w, http.StatusOK, out)
}

func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Name        *string `json:"name" validate:"omitempty,max=200"`
		Description *string `json:"description" validate:"omitempty,max=2000"`
		Status      *string `json:"status" validate:"omitempty,oneof=active archived"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	input := project.UpdateInput{Name: body.Name, Description: body.Description}
	if body.Status != nil {
		status := domain.ProjectStatus(*body.Status)
		input.Status = &status
	}
	p, err := h.projects.Update(r.Context(), identity.UserID, projectID, input)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, projectJSON(p))
}

func (h *ProjectsHandler) Archive(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	p, err := h.projects.Archive(r.Context(), identity.UserID, projectID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, projectJSON(p))
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	if err := h.projects.Delete(r.Context(), identity.UserID, projectID); err != nil {
		respondError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectsHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	members, err := h.members.List(r.Context(), identity.UserID, projectID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, membershipsJSON(members))
}

func (h *ProjectsHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Email string `json:"email" validate:"required,email,max=254"`
		Role  string `json:"role" validate:"omitempty,oneof=member admin owner"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	membership, err := h.members.Add(r.Context(), identity.UserID, projectID, SanitizeEmail(body.Email), domain.Role(body.Role))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, membershipJSON(membership))
}

func (h *ProjectsHandler) ChangeMemberRole(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	targetID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Role string `json:"role" validate:"required,oneof=member admin owner"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	if err := h.members.ChangeRole(r.Context(), identity.UserID, projectID, targetID, domain.Role(body.Role)); err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Role updated"})
}

func (h *ProjectsHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	targetID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	if err := h.members.Remove(r.Context(), identity.UserID, projectID, targetID); err != nil {
		respondError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectsHandler) Activity(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	projectID, ok := projectIDParam(w, r)
	if !ok {
		return
	}
	entries, err := h.projects.ActivityLog(r.Context(), identity.UserID, projectID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, activityJSON(entries))
}

func projectIDParam(w http.ResponseWriter, r *http.Request) (domain.ProjectID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid project id")
		return domain.ProjectID{}, false
	}
	return domain.NewProjectID(id), true
}

func userIDParam(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid user id")
		return domain.UserID{}, false
	}
	return domain.NewUserID(id), true
}

func projectJSON(p *domain.Project) map[string]interface{} {
	return map[string]interface{}{
		"id":          p.ID.String(),
		"name":        p.Name,
		"description": p.Description,
		"ownerId":     p.OwnerID.String(),
		"status":      string(p.Status),
		"createdAt":   p.CreatedAt,
		"updatedAt":   p.UpdatedAt,
	}
}

func membershipJSON(m *domain.Membership) map[string]interface{} {
	return map[string]interface{}{
		"projectId": m.ProjectID.String(),
		"userId":    m.UserID.String(),
		"role":      string(m.Role),
		"createdAt": m.CreatedAt,
	}
}

func membershipsJSON(members []domain.Membership) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(members))
	for i := range members {
		out = append(out, membershipJSON(&members[i]))
	}
	return out
}
