package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/application/activity"
	"github.com/taskhive/taskhive/internal/application/user"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/infrastructure/http/middleware"
)

type UsersHandler struct {
	users    *user.Service
	activity *activity.Service
	validate *validator.Validate
	log      zerolog.Logger
}

func NewUsersHandler(users *user.Service, activity *activity.Service, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{users: users, activity: activity, validate: validator.New(), log: log}
}

func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	u, profile, err := h.users.Me(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, userJSON(u, profile))
}

func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	var body struct {
		FullName *string `json:"fullName" validate:"omitempty,max=120"`
		Email    *string `json:"email" validate:"omitempty,email,max=254"`
		Bio      *string `json:"bio" validate:"omitempty,max=500"`
		Phone    *string `json:"phone" validate:"omitempty,max=32"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	if body.Email != nil {
		email := SanitizeEmail(*body.Email)
		if email == "" {
			writeErr(w, http.StatusBadRequest, "", "invalid email")
			return
		}
		body.Email = &email
	}
	u, profile, err := h.users.Update(r.Context(), identity.UserID, user.UpdateInput{
		FullName: body.FullName,
		Email:    body.Email,
		Bio:      body.Bio,
		Phone:    body.Phone,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, userJSON(u, profile))
}

func (h *UsersHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	var body struct {
		CurrentPassword string `json:"currentPassword" validate:"required,max=128"`
		NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	err := h.users.ChangePassword(r.Context(), identity.UserID, body.CurrentPassword, SanitizePassword(body.NewPassword))
	if err != nil {
		AuditLog(h.log, r, "user.change_password", identity.UserID.String(), false, err.Error())
		respondError(w, h.log, err)
		return
	}
	AuditLog(h.log, r, "user.change_password", identity.UserID.String(), true, "")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

func (h *UsersHandler) MyActivity(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	entries, err := h.activity.RecentForUser(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, activityJSON(entries))
}

func activityJSON(entries []domain.ActivityEntry) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]interface{}{
			"id":        e.ID.String(),
			"projectId": e.ProjectID.String(),
			"userId":    e.UserID.String(),
			"action":    e.Action,
			"metadata":  e.Metadata,
			"createdAt": e.CreatedAt,
		})
	}
	return out
}
