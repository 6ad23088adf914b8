package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/application/comment"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/infrastructure/http/middleware"
)

const maxCommentLength = 5000

type CommentsHandler struct {
	comments *comment.Service
	log      zerolog.Logger
}

func NewCommentsHandler(comments *comment.Service, log zerolog.Logger) *CommentsHandler {
	return &CommentsHandler{comments: comments, log: log}
}

func (h *CommentsHandler) Add(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	content := strings.TrimSpace(body.Content)
	if content == "" {
		writeErr(w, http.StatusBadRequest, "", "content is required")
		return
	}
	if len(content) > maxCommentLength {
		writeErr(w, http.StatusBadRequest, "", "content too long")
		return
	}
	c, err := h.comments.Add(r.Context(), identity.UserID, taskID, content)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentJSON(c))
}

func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}
	comments, err := h.comments.List(r.Context(), identity.UserID, taskID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(comments))
	for i := range comments {
		out = append(out, commentJSON(&comments[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func commentJSON(c *domain.Comment) map[string]interface{} {
	return map[string]interface{}{
		"id":        c.ID.String(),
		"taskId":    c.TaskID.String(),
		"userId":    c.UserID.String(),
		"content":   c.Content,
		"createdAt": c.CreatedAt,
	}
}
