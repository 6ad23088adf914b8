package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/application/activity"
	"github.com/taskhive/taskhive/internal/application/apptest"
	"github.com/taskhive/taskhive/internal/application/auth"
	"github.com/taskhive/taskhive/internal/application/authz"
	"github.com/taskhive/taskhive/internal/application/comment"
	"github.com/taskhive/taskhive/internal/application/project"
	"github.com/taskhive/taskhive/internal/application/task"
	"github.com/taskhive/taskhive/internal/application/user"
	infraauth "github.com/taskhive/taskhive/internal/infrastructure/auth"
	httprouter "github.com/taskhive/taskhive/internal/infrastructure/http"
	"github.com/taskhive/taskhive/internal/infrastructure/http/handlers"
	"github.com/taskhive/taskhive/internal/infrastructure/http/middleware"
	"github.com/taskhive/taskhive/internal/infrastructure/lockout"
)

// apiClient drives the full router with per-user cookies.
type apiClient struct {
	t      *testing.T
	srv    http.Handler
	cookie *http.Cookie
}

func newFullServer(t *testing.T) http.Handler {
	t.Helper()
	users := apptest.NewUsers()
	tokens := apptest.NewTokens()
	members := apptest.NewMembers()
	projects := apptest.NewProjects(members)
	tasks := apptest.NewTasks()
	comments := apptest.NewComments()
	activities := apptest.NewActivities()

	codec := infraauth.NewTokenCodec(
		[]byte("access-secret-for-tests"),
		[]byte("refresh-secret-for-tests"),
		"taskhive-test",
		time.Minute, time.Hour,
	)
	log := zerolog.Nop()
	activitySvc := activity.NewService(activities, activities, log)
	gate := authz.NewGate(members)
	projectSvc := project.NewService(projects, members, tasks, gate, activitySvc)

	authHandler := handlers.NewAuthHandler(
		auth.NewRegister(users, apptest.Hasher{}),
		auth.NewLogin(users, apptest.Hasher{}, codec, tokens, time.Hour),
		auth.NewRefresh(users, codec, tokens, time.Hour),
		auth.NewLogout(tokens),
		lockout.NewMemoryStore(0, 0),
		time.Minute, time.Hour, false, log,
	)
	return httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:     authHandler,
		UsersHandler:    handlers.NewUsersHandler(user.NewService(users, apptest.Hasher{}, tokens), activitySvc, log),
		ProjectsHandler: handlers.NewProjectsHandler(projectSvc, project.NewMembers(projectSvc, users), log),
		TasksHandler:    handlers.NewTasksHandler(task.NewService(tasks, members, gate, activitySvc), log),
		CommentsHandler: handlers.NewCommentsHandler(comment.NewService(comments, tasks, gate, activitySvc), log),
		RequireJWT:      middleware.NewAuthValidator(codec).Handler,
		Log:             log,
	})
}

func signUp(t *testing.T, srv http.Handler, email string) *apiClient {
	t.Helper()
	c := &apiClient{t: t, srv: srv}
	rec := c.do(http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"fullName": "Test User",
		"password": "s3cret-pw",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = c.do(http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": "s3cret-pw",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == handlers.AccessTokenCookie {
			c.cookie = ck
		}
	}
	require.NotNil(t, c.cookie)
	return c
}

func (c *apiClient) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestProjectLifecycle(t *testing.T) {
	srv := newFullServer(t)
	alice := signUp(t, srv, "alice@example.com")

	created := alice.do(http.MethodPost, "/projects/", map[string]string{
		"name":        "Launch",
		"description": "Q3 launch",
	})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	projectID := decode(t, created)["id"].(string)

	got := alice.do(http.MethodGet, "/projects/"+projectID+"/", nil)
	require.Equal(t, http.StatusOK, got.Code)
	detail := decode(t, got)
	assert.Equal(t, "Launch", detail["name"])
	assert.Len(t, detail["members"], 1)

	updated := alice.do(http.MethodPatch, "/projects/"+projectID+"/", map[string]string{"name": "Renamed"})
	require.Equal(t, http.StatusOK, updated.Code)
	assert.Equal(t, "Renamed", decode(t, updated)["name"])

	archived := alice.do(http.MethodPatch, "/projects/"+projectID+"/archive", nil)
	require.Equal(t, http.StatusOK, archived.Code)
	assert.Equal(t, "archived", decode(t, archived)["status"])

	activityLog := alice.do(http.MethodGet, "/projects/"+projectID+"/activity", nil)
	require.Equal(t, http.StatusOK, activityLog.Code)
	assert.Contains(t, activityLog.Body.String(), "PROJECT_CREATED")

	deleted := alice.do(http.MethodDelete, "/projects/"+projectID+"/", nil)
	assert.Equal(t, http.StatusNoContent, deleted.Code)
}

func TestMembershipEnforcedAcrossUsers(t *testing.T) {
	srv := newFullServer(t)
	alice := signUp(t, srv, "alice@example.com")
	bob := signUp(t, srv, "bob@example.com")

	created := alice.do(http.MethodPost, "/projects/", map[string]string{"name": "Private"})
	require.Equal(t, http.StatusCreated, created.Code)
	projectID := decode(t, created)["id"].(string)

	// Bob is not a member: existence must not leak.
	rec := bob.do(http.MethodGet, "/projects/"+projectID+"/", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Invite bob, then he can read.
	rec = alice.do(http.MethodPost, "/projects/"+projectID+"/members", map[string]string{"email": "bob@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "member", decode(t, rec)["role"])

	rec = bob.do(http.MethodGet, "/projects/"+projectID+"/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// But a plain member cannot invite or rename.
	rec = bob.do(http.MethodPost, "/projects/"+projectID+"/members", map[string]string{"email": "carol@example.com"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = bob.do(http.MethodPatch, "/projects/"+projectID+"/", map[string]string{"name": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTaskAndCommentFlow(t *testing.T) {
	srv := newFullServer(t)
	alice := signUp(t, srv, "alice@example.com")
	bob := signUp(t, srv, "bob@example.com")

	created := alice.do(http.MethodPost, "/projects/", map[string]string{"name": "Launch"})
	require.Equal(t, http.StatusCreated, created.Code)
	projectID := decode(t, created)["id"].(string)
	rec := alice.do(http.MethodPost, "/projects/"+projectID+"/members", map[string]string{"email": "bob@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Alice creates a task assigned to nobody.
	taskRec := alice.do(http.MethodPost, "/projects/"+projectID+"/tasks", map[string]interface{}{
		"title":    "Write docs",
		"priority": 2,
	})
	require.Equal(t, http.StatusCreated, taskRec.Code, taskRec.Body.String())
	taskBody := decode(t, taskRec)
	taskID := taskBody["id"].(string)
	assert.Equal(t, "pending", taskBody["status"])
	assert.Equal(t, float64(2), taskBody["priority"])

	// Bob is a plain member and not the assignee: no mutation.
	rec = bob.do(http.MethodPut, "/tasks/"+taskID+"/", map[string]string{"title": "Nope"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Owner completes the task.
	rec = alice.do(http.MethodPut, "/tasks/"+taskID+"/", map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "completed", decode(t, rec)["status"])

	// Any member can comment and read comments.
	rec = bob.do(http.MethodPost, "/tasks/"+taskID+"/comments", map[string]string{"content": "nice work"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = alice.do(http.MethodGet, "/tasks/"+taskID+"/comments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nice work")

	// Plain member cannot delete; owner can.
	rec = bob.do(http.MethodDelete, "/tasks/"+taskID+"/", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = alice.do(http.MethodDelete, "/tasks/"+taskID+"/", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUsersMeFlow(t *testing.T) {
	srv := newFullServer(t)
	alice := signUp(t, srv, "alice@example.com")

	rec := alice.do(http.MethodGet, "/users/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@example.com", decode(t, rec)["email"])

	rec = alice.do(http.MethodPatch, "/users/me", map[string]string{"fullName": "Alice B.", "bio": "Gopher"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Alice B.", body["fullName"])

	rec = alice.do(http.MethodPatch, "/users/me/password", map[string]string{
		"currentPassword": "s3cret-pw",
		"newPassword":     "even-m0re-s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = alice.do(http.MethodGet, "/users/me/activity", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
