package comment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/application/activity"
	"github.com/taskhive/taskhive/internal/application/apptest"
	"github.com/taskhive/taskhive/internal/application/authz"
	"github.com/taskhive/taskhive/internal/domain"
	domerrors "github.com/taskhive/taskhive/internal/domain/errors"
)

func newCommentFixture(t *testing.T) (*Service, *apptest.Activities, domain.TaskID, domain.UserID, domain.UserID) {
	t.Helper()
	ctx := context.Background()
	members := apptest.NewMembers()
	tasks := apptest.NewTasks()
	comments := apptest.NewComments()
	activities := apptest.NewActivities()
	svc := NewService(comments, tasks, authz.NewGate(members), activity.NewService(activities, activities, zerolog.Nop()))

	projectID := domain.NewProjectID(uuid.New())
	member := domain.NewUserID(uuid.New())
	outsider := domain.NewUserID(uuid.New())
	require.NoError(t, members.Add(ctx, &domain.Membership{ProjectID: projectID, UserID: member, Role: domain.RoleMember}))

	taskID := domain.NewTaskID(uuid.New())
	require.NoError(t, tasks.Create(ctx, &domain.Task{
		ID:        taskID,
		ProjectID: projectID,
		Title:     "Write docs",
		Status:    domain.TaskPending,
	}))
	return svc, activities, taskID, member, outsider
}

func TestAddAndListComments(t *testing.T) {
	svc, activities, taskID, member, _ := newCommentFixture(t)
	ctx := context.Background()

	c, err := svc.Add(ctx, member, taskID, "looks good")
	require.NoError(t, err)
	assert.Equal(t, member, c.UserID)
	assert.Contains(t, activities.Actions(), domain.ActionCommentAdded)

	_, err = svc.Add(ctx, member, taskID, "one more thing")
	require.NoError(t, err)

	list, err := svc.List(ctx, member, taskID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "looks good", list[0].Content)
}

func TestCommentsAreMemberOnly(t *testing.T) {
	svc, _, taskID, _, outsider := newCommentFixture(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, outsider, taskID, "drive-by")
	assert.ErrorIs(t, err, domerrors.ErrForbidden)

	_, err = svc.List(ctx, outsider, taskID)
	assert.ErrorIs(t, err, domerrors.ErrForbidden)
}

func TestUnknownTaskReadsAsForbidden(t *testing.T) {
	svc, _, _, member, _ := newCommentFixture(t)
	ctx := context.Background()

	ghost := domain.NewTaskID(uuid.New())
	_, err := svc.Add(ctx, member, ghost, "hello?")
	assert.ErrorIs(t, err, domerrors.ErrForbidden)

	_, err = svc.List(ctx, member, ghost)
	assert.ErrorIs(t, err, domerrors.ErrForbidden)
}
