package queue

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/application/apptest"
	"github.com/taskhive/taskhive/internal/domain"
)

func TestSyncRecorderWritesThrough(t *testing.T) {
	entries := apptest.NewActivities()
	rec := NewSyncRecorder(entries)

	projectID := domain.NewProjectID(uuid.New())
	err := rec.Record(context.Background(), &domain.ActivityEntry{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    domain.NewUserID(uuid.New()),
		Action:    domain.ActionTaskCreated,
		Metadata:  map[string]string{"title": "Write docs"},
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	stored, err := entries.ListByProject(context.Background(), projectID, 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, domain.ActionTaskCreated, stored[0].Action)
	assert.Equal(t, "Write docs", stored[0].Metadata["title"])
}
