package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
)

const (
	projectLogLimit = 50
	recentLogLimit  = 20
)

// Service records and retrieves activity-log entries. Recording goes through an
// ActivityRecorder (asynq-backed when Redis is configured) and is best-effort:
// a failed record never fails the mutation that produced it.
type Service struct {
	recorder ports.ActivityRecorder
	entries  ports.ActivityRepository
	log      zerolog.Logger
}

func NewService(recorder ports.ActivityRecorder, entries ports.ActivityRepository, log zerolog.Logger) *Service {
	return &Service{recorder: recorder, entries: entries, log: log}
}

func (s *Service) Record(ctx context.Context, projectID domain.ProjectID, userID domain.UserID, action string, metadata map[string]string) {
	entry := &domain.ActivityEntry{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    userID,
		Action:    action,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
	if err := s.recorder.Record(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("action", action).Str("project_id", projectID.String()).Msg("record activity failed")
	}
}

func (s *Service) ProjectLog(ctx context.Context, projectID domain.ProjectID) ([]domain.ActivityEntry, error) {
	return s.entries.ListByProject(ctx, projectID, projectLogLimit)
}

func (s *Service) RecentForUser(ctx context.Context, userID domain.UserID) ([]domain.ActivityEntry, error) {
	return s.entries.ListRecentForUser(ctx, userID, recentLogLimit)
}
