package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
)

const TypeRecordActivity = "activity:record"

// activityPayload is the JSON carried by TypeRecordActivity tasks.
type activityPayload struct {
	ID        uuid.UUID         `json:"id"`
	ProjectID uuid.UUID         `json:"project_id"`
	UserID    uuid.UUID         `json:"user_id"`
	Action    string            `json:"action"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// AsynqRecorder enqueues activity entries for background persistence.
type AsynqRecorder struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqRecorder(redisOpt asynq.RedisClientOpt, log zerolog.Logger) *AsynqRecorder {
	return &AsynqRecorder{client: asynq.NewClient(redisOpt), log: log}
}

func (r *AsynqRecorder) Close() error {
	return r.client.Close()
}

func (r *AsynqRecorder) Record(ctx context.Context, entry *domain.ActivityEntry) error {
	payload, err := json.Marshal(activityPayload{
		ID:        entry.ID,
		ProjectID: entry.ProjectID.UUID,
		UserID:    entry.UserID.UUID,
		Action:    entry.Action,
		Metadata:  entry.Metadata,
		CreatedAt: entry.CreatedAt,
	})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeRecordActivity, payload)
	if _, err := r.client.EnqueueContext(ctx, task); err != nil {
		r.log.Warn().Err(err).Str("action", entry.Action).Msg("enqueue activity failed")
		return err
	}
	return nil
}

var _ ports.ActivityRecorder = (*AsynqRecorder)(nil)
