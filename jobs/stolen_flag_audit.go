package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/notkisk/policeplus-api/internal/jobs"
	"github.com/notkisk/policeplus-api/internal/shared"
)

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// StolenFlagAuditJob writes stolen-flag changes into audit_logs.
type StolenFlagAuditJob struct {
	Audit   AuditRecorder
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewStolenFlagAuditJob initialises the audit handler.
func NewStolenFlagAuditJob(audit AuditRecorder, logger *slog.Logger, metrics *jobmetrics.Metrics) *StolenFlagAuditJob {
	return &StolenFlagAuditJob{Audit: audit, Logger: logger, Metrics: metrics}
}

// Handle processes TaskStolenFlagAudit tasks.
func (j *StolenFlagAuditJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Audit == nil {
		return errors.New("stolen flag audit: handler not configured")
	}
	var payload StolenFlagAuditPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Plate == "" {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskStolenFlagAudit)
	err := j.Audit.Record(ctx, shared.AuditLog{
		ActorID:  payload.ActorID,
		Action:   "vehicle.stolen_flag.set",
		Entity:   "car",
		EntityID: payload.Plate,
		Meta: map[string]any{
			"stolen":       payload.Stolen,
			"actor_role":   payload.ActorRole,
			"badge_number": payload.BadgeNumber,
		},
		At: payload.ChangedAt,
	})
	if err != nil {
		j.logger().Error("record stolen flag audit",
			slog.String("plate", payload.Plate),
			slog.Any("error", err))
		return tracker.End(err)
	}
	j.logger().Info("stolen flag audited",
		slog.String("plate", payload.Plate),
		slog.Bool("stolen", payload.Stolen),
		slog.Int64("actor_id", payload.ActorID))
	return tracker.End(nil)
}

func (j *StolenFlagAuditJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
