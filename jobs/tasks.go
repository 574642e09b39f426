package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStolenFlagAudit records who changed a vehicle's stolen flag.
	TaskStolenFlagAudit = "audit:stolen_flag"
)

// StolenFlagAuditPayload describes a single stolen-flag change.
type StolenFlagAuditPayload struct {
	ActorID     int64     `json:"actor_id"`
	ActorRole   string    `json:"actor_role"`
	BadgeNumber string    `json:"badge_number,omitempty"`
	Plate       string    `json:"plate"`
	Stolen      bool      `json:"stolen"`
	ChangedAt   time.Time `json:"changed_at"`
}

// NewStolenFlagAuditTask constructs an Asynq task.
func NewStolenFlagAuditTask(payload StolenFlagAuditPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStolenFlagAudit, data, asynq.Queue(QueueDefault), asynq.MaxRetry(5)), nil
}
