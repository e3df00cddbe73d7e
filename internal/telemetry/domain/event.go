package domain

import (
	"encoding/json"
	"time"
)

// Event types emitted for experiment and rollout lifecycle changes.
const (
	EventExperimentCreated   = "experiment.created"
	EventExperimentStarted   = "experiment.started"
	EventExperimentPaused    = "experiment.paused"
	EventExperimentResumed   = "experiment.resumed"
	EventExperimentCompleted = "experiment.completed"
	EventExperimentDeleted   = "experiment.deleted"

	EventRolloutCreated    = "rollout.created"
	EventRolloutStarted    = "rollout.started"
	EventRolloutAdvanced   = "rollout.advanced"
	EventRolloutCompleted  = "rollout.completed"
	EventRolloutRolledBack = "rollout.rolled_back"
	EventRolloutDeleted    = "rollout.deleted"
)

// Event is a lifecycle telemetry record. Resource is "experiment" or "rollout"; ResourceID is its id.
type Event struct {
	EventType  string          `json:"event_type"`
	Source     string          `json:"source"`
	Resource   string          `json:"resource"`
	ResourceID string          `json:"resource_id"`
	Actor      string          `json:"actor,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewEvent builds an event stamped with the current UTC time. metadata is JSON-encoded; encoding
// failures leave Metadata empty.
func NewEvent(eventType, source, resource, resourceID, actor string, metadata any) *Event {
	ev := &Event{
		EventType:  eventType,
		Source:     source,
		Resource:   resource,
		ResourceID: resourceID,
		Actor:      actor,
		CreatedAt:  time.Now().UTC(),
	}
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			ev.Metadata = b
		}
	}
	return ev
}
