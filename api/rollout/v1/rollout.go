// Package rolloutv1 defines the ecp.rollout.v1 wire messages and the RolloutService descriptor.
// The contract is rollout.proto; these types carry it over the JSON codec in api/rpc, so field
// names follow the proto JSON mapping.
package rolloutv1

import "time"

type Stage struct {
	Percentage    int32   `json:"percentage"`
	DurationHours float64 `json:"durationHours"`
}

type Schedule struct {
	StartTime *time.Time `json:"startTime,omitempty"`
	Stages    []Stage    `json:"stages"`
}

// HealthMetrics is the last health snapshot taken during evaluation. Error is set when health could not be read.
type HealthMetrics struct {
	ErrorRate float64   `json:"errorRate"`
	Latency   float64   `json:"latency"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
	IsHealthy bool      `json:"isHealthy"`
	Error     string    `json:"error,omitempty"`
}

type Rollout struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	ModelVersion      string         `json:"modelVersion"`
	Status            string         `json:"status"`
	Schedule          Schedule       `json:"schedule"`
	CurrentPercentage int32          `json:"currentPercentage"`
	TargetPercentage  int32          `json:"targetPercentage"`
	HealthMetrics     *HealthMetrics `json:"healthMetrics,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

type CreateRolloutRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	ModelVersion string   `json:"modelVersion"`
	Schedule     Schedule `json:"schedule"`
}

// RolloutResponse is returned by every RPC that yields a single rollout.
type RolloutResponse struct {
	Rollout *Rollout `json:"rollout"`
}

type ListRolloutsRequest struct{}

type ListRolloutsResponse struct {
	Rollouts []*Rollout `json:"rollouts"`
}

type GetRolloutRequest struct {
	ID string `json:"id"`
}

type StartRolloutRequest struct {
	ID string `json:"id"`
}

type EvaluateRolloutRequest struct {
	ID string `json:"id"`
}

// EvaluateRolloutResponse carries the rollout after evaluation and what the evaluation did:
// noop, advanced, completed or rolled_back.
type EvaluateRolloutResponse struct {
	Rollout *Rollout `json:"rollout"`
	Action  string   `json:"action"`
}

type RollbackRolloutRequest struct {
	ID string `json:"id"`
}

type DeleteRolloutRequest struct {
	ID string `json:"id"`
}

type DeleteRolloutResponse struct{}

type ShouldUseNewVersionRequest struct {
	RolloutID string `json:"rolloutId"`
	UserID    string `json:"userId,omitempty"`
}

type ShouldUseNewVersionResponse struct {
	UseNewVersion bool `json:"useNewVersion"`
}

type GetActiveRolloutRequest struct {
	ModelVersion string `json:"modelVersion"`
}

// GetActiveRolloutResponse has a nil Rollout when no rollout of the model version is in progress.
type GetActiveRolloutResponse struct {
	Rollout *Rollout `json:"rollout,omitempty"`
}

type CheckRolloutRequest struct {
	ModelVersion string `json:"modelVersion"`
	UserID       string `json:"userId,omitempty"`
}

type RolloutSummary struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	CurrentPercentage int32  `json:"currentPercentage"`
}

type CheckRolloutResponse struct {
	ShouldUseNewModel bool            `json:"shouldUseNewModel"`
	Rollout           *RolloutSummary `json:"rollout,omitempty"`
}
