// Package domain holds the rollout entity and the schedule arithmetic that drives it.
package domain

import (
	"time"

	"experimentation-control-plane/internal/bucketing"
)

// RolloutStatus is the lifecycle state of a rollout.
type RolloutStatus string

const (
	StatusPending    RolloutStatus = "pending"
	StatusInProgress RolloutStatus = "in_progress"
	StatusCompleted  RolloutStatus = "completed"
	StatusRolledBack RolloutStatus = "rolled_back"
)

// FullPercentage is the target of every rollout and the percentage once all stages have elapsed.
const FullPercentage = 100

// Terminal reports whether no further transition is possible.
func (s RolloutStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRolledBack
}

// Stage is one window of the schedule. Percentage is the exposure active during the window.
type Stage struct {
	Percentage    int     `json:"percentage" validate:"gte=0,lte=100"`
	DurationHours float64 `json:"durationHours" validate:"gt=0"`
}

// Schedule is an ordered list of consecutive stages beginning at StartTime. StartTime is set when the rollout starts.
type Schedule struct {
	StartTime *time.Time `json:"startTime,omitempty"`
	Stages    []Stage    `json:"stages" validate:"required,min=1,dive"`
}

// HealthMetrics is the health snapshot taken by the latest evaluation that needed one.
// Error is set when the reading failed or timed out; such snapshots are always unhealthy.
type HealthMetrics struct {
	ErrorRate float64   `json:"errorRate"`
	Latency   float64   `json:"latency"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
	IsHealthy bool      `json:"isHealthy"`
	Error     string    `json:"error,omitempty"`
}

// Rollout is a staged exposure of ModelVersion to a growing share of users.
type Rollout struct {
	ID                string
	Name              string
	Description       string
	ModelVersion      string
	Status            RolloutStatus
	Schedule          Schedule
	CurrentPercentage int
	TargetPercentage  int
	HealthMetrics     *HealthMetrics
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TargetPercentage returns the percentage the schedule calls for at now: the percentage of the
// first stage whose cumulative window has not fully elapsed, or FullPercentage once every stage
// has. A stage's percentage applies for the whole of its window, from the moment the previous
// stage ends. A schedule that has not started targets 0.
func TargetPercentage(s Schedule, now time.Time) int {
	if s.StartTime == nil {
		return 0
	}
	elapsedHours := now.Sub(*s.StartTime).Hours()
	var cumulative float64
	for _, st := range s.Stages {
		cumulative += st.DurationHours
		if elapsedHours < cumulative {
			return st.Percentage
		}
	}
	return FullPercentage
}

// Includes reports whether userID falls inside the rollout's live cohort. Only in-progress
// rollouts include anyone.
func (r *Rollout) Includes(userID string) bool {
	if r == nil || r.Status != StatusInProgress {
		return false
	}
	return bucketing.Percentile(userID) < r.CurrentPercentage
}

// Deletable reports whether the rollout may be deleted. In-progress rollouts must be rolled back first.
func (r *Rollout) Deletable() bool {
	return r.Status != StatusInProgress
}
