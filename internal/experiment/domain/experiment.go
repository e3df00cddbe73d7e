package domain

import (
	"encoding/json"
	"math"
	"time"

	"experimentation-control-plane/internal/apperr"
)

// ExperimentStatus is the lifecycle state of an experiment.
type ExperimentStatus string

const (
	StatusDraft     ExperimentStatus = "draft"
	StatusRunning   ExperimentStatus = "running"
	StatusPaused    ExperimentStatus = "paused"
	StatusCompleted ExperimentStatus = "completed"
)

const (
	DefaultMinimumSampleSize = 100
	DefaultConfidenceLevel   = 0.95
	// AllocationTolerance is how far the allocation sum may drift from 1.0.
	AllocationTolerance = 0.01
	// ControlVariant is returned for unknown or non-running experiments. It is never persisted.
	ControlVariant = "control"
	// SuccessEventType always counts as a success in addition to the experiment's success metric.
	SuccessEventType = "success"
)

// Variant is one arm of an experiment. Config is an opaque payload handed back to clients.
type Variant struct {
	Key    string          `json:"key" validate:"max=100"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Allocation is the share of assigned traffic routed to the variant named by Key.
type Allocation struct {
	Key      string  `json:"key" validate:"max=100"`
	Fraction float64 `json:"fraction"`
}

// Allocations is an ordered traffic split. Order is significant: it drives the cumulative walk.
type Allocations []Allocation

// Sum returns the total of all fractions.
func (a Allocations) Sum() float64 {
	var s float64
	for _, e := range a {
		s += e.Fraction
	}
	return s
}

// Select returns the first key whose cumulative fraction is >= f, walking in declared order.
// Falls back to the first key when rounding leaves f above the final cumulative sum; "" if empty.
func (a Allocations) Select(f float64) string {
	if len(a) == 0 {
		return ""
	}
	var cumulative float64
	for _, e := range a {
		cumulative += e.Fraction
		if f <= cumulative {
			return e.Key
		}
	}
	return a[0].Key
}

// Experiment is an A/B test definition.
type Experiment struct {
	ID                string
	Name              string
	Description       string
	Status            ExperimentStatus
	Variants          []Variant
	TrafficAllocation Allocations
	SuccessMetric     string
	MinimumSampleSize int
	ConfidenceLevel   float64
	CreatedBy         string
	StartDate         *time.Time
	EndDate           *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ValidateConfig checks the variant/allocation invariants: at least one allocation entry, no
// duplicate or empty keys, no negative fraction, sum within AllocationTolerance of 1.0, and
// every variant key allocated.
func ValidateConfig(variants []Variant, allocation Allocations) error {
	if len(allocation) == 0 {
		return apperr.Validation("traffic allocation must not be empty")
	}
	allocated := make(map[string]bool, len(allocation))
	for _, a := range allocation {
		if a.Key == "" {
			return apperr.Validation("traffic allocation key must not be empty")
		}
		if allocated[a.Key] {
			return apperr.Validation("duplicate traffic allocation key %q", a.Key)
		}
		if a.Fraction < 0 || math.IsNaN(a.Fraction) {
			return apperr.Validation("traffic allocation for %q must not be negative", a.Key)
		}
		allocated[a.Key] = true
	}
	if sum := allocation.Sum(); math.Abs(sum-1) > AllocationTolerance {
		return apperr.Validation("traffic allocation must sum to 1.0, got %.4f", sum)
	}
	seen := make(map[string]bool, len(variants))
	for _, v := range variants {
		if v.Key == "" {
			return apperr.Validation("variant key must not be empty")
		}
		if seen[v.Key] {
			return apperr.Validation("duplicate variant key %q", v.Key)
		}
		seen[v.Key] = true
		if !allocated[v.Key] {
			return apperr.Validation("variant %q has no traffic allocation", v.Key)
		}
	}
	return nil
}

// ApplyDefaults fills unset sample size and confidence level.
func (e *Experiment) ApplyDefaults() {
	if e.MinimumSampleSize == 0 {
		e.MinimumSampleSize = DefaultMinimumSampleSize
	}
	if e.ConfidenceLevel == 0 {
		e.ConfidenceLevel = DefaultConfidenceLevel
	}
}

// IsSuccess reports whether eventType counts toward the success rate.
func (e *Experiment) IsSuccess(eventType string) bool {
	return eventType == e.SuccessMetric || eventType == SuccessEventType
}

// CanTransition reports whether the state machine allows from -> to.
// draft -> running, running <-> paused, and any non-completed state -> completed.
func CanTransition(from, to ExperimentStatus) bool {
	switch to {
	case StatusRunning:
		return from == StatusDraft || from == StatusPaused
	case StatusPaused:
		return from == StatusRunning
	case StatusCompleted:
		return from == StatusDraft || from == StatusRunning || from == StatusPaused
	default:
		return false
	}
}

// Deletable reports whether the experiment may be deleted. Running experiments must be paused or completed first.
func (e *Experiment) Deletable() bool {
	return e.Status != StatusRunning
}

// Assignment is a user's sticky variant within one experiment.
type Assignment struct {
	ExperimentID string
	UserID       string
	Variant      string
	AssignedAt   time.Time
}

// Event is an append-only outcome record. Variant is copied from the assignment at write time.
type Event struct {
	ID           int64
	ExperimentID string
	UserID       string
	Variant      string
	EventType    string
	EventData    json.RawMessage
	CreatedAt    time.Time
}
