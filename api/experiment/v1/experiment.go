// Package experimentv1 defines the ecp.experiment.v1 wire messages and the ExperimentService descriptor.
// The contract is experiment.proto; these types carry it over the JSON codec in api/rpc, so field
// names follow the proto JSON mapping.
package experimentv1

import (
	"encoding/json"
	"time"
)

// Variant is one arm of an experiment. Config is opaque to the engine.
type Variant struct {
	Key    string          `json:"key"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Allocation is the traffic share of one variant key.
type Allocation struct {
	Key      string  `json:"key"`
	Fraction float64 `json:"fraction"`
}

type Experiment struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Description       string       `json:"description,omitempty"`
	Status            string       `json:"status"`
	Variants          []Variant    `json:"variants"`
	TrafficAllocation []Allocation `json:"trafficAllocation"`
	SuccessMetric     string       `json:"successMetric"`
	MinimumSampleSize int32        `json:"minimumSampleSize"`
	ConfidenceLevel   float64      `json:"confidenceLevel"`
	CreatedBy         string       `json:"createdBy,omitempty"`
	StartDate         *time.Time   `json:"startDate,omitempty"`
	EndDate           *time.Time   `json:"endDate,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

type VariantResult struct {
	Variant      string  `json:"variant"`
	Users        int64   `json:"users"`
	SuccessRate  float64 `json:"successRate"`
	SuccessCount int64   `json:"successCount"`
	TotalEvents  int64   `json:"totalEvents"`
}

type CreateExperimentRequest struct {
	Name              string       `json:"name"`
	Description       string       `json:"description,omitempty"`
	Variants          []Variant    `json:"variants"`
	TrafficAllocation []Allocation `json:"trafficAllocation"`
	SuccessMetric     string       `json:"successMetric"`
	// MinimumSampleSize and ConfidenceLevel fall back to server defaults when zero.
	MinimumSampleSize int32   `json:"minimumSampleSize,omitempty"`
	ConfidenceLevel   float64 `json:"confidenceLevel,omitempty"`
}

// ExperimentResponse is returned by every RPC that yields a single experiment.
type ExperimentResponse struct {
	Experiment *Experiment `json:"experiment"`
}

type ListExperimentsRequest struct{}

type ListExperimentsResponse struct {
	Experiments []*Experiment `json:"experiments"`
}

type GetExperimentRequest struct {
	ID string `json:"id"`
}

type StartExperimentRequest struct {
	ID string `json:"id"`
}

type PauseExperimentRequest struct {
	ID string `json:"id"`
}

type ResumeExperimentRequest struct {
	ID string `json:"id"`
}

type CompleteExperimentRequest struct {
	ID string `json:"id"`
}

type DeleteExperimentRequest struct {
	ID string `json:"id"`
}

type DeleteExperimentResponse struct{}

// AssignVariantRequest identifies the caller by UserID, or by the x-user-id header when UserID is empty.
type AssignVariantRequest struct {
	ExperimentID string `json:"experimentId"`
	UserID       string `json:"userId,omitempty"`
}

type AssignVariantResponse struct {
	Variant string `json:"variant"`
}

type GetUserVariantRequest struct {
	ExperimentID string `json:"experimentId"`
	UserID       string `json:"userId,omitempty"`
}

type GetUserVariantResponse struct {
	Variant  string `json:"variant,omitempty"`
	Assigned bool   `json:"assigned"`
}

type TrackEventRequest struct {
	ExperimentID string          `json:"experimentId"`
	UserID       string          `json:"userId,omitempty"`
	EventType    string          `json:"eventType"`
	EventData    json.RawMessage `json:"eventData,omitempty"`
}

// TrackEventResponse reports whether the event was recorded. Events from unassigned users are dropped.
type TrackEventResponse struct {
	Recorded bool `json:"recorded"`
}

type GetResultsRequest struct {
	ExperimentID string `json:"experimentId"`
}

type GetResultsResponse struct {
	ExperimentID      string          `json:"experimentId"`
	Results           []VariantResult `json:"results"`
	Significance      float64         `json:"significance"`
	Winner            string          `json:"winner,omitempty"`
	IsSignificant     bool            `json:"isSignificant"`
	MinimumSampleSize int32           `json:"minimumSampleSize"`
	SampleSizeReached bool            `json:"sampleSizeReached"`
}
