package engine

import (
	"context"

	"experimentation-control-plane/internal/rollout/health"
)

// Verdict is the outcome of gating one health reading.
type Verdict struct {
	Healthy bool
	// Violations names the thresholds the reading failed, sorted.
	Violations []string
}

// Gate decides whether a model's health reading permits a rollout to advance.
type Gate interface {
	Evaluate(ctx context.Context, m health.Metrics) (Verdict, error)
}
