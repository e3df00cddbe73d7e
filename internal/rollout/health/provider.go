// Package health reads the live metrics of a model version for the rollout health gate.
package health

import (
	"context"
)

// Metrics is a single reading for a model version. Latency is in milliseconds.
type Metrics struct {
	ErrorRate float64
	Latency   float64
	Accuracy  float64
}

// Provider returns the current metrics of a model version.
type Provider interface {
	ModelMetrics(ctx context.Context, modelVersion string) (Metrics, error)
}

// StaticProvider always reports the same reading. It stands in when no metrics backend is configured.
type StaticProvider struct {
	Reading Metrics
}

// NewStaticProvider returns a provider reporting a healthy placeholder reading.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{Reading: Metrics{ErrorRate: 0.01, Latency: 50, Accuracy: 0.85}}
}

func (p *StaticProvider) ModelMetrics(ctx context.Context, modelVersion string) (Metrics, error) {
	if err := ctx.Err(); err != nil {
		return Metrics{}, err
	}
	return p.Reading, nil
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, modelVersion string) (Metrics, error)

func (f ProviderFunc) ModelMetrics(ctx context.Context, modelVersion string) (Metrics, error) {
	return f(ctx, modelVersion)
}
