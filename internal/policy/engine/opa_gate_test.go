package engine

import (
	"context"
	"reflect"
	"testing"

	"experimentation-control-plane/internal/rollout/health"
)

func newGate(t *testing.T) *HealthGate {
	t.Helper()
	g, err := NewHealthGate(context.Background())
	if err != nil {
		t.Fatalf("NewHealthGate: %v", err)
	}
	return g
}

func TestHealthGate_HealthCheck(t *testing.T) {
	if err := newGate(t).HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestHealthGate_Evaluate(t *testing.T) {
	g := newGate(t)
	tests := []struct {
		name       string
		metrics    health.Metrics
		healthy    bool
		violations []string
	}{
		{"placeholder reading", health.Metrics{ErrorRate: 0.01, Latency: 50, Accuracy: 0.85}, true, nil},
		{"error rate too high", health.Metrics{ErrorRate: 0.10, Latency: 50, Accuracy: 0.85}, false, []string{"error_rate"}},
		{"error rate at threshold", health.Metrics{ErrorRate: 0.05, Latency: 50, Accuracy: 0.85}, false, []string{"error_rate"}},
		{"latency at threshold", health.Metrics{ErrorRate: 0.01, Latency: 200, Accuracy: 0.85}, false, []string{"latency"}},
		{"latency just under", health.Metrics{ErrorRate: 0.01, Latency: 199.9, Accuracy: 0.85}, true, nil},
		{"accuracy at threshold", health.Metrics{ErrorRate: 0.01, Latency: 50, Accuracy: 0.75}, false, []string{"accuracy"}},
		{"everything bad", health.Metrics{ErrorRate: 0.5, Latency: 900, Accuracy: 0.1}, false, []string{"accuracy", "error_rate", "latency"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := g.Evaluate(context.Background(), tt.metrics)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if v.Healthy != tt.healthy {
				t.Errorf("Healthy = %v, want %v", v.Healthy, tt.healthy)
			}
			if !reflect.DeepEqual(v.Violations, tt.violations) {
				t.Errorf("Violations = %v, want %v", v.Violations, tt.violations)
			}
		})
	}
}
