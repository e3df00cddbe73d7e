package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	"experimentation-control-plane/internal/rollout/health"
)

// Rego policy for the rollout health gate. A reading is healthy when it violates no threshold.
// Missing inputs count as violations.
const healthRegoPolicy = `package ecp.rollout.health

max_error_rate := 0.05
max_latency_ms := 200
min_accuracy := 0.75

default healthy := false

healthy if {
	count(violations) == 0
}

violations contains "error_rate" if {
	not input.error_rate < max_error_rate
}

violations contains "latency" if {
	not input.latency_ms < max_latency_ms
}

violations contains "accuracy" if {
	not input.accuracy > min_accuracy
}
`

const healthQuery = "healthy = data.ecp.rollout.health.healthy; violations = data.ecp.rollout.health.violations"

// HealthGate evaluates health readings against the compiled Rego policy.
type HealthGate struct {
	query rego.PreparedEvalQuery
}

var _ Gate = (*HealthGate)(nil)

// NewHealthGate compiles the policy once. Evaluations reuse the prepared query.
func NewHealthGate(ctx context.Context) (*HealthGate, error) {
	compiler, err := ast.CompileModules(map[string]string{"health.rego": healthRegoPolicy})
	if err != nil {
		return nil, fmt.Errorf("compile health policy: %w", err)
	}
	pq, err := rego.New(
		rego.Query(healthQuery),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare health policy: %w", err)
	}
	return &HealthGate{query: pq}, nil
}

// Evaluate gates m. On error the verdict is unhealthy.
func (g *HealthGate) Evaluate(ctx context.Context, m health.Metrics) (Verdict, error) {
	input := map[string]interface{}{
		"error_rate": m.ErrorRate,
		"latency_ms": m.Latency,
		"accuracy":   m.Accuracy,
	}
	rs, err := g.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return Verdict{}, fmt.Errorf("eval health policy: %w", err)
	}
	if len(rs) == 0 {
		return Verdict{}, fmt.Errorf("health policy returned no result")
	}
	healthy, ok := rs[0].Bindings["healthy"].(bool)
	if !ok {
		return Verdict{}, fmt.Errorf("health policy: healthy is %T, want bool", rs[0].Bindings["healthy"])
	}
	v := Verdict{Healthy: healthy}
	if raw, ok := rs[0].Bindings["violations"].([]interface{}); ok {
		for _, item := range raw {
			if s, ok := item.(string); ok {
				v.Violations = append(v.Violations, s)
			}
		}
		sort.Strings(v.Violations)
	}
	return v, nil
}

// HealthCheck verifies the prepared policy still evaluates and accepts a known good reading.
// Does not call any metrics backend. Returns nil on success.
func (g *HealthGate) HealthCheck(ctx context.Context) error {
	v, err := g.Evaluate(ctx, health.Metrics{ErrorRate: 0, Latency: 1, Accuracy: 1})
	if err != nil {
		return err
	}
	if !v.Healthy {
		return fmt.Errorf("health policy rejected a known good reading: %v", v.Violations)
	}
	return nil
}
