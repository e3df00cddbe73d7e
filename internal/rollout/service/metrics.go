package service

import "github.com/prometheus/client_golang/prometheus"

var (
	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ecp", Subsystem: "rollout", Name: "evaluations_total", Help: "Rollout evaluations, by resulting action (noop, advanced, completed, rolled_back)."},
		[]string{"action"},
	)
	healthChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ecp", Subsystem: "rollout", Name: "health_checks_total", Help: "Health gate checks, by verdict (healthy, unhealthy, error, timeout)."},
		[]string{"verdict"},
	)
	conflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "ecp", Subsystem: "rollout", Name: "write_conflicts_total", Help: "Rollout writes refused because another process changed the rollout first."},
	)
	currentPercentage = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: "ecp", Subsystem: "rollout", Name: "current_percentage", Help: "Live exposure percentage of in-progress rollouts."},
		[]string{"rollout", "model_version"},
	)
)

func init() {
	_ = prometheus.Register(evaluationsTotal)
	_ = prometheus.Register(healthChecksTotal)
	_ = prometheus.Register(conflictsTotal)
	_ = prometheus.Register(currentPercentage)
}
