package app

import (
	"fmt"

	"experimentation-control-plane/internal/audit"
	"experimentation-control-plane/internal/config"
	"experimentation-control-plane/internal/experiment/cache"
	experimentservice "experimentation-control-plane/internal/experiment/service"
	"experimentation-control-plane/internal/lock"
	"experimentation-control-plane/internal/platform/logger"
	"experimentation-control-plane/internal/policy/engine"
	"experimentation-control-plane/internal/rollout/health"
	rolloutservice "experimentation-control-plane/internal/rollout/service"
	"experimentation-control-plane/internal/server/interceptors"
)

type Services struct {
	Experiments *experimentservice.Service
	Rollouts    *rolloutservice.Service
	// AuditLogger is shared with the gRPC audit interceptor.
	AuditLogger *audit.Logger
}

func wireServices(a *App, gate engine.Gate) (Services, error) {
	provider, err := newHealthProvider(a.Cfg, a.Log)
	if err != nil {
		return Services{}, err
	}
	auditLogger := audit.NewLogger(a.Repos.Audit, interceptors.ClientIP, a.Log)
	emitter := a.emitter()

	expOpts := []experimentservice.Option{
		experimentservice.WithAudit(auditLogger),
		experimentservice.WithEmitter(emitter),
		experimentservice.WithLogger(a.Log),
	}
	var locker lock.Locker = lock.NewLocal()
	if a.Redis != nil {
		expOpts = append(expOpts, experimentservice.WithCache(cache.NewRedisCache(a.Redis, a.Cfg.AssignmentCacheTTL)))
		locker = lock.NewRedis(a.Redis, a.Cfg.RolloutLockTTL)
	}

	return Services{
		Experiments: experimentservice.New(a.Repos.Experiments, expOpts...),
		Rollouts: rolloutservice.New(a.Repos.Rollouts, provider, gate,
			rolloutservice.WithLocker(locker),
			rolloutservice.WithHealthTimeout(a.Cfg.HealthCheckTimeout),
			rolloutservice.WithAudit(auditLogger),
			rolloutservice.WithEmitter(emitter),
			rolloutservice.WithLogger(a.Log),
		),
		AuditLogger: auditLogger,
	}, nil
}

func newHealthProvider(cfg *config.Config, log *logger.Logger) (health.Provider, error) {
	switch cfg.HealthProvider {
	case config.HealthProviderPrometheus:
		p, err := health.NewPrometheusProvider(cfg.PrometheusURL, health.Queries{
			ErrorRate: cfg.PromErrorRateQuery,
			Latency:   cfg.PromLatencyQuery,
			Accuracy:  cfg.PromAccuracyQuery,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("app: prometheus provider: %w", err)
		}
		return p, nil
	default:
		log.Warn("using static model health readings", "provider", config.HealthProviderStatic)
		return health.NewStaticProvider(), nil
	}
}
