// Package app wires configuration, stores, telemetry and services into the processes under cmd/.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"experimentation-control-plane/internal/config"
	healthhandler "experimentation-control-plane/internal/health/handler"
	"experimentation-control-plane/internal/platform/logger"
	"experimentation-control-plane/internal/policy/engine"
	telemetryotel "experimentation-control-plane/internal/telemetry/otel"
)

// App holds the long-lived dependencies shared by the server, worker and seed commands.
type App struct {
	Cfg      *config.Config
	Log      *logger.Logger
	DB       *sql.DB
	Redis    *redis.Client
	Gate     *engine.HealthGate
	Repos    Repos
	Services Services

	otel    *telemetryotel.Providers
	closers []func(context.Context) error
}

// New opens Postgres when DATABASE_URL is set (in-memory stores otherwise), Redis when REDIS_URL is set,
// the OTLP providers, and builds both services. Close releases everything New opened.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	if log == nil {
		log = logger.Nop()
	}
	a := &App{Cfg: cfg, Log: log}

	if err := a.openTelemetry(ctx); err != nil {
		return nil, err
	}
	if err := a.openDB(); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	if err := a.openRedis(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	gate, err := engine.NewHealthGate(ctx)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("app: health gate: %w", err)
	}
	a.Gate = gate

	a.Repos = wireRepos(a.DB)
	svcs, err := wireServices(a, gate)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.Services = svcs
	return a, nil
}

// Health returns the readiness checker over the configured stores and the health gate.
func (a *App) Health() *healthhandler.Server {
	var db, rdb healthhandler.Pinger
	if a.DB != nil {
		db = a.DB
	}
	if a.Redis != nil {
		client := a.Redis
		rdb = healthhandler.PingerFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
	}
	return healthhandler.NewServer(db, rdb, a.Gate)
}

// Close releases resources in reverse order of acquisition. Safe on a partially built App.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	a.Log.Sync()
	return errors.Join(errs...)
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}
