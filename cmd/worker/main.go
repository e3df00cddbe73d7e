// Worker evaluates in-progress rollouts on EVALUATION_INTERVAL: it advances healthy rollouts through
// their stages and rolls back unhealthy ones. Writes are guarded by the rollout's stored status, so a
// worker never overwrites a transition made by the server or another worker. With REDIS_URL set the
// rollout lock is shared too, which keeps workers from evaluating the same rollout twice.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"experimentation-control-plane/internal/app"
	"experimentation-control-plane/internal/config"
	"experimentation-control-plane/internal/platform/logger"
	"experimentation-control-plane/internal/rollout/scheduler"
	"experimentation-control-plane/internal/server"
)

func main() {
	once := flag.Bool("once", false, "Run a single evaluation pass and exit")
	opsAddr := flag.String("ops-addr", "", "Serve /healthz, /readyz and /metrics on this address (disabled when empty)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	if cfg.RedisURL == "" {
		lg.Warn("REDIS_URL not set; rollout lock is process-local, concurrent writers are resolved by the store")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("startup failed", "error", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			lg.Warn("close failed", "error", err)
		}
	}()

	sched := scheduler.New(a.Services.Rollouts, scheduler.Config{
		Interval:    cfg.EvaluationInterval,
		Concurrency: cfg.EvaluationConcurrency,
		Timeout:     cfg.EvaluationTimeout,
	}, lg)

	if *once {
		sum, err := sched.RunOnce(ctx)
		if err != nil {
			lg.Error("evaluation pass failed", "error", err)
			return
		}
		lg.Info("evaluation pass done", "actions", sum.Actions, "errors", sum.Errors)
		return
	}

	if *opsAddr != "" {
		ops := &http.Server{
			Addr:              *opsAddr,
			Handler:           server.NewOpsRouter(cfg.ServiceName+"-worker", a.Health()),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				lg.Error("ops HTTP server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = ops.Shutdown(shutdownCtx)
		}()
	}

	if err := sched.Run(ctx); err != nil {
		lg.Error("scheduler exited", "error", err)
	}
}
