package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"experimentation-control-plane/internal/app"
	"experimentation-control-plane/internal/config"
	"experimentation-control-plane/internal/platform/logger"
	"experimentation-control-plane/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("startup failed", "error", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			lg.Warn("close failed", "error", err)
		}
	}()

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		lg.Fatal("listen failed", "addr", cfg.GRPCAddr, "error", err)
	}

	healthSrv := a.Health()
	s := server.NewGRPCServer(server.Options{Log: lg, AuditLogger: a.Services.AuditLogger})
	std := server.RegisterServices(s, server.Deps{
		Experiments: a.Services.Experiments,
		Rollouts:    a.Services.Rollouts,
		AuditRepo:   a.Repos.Audit,
		Health:      healthSrv,
	})

	ops := &http.Server{
		Addr:              cfg.OpsHTTPAddr,
		Handler:           server.NewOpsRouter(cfg.ServiceName, healthSrv),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		lg.Info("gRPC server listening", "addr", cfg.GRPCAddr)
		errCh <- s.Serve(lis)
	}()
	go func() {
		lg.Info("ops HTTP server listening", "addr", cfg.OpsHTTPAddr)
		if err := ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		lg.Error("server stopped unexpectedly", "error", err)
	}

	lg.Info("shutting down", "drain", cfg.ShutdownDrain)
	std.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	time.Sleep(cfg.ShutdownDrain)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := ops.Shutdown(shutdownCtx); err != nil {
		lg.Warn("ops shutdown failed", "error", err)
	}
	stopped := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		s.Stop()
	}
	lg.Info("gRPC server stopped")
}
