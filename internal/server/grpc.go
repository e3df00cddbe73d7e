package server

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	auditv1 "experimentation-control-plane/api/audit/v1"
	experimentv1 "experimentation-control-plane/api/experiment/v1"
	healthv1 "experimentation-control-plane/api/health/v1"
	rolloutv1 "experimentation-control-plane/api/rollout/v1"
	"experimentation-control-plane/internal/audit"
	audithandler "experimentation-control-plane/internal/audit/handler"
	auditrepo "experimentation-control-plane/internal/audit/repository"
	experimenthandler "experimentation-control-plane/internal/experiment/handler"
	experimentservice "experimentation-control-plane/internal/experiment/service"
	healthhandler "experimentation-control-plane/internal/health/handler"
	"experimentation-control-plane/internal/platform/logger"
	rollouthandler "experimentation-control-plane/internal/rollout/handler"
	rolloutservice "experimentation-control-plane/internal/rollout/service"
	"experimentation-control-plane/internal/server/interceptors"
)

// Deps holds optional service dependencies for gRPC handlers.
type Deps struct {
	// Experiments backs ExperimentService. If nil, experiment RPCs return Unimplemented.
	Experiments *experimentservice.Service
	// Rollouts backs RolloutService. If nil, rollout RPCs return Unimplemented.
	Rollouts *rolloutservice.Service
	// AuditRepo is the audit log repository for AuditService. If nil, ListAuditLogs returns Unimplemented.
	AuditRepo auditrepo.Repository
	// Health answers HealthService and the ops /readyz probe. If nil, a server with no checks is used.
	Health *healthhandler.Server
}

// Options configures the gRPC server built by NewGRPCServer.
type Options struct {
	Log *logger.Logger
	// AuditLogger records mutating RPCs. If nil, no RPCs are audited.
	AuditLogger audit.AuditLogger
}

// quietMethods are not logged per call; probes and the high-volume assignment path would drown everything else.
var quietMethods = map[string]bool{
	healthv1.HealthService_HealthCheck_FullMethodName:           true,
	healthpb.Health_Check_FullMethodName:                        true,
	experimentv1.ExperimentService_AssignVariant_FullMethodName: true,
	experimentv1.ExperimentService_TrackEvent_FullMethodName:    true,
	rolloutv1.RolloutService_ShouldUseNewVersion_FullMethodName: true,
	rolloutv1.RolloutService_CheckRollout_FullMethodName:        true,
}

// unauditedMethods are mutating by name but too frequent or operationally irrelevant to audit.
var unauditedMethods = map[string]bool{
	healthv1.HealthService_HealthCheck_FullMethodName:           true,
	experimentv1.ExperimentService_AssignVariant_FullMethodName: true,
	experimentv1.ExperimentService_TrackEvent_FullMethodName:    true,
}

// NewGRPCServer returns a gRPC server with tracing and the identity, observe and audit interceptors, in that order.
func NewGRPCServer(opts Options) *grpc.Server {
	return grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.IdentityUnary(),
			interceptors.ObserveUnary(opts.Log, quietMethods),
			interceptors.AuditUnary(opts.AuditLogger, unauditedMethods),
		),
	)
}

// RegisterServices registers all gRPC services with the given server and returns the standard
// grpc.health.v1 server so callers can flip it to NOT_SERVING on shutdown.
//
// Service → handler mapping:
//   - ExperimentService → internal/experiment/handler
//   - RolloutService    → internal/rollout/handler
//   - AuditService      → internal/audit/handler
//   - HealthService     → internal/health/handler
//   - grpc.health.v1    → google.golang.org/grpc/health
func RegisterServices(s grpc.ServiceRegistrar, deps Deps) *health.Server {
	experimentv1.RegisterExperimentServiceServer(s, experimenthandler.NewServer(deps.Experiments))
	rolloutv1.RegisterRolloutServiceServer(s, rollouthandler.NewServer(deps.Rollouts))
	auditv1.RegisterAuditServiceServer(s, audithandler.NewServer(deps.AuditRepo))
	hs := deps.Health
	if hs == nil {
		hs = healthhandler.NewServer(nil, nil, nil)
	}
	healthv1.RegisterHealthServiceServer(s, hs)

	std := health.NewServer()
	std.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, std)
	return std
}
