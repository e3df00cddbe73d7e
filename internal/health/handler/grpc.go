package handler

import (
	"context"
	"time"

	healthv1 "experimentation-control-plane/api/health/v1"
)

const checkTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc adapts a function, such as a Redis PING, to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

// PolicyChecker verifies the health gate policy still compiles and evaluates.
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server implements HealthService for readiness. The same checks back the ops /readyz endpoint.
type Server struct {
	healthv1.UnimplementedHealthServiceServer
	db     Pinger
	redis  Pinger
	policy PolicyChecker
}

// NewServer returns a Health server. Nil dependencies are not checked; with none the server is always SERVING.
func NewServer(db, redis Pinger, policy PolicyChecker) *Server {
	return &Server{db: db, redis: redis, policy: policy}
}

// HealthCheck never returns a gRPC error; failed dependencies turn the status to NOT_SERVING.
func (s *Server) HealthCheck(ctx context.Context, req *healthv1.HealthCheckRequest) (*healthv1.HealthCheckResponse, error) {
	st, checks := s.Check(ctx)
	return &healthv1.HealthCheckResponse{Status: st, Checks: checks}, nil
}

// Check runs every configured dependency check and returns the overall status with per-check results.
func (s *Server) Check(ctx context.Context) (healthv1.ServingStatus, map[string]string) {
	checks := map[string]string{}
	st := healthv1.ServingStatus_SERVING
	run := func(name string, fn func(context.Context) error) {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		defer cancel()
		if err := fn(cctx); err != nil {
			checks[name] = err.Error()
			st = healthv1.ServingStatus_NOT_SERVING
			return
		}
		checks[name] = "ok"
	}
	if s.db != nil {
		run("database", s.db.PingContext)
	}
	if s.redis != nil {
		run("redis", s.redis.PingContext)
	}
	if s.policy != nil {
		run("policy", s.policy.HealthCheck)
	}
	return st, checks
}
