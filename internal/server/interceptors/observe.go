package interceptors

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"experimentation-control-plane/internal/platform/logger"
)

var (
	rpcRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ecp", Subsystem: "grpc", Name: "requests_total", Help: "Unary RPCs handled, by method and status code."},
		[]string{"method", "code"},
	)
	rpcDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "ecp", Subsystem: "grpc", Name: "request_duration_seconds", Help: "Unary RPC latency.", Buckets: prometheus.DefBuckets},
		[]string{"method"},
	)
)

func init() {
	_ = prometheus.Register(rpcRequests)
	_ = prometheus.Register(rpcDuration)
}

// ObserveUnary returns a unary server interceptor that counts and times each RPC and logs it.
// Internal and Unknown failures are logged at error level, other failures at warn, successes at debug.
// skipMethods is the set of full method names not to log (e.g. HealthCheck); they are still counted.
func ObserveUnary(log *logger.Logger, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	if log == nil {
		log = logger.Nop()
	}
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start)
		code := status.Code(err)
		rpcRequests.WithLabelValues(info.FullMethod, code.String()).Inc()
		rpcDuration.WithLabelValues(info.FullMethod).Observe(elapsed.Seconds())
		if skipMethods[info.FullMethod] {
			return resp, err
		}
		requestID, _ := GetRequestID(ctx)
		kv := []interface{}{"method", info.FullMethod, "code", code.String(), "duration_ms", elapsed.Milliseconds(), "request_id", requestID}
		switch code {
		case codes.OK:
			log.Debug("rpc handled", kv...)
		case codes.Internal, codes.Unknown:
			log.Error("rpc failed", append(kv, "error", err)...)
		default:
			log.Warn("rpc rejected", append(kv, "error", err)...)
		}
		return resp, err
	}
}
