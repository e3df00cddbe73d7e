package interceptors

import (
	"context"
	"net"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"experimentation-control-plane/internal/audit"
)

const anonymousActor = "anonymous"

// rpcAuditMetadata is the JSON shape stored in AuditLog.Metadata for RPC entries.
type rpcAuditMetadata struct {
	FullMethod string `json:"full_method"`
	StatusCode string `json:"status_code"`
	RequestID  string `json:"request_id,omitempty"`
}

// AuditUnary returns a unary server interceptor that records an audit log entry after each mutating RPC.
// Read-only methods (get, list, check) and skipMethods are not audited. Entries are written even when
// the RPC failed, with the status code in metadata. Writing is best-effort and never fails the RPC.
func AuditUnary(logger audit.AuditLogger, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		if logger == nil || skipMethods[info.FullMethod] {
			return resp, err
		}
		ar := audit.ParseFullMethod(info.FullMethod)
		if audit.IsReadOnly(ar.Action) {
			return resp, err
		}
		actor, ok := GetUserID(ctx)
		if !ok {
			actor = anonymousActor
		}
		requestID, _ := GetRequestID(ctx)
		logger.LogEvent(ctx, ar.Resource, resourceID(req), ar.Action, actor, rpcAuditMetadata{
			FullMethod: info.FullMethod,
			StatusCode: status.Code(err).String(),
			RequestID:  requestID,
		})
		return resp, err
	}
}

// resourceID extracts the experiment or rollout id from a request message, or "" when it carries none.
func resourceID(req interface{}) string {
	switch r := req.(type) {
	case interface{ GetID() string }:
		return r.GetID()
	case interface{ GetExperimentID() string }:
		return r.GetExperimentID()
	case interface{ GetRolloutID() string }:
		return r.GetRolloutID()
	default:
		return ""
	}
}

// ClientIP returns the client IP from gRPC metadata (x-forwarded-for, x-real-ip) or peer, or "unknown".
func ClientIP(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get("x-forwarded-for"); len(vals) > 0 {
			if s := strings.TrimSpace(vals[0]); s != "" {
				if i := strings.Index(s, ","); i > 0 {
					s = strings.TrimSpace(s[:i])
				}
				return s
			}
		}
		if vals := md.Get("x-real-ip"); len(vals) > 0 {
			if s := strings.TrimSpace(vals[0]); s != "" {
				return s
			}
		}
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		if host, _, err := net.SplitHostPort(p.Addr.String()); err == nil {
			return host
		}
		return p.Addr.String()
	}
	return "unknown"
}
