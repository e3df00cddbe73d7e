package interceptors

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const (
	userIDHeader    = "x-user-id"
	requestIDHeader = "x-request-id"
)

// IdentityUnary returns a unary server interceptor that copies the caller's x-user-id and
// x-request-id metadata into the context. A request id is generated when the caller sent none.
// The user id is trusted as given; callers sit behind the serving path that authenticated them.
func IdentityUnary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		userID := firstHeader(ctx, userIDHeader)
		requestID := firstHeader(ctx, requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		return handler(WithIdentity(ctx, userID, requestID), req)
	}
}

// firstHeader returns the first non-empty trimmed value of key in incoming metadata.
func firstHeader(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, v := range md.Get(key) {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
