package interceptors

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestIdentityUnary_CopiesHeaders(t *testing.T) {
	md := metadata.Pairs("x-user-id", " user-7 ", "x-request-id", "req-42")
	ctx := metadata.NewIncomingContext(context.Background(), md)

	var gotUser, gotRequest string
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		gotUser, _ = GetUserID(ctx)
		gotRequest, _ = GetRequestID(ctx)
		return nil, nil
	}
	if _, err := IdentityUnary()(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/test.Service/Method"}, handler); err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if gotUser != "user-7" {
		t.Errorf("user_id = %q, want %q", gotUser, "user-7")
	}
	if gotRequest != "req-42" {
		t.Errorf("request_id = %q, want %q", gotRequest, "req-42")
	}
}

func TestIdentityUnary_GeneratesRequestID(t *testing.T) {
	var gotRequest string
	var hasUser bool
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		gotRequest, _ = GetRequestID(ctx)
		_, hasUser = GetUserID(ctx)
		return nil, nil
	}
	if _, err := IdentityUnary()(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/test.Service/Method"}, handler); err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if gotRequest == "" {
		t.Error("request_id should be generated when the header is absent")
	}
	if hasUser {
		t.Error("user_id should be unset without the header")
	}
}
