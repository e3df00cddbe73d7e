package interceptors

import (
	"context"
	"testing"
)

func TestWithIdentity(t *testing.T) {
	ctx := WithIdentity(context.Background(), "user-1", "req-1")

	userID, ok := GetUserID(ctx)
	if !ok || userID != "user-1" {
		t.Errorf("GetUserID = %q, %v; want %q, true", userID, ok, "user-1")
	}
	requestID, ok := GetRequestID(ctx)
	if !ok || requestID != "req-1" {
		t.Errorf("GetRequestID = %q, %v; want %q, true", requestID, ok, "req-1")
	}
}

func TestGetUserID_Missing(t *testing.T) {
	if v, ok := GetUserID(context.Background()); ok || v != "" {
		t.Errorf("GetUserID = %q, %v; want \"\", false", v, ok)
	}
	// an empty header value counts as missing
	ctx := WithIdentity(context.Background(), "", "req-1")
	if _, ok := GetUserID(ctx); ok {
		t.Error("GetUserID should report false for an empty user id")
	}
}

func TestResolveUserID(t *testing.T) {
	ctx := WithIdentity(context.Background(), "header-user", "req-1")
	testCases := []struct {
		name        string
		ctx         context.Context
		fromRequest string
		want        string
	}{
		{"request wins", ctx, "body-user", "body-user"},
		{"header fallback", ctx, "", "header-user"},
		{"neither", context.Background(), "", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveUserID(tc.ctx, tc.fromRequest); got != tc.want {
				t.Errorf("ResolveUserID = %q, want %q", got, tc.want)
			}
		})
	}
}
