package interceptors

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestObserveUnary_CountsByCode(t *testing.T) {
	const method = "/test.ObserveService/Method"
	interceptor := ObserveUnary(nil, nil)
	info := &grpc.UnaryServerInfo{FullMethod: method}

	before := testutil.ToFloat64(rpcRequests.WithLabelValues(method, codes.NotFound.String()))
	_, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.NotFound, "experiment not found")
	})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("code = %v, want NotFound", status.Code(err))
	}
	after := testutil.ToFloat64(rpcRequests.WithLabelValues(method, codes.NotFound.String()))
	if after-before != 1 {
		t.Errorf("requests_total delta = %v, want 1", after-before)
	}
}

func TestObserveUnary_PassesThrough(t *testing.T) {
	interceptor := ObserveUnary(nil, map[string]bool{"/test.ObserveService/Skip": true})
	resp, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/test.ObserveService/Skip"}, okHandler)
	if err != nil || resp != "success" {
		t.Errorf("resp = %v, err = %v", resp, err)
	}
}
