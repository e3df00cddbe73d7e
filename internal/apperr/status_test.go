package apperr

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatus(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"validation", Validation("allocation sums to 0.9"), codes.InvalidArgument},
		{"not found", NotFound("experiment e-1 not found"), codes.NotFound},
		{"invalid state", InvalidState("experiment is running"), codes.FailedPrecondition},
		{"wrapped kind", fmt.Errorf("svc: %w", NotFound("x")), codes.NotFound},
		{"plain", errors.New("connection reset"), codes.Internal},
		{"already a status", status.Error(codes.Unavailable, "down"), codes.Unavailable},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := status.Code(ToStatus(tc.err)); got != tc.want {
				t.Errorf("code = %v, want %v", got, tc.want)
			}
		})
	}
	if ToStatus(nil) != nil {
		t.Error("ToStatus(nil) should be nil")
	}
}
