package interceptors

import (
	"context"
	"encoding/json"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	experimentv1 "experimentation-control-plane/api/experiment/v1"
	rolloutv1 "experimentation-control-plane/api/rollout/v1"
)

type auditCall struct {
	resource, resourceID, action, actor string
	metadata                            any
}

// mockAuditLogger records LogEvent calls.
type mockAuditLogger struct {
	calls []auditCall
}

func (m *mockAuditLogger) LogEvent(ctx context.Context, resource, resourceID, action, actor string, metadata any) {
	m.calls = append(m.calls, auditCall{resource, resourceID, action, actor, metadata})
}

func okHandler(ctx context.Context, req interface{}) (interface{}, error) {
	return "success", nil
}

func TestAuditUnary_SkipMethod(t *testing.T) {
	al := &mockAuditLogger{}
	skip := map[string]bool{experimentv1.ExperimentService_AssignVariant_FullMethodName: true}
	interceptor := AuditUnary(al, skip)

	ctx := WithIdentity(context.Background(), "user-1", "req-1")
	resp, err := interceptor(ctx, &experimentv1.AssignVariantRequest{ExperimentID: "exp-1"}, &grpc.UnaryServerInfo{
		FullMethod: experimentv1.ExperimentService_AssignVariant_FullMethodName,
	}, okHandler)
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if resp != "success" {
		t.Errorf("response = %v, want %q", resp, "success")
	}
	if len(al.calls) != 0 {
		t.Errorf("audit calls = %d, want 0", len(al.calls))
	}
}

func TestAuditUnary_ReadOnlySkipped(t *testing.T) {
	al := &mockAuditLogger{}
	interceptor := AuditUnary(al, nil)
	ctx := WithIdentity(context.Background(), "user-1", "req-1")

	for _, m := range []string{
		experimentv1.ExperimentService_GetExperiment_FullMethodName,
		experimentv1.ExperimentService_ListExperiments_FullMethodName,
		rolloutv1.RolloutService_ShouldUseNewVersion_FullMethodName,
		rolloutv1.RolloutService_CheckRollout_FullMethodName,
	} {
		if _, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: m}, okHandler); err != nil {
			t.Fatalf("%s: %v", m, err)
		}
	}
	if len(al.calls) != 0 {
		t.Errorf("audit calls = %d, want 0", len(al.calls))
	}
}

func TestAuditUnary_MutatingRequest(t *testing.T) {
	al := &mockAuditLogger{}
	interceptor := AuditUnary(al, nil)
	ctx := WithIdentity(context.Background(), "user-1", "req-1")

	_, err := interceptor(ctx, &experimentv1.StartExperimentRequest{ID: "exp-1"}, &grpc.UnaryServerInfo{
		FullMethod: experimentv1.ExperimentService_StartExperiment_FullMethodName,
	}, okHandler)
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if len(al.calls) != 1 {
		t.Fatalf("audit calls = %d, want 1", len(al.calls))
	}
	c := al.calls[0]
	if c.resource != "experiment" || c.resourceID != "exp-1" || c.action != "start" || c.actor != "user-1" {
		t.Errorf("call = %+v", c)
	}
	meta, err := json.Marshal(c.metadata)
	if err != nil {
		t.Fatalf("marshal metadata: %v", err)
	}
	want := `{"full_method":"/ecp.experiment.v1.ExperimentService/StartExperiment","status_code":"OK","request_id":"req-1"}`
	if string(meta) != want {
		t.Errorf("metadata = %s, want %s", meta, want)
	}
}

func TestAuditUnary_FailedRPCStillAudited(t *testing.T) {
	al := &mockAuditLogger{}
	interceptor := AuditUnary(al, nil)
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.FailedPrecondition, "cannot delete an in-progress rollout")
	}

	_, err := interceptor(context.Background(), &rolloutv1.DeleteRolloutRequest{ID: "r-1"}, &grpc.UnaryServerInfo{
		FullMethod: rolloutv1.RolloutService_DeleteRollout_FullMethodName,
	}, handler)
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("code = %v, want FailedPrecondition", status.Code(err))
	}
	if len(al.calls) != 1 {
		t.Fatalf("audit calls = %d, want 1", len(al.calls))
	}
	c := al.calls[0]
	if c.actor != anonymousActor {
		t.Errorf("actor = %q, want %q", c.actor, anonymousActor)
	}
	if c.metadata.(rpcAuditMetadata).StatusCode != "FailedPrecondition" {
		t.Errorf("status_code = %q", c.metadata.(rpcAuditMetadata).StatusCode)
	}
}

func TestAuditUnary_NilLogger(t *testing.T) {
	interceptor := AuditUnary(nil, nil)
	resp, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{
		FullMethod: rolloutv1.RolloutService_StartRollout_FullMethodName,
	}, okHandler)
	if err != nil || resp != "success" {
		t.Errorf("resp = %v, err = %v", resp, err)
	}
}

func TestResourceID(t *testing.T) {
	testCases := []struct {
		name string
		req  interface{}
		want string
	}{
		{"id", &rolloutv1.EvaluateRolloutRequest{ID: "r-1"}, "r-1"},
		{"experiment id", &experimentv1.TrackEventRequest{ExperimentID: "exp-2"}, "exp-2"},
		{"rollout id", &rolloutv1.ShouldUseNewVersionRequest{RolloutID: "r-3"}, "r-3"},
		{"none", &experimentv1.CreateExperimentRequest{Name: "x"}, ""},
		{"nil", nil, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resourceID(tc.req); got != tc.want {
				t.Errorf("resourceID = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	testCases := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{
			"x-forwarded-for first hop",
			metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-forwarded-for", "203.0.113.5, 10.0.0.1")),
			"203.0.113.5",
		},
		{
			"x-real-ip",
			metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-real-ip", "198.51.100.2")),
			"198.51.100.2",
		},
		{
			"peer",
			peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("192.0.2.9"), Port: 5555}}),
			"192.0.2.9",
		},
		{"unknown", context.Background(), "unknown"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClientIP(tc.ctx); got != tc.want {
				t.Errorf("ClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}
