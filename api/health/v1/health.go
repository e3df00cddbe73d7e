// Package healthv1 defines ecp.health.v1.HealthService, the readiness probe used by load balancers and CI.
// The contract is health.proto; these types carry it over the JSON codec in api/rpc, so field
// names follow the proto JSON mapping.
package healthv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"experimentation-control-plane/api/rpc"
)

type ServingStatus string

const (
	ServingStatus_SERVING     ServingStatus = "SERVING"
	ServingStatus_NOT_SERVING ServingStatus = "NOT_SERVING"
)

type HealthCheckRequest struct{}

type HealthCheckResponse struct {
	Status ServingStatus `json:"status"`
	// Checks maps each dependency (database, redis, policy) to "ok" or its failure message.
	Checks map[string]string `json:"checks,omitempty"`
}

func (r *HealthCheckResponse) GetStatus() ServingStatus {
	if r == nil {
		return ""
	}
	return r.Status
}

const HealthService_HealthCheck_FullMethodName = "/ecp.health.v1.HealthService/HealthCheck"

type HealthServiceServer interface {
	HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error)
}

type UnimplementedHealthServiceServer struct{}

func (UnimplementedHealthServiceServer) HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method HealthCheck not implemented")
}

func RegisterHealthServiceServer(s grpc.ServiceRegistrar, srv HealthServiceServer) {
	s.RegisterService(&HealthService_ServiceDesc, srv)
}

var HealthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "ecp.health.v1.HealthService",
	HandlerType: (*HealthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "HealthCheck", Handler: rpc.UnaryHandler(HealthService_HealthCheck_FullMethodName, HealthServiceServer.HealthCheck)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "health/v1/health.proto",
}

type HealthServiceClient interface {
	HealthCheck(ctx context.Context, in *HealthCheckRequest, opts ...grpc.CallOption) (*HealthCheckResponse, error)
}

type healthServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewHealthServiceClient(cc grpc.ClientConnInterface) HealthServiceClient {
	return &healthServiceClient{cc}
}

func (c *healthServiceClient) HealthCheck(ctx context.Context, in *HealthCheckRequest, opts ...grpc.CallOption) (*HealthCheckResponse, error) {
	return rpc.Invoke[HealthCheckResponse](ctx, c.cc, HealthService_HealthCheck_FullMethodName, in, opts...)
}
