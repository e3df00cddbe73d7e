package rolloutv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"experimentation-control-plane/api/rpc"
)

const (
	RolloutService_CreateRollout_FullMethodName       = "/ecp.rollout.v1.RolloutService/CreateRollout"
	RolloutService_ListRollouts_FullMethodName        = "/ecp.rollout.v1.RolloutService/ListRollouts"
	RolloutService_GetRollout_FullMethodName          = "/ecp.rollout.v1.RolloutService/GetRollout"
	RolloutService_StartRollout_FullMethodName        = "/ecp.rollout.v1.RolloutService/StartRollout"
	RolloutService_EvaluateRollout_FullMethodName     = "/ecp.rollout.v1.RolloutService/EvaluateRollout"
	RolloutService_RollbackRollout_FullMethodName     = "/ecp.rollout.v1.RolloutService/RollbackRollout"
	RolloutService_DeleteRollout_FullMethodName       = "/ecp.rollout.v1.RolloutService/DeleteRollout"
	RolloutService_ShouldUseNewVersion_FullMethodName = "/ecp.rollout.v1.RolloutService/ShouldUseNewVersion"
	RolloutService_GetActiveRollout_FullMethodName    = "/ecp.rollout.v1.RolloutService/GetActiveRollout"
	RolloutService_CheckRollout_FullMethodName        = "/ecp.rollout.v1.RolloutService/CheckRollout"
)

// RolloutServiceServer is the server API for RolloutService.
type RolloutServiceServer interface {
	CreateRollout(context.Context, *CreateRolloutRequest) (*RolloutResponse, error)
	ListRollouts(context.Context, *ListRolloutsRequest) (*ListRolloutsResponse, error)
	GetRollout(context.Context, *GetRolloutRequest) (*RolloutResponse, error)
	StartRollout(context.Context, *StartRolloutRequest) (*RolloutResponse, error)
	EvaluateRollout(context.Context, *EvaluateRolloutRequest) (*EvaluateRolloutResponse, error)
	RollbackRollout(context.Context, *RollbackRolloutRequest) (*RolloutResponse, error)
	DeleteRollout(context.Context, *DeleteRolloutRequest) (*DeleteRolloutResponse, error)
	ShouldUseNewVersion(context.Context, *ShouldUseNewVersionRequest) (*ShouldUseNewVersionResponse, error)
	GetActiveRollout(context.Context, *GetActiveRolloutRequest) (*GetActiveRolloutResponse, error)
	CheckRollout(context.Context, *CheckRolloutRequest) (*CheckRolloutResponse, error)
}

// UnimplementedRolloutServiceServer returns Unimplemented for every method.
type UnimplementedRolloutServiceServer struct{}

func (UnimplementedRolloutServiceServer) CreateRollout(context.Context, *CreateRolloutRequest) (*RolloutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateRollout not implemented")
}
func (UnimplementedRolloutServiceServer) ListRollouts(context.Context, *ListRolloutsRequest) (*ListRolloutsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListRollouts not implemented")
}
func (UnimplementedRolloutServiceServer) GetRollout(context.Context, *GetRolloutRequest) (*RolloutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetRollout not implemented")
}
func (UnimplementedRolloutServiceServer) StartRollout(context.Context, *StartRolloutRequest) (*RolloutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method StartRollout not implemented")
}
func (UnimplementedRolloutServiceServer) EvaluateRollout(context.Context, *EvaluateRolloutRequest) (*EvaluateRolloutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method EvaluateRollout not implemented")
}
func (UnimplementedRolloutServiceServer) RollbackRollout(context.Context, *RollbackRolloutRequest) (*RolloutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RollbackRollout not implemented")
}
func (UnimplementedRolloutServiceServer) DeleteRollout(context.Context, *DeleteRolloutRequest) (*DeleteRolloutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteRollout not implemented")
}
func (UnimplementedRolloutServiceServer) ShouldUseNewVersion(context.Context, *ShouldUseNewVersionRequest) (*ShouldUseNewVersionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ShouldUseNewVersion not implemented")
}
func (UnimplementedRolloutServiceServer) GetActiveRollout(context.Context, *GetActiveRolloutRequest) (*GetActiveRolloutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetActiveRollout not implemented")
}
func (UnimplementedRolloutServiceServer) CheckRollout(context.Context, *CheckRolloutRequest) (*CheckRolloutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CheckRollout not implemented")
}

// RegisterRolloutServiceServer registers srv with s.
func RegisterRolloutServiceServer(s grpc.ServiceRegistrar, srv RolloutServiceServer) {
	s.RegisterService(&RolloutService_ServiceDesc, srv)
}

// RolloutService_ServiceDesc is the grpc.ServiceDesc for RolloutService.
var RolloutService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "ecp.rollout.v1.RolloutService",
	HandlerType: (*RolloutServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateRollout", Handler: rpc.UnaryHandler(RolloutService_CreateRollout_FullMethodName, RolloutServiceServer.CreateRollout)},
		{MethodName: "ListRollouts", Handler: rpc.UnaryHandler(RolloutService_ListRollouts_FullMethodName, RolloutServiceServer.ListRollouts)},
		{MethodName: "GetRollout", Handler: rpc.UnaryHandler(RolloutService_GetRollout_FullMethodName, RolloutServiceServer.GetRollout)},
		{MethodName: "StartRollout", Handler: rpc.UnaryHandler(RolloutService_StartRollout_FullMethodName, RolloutServiceServer.StartRollout)},
		{MethodName: "EvaluateRollout", Handler: rpc.UnaryHandler(RolloutService_EvaluateRollout_FullMethodName, RolloutServiceServer.EvaluateRollout)},
		{MethodName: "RollbackRollout", Handler: rpc.UnaryHandler(RolloutService_RollbackRollout_FullMethodName, RolloutServiceServer.RollbackRollout)},
		{MethodName: "DeleteRollout", Handler: rpc.UnaryHandler(RolloutService_DeleteRollout_FullMethodName, RolloutServiceServer.DeleteRollout)},
		{MethodName: "ShouldUseNewVersion", Handler: rpc.UnaryHandler(RolloutService_ShouldUseNewVersion_FullMethodName, RolloutServiceServer.ShouldUseNewVersion)},
		{MethodName: "GetActiveRollout", Handler: rpc.UnaryHandler(RolloutService_GetActiveRollout_FullMethodName, RolloutServiceServer.GetActiveRollout)},
		{MethodName: "CheckRollout", Handler: rpc.UnaryHandler(RolloutService_CheckRollout_FullMethodName, RolloutServiceServer.CheckRollout)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rollout/v1/rollout.proto",
}

// RolloutServiceClient is the client API for RolloutService. Calls use the JSON codec.
type RolloutServiceClient interface {
	CreateRollout(ctx context.Context, in *CreateRolloutRequest, opts ...grpc.CallOption) (*RolloutResponse, error)
	ListRollouts(ctx context.Context, in *ListRolloutsRequest, opts ...grpc.CallOption) (*ListRolloutsResponse, error)
	GetRollout(ctx context.Context, in *GetRolloutRequest, opts ...grpc.CallOption) (*RolloutResponse, error)
	StartRollout(ctx context.Context, in *StartRolloutRequest, opts ...grpc.CallOption) (*RolloutResponse, error)
	EvaluateRollout(ctx context.Context, in *EvaluateRolloutRequest, opts ...grpc.CallOption) (*EvaluateRolloutResponse, error)
	RollbackRollout(ctx context.Context, in *RollbackRolloutRequest, opts ...grpc.CallOption) (*RolloutResponse, error)
	DeleteRollout(ctx context.Context, in *DeleteRolloutRequest, opts ...grpc.CallOption) (*DeleteRolloutResponse, error)
	ShouldUseNewVersion(ctx context.Context, in *ShouldUseNewVersionRequest, opts ...grpc.CallOption) (*ShouldUseNewVersionResponse, error)
	GetActiveRollout(ctx context.Context, in *GetActiveRolloutRequest, opts ...grpc.CallOption) (*GetActiveRolloutResponse, error)
	CheckRollout(ctx context.Context, in *CheckRolloutRequest, opts ...grpc.CallOption) (*CheckRolloutResponse, error)
}

type rolloutServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRolloutServiceClient(cc grpc.ClientConnInterface) RolloutServiceClient {
	return &rolloutServiceClient{cc}
}

func (c *rolloutServiceClient) CreateRollout(ctx context.Context, in *CreateRolloutRequest, opts ...grpc.CallOption) (*RolloutResponse, error) {
	return rpc.Invoke[RolloutResponse](ctx, c.cc, RolloutService_CreateRollout_FullMethodName, in, opts...)
}
func (c *rolloutServiceClient) ListRollouts(ctx context.Context, in *ListRolloutsRequest, opts ...grpc.CallOption) (*ListRolloutsResponse, error) {
	return rpc.Invoke[ListRolloutsResponse](ctx, c.cc, RolloutService_ListRollouts_FullMethodName, in, opts...)
}
func (c *rolloutServiceClient) GetRollout(ctx context.Context, in *GetRolloutRequest, opts ...grpc.CallOption) (*RolloutResponse, error) {
	return rpc.Invoke[RolloutResponse](ctx, c.cc, RolloutService_GetRollout_FullMethodName, in, opts...)
}
func (c *rolloutServiceClient) StartRollout(ctx context.Context, in *StartRolloutRequest, opts ...grpc.CallOption) (*RolloutResponse, error) {
	return rpc.Invoke[RolloutResponse](ctx, c.cc, RolloutService_StartRollout_FullMethodName, in, opts...)
}
func (c *rolloutServiceClient) EvaluateRollout(ctx context.Context, in *EvaluateRolloutRequest, opts ...grpc.CallOption) (*EvaluateRolloutResponse, error) {
	return rpc.Invoke[EvaluateRolloutResponse](ctx, c.cc, RolloutService_EvaluateRollout_FullMethodName, in, opts...)
}
func (c *rolloutServiceClient) RollbackRollout(ctx context.Context, in *RollbackRolloutRequest, opts ...grpc.CallOption) (*RolloutResponse, error) {
	return rpc.Invoke[RolloutResponse](ctx, c.cc, RolloutService_RollbackRollout_FullMethodName, in, opts...)
}
func (c *rolloutServiceClient) DeleteRollout(ctx context.Context, in *DeleteRolloutRequest, opts ...grpc.CallOption) (*DeleteRolloutResponse, error) {
	return rpc.Invoke[DeleteRolloutResponse](ctx, c.cc, RolloutService_DeleteRollout_FullMethodName, in, opts...)
}
func (c *rolloutServiceClient) ShouldUseNewVersion(ctx context.Context, in *ShouldUseNewVersionRequest, opts ...grpc.CallOption) (*ShouldUseNewVersionResponse, error) {
	return rpc.Invoke[ShouldUseNewVersionResponse](ctx, c.cc, RolloutService_ShouldUseNewVersion_FullMethodName, in, opts...)
}
func (c *rolloutServiceClient) GetActiveRollout(ctx context.Context, in *GetActiveRolloutRequest, opts ...grpc.CallOption) (*GetActiveRolloutResponse, error) {
	return rpc.Invoke[GetActiveRolloutResponse](ctx, c.cc, RolloutService_GetActiveRollout_FullMethodName, in, opts...)
}
func (c *rolloutServiceClient) CheckRollout(ctx context.Context, in *CheckRolloutRequest, opts ...grpc.CallOption) (*CheckRolloutResponse, error) {
	return rpc.Invoke[CheckRolloutResponse](ctx, c.cc, RolloutService_CheckRollout_FullMethodName, in, opts...)
}
