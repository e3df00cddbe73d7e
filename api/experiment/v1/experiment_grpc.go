package experimentv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"experimentation-control-plane/api/rpc"
)

const (
	ExperimentService_CreateExperiment_FullMethodName   = "/ecp.experiment.v1.ExperimentService/CreateExperiment"
	ExperimentService_ListExperiments_FullMethodName    = "/ecp.experiment.v1.ExperimentService/ListExperiments"
	ExperimentService_GetExperiment_FullMethodName      = "/ecp.experiment.v1.ExperimentService/GetExperiment"
	ExperimentService_StartExperiment_FullMethodName    = "/ecp.experiment.v1.ExperimentService/StartExperiment"
	ExperimentService_PauseExperiment_FullMethodName    = "/ecp.experiment.v1.ExperimentService/PauseExperiment"
	ExperimentService_ResumeExperiment_FullMethodName   = "/ecp.experiment.v1.ExperimentService/ResumeExperiment"
	ExperimentService_CompleteExperiment_FullMethodName = "/ecp.experiment.v1.ExperimentService/CompleteExperiment"
	ExperimentService_DeleteExperiment_FullMethodName   = "/ecp.experiment.v1.ExperimentService/DeleteExperiment"
	ExperimentService_AssignVariant_FullMethodName      = "/ecp.experiment.v1.ExperimentService/AssignVariant"
	ExperimentService_GetUserVariant_FullMethodName     = "/ecp.experiment.v1.ExperimentService/GetUserVariant"
	ExperimentService_TrackEvent_FullMethodName         = "/ecp.experiment.v1.ExperimentService/TrackEvent"
	ExperimentService_GetResults_FullMethodName         = "/ecp.experiment.v1.ExperimentService/GetResults"
)

// ExperimentServiceServer is the server API for ExperimentService.
type ExperimentServiceServer interface {
	CreateExperiment(context.Context, *CreateExperimentRequest) (*ExperimentResponse, error)
	ListExperiments(context.Context, *ListExperimentsRequest) (*ListExperimentsResponse, error)
	GetExperiment(context.Context, *GetExperimentRequest) (*ExperimentResponse, error)
	StartExperiment(context.Context, *StartExperimentRequest) (*ExperimentResponse, error)
	PauseExperiment(context.Context, *PauseExperimentRequest) (*ExperimentResponse, error)
	ResumeExperiment(context.Context, *ResumeExperimentRequest) (*ExperimentResponse, error)
	CompleteExperiment(context.Context, *CompleteExperimentRequest) (*ExperimentResponse, error)
	DeleteExperiment(context.Context, *DeleteExperimentRequest) (*DeleteExperimentResponse, error)
	AssignVariant(context.Context, *AssignVariantRequest) (*AssignVariantResponse, error)
	GetUserVariant(context.Context, *GetUserVariantRequest) (*GetUserVariantResponse, error)
	TrackEvent(context.Context, *TrackEventRequest) (*TrackEventResponse, error)
	GetResults(context.Context, *GetResultsRequest) (*GetResultsResponse, error)
}

// UnimplementedExperimentServiceServer returns Unimplemented for every method. Embed it for forward compatibility.
type UnimplementedExperimentServiceServer struct{}

func (UnimplementedExperimentServiceServer) CreateExperiment(context.Context, *CreateExperimentRequest) (*ExperimentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateExperiment not implemented")
}
func (UnimplementedExperimentServiceServer) ListExperiments(context.Context, *ListExperimentsRequest) (*ListExperimentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListExperiments not implemented")
}
func (UnimplementedExperimentServiceServer) GetExperiment(context.Context, *GetExperimentRequest) (*ExperimentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetExperiment not implemented")
}
func (UnimplementedExperimentServiceServer) StartExperiment(context.Context, *StartExperimentRequest) (*ExperimentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method StartExperiment not implemented")
}
func (UnimplementedExperimentServiceServer) PauseExperiment(context.Context, *PauseExperimentRequest) (*ExperimentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PauseExperiment not implemented")
}
func (UnimplementedExperimentServiceServer) ResumeExperiment(context.Context, *ResumeExperimentRequest) (*ExperimentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ResumeExperiment not implemented")
}
func (UnimplementedExperimentServiceServer) CompleteExperiment(context.Context, *CompleteExperimentRequest) (*ExperimentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CompleteExperiment not implemented")
}
func (UnimplementedExperimentServiceServer) DeleteExperiment(context.Context, *DeleteExperimentRequest) (*DeleteExperimentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteExperiment not implemented")
}
func (UnimplementedExperimentServiceServer) AssignVariant(context.Context, *AssignVariantRequest) (*AssignVariantResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AssignVariant not implemented")
}
func (UnimplementedExperimentServiceServer) GetUserVariant(context.Context, *GetUserVariantRequest) (*GetUserVariantResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUserVariant not implemented")
}
func (UnimplementedExperimentServiceServer) TrackEvent(context.Context, *TrackEventRequest) (*TrackEventResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method TrackEvent not implemented")
}
func (UnimplementedExperimentServiceServer) GetResults(context.Context, *GetResultsRequest) (*GetResultsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetResults not implemented")
}

// RegisterExperimentServiceServer registers srv with s.
func RegisterExperimentServiceServer(s grpc.ServiceRegistrar, srv ExperimentServiceServer) {
	s.RegisterService(&ExperimentService_ServiceDesc, srv)
}

// ExperimentService_ServiceDesc is the grpc.ServiceDesc for ExperimentService.
var ExperimentService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "ecp.experiment.v1.ExperimentService",
	HandlerType: (*ExperimentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateExperiment", Handler: rpc.UnaryHandler(ExperimentService_CreateExperiment_FullMethodName, ExperimentServiceServer.CreateExperiment)},
		{MethodName: "ListExperiments", Handler: rpc.UnaryHandler(ExperimentService_ListExperiments_FullMethodName, ExperimentServiceServer.ListExperiments)},
		{MethodName: "GetExperiment", Handler: rpc.UnaryHandler(ExperimentService_GetExperiment_FullMethodName, ExperimentServiceServer.GetExperiment)},
		{MethodName: "StartExperiment", Handler: rpc.UnaryHandler(ExperimentService_StartExperiment_FullMethodName, ExperimentServiceServer.StartExperiment)},
		{MethodName: "PauseExperiment", Handler: rpc.UnaryHandler(ExperimentService_PauseExperiment_FullMethodName, ExperimentServiceServer.PauseExperiment)},
		{MethodName: "ResumeExperiment", Handler: rpc.UnaryHandler(ExperimentService_ResumeExperiment_FullMethodName, ExperimentServiceServer.ResumeExperiment)},
		{MethodName: "CompleteExperiment", Handler: rpc.UnaryHandler(ExperimentService_CompleteExperiment_FullMethodName, ExperimentServiceServer.CompleteExperiment)},
		{MethodName: "DeleteExperiment", Handler: rpc.UnaryHandler(ExperimentService_DeleteExperiment_FullMethodName, ExperimentServiceServer.DeleteExperiment)},
		{MethodName: "AssignVariant", Handler: rpc.UnaryHandler(ExperimentService_AssignVariant_FullMethodName, ExperimentServiceServer.AssignVariant)},
		{MethodName: "GetUserVariant", Handler: rpc.UnaryHandler(ExperimentService_GetUserVariant_FullMethodName, ExperimentServiceServer.GetUserVariant)},
		{MethodName: "TrackEvent", Handler: rpc.UnaryHandler(ExperimentService_TrackEvent_FullMethodName, ExperimentServiceServer.TrackEvent)},
		{MethodName: "GetResults", Handler: rpc.UnaryHandler(ExperimentService_GetResults_FullMethodName, ExperimentServiceServer.GetResults)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "experiment/v1/experiment.proto",
}

// ExperimentServiceClient is the client API for ExperimentService. Calls use the JSON codec.
type ExperimentServiceClient interface {
	CreateExperiment(ctx context.Context, in *CreateExperimentRequest, opts ...grpc.CallOption) (*ExperimentResponse, error)
	ListExperiments(ctx context.Context, in *ListExperimentsRequest, opts ...grpc.CallOption) (*ListExperimentsResponse, error)
	GetExperiment(ctx context.Context, in *GetExperimentRequest, opts ...grpc.CallOption) (*ExperimentResponse, error)
	StartExperiment(ctx context.Context, in *StartExperimentRequest, opts ...grpc.CallOption) (*ExperimentResponse, error)
	PauseExperiment(ctx context.Context, in *PauseExperimentRequest, opts ...grpc.CallOption) (*ExperimentResponse, error)
	ResumeExperiment(ctx context.Context, in *ResumeExperimentRequest, opts ...grpc.CallOption) (*ExperimentResponse, error)
	CompleteExperiment(ctx context.Context, in *CompleteExperimentRequest, opts ...grpc.CallOption) (*ExperimentResponse, error)
	DeleteExperiment(ctx context.Context, in *DeleteExperimentRequest, opts ...grpc.CallOption) (*DeleteExperimentResponse, error)
	AssignVariant(ctx context.Context, in *AssignVariantRequest, opts ...grpc.CallOption) (*AssignVariantResponse, error)
	GetUserVariant(ctx context.Context, in *GetUserVariantRequest, opts ...grpc.CallOption) (*GetUserVariantResponse, error)
	TrackEvent(ctx context.Context, in *TrackEventRequest, opts ...grpc.CallOption) (*TrackEventResponse, error)
	GetResults(ctx context.Context, in *GetResultsRequest, opts ...grpc.CallOption) (*GetResultsResponse, error)
}

type experimentServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewExperimentServiceClient(cc grpc.ClientConnInterface) ExperimentServiceClient {
	return &experimentServiceClient{cc}
}

func (c *experimentServiceClient) CreateExperiment(ctx context.Context, in *CreateExperimentRequest, opts ...grpc.CallOption) (*ExperimentResponse, error) {
	return rpc.Invoke[ExperimentResponse](ctx, c.cc, ExperimentService_CreateExperiment_FullMethodName, in, opts...)
}
func (c *experimentServiceClient) ListExperiments(ctx context.Context, in *ListExperimentsRequest, opts ...grpc.CallOption) (*ListExperimentsResponse, error) {
	return rpc.Invoke[ListExperimentsResponse](ctx, c.cc, ExperimentService_ListExperiments_FullMethodName, in, opts...)
}
func (c *experimentServiceClient) GetExperiment(ctx context.Context, in *GetExperimentRequest, opts ...grpc.CallOption) (*ExperimentResponse, error) {
	return rpc.Invoke[ExperimentResponse](ctx, c.cc, ExperimentService_GetExperiment_FullMethodName, in, opts...)
}
func (c *experimentServiceClient) StartExperiment(ctx context.Context, in *StartExperimentRequest, opts ...grpc.CallOption) (*ExperimentResponse, error) {
	return rpc.Invoke[ExperimentResponse](ctx, c.cc, ExperimentService_StartExperiment_FullMethodName, in, opts...)
}
func (c *experimentServiceClient) PauseExperiment(ctx context.Context, in *PauseExperimentRequest, opts ...grpc.CallOption) (*ExperimentResponse, error) {
	return rpc.Invoke[ExperimentResponse](ctx, c.cc, ExperimentService_PauseExperiment_FullMethodName, in, opts...)
}
func (c *experimentServiceClient) ResumeExperiment(ctx context.Context, in *ResumeExperimentRequest, opts ...grpc.CallOption) (*ExperimentResponse, error) {
	return rpc.Invoke[ExperimentResponse](ctx, c.cc, ExperimentService_ResumeExperiment_FullMethodName, in, opts...)
}
func (c *experimentServiceClient) CompleteExperiment(ctx context.Context, in *CompleteExperimentRequest, opts ...grpc.CallOption) (*ExperimentResponse, error) {
	return rpc.Invoke[ExperimentResponse](ctx, c.cc, ExperimentService_CompleteExperiment_FullMethodName, in, opts...)
}
func (c *experimentServiceClient) DeleteExperiment(ctx context.Context, in *DeleteExperimentRequest, opts ...grpc.CallOption) (*DeleteExperimentResponse, error) {
	return rpc.Invoke[DeleteExperimentResponse](ctx, c.cc, ExperimentService_DeleteExperiment_FullMethodName, in, opts...)
}
func (c *experimentServiceClient) AssignVariant(ctx context.Context, in *AssignVariantRequest, opts ...grpc.CallOption) (*AssignVariantResponse, error) {
	return rpc.Invoke[AssignVariantResponse](ctx, c.cc, ExperimentService_AssignVariant_FullMethodName, in, opts...)
}
func (c *experimentServiceClient) GetUserVariant(ctx context.Context, in *GetUserVariantRequest, opts ...grpc.CallOption) (*GetUserVariantResponse, error) {
	return rpc.Invoke[GetUserVariantResponse](ctx, c.cc, ExperimentService_GetUserVariant_FullMethodName, in, opts...)
}
func (c *experimentServiceClient) TrackEvent(ctx context.Context, in *TrackEventRequest, opts ...grpc.CallOption) (*TrackEventResponse, error) {
	return rpc.Invoke[TrackEventResponse](ctx, c.cc, ExperimentService_TrackEvent_FullMethodName, in, opts...)
}
func (c *experimentServiceClient) GetResults(ctx context.Context, in *GetResultsRequest, opts ...grpc.CallOption) (*GetResultsResponse, error) {
	return rpc.Invoke[GetResultsResponse](ctx, c.cc, ExperimentService_GetResults_FullMethodName, in, opts...)
}
