// Package auditv1 defines the ecp.audit.v1 wire messages and the AuditService descriptor.
// The contract is audit.proto; these types carry it over the JSON codec in api/rpc, so field
// names follow the proto JSON mapping.
package auditv1

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"experimentation-control-plane/api/rpc"
)

type AuditLog struct {
	ID         string    `json:"id"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resourceId,omitempty"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor"`
	IP         string    `json:"ip,omitempty"`
	Metadata   string    `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ListAuditLogsRequest filters by resource, resource id and action. Empty fields match everything.
type ListAuditLogsRequest struct {
	Resource   string `json:"resource,omitempty"`
	ResourceID string `json:"resourceId,omitempty"`
	Action     string `json:"action,omitempty"`
	Limit      int32  `json:"limit,omitempty"`
	Offset     int32  `json:"offset,omitempty"`
}

type ListAuditLogsResponse struct {
	Logs []*AuditLog `json:"logs"`
	// NextOffset is set when another page may exist.
	NextOffset int32 `json:"nextOffset,omitempty"`
}

const AuditService_ListAuditLogs_FullMethodName = "/ecp.audit.v1.AuditService/ListAuditLogs"

// AuditServiceServer is the server API for AuditService.
type AuditServiceServer interface {
	ListAuditLogs(context.Context, *ListAuditLogsRequest) (*ListAuditLogsResponse, error)
}

type UnimplementedAuditServiceServer struct{}

func (UnimplementedAuditServiceServer) ListAuditLogs(context.Context, *ListAuditLogsRequest) (*ListAuditLogsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAuditLogs not implemented")
}

func RegisterAuditServiceServer(s grpc.ServiceRegistrar, srv AuditServiceServer) {
	s.RegisterService(&AuditService_ServiceDesc, srv)
}

var AuditService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "ecp.audit.v1.AuditService",
	HandlerType: (*AuditServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListAuditLogs", Handler: rpc.UnaryHandler(AuditService_ListAuditLogs_FullMethodName, AuditServiceServer.ListAuditLogs)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "audit/v1/audit.proto",
}

type AuditServiceClient interface {
	ListAuditLogs(ctx context.Context, in *ListAuditLogsRequest, opts ...grpc.CallOption) (*ListAuditLogsResponse, error)
}

type auditServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuditServiceClient(cc grpc.ClientConnInterface) AuditServiceClient {
	return &auditServiceClient{cc}
}

func (c *auditServiceClient) ListAuditLogs(ctx context.Context, in *ListAuditLogsRequest, opts ...grpc.CallOption) (*ListAuditLogsResponse, error) {
	return rpc.Invoke[ListAuditLogsResponse](ctx, c.cc, AuditService_ListAuditLogs_FullMethodName, in, opts...)
}
