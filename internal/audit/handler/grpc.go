package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	auditv1 "experimentation-control-plane/api/audit/v1"
	"experimentation-control-plane/internal/audit/domain"
	"experimentation-control-plane/internal/audit/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Server implements AuditService: read access to the experiment and rollout audit trail.
type Server struct {
	auditv1.UnimplementedAuditServiceServer
	repo repository.Repository
}

// NewServer returns a new Audit gRPC server. If repo is nil, ListAuditLogs returns Unimplemented.
func NewServer(repo repository.Repository) *Server {
	return &Server{repo: repo}
}

// ListAuditLogs returns audit entries newest first, optionally filtered by resource, resource id and action.
func (s *Server) ListAuditLogs(ctx context.Context, req *auditv1.ListAuditLogsRequest) (*auditv1.ListAuditLogsResponse, error) {
	if s.repo == nil {
		return nil, status.Error(codes.Unimplemented, "method ListAuditLogs not implemented")
	}
	if req.Offset < 0 {
		return nil, status.Error(codes.InvalidArgument, "offset must not be negative")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	logs, err := s.repo.List(ctx, domain.ListFilter{
		Resource:   req.Resource,
		ResourceID: req.ResourceID,
		Action:     req.Action,
		Limit:      limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	resp := &auditv1.ListAuditLogsResponse{Logs: make([]*auditv1.AuditLog, 0, len(logs))}
	for _, l := range logs {
		resp.Logs = append(resp.Logs, toProto(l))
	}
	if int32(len(logs)) == limit {
		resp.NextOffset = req.Offset + limit
	}
	return resp, nil
}

func toProto(l *domain.AuditLog) *auditv1.AuditLog {
	return &auditv1.AuditLog{
		ID:         l.ID,
		Resource:   l.Resource,
		ResourceID: l.ResourceID,
		Action:     l.Action,
		Actor:      l.Actor,
		IP:         l.IP,
		Metadata:   l.Metadata,
		CreatedAt:  l.CreatedAt,
	}
}
