package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	rolloutv1 "experimentation-control-plane/api/rollout/v1"
	"experimentation-control-plane/internal/apperr"
	"experimentation-control-plane/internal/rollout/domain"
	"experimentation-control-plane/internal/rollout/service"
	"experimentation-control-plane/internal/server/interceptors"
)

// Server implements RolloutService.
type Server struct {
	rolloutv1.UnimplementedRolloutServiceServer
	svc *service.Service
}

// NewServer returns a new Rollout gRPC server. If svc is nil, every RPC returns Unimplemented.
func NewServer(svc *service.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) CreateRollout(ctx context.Context, req *rolloutv1.CreateRolloutRequest) (*rolloutv1.RolloutResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method CreateRollout not implemented")
	}
	r, err := s.svc.CreateRollout(ctx, service.CreateInput{
		Name:         req.Name,
		Description:  req.Description,
		ModelVersion: req.ModelVersion,
		Schedule:     scheduleFromProto(req.Schedule),
	})
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &rolloutv1.RolloutResponse{Rollout: rolloutToProto(r)}, nil
}

func (s *Server) ListRollouts(ctx context.Context, req *rolloutv1.ListRolloutsRequest) (*rolloutv1.ListRolloutsResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method ListRollouts not implemented")
	}
	list, err := s.svc.ListRollouts(ctx)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	out := make([]*rolloutv1.Rollout, 0, len(list))
	for _, r := range list {
		out = append(out, rolloutToProto(r))
	}
	return &rolloutv1.ListRolloutsResponse{Rollouts: out}, nil
}

func (s *Server) GetRollout(ctx context.Context, req *rolloutv1.GetRolloutRequest) (*rolloutv1.RolloutResponse, error) {
	return s.byID(ctx, "GetRollout", req.GetID(), s.svc.GetRollout)
}

func (s *Server) StartRollout(ctx context.Context, req *rolloutv1.StartRolloutRequest) (*rolloutv1.RolloutResponse, error) {
	return s.byID(ctx, "StartRollout", req.GetID(), s.svc.StartRollout)
}

func (s *Server) RollbackRollout(ctx context.Context, req *rolloutv1.RollbackRolloutRequest) (*rolloutv1.RolloutResponse, error) {
	return s.byID(ctx, "RollbackRollout", req.GetID(), s.svc.RollbackRollout)
}

func (s *Server) byID(ctx context.Context, method, id string, fn func(context.Context, string) (*domain.Rollout, error)) (*rolloutv1.RolloutResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method "+method+" not implemented")
	}
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	r, err := fn(ctx, id)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &rolloutv1.RolloutResponse{Rollout: rolloutToProto(r)}, nil
}

// EvaluateRollout runs one evaluation on demand, the same step the scheduler performs.
func (s *Server) EvaluateRollout(ctx context.Context, req *rolloutv1.EvaluateRolloutRequest) (*rolloutv1.EvaluateRolloutResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method EvaluateRollout not implemented")
	}
	if req.GetID() == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	ev, err := s.svc.EvaluateRollout(ctx, req.GetID())
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &rolloutv1.EvaluateRolloutResponse{Rollout: rolloutToProto(ev.Rollout), Action: string(ev.Action)}, nil
}

func (s *Server) DeleteRollout(ctx context.Context, req *rolloutv1.DeleteRolloutRequest) (*rolloutv1.DeleteRolloutResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method DeleteRollout not implemented")
	}
	if req.GetID() == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	if err := s.svc.DeleteRollout(ctx, req.GetID()); err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &rolloutv1.DeleteRolloutResponse{}, nil
}

func (s *Server) ShouldUseNewVersion(ctx context.Context, req *rolloutv1.ShouldUseNewVersionRequest) (*rolloutv1.ShouldUseNewVersionResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method ShouldUseNewVersion not implemented")
	}
	if req.GetRolloutID() == "" {
		return nil, status.Error(codes.InvalidArgument, "rollout_id required")
	}
	userID := interceptors.ResolveUserID(ctx, req.GetUserID())
	if userID == "" {
		return nil, status.Error(codes.InvalidArgument, "user_id required")
	}
	use, err := s.svc.ShouldUseNewVersion(ctx, userID, req.GetRolloutID())
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &rolloutv1.ShouldUseNewVersionResponse{UseNewVersion: use}, nil
}

func (s *Server) GetActiveRollout(ctx context.Context, req *rolloutv1.GetActiveRolloutRequest) (*rolloutv1.GetActiveRolloutResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method GetActiveRollout not implemented")
	}
	if req.ModelVersion == "" {
		return nil, status.Error(codes.InvalidArgument, "model_version required")
	}
	r, err := s.svc.GetActiveRollout(ctx, req.ModelVersion)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &rolloutv1.GetActiveRolloutResponse{Rollout: rolloutToProto(r)}, nil
}

// CheckRollout answers, for the caller, whether to serve the new model version and which rollout decided it.
func (s *Server) CheckRollout(ctx context.Context, req *rolloutv1.CheckRolloutRequest) (*rolloutv1.CheckRolloutResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method CheckRollout not implemented")
	}
	if req.ModelVersion == "" {
		return nil, status.Error(codes.InvalidArgument, "model_version required")
	}
	userID := interceptors.ResolveUserID(ctx, req.GetUserID())
	if userID == "" {
		return nil, status.Error(codes.InvalidArgument, "user_id required")
	}
	res, err := s.svc.CheckRollout(ctx, userID, req.ModelVersion)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	out := &rolloutv1.CheckRolloutResponse{ShouldUseNewModel: res.ShouldUseNewModel}
	if res.Rollout != nil {
		out.Rollout = &rolloutv1.RolloutSummary{
			ID:                res.Rollout.ID,
			Name:              res.Rollout.Name,
			CurrentPercentage: int32(res.Rollout.CurrentPercentage),
		}
	}
	return out, nil
}

func rolloutToProto(r *domain.Rollout) *rolloutv1.Rollout {
	if r == nil {
		return nil
	}
	out := &rolloutv1.Rollout{
		ID:                r.ID,
		Name:              r.Name,
		Description:       r.Description,
		ModelVersion:      r.ModelVersion,
		Status:            string(r.Status),
		Schedule:          rolloutv1.Schedule{StartTime: r.Schedule.StartTime, Stages: make([]rolloutv1.Stage, 0, len(r.Schedule.Stages))},
		CurrentPercentage: int32(r.CurrentPercentage),
		TargetPercentage:  int32(r.TargetPercentage),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	for _, st := range r.Schedule.Stages {
		out.Schedule.Stages = append(out.Schedule.Stages, rolloutv1.Stage{Percentage: int32(st.Percentage), DurationHours: st.DurationHours})
	}
	if hm := r.HealthMetrics; hm != nil {
		out.HealthMetrics = &rolloutv1.HealthMetrics{
			ErrorRate: hm.ErrorRate,
			Latency:   hm.Latency,
			Accuracy:  hm.Accuracy,
			Timestamp: hm.Timestamp,
			IsHealthy: hm.IsHealthy,
			Error:     hm.Error,
		}
	}
	return out
}

// scheduleFromProto drops any client-supplied start time; it is set when the rollout starts.
func scheduleFromProto(in rolloutv1.Schedule) domain.Schedule {
	out := domain.Schedule{}
	if in.Stages != nil {
		out.Stages = make([]domain.Stage, 0, len(in.Stages))
	}
	for _, st := range in.Stages {
		out.Stages = append(out.Stages, domain.Stage{Percentage: int(st.Percentage), DurationHours: st.DurationHours})
	}
	return out
}
