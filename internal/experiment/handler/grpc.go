package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	experimentv1 "experimentation-control-plane/api/experiment/v1"
	"experimentation-control-plane/internal/apperr"
	"experimentation-control-plane/internal/experiment/domain"
	"experimentation-control-plane/internal/experiment/service"
	"experimentation-control-plane/internal/server/interceptors"
)

// Server implements ExperimentService. User ids come from the request, falling back to the x-user-id header.
type Server struct {
	experimentv1.UnimplementedExperimentServiceServer
	svc *service.Service
}

// NewServer returns a new Experiment gRPC server. If svc is nil, every RPC returns Unimplemented.
func NewServer(svc *service.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) CreateExperiment(ctx context.Context, req *experimentv1.CreateExperimentRequest) (*experimentv1.ExperimentResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method CreateExperiment not implemented")
	}
	createdBy, _ := interceptors.GetUserID(ctx)
	exp, err := s.svc.CreateExperiment(ctx, service.CreateInput{
		Name:              req.Name,
		Description:       req.Description,
		Variants:          variantsFromProto(req.Variants),
		TrafficAllocation: allocationFromProto(req.TrafficAllocation),
		SuccessMetric:     req.SuccessMetric,
		MinimumSampleSize: int(req.MinimumSampleSize),
		ConfidenceLevel:   req.ConfidenceLevel,
		CreatedBy:         createdBy,
	})
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &experimentv1.ExperimentResponse{Experiment: experimentToProto(exp)}, nil
}

func (s *Server) ListExperiments(ctx context.Context, req *experimentv1.ListExperimentsRequest) (*experimentv1.ListExperimentsResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method ListExperiments not implemented")
	}
	list, err := s.svc.ListExperiments(ctx)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	out := make([]*experimentv1.Experiment, 0, len(list))
	for _, e := range list {
		out = append(out, experimentToProto(e))
	}
	return &experimentv1.ListExperimentsResponse{Experiments: out}, nil
}

func (s *Server) GetExperiment(ctx context.Context, req *experimentv1.GetExperimentRequest) (*experimentv1.ExperimentResponse, error) {
	return s.byID(ctx, "GetExperiment", req.GetID(), s.svc.GetExperiment)
}

func (s *Server) StartExperiment(ctx context.Context, req *experimentv1.StartExperimentRequest) (*experimentv1.ExperimentResponse, error) {
	return s.byID(ctx, "StartExperiment", req.GetID(), s.svc.StartExperiment)
}

func (s *Server) PauseExperiment(ctx context.Context, req *experimentv1.PauseExperimentRequest) (*experimentv1.ExperimentResponse, error) {
	return s.byID(ctx, "PauseExperiment", req.GetID(), s.svc.PauseExperiment)
}

func (s *Server) ResumeExperiment(ctx context.Context, req *experimentv1.ResumeExperimentRequest) (*experimentv1.ExperimentResponse, error) {
	return s.byID(ctx, "ResumeExperiment", req.GetID(), s.svc.ResumeExperiment)
}

func (s *Server) CompleteExperiment(ctx context.Context, req *experimentv1.CompleteExperimentRequest) (*experimentv1.ExperimentResponse, error) {
	return s.byID(ctx, "CompleteExperiment", req.GetID(), s.svc.CompleteExperiment)
}

// byID runs fn for one experiment id. fn is a method value on s.svc, which may be nil.
func (s *Server) byID(ctx context.Context, method, id string, fn func(context.Context, string) (*domain.Experiment, error)) (*experimentv1.ExperimentResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method "+method+" not implemented")
	}
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	exp, err := fn(ctx, id)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &experimentv1.ExperimentResponse{Experiment: experimentToProto(exp)}, nil
}

func (s *Server) DeleteExperiment(ctx context.Context, req *experimentv1.DeleteExperimentRequest) (*experimentv1.DeleteExperimentResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method DeleteExperiment not implemented")
	}
	if req.GetID() == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	if err := s.svc.DeleteExperiment(ctx, req.GetID()); err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &experimentv1.DeleteExperimentResponse{}, nil
}

// AssignVariant returns the caller's sticky variant; "control" for unknown or non-running experiments.
func (s *Server) AssignVariant(ctx context.Context, req *experimentv1.AssignVariantRequest) (*experimentv1.AssignVariantResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method AssignVariant not implemented")
	}
	if req.GetExperimentID() == "" {
		return nil, status.Error(codes.InvalidArgument, "experiment_id required")
	}
	userID := interceptors.ResolveUserID(ctx, req.GetUserID())
	if userID == "" {
		return nil, status.Error(codes.InvalidArgument, "user_id required")
	}
	variant, err := s.svc.AssignVariant(ctx, req.GetExperimentID(), userID)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &experimentv1.AssignVariantResponse{Variant: variant}, nil
}

func (s *Server) GetUserVariant(ctx context.Context, req *experimentv1.GetUserVariantRequest) (*experimentv1.GetUserVariantResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method GetUserVariant not implemented")
	}
	if req.GetExperimentID() == "" {
		return nil, status.Error(codes.InvalidArgument, "experiment_id required")
	}
	userID := interceptors.ResolveUserID(ctx, req.GetUserID())
	if userID == "" {
		return nil, status.Error(codes.InvalidArgument, "user_id required")
	}
	variant, assigned, err := s.svc.GetUserVariant(ctx, req.GetExperimentID(), userID)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &experimentv1.GetUserVariantResponse{Variant: variant, Assigned: assigned}, nil
}

// TrackEvent records an outcome for the caller. Events from unassigned users are accepted and dropped.
func (s *Server) TrackEvent(ctx context.Context, req *experimentv1.TrackEventRequest) (*experimentv1.TrackEventResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method TrackEvent not implemented")
	}
	if req.GetExperimentID() == "" {
		return nil, status.Error(codes.InvalidArgument, "experiment_id required")
	}
	userID := interceptors.ResolveUserID(ctx, req.GetUserID())
	if userID == "" {
		return nil, status.Error(codes.InvalidArgument, "user_id required")
	}
	recorded, err := s.svc.TrackEvent(ctx, req.GetExperimentID(), userID, req.EventType, req.EventData)
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	return &experimentv1.TrackEventResponse{Recorded: recorded}, nil
}

func (s *Server) GetResults(ctx context.Context, req *experimentv1.GetResultsRequest) (*experimentv1.GetResultsResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method GetResults not implemented")
	}
	if req.GetExperimentID() == "" {
		return nil, status.Error(codes.InvalidArgument, "experiment_id required")
	}
	res, err := s.svc.GetResults(ctx, req.GetExperimentID())
	if err != nil {
		return nil, apperr.ToStatus(err)
	}
	out := &experimentv1.GetResultsResponse{
		ExperimentID:      res.ExperimentID,
		Results:           make([]experimentv1.VariantResult, 0, len(res.Variants)),
		Significance:      res.Significance,
		Winner:            res.Winner,
		IsSignificant:     res.IsSignificant,
		MinimumSampleSize: int32(res.MinimumSampleSize),
		SampleSizeReached: res.SampleSizeReached,
	}
	for _, v := range res.Variants {
		out.Results = append(out.Results, experimentv1.VariantResult{
			Variant:      v.Variant,
			Users:        int64(v.Users),
			SuccessRate:  v.SuccessRate,
			SuccessCount: int64(v.SuccessCount),
			TotalEvents:  int64(v.TotalEvents),
		})
	}
	return out, nil
}

func experimentToProto(e *domain.Experiment) *experimentv1.Experiment {
	if e == nil {
		return nil
	}
	out := &experimentv1.Experiment{
		ID:                e.ID,
		Name:              e.Name,
		Description:       e.Description,
		Status:            string(e.Status),
		Variants:          make([]experimentv1.Variant, 0, len(e.Variants)),
		TrafficAllocation: make([]experimentv1.Allocation, 0, len(e.TrafficAllocation)),
		SuccessMetric:     e.SuccessMetric,
		MinimumSampleSize: int32(e.MinimumSampleSize),
		ConfidenceLevel:   e.ConfidenceLevel,
		CreatedBy:         e.CreatedBy,
		StartDate:         e.StartDate,
		EndDate:           e.EndDate,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
	for _, v := range e.Variants {
		out.Variants = append(out.Variants, experimentv1.Variant{Key: v.Key, Config: v.Config})
	}
	for _, a := range e.TrafficAllocation {
		out.TrafficAllocation = append(out.TrafficAllocation, experimentv1.Allocation{Key: a.Key, Fraction: a.Fraction})
	}
	return out
}

func variantsFromProto(in []experimentv1.Variant) []domain.Variant {
	if in == nil {
		return nil
	}
	out := make([]domain.Variant, 0, len(in))
	for _, v := range in {
		out = append(out, domain.Variant{Key: v.Key, Config: v.Config})
	}
	return out
}

func allocationFromProto(in []experimentv1.Allocation) domain.Allocations {
	if in == nil {
		return nil
	}
	out := make(domain.Allocations, 0, len(in))
	for _, a := range in {
		out = append(out, domain.Allocation{Key: a.Key, Fraction: a.Fraction})
	}
	return out
}
