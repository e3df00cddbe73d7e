// Package service implements experiment lifecycle, sticky variant assignment, event tracking and results.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"experimentation-control-plane/internal/apperr"
	"experimentation-control-plane/internal/audit"
	"experimentation-control-plane/internal/bucketing"
	"experimentation-control-plane/internal/experiment/cache"
	"experimentation-control-plane/internal/experiment/domain"
	"experimentation-control-plane/internal/experiment/repository"
	"experimentation-control-plane/internal/platform/logger"
	"experimentation-control-plane/internal/platform/validation"
	"experimentation-control-plane/internal/server/interceptors"
	"experimentation-control-plane/internal/telemetry"
	telemetrydomain "experimentation-control-plane/internal/telemetry/domain"
)

const (
	resourceExperiment = "experiment"
	eventSource        = "experiment-service"
)

var tracer = otel.Tracer("experimentation-control-plane/internal/experiment/service")

// CreateInput is the configuration of a new experiment. Zero MinimumSampleSize and
// ConfidenceLevel take the defaults (100 and 0.95).
type CreateInput struct {
	Name              string             `validate:"required,max=100"`
	Description       string             `validate:"max=2000"`
	Variants          []domain.Variant   `validate:"required,min=1,dive"`
	TrafficAllocation domain.Allocations `validate:"required,min=1,dive"`
	SuccessMetric     string             `validate:"required,max=50"`
	MinimumSampleSize int                `validate:"gte=0"`
	ConfidenceLevel   float64            `validate:"omitempty,gte=0.8,lte=0.99"`
	CreatedBy         string
}

// userRef and eventRef bound caller-supplied ids to the assignment and event columns.
type userRef struct {
	UserID string `validate:"required,max=255"`
}

type eventRef struct {
	UserID    string `validate:"required,max=255"`
	EventType string `validate:"required,max=100"`
}

// Service owns experiments, their assignments and their event log.
type Service struct {
	repo    repository.Repository
	cache   cache.AssignmentCache
	audit   audit.AuditLogger
	emitter telemetry.EventEmitter
	log     *logger.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCache sets the sticky assignment cache. Defaults to cache.Noop.
func WithCache(c cache.AssignmentCache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithAudit sets the audit logger for lifecycle transitions.
func WithAudit(a audit.AuditLogger) Option {
	return func(s *Service) { s.audit = a }
}

// WithEmitter sets the lifecycle telemetry emitter.
func WithEmitter(e telemetry.EventEmitter) Option {
	return func(s *Service) { s.emitter = e }
}

// WithLogger sets the service logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a Service backed by repo.
func New(repo repository.Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		cache: cache.Noop{},
		log:   logger.Nop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("service", "experiment")
	return s
}

// CreateExperiment validates in and persists a draft experiment.
func (s *Service) CreateExperiment(ctx context.Context, in CreateInput) (_ *domain.Experiment, err error) {
	ctx, span := tracer.Start(ctx, "experiment.Create", trace.WithAttributes(attribute.String("experiment.name", in.Name)))
	defer func() { endSpan(span, err) }()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := domain.ValidateConfig(in.Variants, in.TrafficAllocation); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	createdBy := in.CreatedBy
	if createdBy == "" {
		createdBy, _ = interceptors.GetUserID(ctx)
	}
	exp := &domain.Experiment{
		ID:                uuid.New().String(),
		Name:              in.Name,
		Description:       in.Description,
		Status:            domain.StatusDraft,
		Variants:          in.Variants,
		TrafficAllocation: in.TrafficAllocation,
		SuccessMetric:     in.SuccessMetric,
		MinimumSampleSize: in.MinimumSampleSize,
		ConfidenceLevel:   in.ConfidenceLevel,
		CreatedBy:         createdBy,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	exp.ApplyDefaults()
	if err := s.repo.Create(ctx, exp); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, apperr.Validation("experiment name %q already exists", in.Name)
		}
		return nil, fmt.Errorf("create experiment: %w", err)
	}
	s.record(ctx, exp, "created", telemetrydomain.EventExperimentCreated, "")
	return exp, nil
}

// ListExperiments returns all experiments, newest first.
func (s *Service) ListExperiments(ctx context.Context) ([]*domain.Experiment, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list experiments: %w", err)
	}
	return list, nil
}

// GetExperiment returns the experiment or a not-found error.
func (s *Service) GetExperiment(ctx context.Context, id string) (*domain.Experiment, error) {
	exp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get experiment: %w", err)
	}
	if exp == nil {
		return nil, apperr.NotFound("experiment %s not found", id)
	}
	return exp, nil
}

// StartExperiment moves a draft experiment to running and stamps its start date.
func (s *Service) StartExperiment(ctx context.Context, id string) (*domain.Experiment, error) {
	return s.transition(ctx, id, domain.StatusRunning, "started", telemetrydomain.EventExperimentStarted, domain.StatusDraft)
}

// PauseExperiment moves a running experiment to paused. Assignment falls back to control while paused.
func (s *Service) PauseExperiment(ctx context.Context, id string) (*domain.Experiment, error) {
	return s.transition(ctx, id, domain.StatusPaused, "paused", telemetrydomain.EventExperimentPaused, domain.StatusRunning)
}

// ResumeExperiment moves a paused experiment back to running. The original start date is kept.
func (s *Service) ResumeExperiment(ctx context.Context, id string) (*domain.Experiment, error) {
	return s.transition(ctx, id, domain.StatusRunning, "resumed", telemetrydomain.EventExperimentResumed, domain.StatusPaused)
}

// CompleteExperiment ends an experiment from any non-completed state and stamps its end date.
func (s *Service) CompleteExperiment(ctx context.Context, id string) (*domain.Experiment, error) {
	return s.transition(ctx, id, domain.StatusCompleted, "completed", telemetrydomain.EventExperimentCompleted,
		domain.StatusDraft, domain.StatusRunning, domain.StatusPaused)
}

func (s *Service) transition(ctx context.Context, id string, to domain.ExperimentStatus, action, eventType string, from ...domain.ExperimentStatus) (_ *domain.Experiment, err error) {
	ctx, span := tracer.Start(ctx, "experiment.Transition", trace.WithAttributes(
		attribute.String("experiment.id", id),
		attribute.String("experiment.action", action),
	))
	defer func() { endSpan(span, err) }()

	exp, err := s.GetExperiment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !allowed(exp.Status, from) || !domain.CanTransition(exp.Status, to) {
		return nil, apperr.InvalidState("experiment %s is %s; cannot move to %s", id, exp.Status, to)
	}
	prev := exp.Status
	now := s.now().UTC()
	switch to {
	case domain.StatusRunning:
		if exp.StartDate == nil {
			exp.StartDate = &now
		}
	case domain.StatusCompleted:
		exp.EndDate = &now
	}
	exp.Status = to
	exp.UpdatedAt = now
	if err := s.repo.Update(ctx, exp, prev); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperr.InvalidState("experiment %s changed while moving to %s; reload and retry", id, to)
		}
		return nil, fmt.Errorf("update experiment: %w", err)
	}
	s.record(ctx, exp, action, eventType, prev)
	return exp, nil
}

func allowed(status domain.ExperimentStatus, from []domain.ExperimentStatus) bool {
	for _, f := range from {
		if status == f {
			return true
		}
	}
	return false
}

// DeleteExperiment removes the experiment with its assignments and events. Running experiments cannot be deleted.
func (s *Service) DeleteExperiment(ctx context.Context, id string) error {
	exp, err := s.GetExperiment(ctx, id)
	if err != nil {
		return err
	}
	if !exp.Deletable() {
		return apperr.InvalidState("experiment %s is running; pause or complete it before deleting", id)
	}
	if err := s.cache.Purge(ctx, id); err != nil {
		return fmt.Errorf("purge assignment cache: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete experiment: %w", err)
	}
	// assignments cached between the two calls
	if err := s.cache.Purge(ctx, id); err != nil {
		s.log.Warn("failed to purge assignment cache", "experiment_id", id, "error", err)
	}
	s.record(ctx, exp, "deleted", telemetrydomain.EventExperimentDeleted, exp.Status)
	return nil
}

// AssignVariant returns the user's sticky variant, assigning one on first request.
// Unknown and non-running experiments answer domain.ControlVariant without persisting anything.
func (s *Service) AssignVariant(ctx context.Context, experimentID, userID string) (variant string, err error) {
	ctx, span := tracer.Start(ctx, "experiment.AssignVariant", trace.WithAttributes(attribute.String("experiment.id", experimentID)))
	defer func() {
		span.SetAttributes(attribute.String("experiment.variant", variant))
		endSpan(span, err)
	}()

	if err := validation.Struct(userRef{UserID: userID}); err != nil {
		return "", err
	}
	existing, source, err := s.lookupAssignment(ctx, experimentID, userID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if source == "store" {
			s.cacheAssignment(ctx, existing)
		}
		assignmentsTotal.WithLabelValues(source).Inc()
		return existing.Variant, nil
	}

	exp, err := s.repo.GetByID(ctx, experimentID)
	if err != nil {
		return "", fmt.Errorf("get experiment: %w", err)
	}
	if exp == nil || exp.Status != domain.StatusRunning {
		assignmentsTotal.WithLabelValues("fallback").Inc()
		return domain.ControlVariant, nil
	}

	a := &domain.Assignment{
		ExperimentID: experimentID,
		UserID:       userID,
		Variant:      exp.TrafficAllocation.Select(bucketing.Fraction(userID)),
		AssignedAt:   s.now().UTC(),
	}
	if err := s.repo.CreateAssignment(ctx, a); err != nil {
		if errors.Is(err, repository.ErrExperimentNotFound) {
			assignmentsTotal.WithLabelValues("fallback").Inc()
			return domain.ControlVariant, nil
		}
		if !errors.Is(err, repository.ErrDuplicateAssignment) {
			return "", fmt.Errorf("create assignment: %w", err)
		}
		// lost a concurrent first-assignment race; the stored row wins
		winner, getErr := s.repo.GetAssignment(ctx, experimentID, userID)
		if getErr != nil {
			return "", fmt.Errorf("re-read assignment: %w", getErr)
		}
		if winner == nil {
			return "", fmt.Errorf("re-read assignment: %w", err)
		}
		a = winner
	}
	s.cacheAssignment(ctx, a)
	assignmentsTotal.WithLabelValues("new").Inc()
	return a.Variant, nil
}

// GetUserVariant returns the user's assigned variant, or "" and false when unassigned. It never assigns.
func (s *Service) GetUserVariant(ctx context.Context, experimentID, userID string) (string, bool, error) {
	if userID == "" {
		return "", false, apperr.Validation("user id is required")
	}
	a, _, err := s.lookupAssignment(ctx, experimentID, userID)
	if err != nil || a == nil {
		return "", false, err
	}
	return a.Variant, true, nil
}

// TrackEvent appends an outcome event for an assigned user and reports whether it was recorded.
// Events from users without an assignment are dropped silently.
func (s *Service) TrackEvent(ctx context.Context, experimentID, userID, eventType string, eventData json.RawMessage) (_ bool, err error) {
	ctx, span := tracer.Start(ctx, "experiment.TrackEvent", trace.WithAttributes(
		attribute.String("experiment.id", experimentID),
		attribute.String("experiment.event_type", eventType),
	))
	defer func() { endSpan(span, err) }()

	if err := validation.Struct(eventRef{UserID: userID, EventType: eventType}); err != nil {
		return false, err
	}
	if len(eventData) > 0 && !json.Valid(eventData) {
		return false, apperr.Validation("event data must be valid JSON")
	}
	a, _, err := s.lookupAssignment(ctx, experimentID, userID)
	if err != nil {
		return false, err
	}
	if a == nil {
		eventsTotal.WithLabelValues("unassigned").Inc()
		return false, nil
	}
	ev := &domain.Event{
		ExperimentID: experimentID,
		UserID:       userID,
		Variant:      a.Variant,
		EventType:    eventType,
		EventData:    eventData,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.CreateEvent(ctx, ev); err != nil {
		if errors.Is(err, repository.ErrExperimentNotFound) {
			// stale cache entry for a deleted experiment
			if err := s.cache.Evict(ctx, experimentID, userID); err != nil {
				s.log.Warn("assignment cache evict failed", "experiment_id", experimentID, "user_id", userID, "error", err)
			}
			eventsTotal.WithLabelValues("unknown_experiment").Inc()
			return false, nil
		}
		return false, fmt.Errorf("create event: %w", err)
	}
	eventsTotal.WithLabelValues("recorded").Inc()
	return true, nil
}

// GetResults aggregates the experiment's events per variant and scores the first two variants.
func (s *Service) GetResults(ctx context.Context, experimentID string) (_ *domain.Results, err error) {
	ctx, span := tracer.Start(ctx, "experiment.GetResults", trace.WithAttributes(attribute.String("experiment.id", experimentID)))
	defer func() { endSpan(span, err) }()

	exp, err := s.GetExperiment(ctx, experimentID)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.ListEvents(ctx, experimentID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	res := domain.Aggregate(exp, events)
	span.SetAttributes(
		attribute.Float64("experiment.significance", res.Significance),
		attribute.Int("experiment.variant_groups", len(res.Variants)),
	)
	return res, nil
}

// lookupAssignment checks the cache, then the store. source is "cache" or "store" on a hit.
// Cache failures are logged and fall through to the store.
func (s *Service) lookupAssignment(ctx context.Context, experimentID, userID string) (*domain.Assignment, string, error) {
	a, err := s.cache.Get(ctx, experimentID, userID)
	if err != nil {
		s.log.Warn("assignment cache read failed", "experiment_id", experimentID, "user_id", userID, "error", err)
	} else if a != nil {
		return a, "cache", nil
	}
	a, err = s.repo.GetAssignment(ctx, experimentID, userID)
	if err != nil {
		return nil, "", fmt.Errorf("get assignment: %w", err)
	}
	if a == nil {
		return nil, "", nil
	}
	return a, "store", nil
}

func (s *Service) cacheAssignment(ctx context.Context, a *domain.Assignment) {
	if err := s.cache.Set(ctx, a); err != nil {
		s.log.Warn("assignment cache write failed", "experiment_id", a.ExperimentID, "user_id", a.UserID, "error", err)
	}
}

// record logs, counts, audits and emits one lifecycle transition. prev is "" on create.
func (s *Service) record(ctx context.Context, exp *domain.Experiment, action, eventType string, prev domain.ExperimentStatus) {
	actor, _ := interceptors.GetUserID(ctx)
	transitionsTotal.WithLabelValues(action).Inc()
	s.log.Info("experiment "+action, "experiment_id", exp.ID, "name", exp.Name, "from", string(prev), "to", string(exp.Status), "actor", actor)

	meta := map[string]string{"name": exp.Name, "status": string(exp.Status)}
	if prev != "" {
		meta["from"] = string(prev)
	}
	if s.audit != nil {
		s.audit.LogEvent(ctx, resourceExperiment, exp.ID, action, actor, meta)
	}
	telemetry.EmitAsync(s.emitter, telemetrydomain.NewEvent(eventType, eventSource, resourceExperiment, exp.ID, actor, meta), s.log)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}
