// Package service drives staged model rollouts: lifecycle, health-gated evaluation and cohort checks.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"experimentation-control-plane/internal/apperr"
	"experimentation-control-plane/internal/audit"
	"experimentation-control-plane/internal/lock"
	"experimentation-control-plane/internal/platform/logger"
	"experimentation-control-plane/internal/platform/validation"
	"experimentation-control-plane/internal/policy/engine"
	"experimentation-control-plane/internal/rollout/domain"
	"experimentation-control-plane/internal/rollout/health"
	"experimentation-control-plane/internal/rollout/repository"
	"experimentation-control-plane/internal/server/interceptors"
	"experimentation-control-plane/internal/telemetry"
	telemetrydomain "experimentation-control-plane/internal/telemetry/domain"
)

const (
	resourceRollout = "rollout"
	eventSource     = "rollout-service"

	// DefaultHealthCheckTimeout bounds one health provider call.
	DefaultHealthCheckTimeout = 5 * time.Second
)

var tracer = otel.Tracer("experimentation-control-plane/internal/rollout/service")

// Action is what an evaluation did to a rollout.
type Action string

const (
	ActionNoop       Action = "noop"
	ActionAdvanced   Action = "advanced"
	ActionCompleted  Action = "completed"
	ActionRolledBack Action = "rolled_back"
)

// Evaluation is the result of EvaluateRollout.
type Evaluation struct {
	Rollout *domain.Rollout
	Action  Action
}

// CreateInput is the configuration of a new rollout.
type CreateInput struct {
	Name         string `validate:"required,max=100"`
	Description  string `validate:"max=2000"`
	ModelVersion string `validate:"required,max=50"`
	Schedule     domain.Schedule
}

// CheckResult answers whether a user should be served the new model version.
type CheckResult struct {
	ShouldUseNewModel bool
	// Rollout is the active rollout for the model version, nil when there is none.
	Rollout *domain.Rollout
}

// Service owns rollouts and advances them against their schedule.
type Service struct {
	repo          repository.Repository
	provider      health.Provider
	gate          engine.Gate
	locker        lock.Locker
	healthTimeout time.Duration
	audit         audit.AuditLogger
	emitter       telemetry.EventEmitter
	log           *logger.Logger
	now           func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLocker sets the per-rollout lock. Defaults to an in-process lock.Local.
func WithLocker(l lock.Locker) Option {
	return func(s *Service) {
		if l != nil {
			s.locker = l
		}
	}
}

// WithHealthTimeout bounds each health provider call. Non-positive values keep the default.
func WithHealthTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.healthTimeout = d
		}
	}
}

func WithAudit(a audit.AuditLogger) Option {
	return func(s *Service) { s.audit = a }
}

func WithEmitter(e telemetry.EventEmitter) Option {
	return func(s *Service) { s.emitter = e }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now. Evaluation compares the schedule against this clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a Service. provider supplies model metrics and gate judges them.
func New(repo repository.Repository, provider health.Provider, gate engine.Gate, opts ...Option) *Service {
	s := &Service{
		repo:          repo,
		provider:      provider,
		gate:          gate,
		locker:        lock.NewLocal(),
		healthTimeout: DefaultHealthCheckTimeout,
		log:           logger.Nop(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("service", "rollout")
	return s
}

// CreateRollout validates in and persists a pending rollout at 0%.
func (s *Service) CreateRollout(ctx context.Context, in CreateInput) (_ *domain.Rollout, err error) {
	ctx, span := tracer.Start(ctx, "rollout.Create", trace.WithAttributes(
		attribute.String("rollout.name", in.Name),
		attribute.String("rollout.model_version", in.ModelVersion),
	))
	defer func() { endSpan(span, err) }()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	r := &domain.Rollout{
		ID:               uuid.New().String(),
		Name:             in.Name,
		Description:      in.Description,
		ModelVersion:     in.ModelVersion,
		Status:           domain.StatusPending,
		Schedule:         domain.Schedule{Stages: append([]domain.Stage(nil), in.Schedule.Stages...)},
		TargetPercentage: domain.FullPercentage,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, apperr.Validation("rollout name %q already exists", in.Name)
		}
		return nil, fmt.Errorf("create rollout: %w", err)
	}
	s.record(ctx, r, "created", telemetrydomain.EventRolloutCreated, "")
	return r, nil
}

// ListRollouts returns all rollouts, newest first.
func (s *Service) ListRollouts(ctx context.Context) ([]*domain.Rollout, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rollouts: %w", err)
	}
	return list, nil
}

// ListInProgress returns the rollouts an evaluation pass should visit, oldest first.
func (s *Service) ListInProgress(ctx context.Context) ([]*domain.Rollout, error) {
	list, err := s.repo.ListByStatus(ctx, domain.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("list in-progress rollouts: %w", err)
	}
	return list, nil
}

// GetRollout returns the rollout or a not-found error.
func (s *Service) GetRollout(ctx context.Context, id string) (*domain.Rollout, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get rollout: %w", err)
	}
	if r == nil {
		return nil, apperr.NotFound("rollout %s not found", id)
	}
	return r, nil
}

// StartRollout moves a pending rollout to in_progress and starts its schedule clock.
func (s *Service) StartRollout(ctx context.Context, id string) (_ *domain.Rollout, err error) {
	ctx, span := tracer.Start(ctx, "rollout.Start", trace.WithAttributes(attribute.String("rollout.id", id)))
	defer func() { endSpan(span, err) }()

	release, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	r, err := s.GetRollout(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != domain.StatusPending {
		return nil, apperr.InvalidState("only pending rollouts can be started (rollout is %s)", r.Status)
	}
	seen := repository.ExpectedOf(r)
	now := s.now().UTC()
	r.Status = domain.StatusInProgress
	r.Schedule.StartTime = &now
	r.UpdatedAt = now
	if err := s.update(ctx, r, seen); err != nil {
		return nil, err
	}
	s.record(ctx, r, "started", telemetrydomain.EventRolloutStarted, domain.StatusPending)
	return r, nil
}

// EvaluateRollout advances an in-progress rollout to the percentage its schedule calls for,
// provided the model passes the health gate. An unhealthy or unreadable model rolls the rollout
// back at once. Rollouts in any other status, or already at their scheduled percentage, are left alone.
func (s *Service) EvaluateRollout(ctx context.Context, id string) (_ *Evaluation, err error) {
	ctx, span := tracer.Start(ctx, "rollout.Evaluate", trace.WithAttributes(attribute.String("rollout.id", id)))
	defer func() { endSpan(span, err) }()

	release, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	r, err := s.GetRollout(ctx, id)
	if err != nil {
		return nil, err
	}
	eval := &Evaluation{Rollout: r, Action: ActionNoop}
	defer func() {
		if err == nil {
			evaluationsTotal.WithLabelValues(string(eval.Action)).Inc()
			span.SetAttributes(attribute.String("rollout.action", string(eval.Action)))
		}
	}()
	if r.Status != domain.StatusInProgress {
		return eval, nil
	}
	now := s.now().UTC()
	target := domain.TargetPercentage(r.Schedule, now)
	if target <= r.CurrentPercentage {
		return eval, nil
	}

	seen := repository.ExpectedOf(r)
	r.HealthMetrics = s.checkHealth(ctx, r.ModelVersion, now)
	r.UpdatedAt = now
	prev := r.Status
	switch {
	case !r.HealthMetrics.IsHealthy:
		r.Status = domain.StatusRolledBack
		r.CurrentPercentage = 0
		eval.Action = ActionRolledBack
	case target >= domain.FullPercentage:
		r.Status = domain.StatusCompleted
		r.CurrentPercentage = domain.FullPercentage
		eval.Action = ActionCompleted
	default:
		r.CurrentPercentage = target
		eval.Action = ActionAdvanced
	}
	if err := s.update(ctx, r, seen); err != nil {
		return nil, err
	}

	switch eval.Action {
	case ActionRolledBack:
		s.log.Warn("health check failed, rolling back", "rollout_id", r.ID, "name", r.Name,
			"error_rate", r.HealthMetrics.ErrorRate, "latency", r.HealthMetrics.Latency,
			"accuracy", r.HealthMetrics.Accuracy, "reason", r.HealthMetrics.Error)
		s.record(ctx, r, "rolled_back", telemetrydomain.EventRolloutRolledBack, prev)
	case ActionCompleted:
		s.record(ctx, r, "completed", telemetrydomain.EventRolloutCompleted, prev)
	default:
		s.record(ctx, r, "advanced", telemetrydomain.EventRolloutAdvanced, prev)
	}
	return eval, nil
}

// checkHealth reads and gates the model's metrics within healthTimeout. A provider or gate failure,
// or a check that outlives the timeout, yields an unhealthy snapshot carrying the error.
func (s *Service) checkHealth(ctx context.Context, modelVersion string, now time.Time) *domain.HealthMetrics {
	hctx, cancel := context.WithTimeout(ctx, s.healthTimeout)
	defer cancel()

	// buffered so a provider that ignores hctx can finish after we stop waiting
	done := make(chan *domain.HealthMetrics, 1)
	go func() { done <- s.readHealth(hctx, modelVersion, now) }()

	select {
	case snap := <-done:
		if hctx.Err() == nil || !snap.IsHealthy {
			return snap
		}
		// answered, but only after the deadline
		snap.IsHealthy = false
		snap.Error = "health check exceeded " + s.healthTimeout.String()
		healthChecksTotal.WithLabelValues("timeout").Inc()
		return snap
	case <-hctx.Done():
		healthChecksTotal.WithLabelValues("timeout").Inc()
		return &domain.HealthMetrics{
			Timestamp: now,
			Error:     "metrics unavailable: " + hctx.Err().Error(),
		}
	}
}

func (s *Service) readHealth(ctx context.Context, modelVersion string, now time.Time) *domain.HealthMetrics {
	snap := &domain.HealthMetrics{Timestamp: now}
	m, err := s.provider.ModelMetrics(ctx, modelVersion)
	if err != nil {
		healthChecksTotal.WithLabelValues("error").Inc()
		snap.Error = "metrics unavailable: " + err.Error()
		return snap
	}
	snap.ErrorRate, snap.Latency, snap.Accuracy = m.ErrorRate, m.Latency, m.Accuracy

	verdict, err := s.gate.Evaluate(ctx, m)
	if err != nil {
		healthChecksTotal.WithLabelValues("error").Inc()
		snap.Error = "health gate: " + err.Error()
		return snap
	}
	snap.IsHealthy = verdict.Healthy
	if !verdict.Healthy {
		healthChecksTotal.WithLabelValues("unhealthy").Inc()
		snap.Error = "thresholds violated: " + strings.Join(verdict.Violations, ", ")
		return snap
	}
	healthChecksTotal.WithLabelValues("healthy").Inc()
	return snap
}

// RollbackRollout stops a pending or in-progress rollout and drops its exposure to 0%.
func (s *Service) RollbackRollout(ctx context.Context, id string) (_ *domain.Rollout, err error) {
	ctx, span := tracer.Start(ctx, "rollout.Rollback", trace.WithAttributes(attribute.String("rollout.id", id)))
	defer func() { endSpan(span, err) }()

	release, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	r, err := s.GetRollout(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status.Terminal() {
		return nil, apperr.InvalidState("rollout is already %s", r.Status)
	}
	seen := repository.ExpectedOf(r)
	prev := r.Status
	r.Status = domain.StatusRolledBack
	r.CurrentPercentage = 0
	r.UpdatedAt = s.now().UTC()
	if err := s.update(ctx, r, seen); err != nil {
		return nil, err
	}
	s.record(ctx, r, "rolled_back", telemetrydomain.EventRolloutRolledBack, prev)
	return r, nil
}

// DeleteRollout removes a rollout that is not in progress.
func (s *Service) DeleteRollout(ctx context.Context, id string) (err error) {
	ctx, span := tracer.Start(ctx, "rollout.Delete", trace.WithAttributes(attribute.String("rollout.id", id)))
	defer func() { endSpan(span, err) }()

	release, err := s.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	r, err := s.GetRollout(ctx, id)
	if err != nil {
		return err
	}
	if !r.Deletable() {
		return apperr.InvalidState("cannot delete an in-progress rollout; roll it back first")
	}
	if err := s.repo.Delete(ctx, id, r.Status); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return apperr.InvalidState("rollout %s changed while deleting; reload and retry", id)
		}
		return fmt.Errorf("delete rollout: %w", err)
	}
	s.record(ctx, r, "deleted", telemetrydomain.EventRolloutDeleted, r.Status)
	return nil
}

// ShouldUseNewVersion reports whether userID is inside the rollout's current cohort.
// Unknown and not-in-progress rollouts answer false.
func (s *Service) ShouldUseNewVersion(ctx context.Context, userID, rolloutID string) (bool, error) {
	if userID == "" {
		return false, apperr.Validation("user id is required")
	}
	r, err := s.repo.GetByID(ctx, rolloutID)
	if err != nil {
		return false, fmt.Errorf("get rollout: %w", err)
	}
	return r.Includes(userID), nil
}

// GetActiveRollout returns the in-progress rollout for modelVersion, or nil when there is none.
func (s *Service) GetActiveRollout(ctx context.Context, modelVersion string) (*domain.Rollout, error) {
	if modelVersion == "" {
		return nil, apperr.Validation("model version is required")
	}
	r, err := s.repo.GetActiveByModelVersion(ctx, modelVersion)
	if err != nil {
		return nil, fmt.Errorf("get active rollout: %w", err)
	}
	return r, nil
}

// CheckRollout combines GetActiveRollout and the cohort check for a user.
func (s *Service) CheckRollout(ctx context.Context, userID, modelVersion string) (*CheckResult, error) {
	if userID == "" {
		return nil, apperr.Validation("user id is required")
	}
	r, err := s.GetActiveRollout(ctx, modelVersion)
	if err != nil {
		return nil, err
	}
	return &CheckResult{ShouldUseNewModel: r.Includes(userID), Rollout: r}, nil
}

// update persists r if the stored row still matches seen. A lost race surfaces as InvalidState so
// the caller re-reads instead of overwriting another process's transition.
func (s *Service) update(ctx context.Context, r *domain.Rollout, seen repository.Expected) error {
	if err := s.repo.Update(ctx, r, seen); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			conflictsTotal.Inc()
			s.log.Warn("rollout changed concurrently, write dropped", "rollout_id", r.ID,
				"seen_status", string(seen.Status), "seen_percentage", seen.Percentage)
			return apperr.InvalidState("rollout %s changed concurrently; reload and retry", r.ID)
		}
		return fmt.Errorf("update rollout: %w", err)
	}
	return nil
}

// acquire takes the rollout's lock. The returned func releases it and logs a lost lease.
func (s *Service) acquire(ctx context.Context, id string) (func(), error) {
	release, err := s.locker.Acquire(ctx, "rollout:"+id)
	if err != nil {
		return nil, fmt.Errorf("lock rollout %s: %w", id, err)
	}
	return func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn("rollout lock release failed", "rollout_id", id, "error", err)
		}
	}, nil
}

// record logs, audits and emits one lifecycle transition and refreshes the percentage gauge.
func (s *Service) record(ctx context.Context, r *domain.Rollout, action, eventType string, prev domain.RolloutStatus) {
	actor, _ := interceptors.GetUserID(ctx)
	if r.Status == domain.StatusInProgress && action != "deleted" {
		currentPercentage.WithLabelValues(r.Name, r.ModelVersion).Set(float64(r.CurrentPercentage))
	} else {
		currentPercentage.DeleteLabelValues(r.Name, r.ModelVersion)
	}
	s.log.Info("rollout "+action, "rollout_id", r.ID, "name", r.Name, "model_version", r.ModelVersion,
		"from", string(prev), "to", string(r.Status), "percentage", r.CurrentPercentage, "actor", actor)
	meta := map[string]any{
		"name":          r.Name,
		"model_version": r.ModelVersion,
		"status":        string(r.Status),
		"percentage":    r.CurrentPercentage,
	}
	if prev != "" {
		meta["from"] = string(prev)
	}
	if r.HealthMetrics != nil {
		meta["healthy"] = r.HealthMetrics.IsHealthy
	}
	if s.audit != nil {
		s.audit.LogEvent(ctx, resourceRollout, r.ID, action, actor, meta)
	}
	telemetry.EmitAsync(s.emitter, telemetrydomain.NewEvent(eventType, eventSource, resourceRollout, r.ID, actor, meta), s.log)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}
