// Package scheduler drives rollout evaluation on a fixed interval, outside the request path.
package scheduler

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"experimentation-control-plane/internal/platform/logger"
	"experimentation-control-plane/internal/rollout/domain"
	"experimentation-control-plane/internal/rollout/service"
)

const (
	DefaultInterval    = time.Minute
	DefaultConcurrency = 4
	DefaultTimeout     = 30 * time.Second
)

// Evaluator is the part of the rollout service a pass needs.
type Evaluator interface {
	ListInProgress(ctx context.Context) ([]*domain.Rollout, error)
	EvaluateRollout(ctx context.Context, id string) (*service.Evaluation, error)
}

// Config tunes a Scheduler. Zero values take the defaults.
type Config struct {
	Interval    time.Duration
	Concurrency int
	// Timeout bounds a single rollout evaluation, lock wait included.
	Timeout time.Duration
}

// Summary counts the outcomes of one pass. Failed evaluations are counted under Errors.
type Summary struct {
	Actions map[service.Action]int
	Errors  int
}

// Scheduler evaluates every in-progress rollout once per interval. Distinct rollouts are
// evaluated concurrently up to Concurrency.
type Scheduler struct {
	eval Evaluator
	cfg  Config
	log  *logger.Logger
}

func New(eval Evaluator, cfg Config, log *logger.Logger) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{eval: eval, cfg: cfg, log: log.With("component", "rollout-scheduler")}
}

// Run performs a pass immediately and then once per interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("scheduler started", "interval", s.cfg.Interval.String(), "concurrency", s.cfg.Concurrency)
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			s.log.Error("evaluation pass failed", "error", err)
		}
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce evaluates every in-progress rollout. Only a failure to list rollouts is returned;
// individual evaluation failures are logged and counted.
func (s *Scheduler) RunOnce(ctx context.Context) (Summary, error) {
	sum := Summary{Actions: map[service.Action]int{}}
	rollouts, err := s.eval.ListInProgress(ctx)
	if err != nil {
		return sum, err
	}
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for _, r := range rollouts {
		if ctx.Err() != nil {
			break
		}
		id, name := r.ID, r.Name
		g.Go(func() error {
			evalCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
			defer cancel()
			ev, err := s.eval.EvaluateRollout(evalCtx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				sum.Errors++
				s.log.Warn("rollout evaluation failed", "rollout_id", id, "name", name, "error", err)
				return nil
			}
			sum.Actions[ev.Action]++
			if ev.Action != service.ActionNoop {
				s.log.Info("rollout evaluated", "rollout_id", id, "name", name,
					"action", string(ev.Action), "percentage", ev.Rollout.CurrentPercentage)
			}
			return nil
		})
	}
	_ = g.Wait()
	s.log.Debug("evaluation pass done", "rollouts", len(rollouts), "errors", sum.Errors)
	return sum, nil
}
