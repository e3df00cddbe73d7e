package repository

import (
	"context"
	"sort"
	"sync"

	"experimentation-control-plane/internal/rollout/domain"
)

// MemoryRepository is an in-process Repository enforcing the same unique name rule as the Postgres schema.
type MemoryRepository struct {
	mu       sync.RWMutex
	rollouts map[string]*domain.Rollout
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rollouts: make(map[string]*domain.Rollout)}
}

func (m *MemoryRepository) Create(ctx context.Context, r *domain.Rollout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rollouts {
		if existing.Name == r.Name {
			return ErrDuplicateName
		}
	}
	m.rollouts[r.ID] = clone(r)
	return nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Rollout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rollouts[id]
	if !ok {
		return nil, nil
	}
	return clone(r), nil
}

func (m *MemoryRepository) List(ctx context.Context) ([]*domain.Rollout, error) {
	out := m.filter(func(*domain.Rollout) bool { return true })
	sortNewestFirst(out)
	return out, nil
}

func (m *MemoryRepository) ListByStatus(ctx context.Context, status domain.RolloutStatus) ([]*domain.Rollout, error) {
	out := m.filter(func(r *domain.Rollout) bool { return r.Status == status })
	sortNewestFirst(out)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (m *MemoryRepository) GetActiveByModelVersion(ctx context.Context, modelVersion string) (*domain.Rollout, error) {
	out := m.filter(func(r *domain.Rollout) bool {
		return r.ModelVersion == modelVersion && r.Status == domain.StatusInProgress
	})
	if len(out) == 0 {
		return nil, nil
	}
	sortNewestFirst(out)
	return out[0], nil
}

func (m *MemoryRepository) Update(ctx context.Context, r *domain.Rollout, expected Expected) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rollouts[r.ID]
	if !ok || ExpectedOf(cur) != expected {
		return ErrConflict
	}
	m.rollouts[r.ID] = clone(r)
	return nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id string, expected domain.RolloutStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rollouts[id]
	if !ok || cur.Status != expected {
		return ErrConflict
	}
	delete(m.rollouts, id)
	return nil
}

func (m *MemoryRepository) filter(keep func(*domain.Rollout) bool) []*domain.Rollout {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Rollout
	for _, r := range m.rollouts {
		if keep(r) {
			out = append(out, clone(r))
		}
	}
	return out
}

func sortNewestFirst(rs []*domain.Rollout) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].ID > rs[j].ID
		}
		return rs[i].CreatedAt.After(rs[j].CreatedAt)
	})
}

func clone(r *domain.Rollout) *domain.Rollout {
	cp := *r
	cp.Schedule.Stages = append([]domain.Stage(nil), r.Schedule.Stages...)
	if r.Schedule.StartTime != nil {
		t := *r.Schedule.StartTime
		cp.Schedule.StartTime = &t
	}
	if r.HealthMetrics != nil {
		hm := *r.HealthMetrics
		cp.HealthMetrics = &hm
	}
	return &cp
}
