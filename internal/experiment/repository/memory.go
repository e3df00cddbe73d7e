package repository

import (
	"context"
	"sort"
	"sync"

	"experimentation-control-plane/internal/experiment/domain"
)

type assignmentKey struct {
	experimentID string
	userID       string
}

// MemoryRepository is an in-process Repository with the same uniqueness rules as the Postgres schema.
type MemoryRepository struct {
	mu          sync.RWMutex
	experiments map[string]*domain.Experiment
	assignments map[assignmentKey]*domain.Assignment
	events      map[string][]*domain.Event
	nextEventID int64
}

// NewMemoryRepository returns an empty in-memory experiment repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		experiments: make(map[string]*domain.Experiment),
		assignments: make(map[assignmentKey]*domain.Assignment),
		events:      make(map[string][]*domain.Event),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, e *domain.Experiment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.experiments {
		if existing.Name == e.Name {
			return ErrDuplicateName
		}
	}
	r.experiments[e.ID] = cloneExperiment(e)
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Experiment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.experiments[id]
	if !ok {
		return nil, nil
	}
	return cloneExperiment(e), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*domain.Experiment, error) {
	r.mu.RLock()
	out := make([]*domain.Experiment, 0, len(r.experiments))
	for _, e := range r.experiments {
		out = append(out, cloneExperiment(e))
	}
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, e *domain.Experiment, expected domain.ExperimentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.experiments[e.ID]
	if !ok || cur.Status != expected {
		return ErrConflict
	}
	r.experiments[e.ID] = cloneExperiment(e)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.experiments, id)
	delete(r.events, id)
	for k := range r.assignments {
		if k.experimentID == id {
			delete(r.assignments, k)
		}
	}
	return nil
}

func (r *MemoryRepository) GetAssignment(ctx context.Context, experimentID, userID string) (*domain.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assignments[assignmentKey{experimentID, userID}]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *MemoryRepository) CreateAssignment(ctx context.Context, a *domain.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.experiments[a.ExperimentID]; !ok {
		return ErrExperimentNotFound
	}
	k := assignmentKey{a.ExperimentID, a.UserID}
	if _, ok := r.assignments[k]; ok {
		return ErrDuplicateAssignment
	}
	cp := *a
	r.assignments[k] = &cp
	return nil
}

func (r *MemoryRepository) CreateEvent(ctx context.Context, ev *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.experiments[ev.ExperimentID]; !ok {
		return ErrExperimentNotFound
	}
	r.nextEventID++
	ev.ID = r.nextEventID
	cp := *ev
	r.events[ev.ExperimentID] = append(r.events[ev.ExperimentID], &cp)
	return nil
}

func (r *MemoryRepository) ListEvents(ctx context.Context, experimentID string) ([]*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.events[experimentID]
	out := make([]*domain.Event, len(src))
	for i, ev := range src {
		cp := *ev
		out[i] = &cp
	}
	return out, nil
}

func cloneExperiment(e *domain.Experiment) *domain.Experiment {
	cp := *e
	cp.Variants = append([]domain.Variant(nil), e.Variants...)
	cp.TrafficAllocation = append(domain.Allocations(nil), e.TrafficAllocation...)
	if e.StartDate != nil {
		t := *e.StartDate
		cp.StartDate = &t
	}
	if e.EndDate != nil {
		t := *e.EndDate
		cp.EndDate = &t
	}
	return &cp
}
