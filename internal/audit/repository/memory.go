package repository

import (
	"context"
	"sort"
	"sync"

	"experimentation-control-plane/internal/audit/domain"
)

// MemoryRepository keeps audit logs in process. Used when DATABASE_URL is unset.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []*domain.AuditLog
}

// NewMemoryRepository returns an empty in-memory audit repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.entries {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) List(ctx context.Context, f domain.ListFilter) ([]*domain.AuditLog, error) {
	r.mu.RLock()
	matched := make([]*domain.AuditLog, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		a := r.entries[i]
		if f.Resource != "" && a.Resource != f.Resource {
			continue
		}
		if f.ResourceID != "" && a.ResourceID != f.ResourceID {
			continue
		}
		if f.Action != "" && a.Action != f.Action {
			continue
		}
		cp := *a
		matched = append(matched, &cp)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	start := int(f.Offset)
	if start > len(matched) {
		start = len(matched)
	}
	end := start + int(f.Limit)
	if f.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (r *MemoryRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	cp := *a
	r.mu.Lock()
	r.entries = append(r.entries, &cp)
	r.mu.Unlock()
	return nil
}
