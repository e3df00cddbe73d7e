package repository

import (
	"context"

	"experimentation-control-plane/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.AuditLog, error)
	// List returns matching entries newest first.
	List(ctx context.Context, f domain.ListFilter) ([]*domain.AuditLog, error)
	Create(ctx context.Context, a *domain.AuditLog) error
}
