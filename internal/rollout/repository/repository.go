package repository

import (
	"context"
	"errors"

	"experimentation-control-plane/internal/rollout/domain"
)

var (
	// ErrDuplicateName is returned by Create when another rollout already has the name.
	ErrDuplicateName = errors.New("rollout name already exists")
	// ErrConflict is returned by Update and Delete when the stored row no longer matches what the caller read.
	ErrConflict = errors.New("rollout was modified concurrently")
)

// Expected is the stored state a write was computed from. Writes against any other state are refused,
// so two processes racing on one rollout cannot overwrite each other.
type Expected struct {
	Status     domain.RolloutStatus
	Percentage int
}

// ExpectedOf returns the Expected matching r as read.
func ExpectedOf(r *domain.Rollout) Expected {
	return Expected{Status: r.Status, Percentage: r.CurrentPercentage}
}

// Repository defines persistence for rollouts. Getters return (nil, nil) when the row does not exist.
type Repository interface {
	Create(ctx context.Context, r *domain.Rollout) error
	GetByID(ctx context.Context, id string) (*domain.Rollout, error)
	// List returns all rollouts, newest first.
	List(ctx context.Context) ([]*domain.Rollout, error)
	// ListByStatus returns rollouts in status, oldest first.
	ListByStatus(ctx context.Context, status domain.RolloutStatus) ([]*domain.Rollout, error)
	// GetActiveByModelVersion returns the most recently created in-progress rollout for modelVersion.
	GetActiveByModelVersion(ctx context.Context, modelVersion string) (*domain.Rollout, error)
	// Update writes r if the row still matches expected, else ErrConflict.
	Update(ctx context.Context, r *domain.Rollout, expected Expected) error
	// Delete removes the row if it still has status expected, else ErrConflict.
	Delete(ctx context.Context, id string, expected domain.RolloutStatus) error
}
