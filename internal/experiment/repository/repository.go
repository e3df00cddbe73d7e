package repository

import (
	"context"
	"errors"

	"experimentation-control-plane/internal/experiment/domain"
)

var (
	// ErrDuplicateName is returned by Create when another experiment already has the name.
	ErrDuplicateName = errors.New("experiment name already exists")
	// ErrDuplicateAssignment is returned by CreateAssignment when (experiment, user) is already assigned.
	ErrDuplicateAssignment = errors.New("assignment already exists")
	// ErrConflict is returned by Update when the stored status is no longer the expected one.
	ErrConflict = errors.New("experiment was modified concurrently")
	// ErrExperimentNotFound is returned by CreateAssignment and CreateEvent when the experiment is gone.
	ErrExperimentNotFound = errors.New("experiment does not exist")
)

// Repository defines persistence for experiments, their sticky assignments and their event log.
// Getters return (nil, nil) when the row does not exist.
type Repository interface {
	Create(ctx context.Context, e *domain.Experiment) error
	GetByID(ctx context.Context, id string) (*domain.Experiment, error)
	// List returns all experiments, newest first.
	List(ctx context.Context) ([]*domain.Experiment, error)
	// Update writes e only if the stored status is still expected. Otherwise it returns ErrConflict.
	Update(ctx context.Context, e *domain.Experiment, expected domain.ExperimentStatus) error
	// Delete removes the experiment with its assignments and events.
	Delete(ctx context.Context, id string) error

	GetAssignment(ctx context.Context, experimentID, userID string) (*domain.Assignment, error)
	CreateAssignment(ctx context.Context, a *domain.Assignment) error

	// CreateEvent appends ev and sets ev.ID.
	CreateEvent(ctx context.Context, ev *domain.Event) error
	// ListEvents returns the experiment's events in insertion order.
	ListEvents(ctx context.Context, experimentID string) ([]*domain.Event, error)
}
