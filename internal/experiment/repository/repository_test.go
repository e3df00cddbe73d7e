package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"experimentation-control-plane/internal/db"
	"experimentation-control-plane/internal/db/migrate"
	"experimentation-control-plane/internal/experiment/domain"
)

func newExperiment(name string, createdAt time.Time) *domain.Experiment {
	return &domain.Experiment{
		ID:     uuid.New().String(),
		Name:   name,
		Status: domain.StatusDraft,
		Variants: []domain.Variant{
			{Key: "B", Config: json.RawMessage(`{"color":"blue"}`)},
			{Key: "A"},
		},
		TrafficAllocation: domain.Allocations{{Key: "B", Fraction: 0.3}, {Key: "A", Fraction: 0.7}},
		SuccessMetric:     "purchase",
		MinimumSampleSize: 100,
		ConfidenceLevel:   0.95,
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}
}

// exerciseRepository runs the behavior every Repository implementation must share.
func exerciseRepository(t *testing.T, repo Repository) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	suffix := uuid.New().String()[:8]

	older := newExperiment("checkout-"+suffix, now.Add(-time.Hour))
	newer := newExperiment("pricing-"+suffix, now)
	for _, e := range []*domain.Experiment{older, newer} {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create %s: %v", e.Name, err)
		}
	}

	dup := newExperiment(older.Name, now)
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Create duplicate name err = %v, want ErrDuplicateName", err)
	}

	got, err := repo.GetByID(ctx, older.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v, %v", got, err)
	}
	if len(got.TrafficAllocation) != 2 || got.TrafficAllocation[0].Key != "B" {
		t.Errorf("allocation order not preserved: %+v", got.TrafficAllocation)
	}
	if string(got.Variants[0].Config) == "" {
		t.Error("variant config lost")
	}

	missing, err := repo.GetByID(ctx, uuid.New().String())
	if err != nil || missing != nil {
		t.Errorf("GetByID(missing) = %v, %v; want nil, nil", missing, err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	posNewer, posOlder := -1, -1
	for i, e := range list {
		switch e.ID {
		case newer.ID:
			posNewer = i
		case older.ID:
			posOlder = i
		}
	}
	if posNewer < 0 || posOlder < 0 || posNewer > posOlder {
		t.Errorf("List order: newer at %d, older at %d", posNewer, posOlder)
	}

	start := now.Add(time.Minute)
	got.Status = domain.StatusRunning
	got.StartDate = &start
	got.UpdatedAt = start
	if err := repo.Update(ctx, got, domain.StatusDraft); err != nil {
		t.Fatalf("Update: %v", err)
	}
	stale := *got
	stale.Status = domain.StatusPaused
	if err := repo.Update(ctx, &stale, domain.StatusDraft); !errors.Is(err, ErrConflict) {
		t.Errorf("Update with stale status err = %v, want ErrConflict", err)
	}
	updated, _ := repo.GetByID(ctx, older.ID)
	if updated.Status != domain.StatusRunning || updated.StartDate == nil || !updated.StartDate.Equal(start) {
		t.Errorf("Update not persisted: %+v", updated)
	}

	a := &domain.Assignment{ExperimentID: older.ID, UserID: "user-1", Variant: "A", AssignedAt: now}
	if err := repo.CreateAssignment(ctx, a); err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	again := &domain.Assignment{ExperimentID: older.ID, UserID: "user-1", Variant: "B", AssignedAt: now}
	if err := repo.CreateAssignment(ctx, again); !errors.Is(err, ErrDuplicateAssignment) {
		t.Errorf("second CreateAssignment err = %v, want ErrDuplicateAssignment", err)
	}
	stored, err := repo.GetAssignment(ctx, older.ID, "user-1")
	if err != nil || stored == nil || stored.Variant != "A" {
		t.Errorf("GetAssignment = %+v, %v; want variant A", stored, err)
	}
	if none, err := repo.GetAssignment(ctx, older.ID, "user-2"); err != nil || none != nil {
		t.Errorf("GetAssignment(unassigned) = %v, %v", none, err)
	}

	for i, typ := range []string{"view", "purchase", "view"} {
		ev := &domain.Event{
			ExperimentID: older.ID, UserID: "user-1", Variant: "A", EventType: typ,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}
		if i == 1 {
			ev.EventData = json.RawMessage(`{"amount":12}`)
		}
		if err := repo.CreateEvent(ctx, ev); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
		if ev.ID == 0 {
			t.Error("CreateEvent should set ID")
		}
	}
	events, err := repo.ListEvents(ctx, older.ID)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 3 || events[1].EventType != "purchase" || events[0].ID >= events[2].ID {
		t.Errorf("ListEvents = %+v", events)
	}

	if err := repo.Delete(ctx, older.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	late := &domain.Event{ExperimentID: older.ID, UserID: "user-1", Variant: "A", EventType: "view", CreatedAt: now}
	if err := repo.CreateEvent(ctx, late); !errors.Is(err, ErrExperimentNotFound) {
		t.Errorf("CreateEvent after Delete err = %v, want ErrExperimentNotFound", err)
	}
	orphan := &domain.Assignment{ExperimentID: older.ID, UserID: "user-3", Variant: "A", AssignedAt: now}
	if err := repo.CreateAssignment(ctx, orphan); !errors.Is(err, ErrExperimentNotFound) {
		t.Errorf("CreateAssignment after Delete err = %v, want ErrExperimentNotFound", err)
	}
	if err := repo.Update(ctx, got, domain.StatusRunning); !errors.Is(err, ErrConflict) {
		t.Errorf("Update after Delete err = %v, want ErrConflict", err)
	}
	if e, _ := repo.GetByID(ctx, older.ID); e != nil {
		t.Error("experiment still present after Delete")
	}
	if a, _ := repo.GetAssignment(ctx, older.ID, "user-1"); a != nil {
		t.Error("assignment still present after Delete")
	}
	if evs, _ := repo.ListEvents(ctx, older.ID); len(evs) != 0 {
		t.Errorf("events still present after Delete: %d", len(evs))
	}
	_ = repo.Delete(ctx, newer.ID)
}

func TestMemoryRepository(t *testing.T) {
	exerciseRepository(t, NewMemoryRepository())
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	e := newExperiment("copy", time.Now())
	if err := repo.Create(ctx, e); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.GetByID(ctx, e.ID)
	got.Status = domain.StatusCompleted
	got.TrafficAllocation[0].Fraction = 1
	again, _ := repo.GetByID(ctx, e.ID)
	if again.Status != domain.StatusDraft || again.TrafficAllocation[0].Fraction != 0.3 {
		t.Error("mutating a returned experiment changed the stored one")
	}
}

func TestPostgresRepository_Integration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	if err := migrate.Run(dsn, "up"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	conn, err := db.Open(dsn)
	if err != nil {
		t.Skipf("Database connection failed (expected in test environment): %v", err)
	}
	defer conn.Close()
	exerciseRepository(t, NewPostgresRepository(conn))
}
