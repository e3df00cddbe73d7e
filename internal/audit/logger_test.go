package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"experimentation-control-plane/internal/audit/domain"
)

// mockAuditRepo implements the audit repository interface for tests.
type mockAuditRepo struct {
	entries   []*domain.AuditLog
	createErr error
}

func (m *mockAuditRepo) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	return nil, nil
}

func (m *mockAuditRepo) List(ctx context.Context, f domain.ListFilter) ([]*domain.AuditLog, error) {
	return m.entries, nil
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func TestLogger_LogEvent_Success(t *testing.T) {
	repo := &mockAuditRepo{}
	ipExtractor := func(ctx context.Context) string {
		return "192.168.1.1"
	}
	l := NewLogger(repo, ipExtractor, nil)

	l.LogEvent(context.Background(), "experiment", "exp-1", "start", "user-1", map[string]string{"from": "draft"})

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.Resource != "experiment" {
		t.Errorf("resource = %q, want %q", entry.Resource, "experiment")
	}
	if entry.ResourceID != "exp-1" {
		t.Errorf("resource_id = %q, want %q", entry.ResourceID, "exp-1")
	}
	if entry.Action != "start" {
		t.Errorf("action = %q, want %q", entry.Action, "start")
	}
	if entry.Actor != "user-1" {
		t.Errorf("actor = %q, want %q", entry.Actor, "user-1")
	}
	if entry.IP != "192.168.1.1" {
		t.Errorf("ip = %q, want %q", entry.IP, "192.168.1.1")
	}
	var meta map[string]string
	if err := json.Unmarshal([]byte(entry.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v", err)
	}
	if meta["from"] != "draft" {
		t.Errorf("metadata = %q", entry.Metadata)
	}
	if entry.ID == "" {
		t.Error("entry ID should be set")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("entry CreatedAt should be set")
	}
}

func TestLogger_LogEvent_NilIPExtractor(t *testing.T) {
	repo := &mockAuditRepo{}
	l := NewLogger(repo, nil, nil)

	l.LogEvent(context.Background(), "rollout", "r-1", "rollback", "user-1", nil)

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	if repo.entries[0].IP != "unknown" {
		t.Errorf("ip = %q, want %q", repo.entries[0].IP, "unknown")
	}
	if repo.entries[0].Metadata != "" {
		t.Errorf("metadata = %q, want empty", repo.entries[0].Metadata)
	}
}

func TestLogger_LogEvent_SystemActor(t *testing.T) {
	repo := &mockAuditRepo{}
	l := NewLogger(repo, nil, nil)

	l.LogEvent(context.Background(), "rollout", "r-1", "advance", "", nil)

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	if repo.entries[0].Actor != SystemActor {
		t.Errorf("actor = %q, want %q", repo.entries[0].Actor, SystemActor)
	}
}

func TestLogger_LogEvent_RepositoryError(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("database error")}
	l := NewLogger(repo, nil, nil)

	// best-effort: must not panic
	l.LogEvent(context.Background(), "experiment", "exp-1", "start", "user-1", nil)
}

func TestLogger_LogEvent_NilRepo(t *testing.T) {
	l := NewLogger(nil, nil, nil)
	l.LogEvent(context.Background(), "experiment", "exp-1", "start", "user-1", nil)

	var nilLogger *Logger
	nilLogger.LogEvent(context.Background(), "experiment", "exp-1", "start", "user-1", nil)
}
