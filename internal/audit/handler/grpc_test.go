package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	auditv1 "experimentation-control-plane/api/audit/v1"
	auditdomain "experimentation-control-plane/internal/audit/domain"
	"experimentation-control-plane/internal/audit/repository"
)

// failingRepo returns listErr from List.
type failingRepo struct {
	repository.Repository
	listErr error
}

func (f *failingRepo) List(context.Context, auditdomain.ListFilter) ([]*auditdomain.AuditLog, error) {
	return nil, f.listErr
}

func seed(t *testing.T, repo *repository.MemoryRepository, n int) {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		resource := "experiment"
		if i%2 == 1 {
			resource = "rollout"
		}
		err := repo.Create(context.Background(), &auditdomain.AuditLog{
			ID:         fmt.Sprintf("log-%d", i),
			Resource:   resource,
			ResourceID: fmt.Sprintf("%s-%d", resource, i),
			Action:     "start",
			Actor:      "user-1",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
}

func TestListAuditLogs_NilRepo(t *testing.T) {
	srv := NewServer(nil)
	_, err := srv.ListAuditLogs(context.Background(), &auditv1.ListAuditLogsRequest{})
	if status.Code(err) != codes.Unimplemented {
		t.Errorf("code = %v, want Unimplemented", status.Code(err))
	}
}

func TestListAuditLogs_NewestFirst(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seed(t, repo, 3)
	srv := NewServer(repo)

	resp, err := srv.ListAuditLogs(context.Background(), &auditv1.ListAuditLogsRequest{})
	if err != nil {
		t.Fatalf("ListAuditLogs: %v", err)
	}
	if len(resp.Logs) != 3 {
		t.Fatalf("len = %d, want 3", len(resp.Logs))
	}
	if resp.Logs[0].ID != "log-2" || resp.Logs[2].ID != "log-0" {
		t.Errorf("order = %s..%s, want log-2..log-0", resp.Logs[0].ID, resp.Logs[2].ID)
	}
	if resp.NextOffset != 0 {
		t.Errorf("NextOffset = %d, want 0 for a short page", resp.NextOffset)
	}
}

func TestListAuditLogs_FilterByResource(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seed(t, repo, 6)
	srv := NewServer(repo)

	resp, err := srv.ListAuditLogs(context.Background(), &auditv1.ListAuditLogsRequest{Resource: "rollout"})
	if err != nil {
		t.Fatalf("ListAuditLogs: %v", err)
	}
	if len(resp.Logs) != 3 {
		t.Fatalf("len = %d, want 3", len(resp.Logs))
	}
	for _, l := range resp.Logs {
		if l.Resource != "rollout" {
			t.Errorf("resource = %q, want rollout", l.Resource)
		}
	}

	resp, err = srv.ListAuditLogs(context.Background(), &auditv1.ListAuditLogsRequest{ResourceID: "experiment-4"})
	if err != nil {
		t.Fatalf("ListAuditLogs: %v", err)
	}
	if len(resp.Logs) != 1 || resp.Logs[0].ID != "log-4" {
		t.Errorf("resource_id filter returned %d logs", len(resp.Logs))
	}
}

func TestListAuditLogs_Pagination(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seed(t, repo, 5)
	srv := NewServer(repo)

	resp, err := srv.ListAuditLogs(context.Background(), &auditv1.ListAuditLogsRequest{Limit: 2})
	if err != nil {
		t.Fatalf("ListAuditLogs: %v", err)
	}
	if len(resp.Logs) != 2 || resp.NextOffset != 2 {
		t.Fatalf("page 1: len = %d next = %d", len(resp.Logs), resp.NextOffset)
	}
	resp, err = srv.ListAuditLogs(context.Background(), &auditv1.ListAuditLogsRequest{Limit: 2, Offset: resp.NextOffset})
	if err != nil {
		t.Fatalf("ListAuditLogs: %v", err)
	}
	if len(resp.Logs) != 2 || resp.Logs[0].ID != "log-2" {
		t.Errorf("page 2 starts at %v", resp.Logs)
	}
}

func TestListAuditLogs_NegativeOffset(t *testing.T) {
	srv := NewServer(repository.NewMemoryRepository())
	_, err := srv.ListAuditLogs(context.Background(), &auditv1.ListAuditLogsRequest{Offset: -1})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("code = %v, want InvalidArgument", status.Code(err))
	}
}

func TestListAuditLogs_RepoError(t *testing.T) {
	srv := NewServer(&failingRepo{listErr: errors.New("db down")})
	_, err := srv.ListAuditLogs(context.Background(), &auditv1.ListAuditLogsRequest{})
	if status.Code(err) != codes.Internal {
		t.Errorf("code = %v, want Internal", status.Code(err))
	}
}
