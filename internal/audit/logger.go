package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"experimentation-control-plane/internal/audit/domain"
	auditrepo "experimentation-control-plane/internal/audit/repository"
	"experimentation-control-plane/internal/platform/logger"
)

// SystemActor is recorded for transitions made by the evaluation worker rather than a caller.
const SystemActor = "system"

// IPExtractor returns the client IP from the request context (e.g. gRPC metadata or peer).
type IPExtractor func(context.Context) string

// AuditLogger writes a single audit event. LogEvent is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, resource, resourceID, action, actor string, metadata any)
}

// Logger implements AuditLogger using the audit repository and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
	log         *logger.Logger
	nowF        func() time.Time
}

// NewLogger returns an AuditLogger that persists to repo and uses ipExtractor for client IP.
// ipExtractor may be nil; then IP is recorded as "unknown".
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor, log *logger.Logger) *Logger {
	if log == nil {
		log = logger.Nop()
	}
	return &Logger{repo: repo, ipExtractor: ipExtractor, log: log.With("component", "audit"), nowF: time.Now}
}

// LogEvent writes one audit log entry. metadata is JSON-encoded when non-nil. Empty actor is recorded as SystemActor.
func (l *Logger) LogEvent(ctx context.Context, resource, resourceID, action, actor string, metadata any) {
	if l == nil || l.repo == nil {
		return
	}
	ip := "unknown"
	if l.ipExtractor != nil {
		ip = l.ipExtractor(ctx)
	}
	if actor == "" {
		actor = SystemActor
	}
	meta := ""
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			meta = string(b)
		}
	}
	entry := &domain.AuditLog{
		ID:         uuid.New().String(),
		Resource:   resource,
		ResourceID: resourceID,
		Action:     action,
		Actor:      actor,
		IP:         ip,
		Metadata:   meta,
		CreatedAt:  l.nowF().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		l.log.Warn("failed to write audit log", "action", action, "resource", resource, "resource_id", resourceID, "error", err)
	}
}
