package domain

import "time"

// AuditLog represents an audit event: who did what to which experiment or rollout.
// Actor is the caller's user id, or "system" for controller-driven transitions.
type AuditLog struct {
	ID         string
	Resource   string
	ResourceID string
	Action     string
	Actor      string
	IP         string
	Metadata   string // JSON object or empty
	CreatedAt  time.Time
}

// ListFilter narrows ListAuditLogs. Empty strings match everything.
type ListFilter struct {
	Resource   string
	ResourceID string
	Action     string
	Limit      int32
	Offset     int32
}
