package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"experimentation-control-plane/internal/audit/domain"
)

const auditColumns = `id, resource, resource_id, action, actor, ip, metadata, created_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit log repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the audit log for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	a, err := scanAuditLog(r.db.QueryRowContext(ctx, `SELECT `+auditColumns+` FROM audit_logs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// List returns audit logs matching f, newest first, paginated by f.Limit and f.Offset.
func (r *PostgresRepository) List(ctx context.Context, f domain.ListFilter) ([]*domain.AuditLog, error) {
	var (
		where []string
		args  []any
	)
	add := func(col, val string) {
		if val == "" {
			return
		}
		args = append(args, val)
		where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("resource", f.Resource)
	add("resource_id", f.ResourceID)
	add("action", f.Action)

	q := `SELECT ` + auditColumns + ` FROM audit_logs`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	q += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*domain.AuditLog{}
	for rows.Next() {
		a, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create persists the audit log. The audit log must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	var meta []byte
	if a.Metadata != "" {
		meta = []byte(a.Metadata)
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO audit_logs (`+auditColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Resource, a.ResourceID, a.Action, a.Actor, a.IP, meta, a.CreatedAt)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuditLog(s rowScanner) (*domain.AuditLog, error) {
	var (
		a    domain.AuditLog
		meta []byte
	)
	if err := s.Scan(&a.ID, &a.Resource, &a.ResourceID, &a.Action, &a.Actor, &a.IP, &meta, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Metadata = string(meta)
	return &a, nil
}
