package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"experimentation-control-plane/internal/experiment/domain"
)

// Postgres SQLSTATEs mapped to repository errors.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

const experimentColumns = `id, name, description, status, variants, traffic_allocation, success_metric,
	minimum_sample_size, confidence_level, created_by, start_date, end_date, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an experiment repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the experiment. The experiment must have ID set.
// Returns ErrDuplicateName if the name is taken.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.Experiment) error {
	variants, alloc, err := marshalConfig(e)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO experiments (`+experimentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		e.ID, e.Name, nullString(e.Description), string(e.Status), variants, alloc, e.SuccessMetric,
		e.MinimumSampleSize, e.ConfidenceLevel, nullString(e.CreatedBy), nullTime(e.StartDate), nullTime(e.EndDate),
		e.CreatedAt, e.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	return err
}

// GetByID returns the experiment for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Experiment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+experimentColumns+` FROM experiments WHERE id = $1`, id)
	e, err := scanExperiment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// List returns all experiments ordered by created_at descending.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Experiment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+experimentColumns+` FROM experiments ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Experiment
	for rows.Next() {
		e, err := scanExperiment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update writes the mutable lifecycle and config fields of e while the row still has the expected status.
// A missing row or a changed status yields ErrConflict.
func (r *PostgresRepository) Update(ctx context.Context, e *domain.Experiment, expected domain.ExperimentStatus) error {
	variants, alloc, err := marshalConfig(e)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE experiments SET
		description = $2, status = $3, variants = $4, traffic_allocation = $5, success_metric = $6,
		minimum_sample_size = $7, confidence_level = $8, start_date = $9, end_date = $10, updated_at = $11
		WHERE id = $1 AND status = $12`,
		e.ID, nullString(e.Description), string(e.Status), variants, alloc, e.SuccessMetric,
		e.MinimumSampleSize, e.ConfidenceLevel, nullTime(e.StartDate), nullTime(e.EndDate), e.UpdatedAt,
		string(expected))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// Delete removes the experiment. Assignments and events go with it via ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM experiments WHERE id = $1`, id)
	return err
}

// GetAssignment returns the user's assignment, or nil if the user is not assigned.
func (r *PostgresRepository) GetAssignment(ctx context.Context, experimentID, userID string) (*domain.Assignment, error) {
	a := &domain.Assignment{}
	err := r.db.QueryRowContext(ctx, `SELECT experiment_id, user_id, variant, assigned_at
		FROM experiment_assignments WHERE experiment_id = $1 AND user_id = $2`, experimentID, userID).
		Scan(&a.ExperimentID, &a.UserID, &a.Variant, &a.AssignedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// CreateAssignment inserts a. Returns ErrDuplicateAssignment when a concurrent request won the insert.
func (r *PostgresRepository) CreateAssignment(ctx context.Context, a *domain.Assignment) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO experiment_assignments (experiment_id, user_id, variant, assigned_at)
		VALUES ($1, $2, $3, $4)`, a.ExperimentID, a.UserID, a.Variant, a.AssignedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateAssignment
	}
	if isForeignKeyViolation(err) {
		return ErrExperimentNotFound
	}
	return err
}

// CreateEvent appends ev and sets ev.ID from the sequence.
func (r *PostgresRepository) CreateEvent(ctx context.Context, ev *domain.Event) error {
	var data []byte
	if len(ev.EventData) > 0 {
		data = ev.EventData
	}
	err := r.db.QueryRowContext(ctx, `INSERT INTO experiment_events (experiment_id, user_id, variant, event_type, event_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		ev.ExperimentID, ev.UserID, ev.Variant, ev.EventType, data, ev.CreatedAt).Scan(&ev.ID)
	if isForeignKeyViolation(err) {
		return ErrExperimentNotFound
	}
	return err
}

// ListEvents returns the experiment's events ordered by id.
func (r *PostgresRepository) ListEvents(ctx context.Context, experimentID string) ([]*domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, experiment_id, user_id, variant, event_type, event_data, created_at
		FROM experiment_events WHERE experiment_id = $1 ORDER BY id`, experimentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Event
	for rows.Next() {
		ev := &domain.Event{}
		var data []byte
		if err := rows.Scan(&ev.ID, &ev.ExperimentID, &ev.UserID, &ev.Variant, &ev.EventType, &data, &ev.CreatedAt); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			ev.EventData = json.RawMessage(data)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExperiment(s rowScanner) (*domain.Experiment, error) {
	var (
		e                      domain.Experiment
		status                 string
		description, createdBy sql.NullString
		startDate, endDate     sql.NullTime
		variants, alloc        []byte
	)
	err := s.Scan(&e.ID, &e.Name, &description, &status, &variants, &alloc, &e.SuccessMetric,
		&e.MinimumSampleSize, &e.ConfidenceLevel, &createdBy, &startDate, &endDate, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Status = domain.ExperimentStatus(status)
	e.Description = description.String
	e.CreatedBy = createdBy.String
	if startDate.Valid {
		t := startDate.Time
		e.StartDate = &t
	}
	if endDate.Valid {
		t := endDate.Time
		e.EndDate = &t
	}
	if err := json.Unmarshal(variants, &e.Variants); err != nil {
		return nil, fmt.Errorf("decode variants of %s: %w", e.ID, err)
	}
	if err := json.Unmarshal(alloc, &e.TrafficAllocation); err != nil {
		return nil, fmt.Errorf("decode traffic allocation of %s: %w", e.ID, err)
	}
	return &e, nil
}

func marshalConfig(e *domain.Experiment) (variants, alloc []byte, err error) {
	vs := e.Variants
	if vs == nil {
		vs = []domain.Variant{}
	}
	if variants, err = json.Marshal(vs); err != nil {
		return nil, nil, fmt.Errorf("encode variants: %w", err)
	}
	as := e.TrafficAllocation
	if as == nil {
		as = domain.Allocations{}
	}
	if alloc, err = json.Marshal(as); err != nil {
		return nil, nil, fmt.Errorf("encode traffic allocation: %w", err)
	}
	return variants, alloc, nil
}

func isUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolation)
}

func isForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
