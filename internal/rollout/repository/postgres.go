package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"experimentation-control-plane/internal/rollout/domain"
)

const uniqueViolation = "23505"

const rolloutColumns = `id, name, description, model_version, status, schedule, current_percentage,
	target_percentage, health_metrics, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a rollout repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the rollout. Returns ErrDuplicateName if the name is taken.
func (r *PostgresRepository) Create(ctx context.Context, ro *domain.Rollout) error {
	schedule, health, err := marshalJSONColumns(ro)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO rollouts (`+rolloutColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		ro.ID, ro.Name, nullString(ro.Description), ro.ModelVersion, string(ro.Status), schedule,
		ro.CurrentPercentage, ro.TargetPercentage, health, ro.CreatedAt, ro.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateName
	}
	return err
}

// GetByID returns the rollout for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Rollout, error) {
	return r.getOne(ctx, `SELECT `+rolloutColumns+` FROM rollouts WHERE id = $1`, id)
}

func (r *PostgresRepository) GetActiveByModelVersion(ctx context.Context, modelVersion string) (*domain.Rollout, error) {
	return r.getOne(ctx, `SELECT `+rolloutColumns+` FROM rollouts
		WHERE model_version = $1 AND status = $2 ORDER BY created_at DESC, id DESC LIMIT 1`,
		modelVersion, string(domain.StatusInProgress))
}

func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Rollout, error) {
	return r.query(ctx, `SELECT `+rolloutColumns+` FROM rollouts ORDER BY created_at DESC, id DESC`)
}

func (r *PostgresRepository) ListByStatus(ctx context.Context, status domain.RolloutStatus) ([]*domain.Rollout, error) {
	return r.query(ctx, `SELECT `+rolloutColumns+` FROM rollouts WHERE status = $1 ORDER BY created_at, id`, string(status))
}

// Update writes status, schedule, percentages and the health snapshot, guarded by the status and
// percentage the caller read.
func (r *PostgresRepository) Update(ctx context.Context, ro *domain.Rollout, expected Expected) error {
	schedule, health, err := marshalJSONColumns(ro)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE rollouts SET
		description = $2, status = $3, schedule = $4, current_percentage = $5, target_percentage = $6,
		health_metrics = $7, updated_at = $8
		WHERE id = $1 AND status = $9 AND current_percentage = $10`,
		ro.ID, nullString(ro.Description), string(ro.Status), schedule, ro.CurrentPercentage,
		ro.TargetPercentage, health, ro.UpdatedAt, string(expected.Status), expected.Percentage)
	return affectedOne(res, err)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string, expected domain.RolloutStatus) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rollouts WHERE id = $1 AND status = $2`, id, string(expected))
	return affectedOne(res, err)
}

func affectedOne(res sql.Result, err error) error {
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

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Rollout, error) {
	ro, err := scanRollout(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ro, nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Rollout, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Rollout
	for rows.Next() {
		ro, err := scanRollout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ro)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRollout(s rowScanner) (*domain.Rollout, error) {
	var (
		ro               domain.Rollout
		status           string
		description      sql.NullString
		schedule, health []byte
	)
	err := s.Scan(&ro.ID, &ro.Name, &description, &ro.ModelVersion, &status, &schedule,
		&ro.CurrentPercentage, &ro.TargetPercentage, &health, &ro.CreatedAt, &ro.UpdatedAt)
	if err != nil {
		return nil, err
	}
	ro.Status = domain.RolloutStatus(status)
	ro.Description = description.String
	if err := json.Unmarshal(schedule, &ro.Schedule); err != nil {
		return nil, fmt.Errorf("decode schedule of %s: %w", ro.ID, err)
	}
	if len(health) > 0 {
		ro.HealthMetrics = &domain.HealthMetrics{}
		if err := json.Unmarshal(health, ro.HealthMetrics); err != nil {
			return nil, fmt.Errorf("decode health metrics of %s: %w", ro.ID, err)
		}
	}
	return &ro, nil
}

func marshalJSONColumns(ro *domain.Rollout) (schedule, health []byte, err error) {
	if schedule, err = json.Marshal(ro.Schedule); err != nil {
		return nil, nil, fmt.Errorf("encode schedule: %w", err)
	}
	if ro.HealthMetrics != nil {
		if health, err = json.Marshal(ro.HealthMetrics); err != nil {
			return nil, nil, fmt.Errorf("encode health metrics: %w", err)
		}
	}
	return schedule, health, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
