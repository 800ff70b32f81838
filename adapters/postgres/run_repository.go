// Package postgres persists fit runs. The percentile summary and the
// flattened marginal posteriors travel as one JSONB payload; the sampler
// geometry is broken out into columns so runs can be queried by shape.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"photoeccentric/domain/fit"
	"photoeccentric/internal/distribution"
	"photoeccentric/internal/errors"
	"photoeccentric/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS fit_runs (
	id         UUID PRIMARY KEY,
	target_id  TEXT NOT NULL,
	stage      TEXT NOT NULL,
	walkers    INTEGER NOT NULL,
	steps      INTEGER NOT NULL,
	discard    INTEGER NOT NULL,
	seed       BIGINT NOT NULL,
	result     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_fit_runs_target ON fit_runs (target_id, created_at DESC);
`

// RunRepository implements ports.FitResultRepository for PostgreSQL.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a PostgreSQL run repository.
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Migrate creates the fit_runs table if it does not exist.
func (r *RunRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(errors.DatabaseError(err.Error()), "fit_runs migration failed")
	}
	return nil
}

// resultPayload is the JSONB shape of a persisted result.
type resultPayload struct {
	Labels        []string                            `json:"labels"`
	Estimates     map[string]float64                  `json:"estimates"`
	Uncertainties map[string]distribution.SigmaBounds `json:"uncertainties"`
	Samples       map[string][]float64                `json:"samples"`
}

// SaveRun inserts a completed run. Runs are immutable; a duplicate id is an
// error, not an upsert.
func (r *RunRepository) SaveRun(ctx context.Context, run *fit.Run) error {
	if run == nil || run.Result == nil {
		return errors.InvalidInput("cannot save a run without a result")
	}

	payload, err := json.Marshal(resultPayload{
		Labels:        run.Result.Labels,
		Estimates:     run.Result.Estimates,
		Uncertainties: run.Result.Uncertainties,
		Samples:       run.Result.Samples,
	})
	if err != nil {
		return errors.Wrap(err, "failed to encode fit result")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO fit_runs (id, target_id, stage, walkers, steps, discard, seed, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, run.ID, run.TargetID, run.Stage, run.Walkers, run.Steps, run.Discard, run.Seed, payload, run.CreatedAt)
	if err != nil {
		return errors.Wrapf(errors.DatabaseError(err.Error()), "failed to save run %s", run.ID)
	}
	return nil
}

// GetRun retrieves one run by id.
func (r *RunRepository) GetRun(ctx context.Context, id uuid.UUID) (*fit.Run, error) {
	row := runRow{}
	err := r.db.GetContext(ctx, &row, `
		SELECT id, target_id, stage, walkers, steps, discard, seed, result, created_at
		FROM fit_runs
		WHERE id = $1
	`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("run " + id.String())
	}
	if err != nil {
		return nil, errors.Wrapf(errors.DatabaseError(err.Error()), "failed to load run %s", id)
	}
	return row.toDomain()
}

// ListRuns returns all runs for a target, newest first.
func (r *RunRepository) ListRuns(ctx context.Context, targetID string) ([]*fit.Run, error) {
	var rows []runRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, target_id, stage, walkers, steps, discard, seed, result, created_at
		FROM fit_runs
		WHERE target_id = $1
		ORDER BY created_at DESC
	`, targetID)
	if err != nil {
		return nil, errors.Wrapf(errors.DatabaseError(err.Error()), "failed to list runs for %s", targetID)
	}

	runs := make([]*fit.Run, 0, len(rows))
	for _, row := range rows {
		run, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

type runRow struct {
	ID        uuid.UUID    `db:"id"`
	TargetID  string       `db:"target_id"`
	Stage     string       `db:"stage"`
	Walkers   int          `db:"walkers"`
	Steps     int          `db:"steps"`
	Discard   int          `db:"discard"`
	Seed      int64        `db:"seed"`
	Result    []byte       `db:"result"`
	CreatedAt sql.NullTime `db:"created_at"`
}

func (row runRow) toDomain() (*fit.Run, error) {
	var payload resultPayload
	if err := json.Unmarshal(row.Result, &payload); err != nil {
		return nil, errors.Wrapf(err, "run %s has a malformed result payload", row.ID)
	}
	run := &fit.Run{
		ID:       row.ID,
		TargetID: row.TargetID,
		Stage:    row.Stage,
		Walkers:  row.Walkers,
		Steps:    row.Steps,
		Discard:  row.Discard,
		Seed:     row.Seed,
		Result: &fit.Result{
			Labels:        payload.Labels,
			Estimates:     payload.Estimates,
			Uncertainties: payload.Uncertainties,
			Samples:       payload.Samples,
		},
	}
	if row.CreatedAt.Valid {
		run.CreatedAt = row.CreatedAt.Time
	}
	return run, nil
}

var _ ports.FitResultRepository = (*RunRepository)(nil)
