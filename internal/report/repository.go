package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mlefloch/stockscout/internal/pipeline"
)

// ErrNoRuns is returned when no scan run has been persisted yet.
var ErrNoRuns = errors.New("no scan runs recorded")

// Repository persists scan runs and their top-N profiles.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a scan report repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the report tables when they do not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS scan_runs (
			id            BIGSERIAL PRIMARY KEY,
			run_at        TIMESTAMPTZ NOT NULL,
			duration_ms   BIGINT NOT NULL,
			universe_size INT NOT NULL,
			processed     INT NOT NULL,
			screened      INT NOT NULL,
			profile_count INT NOT NULL,
			reason        TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS scan_profiles (
			id       BIGSERIAL PRIMARY KEY,
			run_id   BIGINT NOT NULL REFERENCES scan_runs(id) ON DELETE CASCADE,
			rank     INT NOT NULL,
			ticker   TEXT NOT NULL,
			score    DOUBLE PRECISION NOT NULL,
			profile  JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scan_profiles_run ON scan_profiles(run_id);
	`
	_, err := r.pool.Exec(ctx, ddl)
	return err
}

// SaveRun persists a completed run with its profiles in one transaction and
// returns the run id.
func (r *Repository) SaveRun(ctx context.Context, result *pipeline.Result) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var runID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO scan_runs (run_at, duration_ms, universe_size, processed, screened, profile_count, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		result.RunAt, result.Duration.Milliseconds(), result.UniverseSize,
		result.Processed, result.Screened, len(result.Profiles), result.Reason,
	).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("insert scan run: %w", err)
	}

	for i, profile := range result.Profiles {
		payload, err := json.Marshal(profile)
		if err != nil {
			return 0, fmt.Errorf("marshal profile %s: %w", profile.Ticker, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO scan_profiles (run_id, rank, ticker, score, profile)
			VALUES ($1, $2, $3, $4, $5)
		`, runID, i+1, string(profile.Ticker), profile.Score, payload)
		if err != nil {
			return 0, fmt.Errorf("insert profile %s: %w", profile.Ticker, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit scan run: %w", err)
	}
	return runID, nil
}

// RunSummary is one row of the scan history listing.
type RunSummary struct {
	ID           int64     `json:"id"`
	RunAt        time.Time `json:"run_at"`
	DurationMS   int64     `json:"duration_ms"`
	UniverseSize int       `json:"universe_size"`
	Processed    int       `json:"processed"`
	Screened     int       `json:"screened"`
	ProfileCount int       `json:"profile_count"`
	Reason       string    `json:"reason,omitempty"`
}

// LatestRun loads the most recent run with its profiles.
func (r *Repository) LatestRun(ctx context.Context) (*pipeline.Result, error) {
	var (
		runID      int64
		durationMS int64
		result     pipeline.Result
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, run_at, duration_ms, universe_size, processed, screened, reason
		FROM scan_runs
		ORDER BY run_at DESC
		LIMIT 1
	`).Scan(&runID, &result.RunAt, &durationMS, &result.UniverseSize, &result.Processed, &result.Screened, &result.Reason)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("load latest run: %w", err)
	}
	result.Duration = time.Duration(durationMS) * time.Millisecond

	rows, err := r.pool.Query(ctx, `
		SELECT profile
		FROM scan_profiles
		WHERE run_id = $1
		ORDER BY rank ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("load run profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var profile pipeline.EnrichedProfile
		if err := json.Unmarshal(payload, &profile); err != nil {
			return nil, fmt.Errorf("unmarshal stored profile: %w", err)
		}
		result.Profiles = append(result.Profiles, profile)
	}
	return &result, rows.Err()
}

// ListRuns returns recent run summaries, newest first.
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, run_at, duration_ms, universe_size, processed, screened, profile_count, reason
		FROM scan_runs
		ORDER BY run_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list scan runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.ID, &s.RunAt, &s.DurationMS, &s.UniverseSize, &s.Processed, &s.Screened, &s.ProfileCount, &s.Reason); err != nil {
			return nil, err
		}
		runs = append(runs, s)
	}
	return runs, rows.Err()
}
