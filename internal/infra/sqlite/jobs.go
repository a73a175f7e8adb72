package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/courtsight-ai/courtsight/internal/domain"
)

// ─── Retrain Job Queue ──────────────────────────────────────────────────────
// Durable FIFO queue with a strict state machine:
// queued → running → completed|failed. Rows are never deleted — they
// are the audit trail. The partial unique index on season over
// non-terminal statuses closes the policy's check-then-act race: a lost
// race surfaces as ErrDuplicateJob instead of a second active job.
//
// Known gap: a crashed worker leaves its job running forever. There is
// no lease or heartbeat to reclaim it; recovery policy is an operator
// decision, not something this store invents.

const jobColumns = `id, season, status, trigger_source, reasons, metrics, thresholds,
	 artifact_snapshot, rollback_plan, run_details, error,
	 created_at, started_at, completed_at, updated_at`

func (d *DB) ensureRetrainJobs(ctx context.Context) error {
	if err := d.execAll(ctx, []string{
		`CREATE TABLE IF NOT EXISTS retrain_jobs (
			id                TEXT PRIMARY KEY,
			season            TEXT NOT NULL,
			status            TEXT NOT NULL DEFAULT 'queued',
			trigger_source    TEXT NOT NULL DEFAULT 'policy',
			reasons           TEXT,
			metrics           TEXT,
			thresholds        TEXT,
			artifact_snapshot TEXT,
			rollback_plan     TEXT,
			run_details       TEXT,
			error             TEXT,
			created_at        INTEGER NOT NULL,
			started_at        INTEGER,
			completed_at      INTEGER,
			updated_at        INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_retrain_jobs_season_status_time
		 ON retrain_jobs(season, status, created_at DESC)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_retrain_jobs_active_season
		 ON retrain_jobs(season) WHERE status IN ('queued', 'running')`,
	}); err != nil {
		return err
	}

	// run_details and error shipped after the first cut of this table.
	if err := d.addColumnIfMissing(ctx, "retrain_jobs", "run_details", "TEXT"); err != nil {
		return err
	}
	return d.addColumnIfMissing(ctx, "retrain_jobs", "error", "TEXT")
}

// CreateJob inserts a queued retrain job, capturing the current
// artifact snapshot and the default rollback plan.
func (d *DB) CreateJob(ctx context.Context, req domain.NewJob) (*domain.RetrainJob, error) {
	now := time.Now()
	job := domain.RetrainJob{
		ID:               uuid.NewString(),
		Season:           req.Season,
		Status:           domain.JobQueued,
		TriggerSource:    req.TriggerSource,
		Reasons:          req.Reasons,
		Metrics:          req.Metrics,
		Thresholds:       req.Thresholds,
		ArtifactSnapshot: d.artifactSnapshot(),
		RollbackPlan:     domain.DefaultRollbackPlan(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if job.TriggerSource == "" {
		job.TriggerSource = domain.TriggerSourcePolicy
	}

	reasons, err := json.Marshal(job.Reasons)
	if err != nil {
		return nil, fmt.Errorf("marshal reasons: %w", err)
	}
	metrics, err := json.Marshal(job.Metrics)
	if err != nil {
		return nil, fmt.Errorf("marshal metrics: %w", err)
	}
	thresholds, err := json.Marshal(job.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("marshal thresholds: %w", err)
	}
	artifacts, err := json.Marshal(job.ArtifactSnapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal artifact snapshot: %w", err)
	}
	rollback, err := json.Marshal(job.RollbackPlan)
	if err != nil {
		return nil, fmt.Errorf("marshal rollback plan: %w", err)
	}

	insert := func() error {
		_, err := d.db.ExecContext(ctx,
			`INSERT INTO retrain_jobs (id, season, status, trigger_source, reasons, metrics,
			   thresholds, artifact_snapshot, rollback_plan, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			job.ID, job.Season, string(job.Status), job.TriggerSource,
			string(reasons), string(metrics), string(thresholds),
			string(artifacts), string(rollback),
			now.Unix(), now.Unix(),
		)
		return err
	}
	if err := d.withBootstrap(ctx, "retrain_jobs", d.ensureRetrainJobs, insert); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateJob
		}
		return nil, err
	}
	return &job, nil
}

// FindRecentActive returns the most recent queued-or-running job for
// the season created within the trailing window, nil if none.
func (d *DB) FindRecentActive(ctx context.Context, season string, window time.Duration) (*domain.RetrainJob, error) {
	cutoff := time.Now().Add(-window).Unix()

	var job *domain.RetrainJob
	query := func() error {
		row := d.db.QueryRowContext(ctx,
			`SELECT `+jobColumns+`
			 FROM retrain_jobs
			 WHERE season = ?
			   AND status IN ('queued', 'running')
			   AND created_at >= ?
			 ORDER BY created_at DESC, rowid DESC
			 LIMIT 1`,
			season, cutoff,
		)
		j, err := scanJob(row)
		job = j
		return err
	}
	if err := d.withBootstrap(ctx, "retrain_jobs", d.ensureRetrainJobs, query); err != nil {
		return nil, err
	}
	return job, nil
}

// ClaimNext atomically claims the oldest queued job, transitioning it
// to running in a single conditional update. SQLite serializes writers,
// so concurrent claimers either win distinct rows or observe no queued
// row and return immediately — the SKIP LOCKED equivalent for a store
// without row locks.
func (d *DB) ClaimNext(ctx context.Context, season string) (*domain.RetrainJob, error) {
	now := time.Now().Unix()

	var job *domain.RetrainJob
	claim := func() error {
		row := d.db.QueryRowContext(ctx,
			`UPDATE retrain_jobs
			 SET status = 'running', started_at = ?, updated_at = ?
			 WHERE id = (
			   SELECT id FROM retrain_jobs
			   WHERE status = 'queued'
			     AND (? = '' OR season = ?)
			   ORDER BY created_at ASC, rowid ASC
			   LIMIT 1
			 )
			 RETURNING `+jobColumns,
			now, now, season, season,
		)
		j, err := scanJob(row)
		job = j
		return err
	}
	if err := d.withBootstrap(ctx, "retrain_jobs", d.ensureRetrainJobs, claim); err != nil {
		return nil, err
	}
	return job, nil
}

// FinalizeJob stamps a terminal status with run details and a refreshed
// artifact snapshot. Rejects unknown ids with ErrJobNotFound and
// already-terminal jobs with ErrJobFinalized; it never walks a job
// backward.
func (d *DB) FinalizeJob(ctx context.Context, id string, status domain.JobStatus, details domain.RunDetails, errMsg string) (*domain.RetrainJob, error) {
	if !status.IsTerminal() {
		return nil, fmt.Errorf("finalize requires a terminal status, got %q", status)
	}

	now := time.Now().Unix()
	runDetails, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("marshal run details: %w", err)
	}
	artifacts, err := json.Marshal(d.artifactSnapshot())
	if err != nil {
		return nil, fmt.Errorf("marshal artifact snapshot: %w", err)
	}

	var job *domain.RetrainJob
	finalize := func() error {
		row := d.db.QueryRowContext(ctx,
			`UPDATE retrain_jobs
			 SET status = ?, run_details = ?, error = ?, artifact_snapshot = ?,
			     completed_at = ?, updated_at = ?
			 WHERE id = ? AND status = 'running'
			 RETURNING `+jobColumns,
			string(status), string(runDetails), nullStr(errMsg), string(artifacts),
			now, now, id,
		)
		j, err := scanJob(row)
		job = j
		return err
	}
	if err := d.withBootstrap(ctx, "retrain_jobs", d.ensureRetrainJobs, finalize); err != nil {
		return nil, err
	}
	if job != nil {
		return job, nil
	}

	// The conditional update matched nothing: distinguish a missing job
	// from an illegal transition.
	var existing domain.JobStatus
	err = d.db.QueryRowContext(ctx, `SELECT status FROM retrain_jobs WHERE id = ?`, id).Scan(&existing)
	if err == sql.ErrNoRows {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	if existing.IsTerminal() {
		return nil, domain.ErrJobFinalized
	}
	return nil, fmt.Errorf("finalize job %s: unexpected status %q", id, existing)
}

// ListJobs returns job history, most recent first. An empty season
// lists across all seasons.
func (d *DB) ListJobs(ctx context.Context, season string, limit int) ([]domain.RetrainJob, error) {
	if limit <= 0 {
		limit = 20
	}

	var jobs []domain.RetrainJob
	query := func() error {
		rows, err := d.db.QueryContext(ctx,
			`SELECT `+jobColumns+`
			 FROM retrain_jobs
			 WHERE (? = '' OR season = ?)
			 ORDER BY created_at DESC, rowid DESC
			 LIMIT ?`,
			season, season, limit,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		jobs = jobs[:0]
		for rows.Next() {
			j, err := scanJob(rows)
			if err != nil {
				return err
			}
			jobs = append(jobs, *j)
		}
		return rows.Err()
	}
	if err := d.withBootstrap(ctx, "retrain_jobs", d.ensureRetrainJobs, query); err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetJob retrieves a single job by id, nil if absent.
func (d *DB) GetJob(ctx context.Context, id string) (*domain.RetrainJob, error) {
	var job *domain.RetrainJob
	query := func() error {
		row := d.db.QueryRowContext(ctx,
			`SELECT `+jobColumns+` FROM retrain_jobs WHERE id = ?`, id)
		j, err := scanJob(row)
		job = j
		return err
	}
	if err := d.withBootstrap(ctx, "retrain_jobs", d.ensureRetrainJobs, query); err != nil {
		return nil, err
	}
	return job, nil
}

func (d *DB) artifactSnapshot() domain.ArtifactSnapshot {
	if d.artifacts == nil {
		return domain.ArtifactSnapshot{Available: false, Artifacts: []domain.ArtifactFile{}}
	}
	return d.artifacts.Snapshot()
}

func scanJob(s scanner) (*domain.RetrainJob, error) {
	var j domain.RetrainJob
	var reasons, metrics, thresholds, artifacts, rollback sql.NullString
	var runDetails, jobErr sql.NullString
	var createdAt, updatedAt int64
	var startedAt, completedAt sql.NullInt64

	err := s.Scan(&j.ID, &j.Season, &j.Status, &j.TriggerSource,
		&reasons, &metrics, &thresholds, &artifacts, &rollback,
		&runDetails, &jobErr,
		&createdAt, &startedAt, &completedAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan retrain job: %w", err)
	}

	j.CreatedAt = time.Unix(createdAt, 0)
	j.UpdatedAt = time.Unix(updatedAt, 0)
	if startedAt.Valid {
		t := time.Unix(startedAt.Int64, 0)
		j.StartedAt = &t
	}
	if completedAt.Valid {
		t := time.Unix(completedAt.Int64, 0)
		j.CompletedAt = &t
	}
	if jobErr.Valid {
		j.Error = jobErr.String
	}

	if reasons.Valid {
		if err := json.Unmarshal([]byte(reasons.String), &j.Reasons); err != nil {
			return nil, fmt.Errorf("decode reasons: %w", err)
		}
	}
	if metrics.Valid {
		if err := json.Unmarshal([]byte(metrics.String), &j.Metrics); err != nil {
			return nil, fmt.Errorf("decode metrics: %w", err)
		}
	}
	if thresholds.Valid {
		if err := json.Unmarshal([]byte(thresholds.String), &j.Thresholds); err != nil {
			return nil, fmt.Errorf("decode thresholds: %w", err)
		}
	}
	if artifacts.Valid {
		if err := json.Unmarshal([]byte(artifacts.String), &j.ArtifactSnapshot); err != nil {
			return nil, fmt.Errorf("decode artifact snapshot: %w", err)
		}
	}
	if rollback.Valid {
		if err := json.Unmarshal([]byte(rollback.String), &j.RollbackPlan); err != nil {
			return nil, fmt.Errorf("decode rollback plan: %w", err)
		}
	}
	if runDetails.Valid && runDetails.String != "" {
		var rd domain.RunDetails
		if err := json.Unmarshal([]byte(runDetails.String), &rd); err != nil {
			return nil, fmt.Errorf("decode run details: %w", err)
		}
		j.RunDetails = &rd
	}
	return &j, nil
}
