package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/courtsight-ai/courtsight/internal/domain"
)

// ─── Monitoring Snapshot Log ────────────────────────────────────────────────
// Append-only trend history. Rows are immutable once written; there is
// deliberately no update or delete path.

func (d *DB) ensureSnapshots(ctx context.Context) error {
	return d.execAll(ctx, []string{
		`CREATE TABLE IF NOT EXISTS mlops_monitoring_snapshot (
			id                       INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_time            INTEGER NOT NULL,
			season                   TEXT NOT NULL,
			evaluated_predictions    INTEGER NOT NULL DEFAULT 0,
			accuracy                 REAL,
			brier_score              REAL,
			game_data_freshness_days INTEGER,
			pipeline_freshness_days  INTEGER,
			alert_count              INTEGER NOT NULL DEFAULT 0,
			details                  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_mlops_snapshot_season_time
		 ON mlops_monitoring_snapshot(season, snapshot_time DESC)`,
	})
}

// AppendSnapshot writes one snapshot row and returns it with its
// assigned id and capture time.
func (d *DB) AppendSnapshot(ctx context.Context, snap domain.Snapshot) (*domain.Snapshot, error) {
	if snap.CapturedAt.IsZero() {
		snap.CapturedAt = time.Now()
	}
	details, err := json.Marshal(snap.Details)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot details: %w", err)
	}

	insert := func() error {
		res, err := d.db.ExecContext(ctx,
			`INSERT INTO mlops_monitoring_snapshot (
				snapshot_time, season, evaluated_predictions, accuracy, brier_score,
				game_data_freshness_days, pipeline_freshness_days, alert_count, details
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			snap.CapturedAt.Unix(), snap.Season, snap.EvaluatedPredictions,
			nullFloat(snap.Accuracy), nullFloat(snap.BrierScore),
			nullInt(snap.GameFreshnessDays), nullInt(snap.PipelineFreshnessDays),
			snap.AlertCount, string(details),
		)
		if err != nil {
			return err
		}
		snap.ID, err = res.LastInsertId()
		return err
	}
	if err := d.withBootstrap(ctx, "mlops_monitoring_snapshot", d.ensureSnapshots, insert); err != nil {
		return nil, err
	}
	return &snap, nil
}

// RecentSnapshots returns up to limit snapshots for the season, most
// recent first.
func (d *DB) RecentSnapshots(ctx context.Context, season string, limit int) ([]domain.Snapshot, error) {
	return d.querySnapshots(ctx,
		`SELECT id, snapshot_time, season, evaluated_predictions, accuracy, brier_score,
		        game_data_freshness_days, pipeline_freshness_days, alert_count, details
		 FROM mlops_monitoring_snapshot
		 WHERE season = ?
		 ORDER BY snapshot_time DESC, id DESC
		 LIMIT ?`,
		season, limit)
}

// SnapshotWindow returns snapshots captured within the trailing number
// of days, most recent first, capped at limit.
func (d *DB) SnapshotWindow(ctx context.Context, season string, days, limit int) ([]domain.Snapshot, error) {
	cutoff := time.Now().AddDate(0, 0, -days).Unix()
	return d.querySnapshots(ctx,
		`SELECT id, snapshot_time, season, evaluated_predictions, accuracy, brier_score,
		        game_data_freshness_days, pipeline_freshness_days, alert_count, details
		 FROM mlops_monitoring_snapshot
		 WHERE season = ? AND snapshot_time >= ?
		 ORDER BY snapshot_time DESC, id DESC
		 LIMIT ?`,
		season, cutoff, limit)
}

func (d *DB) querySnapshots(ctx context.Context, query string, args ...any) ([]domain.Snapshot, error) {
	var snaps []domain.Snapshot
	op := func() error {
		rows, err := d.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		snaps = snaps[:0]
		for rows.Next() {
			s, err := scanSnapshot(rows)
			if err != nil {
				return err
			}
			snaps = append(snaps, *s)
		}
		return rows.Err()
	}
	if err := d.withBootstrap(ctx, "mlops_monitoring_snapshot", d.ensureSnapshots, op); err != nil {
		return nil, err
	}
	return snaps, nil
}

func scanSnapshot(s scanner) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	var capturedAt int64
	var accuracy, brier sql.NullFloat64
	var gameDays, pipeDays sql.NullInt64
	var details sql.NullString

	err := s.Scan(&snap.ID, &capturedAt, &snap.Season, &snap.EvaluatedPredictions,
		&accuracy, &brier, &gameDays, &pipeDays, &snap.AlertCount, &details)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}

	snap.CapturedAt = time.Unix(capturedAt, 0)
	snap.Accuracy = floatPtr(accuracy)
	snap.BrierScore = floatPtr(brier)
	snap.GameFreshnessDays = intPtr(gameDays)
	snap.PipelineFreshnessDays = intPtr(pipeDays)
	if details.Valid && details.String != "" {
		if err := json.Unmarshal([]byte(details.String), &snap.Details); err != nil {
			return nil, fmt.Errorf("decode snapshot details: %w", err)
		}
	}
	return &snap, nil
}
