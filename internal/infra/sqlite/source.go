package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/courtsight-ai/courtsight/internal/domain"
)

// ─── Prediction Metrics Source ──────────────────────────────────────────────
// Reads the prediction/result tables the ingestion and evaluation
// collaborators maintain. Correctness: accuracy is the mean of the
// was_correct indicator; Brier is the mean squared gap between the
// home-win probability and the realized binary outcome. Both are NULL
// (not zero) when no evaluated predictions exist.

func (d *DB) ensureResults(ctx context.Context) error {
	return d.execAll(ctx, []string{
		`CREATE TABLE IF NOT EXISTS matches (
			game_id        TEXT PRIMARY KEY,
			season         TEXT NOT NULL,
			game_date      INTEGER NOT NULL,
			home_team_id   INTEGER NOT NULL,
			winner_team_id INTEGER,
			is_completed   INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_season ON matches(season, game_date DESC)`,
		`CREATE TABLE IF NOT EXISTS predictions (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id       TEXT NOT NULL,
			home_win_prob REAL NOT NULL,
			was_correct   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_game ON predictions(game_id)`,
		`CREATE TABLE IF NOT EXISTS pipeline_audit (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			sync_time INTEGER NOT NULL
		)`,
	})
}

// withResultsBootstrap retries once after provisioning whichever of
// the result tables a query found missing. They are created together,
// so one ensure pass heals any of them.
func (d *DB) withResultsBootstrap(ctx context.Context, op func() error) error {
	err := op()
	if err == nil {
		return nil
	}
	for _, table := range []string{"matches", "predictions", "pipeline_audit"} {
		if isMissingTable(err, table) {
			if berr := d.ensureResults(ctx); berr != nil {
				return fmt.Errorf("bootstrap %s: %w", table, berr)
			}
			return op()
		}
	}
	return err
}

// QualitySummary returns the evaluated-prediction count, mean
// correctness, and mean squared probability error for the season.
func (d *DB) QualitySummary(ctx context.Context, season string) (domain.QualitySummary, error) {
	var summary domain.QualitySummary
	query := func() error {
		var accuracy, brier sql.NullFloat64
		err := d.db.QueryRowContext(ctx,
			`SELECT
				COUNT(*),
				ROUND(AVG(CASE WHEN p.was_correct = 1 THEN 1.0 ELSE 0.0 END), 4),
				ROUND(AVG(
					(p.home_win_prob - (CASE WHEN m.winner_team_id = m.home_team_id THEN 1.0 ELSE 0.0 END)) *
					(p.home_win_prob - (CASE WHEN m.winner_team_id = m.home_team_id THEN 1.0 ELSE 0.0 END))
				), 4)
			 FROM predictions p
			 JOIN matches m ON p.game_id = m.game_id
			 WHERE m.season = ?
			   AND m.is_completed = 1
			   AND p.was_correct IS NOT NULL`,
			season,
		).Scan(&summary.EvaluatedPredictions, &accuracy, &brier)
		if err != nil {
			return err
		}
		summary.Accuracy = floatPtr(accuracy)
		summary.BrierScore = floatPtr(brier)
		return nil
	}
	if err := d.withResultsBootstrap(ctx, query); err != nil {
		return domain.QualitySummary{}, err
	}
	return summary, nil
}

// CompletedGames counts games with ground truth available.
func (d *DB) CompletedGames(ctx context.Context, season string) (int, error) {
	var count int
	query := func() error {
		return d.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM matches WHERE season = ? AND is_completed = 1`,
			season,
		).Scan(&count)
	}
	if err := d.withResultsBootstrap(ctx, query); err != nil {
		return 0, err
	}
	return count, nil
}

// LatestGameDate returns the most recent observed game date for the
// season, nil if the season has no games.
func (d *DB) LatestGameDate(ctx context.Context, season string) (*time.Time, error) {
	return d.maxTime(ctx,
		`SELECT MAX(game_date) FROM matches WHERE season = ?`, season)
}

// LatestPipelineSync returns the most recent feature pipeline sync,
// nil if the pipeline never ran.
func (d *DB) LatestPipelineSync(ctx context.Context) (*time.Time, error) {
	return d.maxTime(ctx,
		`SELECT MAX(sync_time) FROM pipeline_audit`)
}

func (d *DB) maxTime(ctx context.Context, query string, args ...any) (*time.Time, error) {
	var result *time.Time
	op := func() error {
		var ts sql.NullInt64
		if err := d.db.QueryRowContext(ctx, query, args...).Scan(&ts); err != nil {
			return err
		}
		if ts.Valid {
			t := time.Unix(ts.Int64, 0)
			result = &t
		}
		return nil
	}
	if err := d.withResultsBootstrap(ctx, op); err != nil {
		return nil, err
	}
	return result, nil
}

// ─── Result Writers ─────────────────────────────────────────────────────────
// The boundary the external ingestion/evaluation pipelines write
// through. Kept minimal: this core monitors results, it does not
// ingest raw data.

// UpsertMatch inserts or updates a game record.
func (d *DB) UpsertMatch(ctx context.Context, m domain.Match) error {
	insert := func() error {
		_, err := d.db.ExecContext(ctx,
			`INSERT INTO matches (game_id, season, game_date, home_team_id, winner_team_id, is_completed)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(game_id) DO UPDATE SET
				season=excluded.season,
				game_date=excluded.game_date,
				home_team_id=excluded.home_team_id,
				winner_team_id=excluded.winner_team_id,
				is_completed=excluded.is_completed`,
			m.GameID, m.Season, m.GameDate.Unix(), m.HomeTeamID, m.WinnerTeamID, m.IsCompleted,
		)
		return err
	}
	return d.withResultsBootstrap(ctx, insert)
}

// InsertPrediction appends one scored prediction.
func (d *DB) InsertPrediction(ctx context.Context, p domain.Prediction) error {
	var wasCorrect sql.NullBool
	if p.WasCorrect != nil {
		wasCorrect = sql.NullBool{Bool: *p.WasCorrect, Valid: true}
	}
	insert := func() error {
		_, err := d.db.ExecContext(ctx,
			`INSERT INTO predictions (game_id, home_win_prob, was_correct) VALUES (?, ?, ?)`,
			p.GameID, p.HomeWinProb, wasCorrect,
		)
		return err
	}
	return d.withResultsBootstrap(ctx, insert)
}

// RecordPipelineSync stamps one feature pipeline sync.
func (d *DB) RecordPipelineSync(ctx context.Context, at time.Time) error {
	insert := func() error {
		_, err := d.db.ExecContext(ctx,
			`INSERT INTO pipeline_audit (sync_time) VALUES (?)`, at.Unix())
		return err
	}
	return d.withResultsBootstrap(ctx, insert)
}
