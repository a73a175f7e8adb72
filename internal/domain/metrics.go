// Package domain holds the pure types of the courtsight MLOps core:
// quality metrics, alerts, monitoring snapshots, retrain jobs, and the
// decisions that flow between them. No infrastructure dependencies.
package domain

import "time"

// Metrics is the point-in-time quality and freshness picture for one season.
// Accuracy and BrierScore are nil when no evaluated predictions exist yet;
// freshness fields are nil when the underlying timestamp was never observed.
type Metrics struct {
	EvaluatedPredictions  int        `json:"evaluated_predictions"`
	Accuracy              *float64   `json:"accuracy"`
	BrierScore            *float64   `json:"brier_score"`
	LatestGameDate        *time.Time `json:"latest_game_date"`
	LatestPipelineSync    *time.Time `json:"latest_pipeline_sync"`
	GameFreshnessDays     *int       `json:"game_data_freshness_days"`
	PipelineFreshnessDays *int       `json:"pipeline_freshness_days"`
}

// Thresholds are the policy limits a season is evaluated against.
// A single closed record covers both monitoring and retrain decisions.
type Thresholds struct {
	AccuracyMin      float64 `json:"accuracy_min" toml:"accuracy_min"`
	BrierMax         float64 `json:"brier_max" toml:"brier_max"`
	FreshnessDaysMax int     `json:"freshness_days_max" toml:"freshness_days_max"`
	NewLabelsMin     int     `json:"new_labels_min" toml:"new_labels_min"`
}

// QualitySummary is what the metrics source reports for already-scored
// predictions: the evaluated count plus mean correctness and Brier error.
type QualitySummary struct {
	EvaluatedPredictions int      `json:"evaluated_predictions"`
	Accuracy             *float64 `json:"accuracy"`
	BrierScore           *float64 `json:"brier_score"`
}

// PolicyMetrics extends the quality picture with label-arrival counts
// used by the retrain decision.
type PolicyMetrics struct {
	CompletedGames       int      `json:"completed_games"`
	EvaluatedPredictions int      `json:"evaluated_predictions"`
	NewLabelsPending     int      `json:"new_labels_pending"`
	Accuracy             *float64 `json:"accuracy"`
	BrierScore           *float64 `json:"brier_score"`
}
