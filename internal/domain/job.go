package domain

import "time"

// JobStatus tracks the retrain job lifecycle. Transitions are strictly
// forward: queued → running → completed|failed. Terminal rows are the
// audit trail and are never deleted or re-entered.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// IsTerminal returns true once a job reached a final state.
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}

// TriggerSourcePolicy marks jobs enqueued by the retrain policy.
const TriggerSourcePolicy = "policy"

// RetrainJob is one entry of the durable retrain queue. Created by the
// policy, claimed by a worker, finalized with results or failure.
type RetrainJob struct {
	ID               string           `json:"id"`
	Season           string           `json:"season"`
	Status           JobStatus        `json:"status"`
	TriggerSource    string           `json:"trigger_source"`
	Reasons          []string         `json:"reasons"`
	Metrics          PolicyMetrics    `json:"metrics"`
	Thresholds       Thresholds       `json:"thresholds"`
	ArtifactSnapshot ArtifactSnapshot `json:"artifact_snapshot"`
	RollbackPlan     RollbackPlan     `json:"rollback_plan"`
	RunDetails       *RunDetails      `json:"run_details,omitempty"`
	Error            string           `json:"error,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	StartedAt        *time.Time       `json:"started_at,omitempty"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Duration returns training wall time, zero while the job is pending.
func (j *RetrainJob) Duration() time.Duration {
	if j.StartedAt == nil || j.CompletedAt == nil {
		return 0
	}
	return j.CompletedAt.Sub(*j.StartedAt)
}

// NewJob carries everything the policy captures when enqueueing.
type NewJob struct {
	Season        string        `json:"season"`
	TriggerSource string        `json:"trigger_source"`
	Reasons       []string      `json:"reasons"`
	Metrics       PolicyMetrics `json:"metrics"`
	Thresholds    Thresholds    `json:"thresholds"`
}

// ArtifactFile is one model file observed in the artifact directory.
type ArtifactFile struct {
	Name       string    `json:"name"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}

// ArtifactSnapshot is a read-only listing of current model artifacts,
// captured at job creation and refreshed at finalize, for rollback
// reference. Newest first, capped by the collector.
type ArtifactSnapshot struct {
	Available bool           `json:"available"`
	Artifacts []ArtifactFile `json:"artifacts"`
}

// RollbackPlan describes how to back out a bad retrain.
type RollbackPlan struct {
	Strategy string   `json:"strategy"`
	Criteria []string `json:"criteria"`
}

// DefaultRollbackPlan is attached to every job at creation.
func DefaultRollbackPlan() RollbackPlan {
	return RollbackPlan{
		Strategy: "revert_to_previous_model_artifact",
		Criteria: []string{
			"post-retrain accuracy below prior baseline by > 0.03",
			"post-retrain brier worsens by > 0.02",
		},
	}
}

// Run modes recorded on finalized jobs.
const (
	RunModeSimulate = "simulate"
	RunModeExecute  = "execute"
)

// RunDetails records how a claimed job was processed.
type RunDetails struct {
	Mode            string           `json:"mode"`
	Note            string           `json:"note,omitempty"`
	TrainingSummary *TrainingSummary `json:"training_summary,omitempty"`
}

// ModelScores summarizes one trained model's evaluation metrics.
type ModelScores struct {
	CVAccuracy    *float64 `json:"cv_accuracy"`
	CVAUC         *float64 `json:"cv_auc"`
	TrainAccuracy *float64 `json:"train_accuracy"`
	BrierScore    *float64 `json:"brier_score"`
}

// EnsembleScores summarizes the blended model.
type EnsembleScores struct {
	TrainAccuracy *float64 `json:"train_accuracy"`
	TrainAUC      *float64 `json:"train_auc"`
	BrierScore    *float64 `json:"brier_score"`
}

// TrainingSummary is the per-model digest stored in run details after
// an execute-mode run.
type TrainingSummary struct {
	LogisticRegression ModelScores    `json:"logistic_regression"`
	XGBoost            ModelScores    `json:"xgboost"`
	LightGBM           ModelScores    `json:"lightgbm"`
	Ensemble           EnsembleScores `json:"ensemble"`
}

// ModelReport is the full per-model payload returned by the training
// pipeline. The worker trims it down to ModelScores for run details.
type ModelReport struct {
	CVAccuracy    *float64 `json:"cv_accuracy"`
	CVAUC         *float64 `json:"cv_auc"`
	TrainAccuracy *float64 `json:"train_accuracy"`
	BrierScore    *float64 `json:"brier_score"`
	TrainSamples  int      `json:"train_samples,omitempty"`
	FeatureCount  int      `json:"feature_count,omitempty"`
}

// EnsembleReport is the full ensemble payload from the pipeline.
type EnsembleReport struct {
	TrainAccuracy *float64 `json:"train_accuracy"`
	TrainAUC      *float64 `json:"train_auc"`
	BrierScore    *float64 `json:"brier_score"`
	Weights       []float64 `json:"weights,omitempty"`
}

// TrainingOutput is everything the external training pipeline reports.
type TrainingOutput struct {
	Season             string         `json:"season"`
	LogisticRegression ModelReport    `json:"logistic_regression"`
	XGBoost            ModelReport    `json:"xgboost"`
	LightGBM           ModelReport    `json:"lightgbm"`
	Ensemble           EnsembleReport `json:"ensemble"`
}
