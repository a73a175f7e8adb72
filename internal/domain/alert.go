package domain

import "time"

// Severity grades how badly a threshold is violated.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// EscalationLevel is the derived urgency tier of a single alert,
// combining severity with how long the breach has persisted.
type EscalationLevel string

const (
	EscalationNone     EscalationLevel = "none"
	EscalationWatch    EscalationLevel = "watch"
	EscalationIncident EscalationLevel = "incident"
)

// Recommended actions paired with each escalation level.
const (
	ActionMonitor        = "monitor"
	ActionInvestigateNow = "investigate_now"
	ActionOpenIncident   = "open_incident"
)

// EscalationState is the aggregate urgency across all alerts of one
// evaluation: incident > watch > active > none.
type EscalationState string

const (
	StateNone     EscalationState = "none"
	StateActive   EscalationState = "active"
	StateWatch    EscalationState = "watch"
	StateIncident EscalationState = "incident"
)

// Alert identifiers. One per monitored metric; freshness of game data
// and of the feature pipeline are tracked independently.
const (
	AlertAccuracyBreach = "accuracy_breach"
	AlertBrierBreach    = "brier_breach"
	AlertGameDataStale  = "game_data_stale"
	AlertPipelineStale  = "pipeline_stale"
)

// Alert is one threshold violation, derived at evaluation time and
// embedded in the snapshot details. Never persisted on its own.
type Alert struct {
	ID                string          `json:"id"`
	Severity          Severity        `json:"severity"`
	Message           string          `json:"message"`
	BreachStreak      int             `json:"breach_streak"`
	Escalation        EscalationLevel `json:"escalation_level"`
	RecommendedAction string          `json:"recommended_action"`
}

// Snapshot is one append-only row of the monitoring trend log.
// Immutable once written.
type Snapshot struct {
	ID                    int64           `json:"id"`
	Season                string          `json:"season"`
	CapturedAt            time.Time       `json:"captured_at"`
	EvaluatedPredictions  int             `json:"evaluated_predictions"`
	Accuracy              *float64        `json:"accuracy"`
	BrierScore            *float64        `json:"brier_score"`
	GameFreshnessDays     *int            `json:"game_data_freshness_days"`
	PipelineFreshnessDays *int            `json:"pipeline_freshness_days"`
	AlertCount            int             `json:"alert_count"`
	Details               SnapshotDetails `json:"details"`
}

// SnapshotDetails is the JSON payload column of a snapshot row:
// the thresholds in force and the alerts that fired.
type SnapshotDetails struct {
	Thresholds Thresholds `json:"thresholds"`
	Alerts     []Alert    `json:"alerts"`
}

// Overview is the full monitoring report for one evaluation call.
type Overview struct {
	Season     string          `json:"season"`
	Metrics    Metrics         `json:"metrics"`
	Thresholds Thresholds      `json:"thresholds"`
	Alerts     []Alert         `json:"alerts"`
	Escalation EscalationState `json:"escalation"`
}
