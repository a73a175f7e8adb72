package mlops

import (
	"testing"

	"github.com/courtsight-ai/courtsight/internal/domain"
)

func intp(v int) *int { return &v }

func snapAccuracy(v float64) domain.Snapshot {
	return domain.Snapshot{Accuracy: f64(v)}
}

// ─── Alert Evaluation ───────────────────────────────────────────────────────

func TestEvaluateAlerts_AllHealthy(t *testing.T) {
	m := domain.Metrics{
		EvaluatedPredictions:  120,
		Accuracy:              f64(0.61),
		BrierScore:            f64(0.21),
		GameFreshnessDays:     intp(1),
		PipelineFreshnessDays: intp(0),
	}
	alerts := EvaluateAlerts(m, testThresholds(), nil)
	if len(alerts) != 0 {
		t.Errorf("alerts = %+v, want none", alerts)
	}
}

func TestEvaluateAlerts_NilMetricsNeverAlert(t *testing.T) {
	// A season with no evaluated predictions and no observed timestamps
	// is unknown, not breaching.
	alerts := EvaluateAlerts(domain.Metrics{}, testThresholds(), nil)
	if len(alerts) != 0 {
		t.Errorf("alerts = %+v, want none for all-nil metrics", alerts)
	}
}

func TestEvaluateAlerts_AccuracyAlwaysHigh(t *testing.T) {
	m := domain.Metrics{Accuracy: f64(0.54)}
	alerts := EvaluateAlerts(m, testThresholds(), nil)
	if len(alerts) != 1 {
		t.Fatalf("len(alerts) = %d, want 1", len(alerts))
	}
	a := alerts[0]
	if a.ID != domain.AlertAccuracyBreach {
		t.Errorf("ID = %q", a.ID)
	}
	if a.Severity != domain.SeverityHigh {
		t.Errorf("Severity = %q, want high", a.Severity)
	}
	if a.BreachStreak != 1 {
		t.Errorf("BreachStreak = %d, want 1", a.BreachStreak)
	}
}

func TestEvaluateAlerts_AccuracyDeepBreachMessage(t *testing.T) {
	// 0.47 < 0.55 - 0.07, the message is upgraded.
	alerts := EvaluateAlerts(domain.Metrics{Accuracy: f64(0.47)}, testThresholds(), nil)
	if len(alerts) != 1 {
		t.Fatalf("len(alerts) = %d, want 1", len(alerts))
	}
	if alerts[0].Message != "Accuracy 0.470 critically below threshold 0.550" {
		t.Errorf("Message = %q", alerts[0].Message)
	}
}

func TestEvaluateAlerts_BrierSeverityTiers(t *testing.T) {
	tests := []struct {
		brier float64
		want  domain.Severity
	}{
		{0.26, domain.SeverityMedium},
		{0.33, domain.SeverityMedium}, // at the margin, not past it
		{0.34, domain.SeverityHigh},
	}
	for _, tt := range tests {
		alerts := EvaluateAlerts(domain.Metrics{BrierScore: f64(tt.brier)}, testThresholds(), nil)
		if len(alerts) != 1 {
			t.Fatalf("brier %v: len(alerts) = %d, want 1", tt.brier, len(alerts))
		}
		if alerts[0].Severity != tt.want {
			t.Errorf("brier %v: Severity = %q, want %q", tt.brier, alerts[0].Severity, tt.want)
		}
	}
}

func TestEvaluateAlerts_FreshnessSeverityTiers(t *testing.T) {
	tests := []struct {
		days int
		want domain.Severity
	}{
		{4, domain.SeverityMedium},
		{5, domain.SeverityMedium},
		{6, domain.SeverityHigh},
	}
	for _, tt := range tests {
		alerts := EvaluateAlerts(domain.Metrics{GameFreshnessDays: intp(tt.days)}, testThresholds(), nil)
		if len(alerts) != 1 {
			t.Fatalf("days %d: len(alerts) = %d, want 1", tt.days, len(alerts))
		}
		if alerts[0].ID != domain.AlertGameDataStale {
			t.Errorf("days %d: ID = %q", tt.days, alerts[0].ID)
		}
		if alerts[0].Severity != tt.want {
			t.Errorf("days %d: Severity = %q, want %q", tt.days, alerts[0].Severity, tt.want)
		}
	}
}

func TestEvaluateAlerts_PipelineStaleIndependent(t *testing.T) {
	m := domain.Metrics{
		GameFreshnessDays:     intp(0),
		PipelineFreshnessDays: intp(4),
	}
	alerts := EvaluateAlerts(m, testThresholds(), nil)
	if len(alerts) != 1 || alerts[0].ID != domain.AlertPipelineStale {
		t.Errorf("alerts = %+v, want single pipeline_stale", alerts)
	}
}

// ─── Breach Streaks ─────────────────────────────────────────────────────────

func TestEvaluateAlerts_StreakCountsConsecutiveHistory(t *testing.T) {
	// Two trailing snapshots breaching accuracy, then one healthy: the
	// current breach makes a streak of 3.
	history := []domain.Snapshot{
		snapAccuracy(0.52),
		snapAccuracy(0.51),
		snapAccuracy(0.60),
		snapAccuracy(0.50),
	}
	alerts := EvaluateAlerts(domain.Metrics{Accuracy: f64(0.50)}, testThresholds(), history)
	if len(alerts) != 1 {
		t.Fatalf("len(alerts) = %d, want 1", len(alerts))
	}
	a := alerts[0]
	if a.BreachStreak != 3 {
		t.Errorf("BreachStreak = %d, want 3", a.BreachStreak)
	}
	if a.Escalation != domain.EscalationIncident {
		t.Errorf("Escalation = %q, want incident", a.Escalation)
	}
	if a.RecommendedAction != domain.ActionOpenIncident {
		t.Errorf("RecommendedAction = %q, want open_incident", a.RecommendedAction)
	}
}

func TestEvaluateAlerts_StreakStopsAtGap(t *testing.T) {
	// The most recent snapshot is healthy, so prior breaches do not
	// extend the streak.
	history := []domain.Snapshot{
		snapAccuracy(0.60),
		snapAccuracy(0.50),
		snapAccuracy(0.50),
	}
	alerts := EvaluateAlerts(domain.Metrics{Accuracy: f64(0.50)}, testThresholds(), history)
	if len(alerts) != 1 {
		t.Fatalf("len(alerts) = %d, want 1", len(alerts))
	}
	if alerts[0].BreachStreak != 1 {
		t.Errorf("BreachStreak = %d, want 1", alerts[0].BreachStreak)
	}
	if alerts[0].Escalation != domain.EscalationWatch {
		t.Errorf("Escalation = %q, want watch for first high breach", alerts[0].Escalation)
	}
}

func TestEvaluateAlerts_StreakIgnoresMissingMetric(t *testing.T) {
	// A snapshot without the metric breaks the streak.
	history := []domain.Snapshot{
		{},
		snapAccuracy(0.50),
	}
	alerts := EvaluateAlerts(domain.Metrics{Accuracy: f64(0.50)}, testThresholds(), history)
	if alerts[0].BreachStreak != 1 {
		t.Errorf("BreachStreak = %d, want 1", alerts[0].BreachStreak)
	}
}

// ─── Escalation ─────────────────────────────────────────────────────────────

func TestEscalate(t *testing.T) {
	tests := []struct {
		name       string
		severity   domain.Severity
		streak     int
		wantLevel  domain.EscalationLevel
		wantAction string
	}{
		{"high persistent", domain.SeverityHigh, 2, domain.EscalationIncident, domain.ActionOpenIncident},
		{"high first", domain.SeverityHigh, 1, domain.EscalationWatch, domain.ActionInvestigateNow},
		{"medium persistent", domain.SeverityMedium, 3, domain.EscalationWatch, domain.ActionInvestigateNow},
		{"medium short", domain.SeverityMedium, 2, domain.EscalationNone, domain.ActionMonitor},
		{"low", domain.SeverityLow, 5, domain.EscalationNone, domain.ActionMonitor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, action := escalate(tt.severity, tt.streak)
			if level != tt.wantLevel {
				t.Errorf("level = %q, want %q", level, tt.wantLevel)
			}
			if action != tt.wantAction {
				t.Errorf("action = %q, want %q", action, tt.wantAction)
			}
		})
	}
}

func TestAggregateState(t *testing.T) {
	tests := []struct {
		name   string
		alerts []domain.Alert
		want   domain.EscalationState
	}{
		{"no alerts", nil, domain.StateNone},
		{"plain alerts", []domain.Alert{{Escalation: domain.EscalationNone}}, domain.StateActive},
		{"watch wins", []domain.Alert{
			{Escalation: domain.EscalationNone},
			{Escalation: domain.EscalationWatch},
		}, domain.StateWatch},
		{"incident wins", []domain.Alert{
			{Escalation: domain.EscalationWatch},
			{Escalation: domain.EscalationIncident},
			{Escalation: domain.EscalationNone},
		}, domain.StateIncident},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AggregateState(tt.alerts); got != tt.want {
				t.Errorf("AggregateState() = %q, want %q", got, tt.want)
			}
		})
	}
}
