package mlops

import (
	"context"
	"testing"

	"github.com/courtsight-ai/courtsight/internal/domain"
)

func newTestMonitor(source *stubSource, trends *stubTrends, audit *stubAudit) *Monitor {
	return NewMonitor(source, trends, audit, testThresholds())
}

func TestMonitor_Overview_Healthy(t *testing.T) {
	source := &stubSource{quality: domain.QualitySummary{
		EvaluatedPredictions: 120,
		Accuracy:             f64(0.61),
		BrierScore:           f64(0.21),
	}}
	trends := &stubTrends{}
	audit := &stubAudit{}

	overview, err := newTestMonitor(source, trends, audit).Overview(context.Background(), "2025-26")
	if err != nil {
		t.Fatalf("Overview() error: %v", err)
	}
	if len(overview.Alerts) != 0 {
		t.Errorf("Alerts = %+v, want none", overview.Alerts)
	}
	if overview.Escalation != domain.StateNone {
		t.Errorf("Escalation = %q, want none", overview.Escalation)
	}

	// A snapshot and an audit record are appended even when healthy.
	if len(trends.appended) != 1 {
		t.Fatalf("appended snapshots = %d, want 1", len(trends.appended))
	}
	if trends.appended[0].AlertCount != 0 {
		t.Errorf("snapshot AlertCount = %d, want 0", trends.appended[0].AlertCount)
	}
	if len(audit.records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(audit.records))
	}
	if audit.records[0].Module != AuditModuleMonitoring {
		t.Errorf("audit Module = %q", audit.records[0].Module)
	}
	if audit.records[0].Status != "success" {
		t.Errorf("audit Status = %q, want success", audit.records[0].Status)
	}
}

func TestMonitor_Overview_Degraded(t *testing.T) {
	source := &stubSource{quality: domain.QualitySummary{
		EvaluatedPredictions: 120,
		Accuracy:             f64(0.50),
		BrierScore:           f64(0.21),
	}}
	trends := &stubTrends{}
	audit := &stubAudit{}

	overview, err := newTestMonitor(source, trends, audit).Overview(context.Background(), "2025-26")
	if err != nil {
		t.Fatalf("Overview() error: %v", err)
	}
	if len(overview.Alerts) != 1 {
		t.Fatalf("len(Alerts) = %d, want 1", len(overview.Alerts))
	}
	if overview.Escalation != domain.StateWatch {
		t.Errorf("Escalation = %q, want watch for a first high breach", overview.Escalation)
	}
	if audit.records[0].Status != "degraded" {
		t.Errorf("audit Status = %q, want degraded", audit.records[0].Status)
	}
	if trends.appended[0].AlertCount != 1 {
		t.Errorf("snapshot AlertCount = %d, want 1", trends.appended[0].AlertCount)
	}
	if len(trends.appended[0].Details.Alerts) != 1 {
		t.Errorf("snapshot Details.Alerts = %+v", trends.appended[0].Details.Alerts)
	}
}

func TestMonitor_Overview_PersistentBreachEscalates(t *testing.T) {
	// Accuracy 0.50 with two prior breaching snapshots: streak 3,
	// severity high, the aggregate state is incident.
	source := &stubSource{quality: domain.QualitySummary{
		EvaluatedPredictions: 120,
		Accuracy:             f64(0.50),
	}}
	trends := &stubTrends{history: []domain.Snapshot{
		snapAccuracy(0.52),
		snapAccuracy(0.53),
	}}
	audit := &stubAudit{}

	overview, err := newTestMonitor(source, trends, audit).Overview(context.Background(), "2025-26")
	if err != nil {
		t.Fatalf("Overview() error: %v", err)
	}
	if len(overview.Alerts) != 1 {
		t.Fatalf("len(Alerts) = %d, want 1", len(overview.Alerts))
	}
	if overview.Alerts[0].BreachStreak != 3 {
		t.Errorf("BreachStreak = %d, want 3", overview.Alerts[0].BreachStreak)
	}
	if overview.Escalation != domain.StateIncident {
		t.Errorf("Escalation = %q, want incident", overview.Escalation)
	}
}

func TestMonitor_Trend(t *testing.T) {
	trends := &stubTrends{history: []domain.Snapshot{
		{Season: "2025-26"},
		{Season: "2025-26"},
	}}
	m := newTestMonitor(&stubSource{}, trends, &stubAudit{})

	got, err := m.Trend(context.Background(), "2025-26", 14, 30)
	if err != nil {
		t.Fatalf("Trend() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len(snapshots) = %d, want 2", len(got))
	}
}
