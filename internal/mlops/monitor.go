package mlops

import (
	"context"
	"fmt"

	"github.com/courtsight-ai/courtsight/internal/domain"
	"github.com/courtsight-ai/courtsight/internal/infra/metrics"
)

// Audit module names shared with the web tier's observability views.
const (
	AuditModuleMonitoring = "mlops_monitoring"
	AuditModulePolicy     = "mlops_retrain_policy"
	AuditModuleWorker     = "mlops_retrain_worker"
)

// DefaultHistoryDepth is how many trailing snapshots the alert engine
// inspects for breach streaks.
const DefaultHistoryDepth = 10

// Monitor produces monitoring overviews: current metrics evaluated
// against thresholds and trailing history. Every overview appends one
// immutable snapshot and one audit record, alerts or not.
type Monitor struct {
	aggregator   *Aggregator
	trends       domain.TrendStore
	audit        domain.AuditSink
	thresholds   domain.Thresholds
	historyDepth int
}

// NewMonitor wires the monitoring engine.
func NewMonitor(source domain.MetricsSource, trends domain.TrendStore, audit domain.AuditSink, th domain.Thresholds) *Monitor {
	return &Monitor{
		aggregator:   NewAggregator(source),
		trends:       trends,
		audit:        audit,
		thresholds:   th,
		historyDepth: DefaultHistoryDepth,
	}
}

// SetHistoryDepth overrides how many trailing snapshots feed streaks.
func (m *Monitor) SetHistoryDepth(depth int) { m.historyDepth = depth }

// Overview evaluates the season's current quality and freshness,
// raising severity- and streak-graded alerts.
func (m *Monitor) Overview(ctx context.Context, season string) (*domain.Overview, error) {
	current, err := m.aggregator.Compute(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("compute metrics: %w", err)
	}

	history, err := m.trends.RecentSnapshots(ctx, season, m.historyDepth)
	if err != nil {
		return nil, fmt.Errorf("load trend history: %w", err)
	}

	alerts := EvaluateAlerts(current, m.thresholds, history)
	state := AggregateState(alerts)

	snapshot := domain.Snapshot{
		Season:                season,
		EvaluatedPredictions:  current.EvaluatedPredictions,
		Accuracy:              current.Accuracy,
		BrierScore:            current.BrierScore,
		GameFreshnessDays:     current.GameFreshnessDays,
		PipelineFreshnessDays: current.PipelineFreshnessDays,
		AlertCount:            len(alerts),
		Details: domain.SnapshotDetails{
			Thresholds: m.thresholds,
			Alerts:     alerts,
		},
	}
	if _, err := m.trends.AppendSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("append snapshot: %w", err)
	}

	status := "success"
	if len(alerts) > 0 {
		status = "degraded"
	}
	if err := m.audit.RecordAudit(ctx, domain.AuditRecord{
		Module:           AuditModuleMonitoring,
		Status:           status,
		RecordsProcessed: current.EvaluatedPredictions,
		Details: map[string]any{
			"season":     season,
			"alerts":     alerts,
			"thresholds": m.thresholds,
			"escalation": state,
		},
	}); err != nil {
		return nil, fmt.Errorf("record audit: %w", err)
	}

	metrics.Evaluations.WithLabelValues(season).Inc()
	for _, a := range alerts {
		metrics.AlertsFired.WithLabelValues(a.ID, string(a.Severity)).Inc()
	}
	metrics.EscalationLevel.WithLabelValues(season).Set(escalationValue(state))

	return &domain.Overview{
		Season:     season,
		Metrics:    current,
		Thresholds: m.thresholds,
		Alerts:     alerts,
		Escalation: state,
	}, nil
}

// Trend returns the snapshot history for a season within the trailing
// day window, most recent first.
func (m *Monitor) Trend(ctx context.Context, season string, days, limit int) ([]domain.Snapshot, error) {
	return m.trends.SnapshotWindow(ctx, season, days, limit)
}

func escalationValue(state domain.EscalationState) float64 {
	switch state {
	case domain.StateIncident:
		return 3
	case domain.StateWatch:
		return 2
	case domain.StateActive:
		return 1
	default:
		return 0
	}
}
