package mlops

import (
	"fmt"

	"github.com/courtsight-ai/courtsight/internal/domain"
)

// Severity margins. A breach deep enough past the threshold is graded
// one tier harder.
const (
	accuracyDeepMargin  = 0.07 // accuracy this far below the floor is critical
	brierHighMargin     = 0.08 // brier this far above the cap escalates to high
	freshnessHighMargin = 2    // days past the freshness cap that escalate to high
)

// EvaluateAlerts checks current metrics against thresholds and the
// trailing snapshot history (most recent first) and returns the alerts
// that fired. Each alert carries a breach streak: the count of
// consecutive trailing snapshots breaching the same metric, plus one
// for the current breach itself.
func EvaluateAlerts(m domain.Metrics, th domain.Thresholds, history []domain.Snapshot) []domain.Alert {
	var alerts []domain.Alert

	if m.Accuracy != nil && *m.Accuracy < th.AccuracyMin {
		msg := fmt.Sprintf("Accuracy %.3f below threshold %.3f", *m.Accuracy, th.AccuracyMin)
		if *m.Accuracy < th.AccuracyMin-accuracyDeepMargin {
			msg = fmt.Sprintf("Accuracy %.3f critically below threshold %.3f", *m.Accuracy, th.AccuracyMin)
		}
		streak := 1 + breachStreak(history, func(s domain.Snapshot) bool {
			return s.Accuracy != nil && *s.Accuracy < th.AccuracyMin
		})
		alerts = append(alerts, newAlert(domain.AlertAccuracyBreach, domain.SeverityHigh, msg, streak))
	}

	if m.BrierScore != nil && *m.BrierScore > th.BrierMax {
		severity := domain.SeverityMedium
		if *m.BrierScore > th.BrierMax+brierHighMargin {
			severity = domain.SeverityHigh
		}
		msg := fmt.Sprintf("Brier score %.3f above threshold %.3f", *m.BrierScore, th.BrierMax)
		streak := 1 + breachStreak(history, func(s domain.Snapshot) bool {
			return s.BrierScore != nil && *s.BrierScore > th.BrierMax
		})
		alerts = append(alerts, newAlert(domain.AlertBrierBreach, severity, msg, streak))
	}

	if m.GameFreshnessDays != nil && *m.GameFreshnessDays > th.FreshnessDaysMax {
		severity := domain.SeverityMedium
		if *m.GameFreshnessDays > th.FreshnessDaysMax+freshnessHighMargin {
			severity = domain.SeverityHigh
		}
		msg := fmt.Sprintf("Latest game data is %d days old", *m.GameFreshnessDays)
		streak := 1 + breachStreak(history, func(s domain.Snapshot) bool {
			return s.GameFreshnessDays != nil && *s.GameFreshnessDays > th.FreshnessDaysMax
		})
		alerts = append(alerts, newAlert(domain.AlertGameDataStale, severity, msg, streak))
	}

	if m.PipelineFreshnessDays != nil && *m.PipelineFreshnessDays > th.FreshnessDaysMax {
		severity := domain.SeverityMedium
		if *m.PipelineFreshnessDays > th.FreshnessDaysMax+freshnessHighMargin {
			severity = domain.SeverityHigh
		}
		msg := fmt.Sprintf("Latest pipeline sync is %d days old", *m.PipelineFreshnessDays)
		streak := 1 + breachStreak(history, func(s domain.Snapshot) bool {
			return s.PipelineFreshnessDays != nil && *s.PipelineFreshnessDays > th.FreshnessDaysMax
		})
		alerts = append(alerts, newAlert(domain.AlertPipelineStale, severity, msg, streak))
	}

	return alerts
}

func newAlert(id string, severity domain.Severity, msg string, streak int) domain.Alert {
	level, action := escalate(severity, streak)
	return domain.Alert{
		ID:                id,
		Severity:          severity,
		Message:           msg,
		BreachStreak:      streak,
		Escalation:        level,
		RecommendedAction: action,
	}
}

// breachStreak counts consecutive history points (most recent first)
// that breach, stopping at the first non-breaching or missing point.
func breachStreak(history []domain.Snapshot, breached func(domain.Snapshot) bool) int {
	streak := 0
	for _, snap := range history {
		if !breached(snap) {
			break
		}
		streak++
	}
	return streak
}

// escalate derives the urgency tier of one alert from its severity and
// how long the breach has persisted.
func escalate(severity domain.Severity, streak int) (domain.EscalationLevel, string) {
	switch {
	case severity == domain.SeverityHigh && streak >= 2:
		return domain.EscalationIncident, domain.ActionOpenIncident
	case severity == domain.SeverityHigh:
		return domain.EscalationWatch, domain.ActionInvestigateNow
	case severity == domain.SeverityMedium && streak >= 3:
		return domain.EscalationWatch, domain.ActionInvestigateNow
	default:
		return domain.EscalationNone, domain.ActionMonitor
	}
}

// AggregateState folds per-alert escalation into one state for the
// evaluation: incident beats watch beats active beats none.
func AggregateState(alerts []domain.Alert) domain.EscalationState {
	if len(alerts) == 0 {
		return domain.StateNone
	}
	state := domain.StateActive
	for _, a := range alerts {
		switch a.Escalation {
		case domain.EscalationIncident:
			return domain.StateIncident
		case domain.EscalationWatch:
			state = domain.StateWatch
		}
	}
	return state
}
