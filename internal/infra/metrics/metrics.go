// Package metrics provides Prometheus metrics for courtsight:
// counters, gauges, and histograms for monitoring evaluations, alerts,
// retrain decisions, and the job queue.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Monitoring ─────────────────────────────────────────────────────────────

// Evaluations tracks monitoring overview computations per season.
var Evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "courtsight",
	Name:      "monitoring_evaluations_total",
	Help:      "Total monitoring overview evaluations.",
}, []string{"season"})

// AlertsFired tracks alerts raised by id and severity.
var AlertsFired = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "courtsight",
	Name:      "monitoring_alerts_total",
	Help:      "Total alerts raised.",
}, []string{"alert", "severity"})

// EscalationLevel tracks the aggregate escalation state per season
// (0=none, 1=active, 2=watch, 3=incident).
var EscalationLevel = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "courtsight",
	Name:      "monitoring_escalation_level",
	Help:      "Aggregate escalation state (0=none, 1=active, 2=watch, 3=incident).",
}, []string{"season"})

// ─── Retrain Policy ─────────────────────────────────────────────────────────

// PolicyDecisions tracks policy evaluations by action taken.
var PolicyDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "courtsight",
	Name:      "retrain_policy_decisions_total",
	Help:      "Total retrain policy decisions by action.",
}, []string{"action"})

// ─── Job Queue ──────────────────────────────────────────────────────────────

// JobsQueued tracks retrain jobs enqueued.
var JobsQueued = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "courtsight",
	Name:      "retrain_jobs_queued_total",
	Help:      "Total retrain jobs enqueued.",
})

// JobsFinalized tracks finalized retrain jobs by terminal status.
var JobsFinalized = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "courtsight",
	Name:      "retrain_jobs_finalized_total",
	Help:      "Total retrain jobs finalized, by terminal status.",
}, []string{"status"})

// TrainingDuration tracks execute-mode training wall time.
var TrainingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "courtsight",
	Name:      "training_duration_seconds",
	Help:      "Wall time of the external training pipeline.",
	Buckets:   []float64{1, 5, 15, 60, 300, 900, 1800, 3600},
})

// WorkerTicks tracks worker invocations by outcome.
var WorkerTicks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "courtsight",
	Name:      "worker_ticks_total",
	Help:      "Total worker ticks by outcome.",
}, []string{"status"})
