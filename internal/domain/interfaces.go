package domain

import (
	"context"
	"time"
)

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; the mlops layer depends on them.

// MetricsSource reads evaluated predictions and freshness timestamps
// for a season. Query errors propagate unmodified — the aggregator
// never zero-fills a failed read.
type MetricsSource interface {
	// QualitySummary returns the evaluated-prediction count plus mean
	// correctness and Brier error for predictions with known outcomes.
	QualitySummary(ctx context.Context, season string) (QualitySummary, error)

	// CompletedGames counts games with ground truth available.
	CompletedGames(ctx context.Context, season string) (int, error)

	// LatestGameDate returns the most recent observed game date,
	// nil if the season has no games yet.
	LatestGameDate(ctx context.Context, season string) (*time.Time, error)

	// LatestPipelineSync returns the most recent feature pipeline sync,
	// nil if the pipeline never ran.
	LatestPipelineSync(ctx context.Context) (*time.Time, error)
}

// TrendStore is the append-only monitoring snapshot log.
type TrendStore interface {
	// AppendSnapshot writes one immutable snapshot row and returns it
	// with its assigned id and capture time.
	AppendSnapshot(ctx context.Context, snap Snapshot) (*Snapshot, error)

	// RecentSnapshots returns up to limit snapshots for the season,
	// most recent first. Used for breach-streak evaluation.
	RecentSnapshots(ctx context.Context, season string, limit int) ([]Snapshot, error)

	// SnapshotWindow returns snapshots captured within the trailing
	// number of days, most recent first, capped at limit.
	SnapshotWindow(ctx context.Context, season string, days, limit int) ([]Snapshot, error)
}

// JobStore is the durable retrain queue. Create, ClaimNext, and
// Finalize are each single atomic operations; no transaction spans the
// external training call.
type JobStore interface {
	// CreateJob inserts a queued job, capturing the current artifact
	// snapshot and the default rollback plan. Returns ErrDuplicateJob
	// if an active job for the season already exists.
	CreateJob(ctx context.Context, req NewJob) (*RetrainJob, error)

	// FindRecentActive returns the most recent queued-or-running job
	// for the season created within the trailing window, nil if none.
	FindRecentActive(ctx context.Context, season string, window time.Duration) (*RetrainJob, error)

	// ClaimNext atomically transitions the oldest queued job (filtered
	// by season when non-empty) to running and returns it. Returns
	// (nil, nil) immediately when nothing is claimable; concurrent
	// callers never claim the same job.
	ClaimNext(ctx context.Context, season string) (*RetrainJob, error)

	// FinalizeJob stamps a terminal status with run details, refreshing
	// the artifact snapshot. ErrJobNotFound for unknown ids,
	// ErrJobFinalized when the job already reached a terminal state.
	FinalizeJob(ctx context.Context, id string, status JobStatus, details RunDetails, errMsg string) (*RetrainJob, error)

	// ListJobs returns job history for a season, most recent first.
	ListJobs(ctx context.Context, season string, limit int) ([]RetrainJob, error)
}

// Trainer runs the external training pipeline for a season. Long
// running; callers impose their own deadline via ctx.
type Trainer interface {
	Train(ctx context.Context, season string) (*TrainingOutput, error)
}

// ArtifactLister enumerates the current model artifact files.
type ArtifactLister interface {
	Snapshot() ArtifactSnapshot
}

// AuditRecord is one row of the shared audit log.
type AuditRecord struct {
	Module           string         `json:"module"`
	Status           string         `json:"status"`
	RecordsProcessed int            `json:"records_processed"`
	Errors           string         `json:"errors,omitempty"`
	Details          map[string]any `json:"details,omitempty"`
}

// AuditSink accepts audit records from the monitoring, policy, and
// worker modules. Implementations must tolerate being called on a
// store whose audit table is not yet provisioned.
type AuditSink interface {
	RecordAudit(ctx context.Context, rec AuditRecord) error
}
