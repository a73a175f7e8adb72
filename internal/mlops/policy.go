package mlops

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/courtsight-ai/courtsight/internal/domain"
	"github.com/courtsight-ai/courtsight/internal/infra/metrics"
)

// DefaultDuplicateWindow is how far back the policy looks for an
// existing active job before enqueueing another.
const DefaultDuplicateWindow = 12 * time.Hour

// Policy decides whether a season's model should be retrained and,
// outside dry-run, coordinates the enqueue with duplicate suppression.
type Policy struct {
	source          domain.MetricsSource
	jobs            domain.JobStore
	audit           domain.AuditSink
	thresholds      domain.Thresholds
	duplicateWindow time.Duration
}

// NewPolicy wires the retrain policy.
func NewPolicy(source domain.MetricsSource, jobs domain.JobStore, audit domain.AuditSink, th domain.Thresholds) *Policy {
	return &Policy{
		source:          source,
		jobs:            jobs,
		audit:           audit,
		thresholds:      th,
		duplicateWindow: DefaultDuplicateWindow,
	}
}

// SetDuplicateWindow overrides the duplicate-guard lookback.
func (p *Policy) SetDuplicateWindow(d time.Duration) { p.duplicateWindow = d }

// Evaluate computes the retrain decision for a season. dryRun never
// mutates the queue; otherwise a warranted retrain is enqueued unless
// an active job already exists within the duplicate-guard window.
func (p *Policy) Evaluate(ctx context.Context, season string, dryRun bool) (*domain.Decision, error) {
	quality, err := p.source.QualitySummary(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("read quality summary: %w", err)
	}
	completed, err := p.source.CompletedGames(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("count completed games: %w", err)
	}

	newLabels := completed - quality.EvaluatedPredictions
	if newLabels < 0 {
		newLabels = 0
	}
	policyMetrics := domain.PolicyMetrics{
		CompletedGames:       completed,
		EvaluatedPredictions: quality.EvaluatedPredictions,
		NewLabelsPending:     newLabels,
		Accuracy:             quality.Accuracy,
		BrierScore:           quality.BrierScore,
	}

	var reasons []string
	if quality.Accuracy != nil && *quality.Accuracy < p.thresholds.AccuracyMin {
		reasons = append(reasons, fmt.Sprintf("accuracy_breach: %.3f < %.3f",
			*quality.Accuracy, p.thresholds.AccuracyMin))
	}
	if quality.BrierScore != nil && *quality.BrierScore > p.thresholds.BrierMax {
		reasons = append(reasons, fmt.Sprintf("brier_breach: %.3f > %.3f",
			*quality.BrierScore, p.thresholds.BrierMax))
	}
	if newLabels >= p.thresholds.NewLabelsMin {
		reasons = append(reasons, fmt.Sprintf("new_labels_threshold: %d >= %d",
			newLabels, p.thresholds.NewLabelsMin))
	}

	decision := &domain.Decision{
		Season:        season,
		DryRun:        dryRun,
		ShouldRetrain: len(reasons) > 0,
		Reasons:       reasons,
		Metrics:       policyMetrics,
		Thresholds:    p.thresholds,
	}

	switch {
	case dryRun:
		decision.Action = domain.ActionDryRunNoop
	case !decision.ShouldRetrain:
		decision.Action = domain.ActionNoop
	default:
		if err := p.enqueue(ctx, decision); err != nil {
			return nil, err
		}
	}

	status := "success"
	if decision.ShouldRetrain {
		status = "degraded"
	}
	if err := p.audit.RecordAudit(ctx, domain.AuditRecord{
		Module:           AuditModulePolicy,
		Status:           status,
		RecordsProcessed: newLabels,
		Details: map[string]any{
			"season":     season,
			"dry_run":    dryRun,
			"action":     decision.Action,
			"reasons":    reasons,
			"thresholds": p.thresholds,
		},
	}); err != nil {
		return nil, fmt.Errorf("record audit: %w", err)
	}

	metrics.PolicyDecisions.WithLabelValues(string(decision.Action)).Inc()
	return decision, nil
}

// enqueue applies the duplicate guard and creates the job. The guard is
// check-then-act; the store's uniqueness constraint on active jobs per
// season backstops a lost race, which lands in the same already-queued
// branch.
func (p *Policy) enqueue(ctx context.Context, decision *domain.Decision) error {
	existing, err := p.jobs.FindRecentActive(ctx, decision.Season, p.duplicateWindow)
	if err != nil {
		return fmt.Errorf("duplicate guard: %w", err)
	}
	if existing != nil {
		decision.Action = domain.ActionAlreadyQueued
		decision.Execution = domain.Execution{
			DuplicateGuardTriggered: true,
			RetrainJob:              existing,
			RollbackStrategy:        existing.RollbackPlan.Strategy,
		}
		return nil
	}

	job, err := p.jobs.CreateJob(ctx, domain.NewJob{
		Season:        decision.Season,
		TriggerSource: domain.TriggerSourcePolicy,
		Reasons:       decision.Reasons,
		Metrics:       decision.Metrics,
		Thresholds:    decision.Thresholds,
	})
	if errors.Is(err, domain.ErrDuplicateJob) {
		// Lost the enqueue race to a concurrent evaluation.
		existing, ferr := p.jobs.FindRecentActive(ctx, decision.Season, p.duplicateWindow)
		if ferr != nil {
			return fmt.Errorf("duplicate guard after lost race: %w", ferr)
		}
		decision.Action = domain.ActionAlreadyQueued
		decision.Execution = domain.Execution{
			DuplicateGuardTriggered: true,
			RetrainJob:              existing,
		}
		if existing != nil {
			decision.Execution.RollbackStrategy = existing.RollbackPlan.Strategy
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("create retrain job: %w", err)
	}

	decision.Action = domain.ActionQueuedRetrain
	decision.Execution = domain.Execution{
		RetrainJob:       job,
		RollbackStrategy: job.RollbackPlan.Strategy,
	}
	metrics.JobsQueued.Inc()
	return nil
}
