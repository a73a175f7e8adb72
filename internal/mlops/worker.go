package mlops

import (
	"context"
	"fmt"
	"time"

	"github.com/courtsight-ai/courtsight/internal/domain"
	"github.com/courtsight-ai/courtsight/internal/infra/metrics"
)

// Worker claims one queued retrain job at a time and finalizes it with
// results or failure. Training failures are recorded on the job and
// returned as a structured failed result — never raised to the caller,
// and never retried; a fresh policy evaluation must enqueue a new job.
type Worker struct {
	jobs    domain.JobStore
	trainer domain.Trainer
	audit   domain.AuditSink
}

// NewWorker wires the retrain worker. The trainer is an explicit
// injected handle, reloadable by the caller that owns it.
func NewWorker(jobs domain.JobStore, trainer domain.Trainer, audit domain.AuditSink) *Worker {
	return &Worker{jobs: jobs, trainer: trainer, audit: audit}
}

// ProcessNext claims and processes the oldest queued retrain job.
// season narrows the claim when non-empty. execute=false completes the
// job with a simulation marker, validating queue wiring without
// training cost; execute=true runs the actual training pipeline.
func (w *Worker) ProcessNext(ctx context.Context, season string, execute bool) (*domain.WorkerResult, error) {
	job, err := w.jobs.ClaimNext(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("claim next job: %w", err)
	}
	if job == nil {
		metrics.WorkerTicks.WithLabelValues(string(domain.WorkerNoop)).Inc()
		return &domain.WorkerResult{
			Status:  domain.WorkerNoop,
			Message: "No queued retrain jobs available.",
		}, nil
	}

	details, trainErr := w.run(ctx, job, execute)
	if trainErr != nil {
		return w.fail(ctx, job, execute, details, trainErr)
	}

	finalized, err := w.jobs.FinalizeJob(ctx, job.ID, domain.JobCompleted, details, "")
	if err != nil {
		return nil, fmt.Errorf("finalize job %s: %w", job.ID, err)
	}
	if err := w.audit.RecordAudit(ctx, domain.AuditRecord{
		Module:           AuditModuleWorker,
		Status:           "success",
		RecordsProcessed: 1,
		Details: map[string]any{
			"job_id":  finalized.ID,
			"season":  finalized.Season,
			"execute": execute,
			"mode":    details.Mode,
		},
	}); err != nil {
		return nil, fmt.Errorf("record audit: %w", err)
	}

	metrics.WorkerTicks.WithLabelValues(string(domain.WorkerCompleted)).Inc()
	metrics.JobsFinalized.WithLabelValues(string(domain.JobCompleted)).Inc()
	return &domain.WorkerResult{
		Status:     domain.WorkerCompleted,
		Message:    "Retrain job processed successfully.",
		Job:        finalized,
		RunDetails: &details,
	}, nil
}

// run produces the run details for a claimed job. Training runs fully
// outside any store transaction — it is long-running.
func (w *Worker) run(ctx context.Context, job *domain.RetrainJob, execute bool) (domain.RunDetails, error) {
	if !execute {
		return domain.RunDetails{
			Mode: domain.RunModeSimulate,
			Note: "Training execution skipped; this run validates lifecycle behavior.",
		}, nil
	}

	started := time.Now()
	output, err := w.trainer.Train(ctx, job.Season)
	if err != nil {
		return domain.RunDetails{Mode: domain.RunModeExecute}, err
	}
	if output == nil {
		return domain.RunDetails{Mode: domain.RunModeExecute}, domain.ErrNoTrainingOutput
	}
	metrics.TrainingDuration.Observe(time.Since(started).Seconds())

	summary := summarizeTraining(output)
	return domain.RunDetails{
		Mode:            domain.RunModeExecute,
		TrainingSummary: &summary,
	}, nil
}

// fail finalizes a job whose training raised, records the audit trail,
// and reports a structured failure instead of an error.
func (w *Worker) fail(ctx context.Context, job *domain.RetrainJob, execute bool, details domain.RunDetails, trainErr error) (*domain.WorkerResult, error) {
	failed, err := w.jobs.FinalizeJob(ctx, job.ID, domain.JobFailed, details, trainErr.Error())
	if err != nil {
		return nil, fmt.Errorf("finalize failed job %s: %w", job.ID, err)
	}
	if err := w.audit.RecordAudit(ctx, domain.AuditRecord{
		Module:           AuditModuleWorker,
		Status:           "failed",
		RecordsProcessed: 1,
		Errors:           trainErr.Error(),
		Details: map[string]any{
			"job_id":  failed.ID,
			"season":  failed.Season,
			"execute": execute,
		},
	}); err != nil {
		return nil, fmt.Errorf("record audit: %w", err)
	}

	metrics.WorkerTicks.WithLabelValues(string(domain.WorkerFailed)).Inc()
	metrics.JobsFinalized.WithLabelValues(string(domain.JobFailed)).Inc()
	return &domain.WorkerResult{
		Status:  domain.WorkerFailed,
		Message: fmt.Sprintf("Retrain job failed: %v", trainErr),
		Job:     failed,
	}, nil
}

// summarizeTraining trims the pipeline's full report down to the
// per-model digest stored in run details.
func summarizeTraining(out *domain.TrainingOutput) domain.TrainingSummary {
	return domain.TrainingSummary{
		LogisticRegression: scores(out.LogisticRegression),
		XGBoost:            scores(out.XGBoost),
		LightGBM:           scores(out.LightGBM),
		Ensemble: domain.EnsembleScores{
			TrainAccuracy: out.Ensemble.TrainAccuracy,
			TrainAUC:      out.Ensemble.TrainAUC,
			BrierScore:    out.Ensemble.BrierScore,
		},
	}
}

func scores(r domain.ModelReport) domain.ModelScores {
	return domain.ModelScores{
		CVAccuracy:    r.CVAccuracy,
		CVAUC:         r.CVAUC,
		TrainAccuracy: r.TrainAccuracy,
		BrierScore:    r.BrierScore,
	}
}
