package mlops

import (
	"context"
	"time"

	"github.com/courtsight-ai/courtsight/internal/domain"
)

// In-memory collaborators for engine tests. The sqlite package covers
// the real store; these keep the engine tests focused on decisions.

func f64(v float64) *float64 { return &v }

func testThresholds() domain.Thresholds {
	return domain.Thresholds{
		AccuracyMin:      0.55,
		BrierMax:         0.25,
		FreshnessDaysMax: 3,
		NewLabelsMin:     40,
	}
}

type stubSource struct {
	quality    domain.QualitySummary
	completed  int
	latestGame *time.Time
	latestSync *time.Time
	err        error
}

func (s *stubSource) QualitySummary(ctx context.Context, season string) (domain.QualitySummary, error) {
	return s.quality, s.err
}

func (s *stubSource) CompletedGames(ctx context.Context, season string) (int, error) {
	return s.completed, s.err
}

func (s *stubSource) LatestGameDate(ctx context.Context, season string) (*time.Time, error) {
	return s.latestGame, s.err
}

func (s *stubSource) LatestPipelineSync(ctx context.Context) (*time.Time, error) {
	return s.latestSync, s.err
}

type stubTrends struct {
	history  []domain.Snapshot
	appended []domain.Snapshot
}

func (s *stubTrends) AppendSnapshot(ctx context.Context, snap domain.Snapshot) (*domain.Snapshot, error) {
	snap.ID = int64(len(s.appended) + 1)
	if snap.CapturedAt.IsZero() {
		snap.CapturedAt = time.Now()
	}
	s.appended = append(s.appended, snap)
	return &snap, nil
}

func (s *stubTrends) RecentSnapshots(ctx context.Context, season string, limit int) ([]domain.Snapshot, error) {
	if len(s.history) > limit {
		return s.history[:limit], nil
	}
	return s.history, nil
}

func (s *stubTrends) SnapshotWindow(ctx context.Context, season string, days, limit int) ([]domain.Snapshot, error) {
	return s.history, nil
}

type stubJobs struct {
	active    *domain.RetrainJob
	queue     []*domain.RetrainJob
	created   []domain.NewJob
	createErr error
	finalized []domain.RetrainJob
}

func (s *stubJobs) CreateJob(ctx context.Context, req domain.NewJob) (*domain.RetrainJob, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, req)
	job := domain.RetrainJob{
		ID:            "job-1",
		Season:        req.Season,
		Status:        domain.JobQueued,
		TriggerSource: req.TriggerSource,
		Reasons:       req.Reasons,
		Metrics:       req.Metrics,
		Thresholds:    req.Thresholds,
		RollbackPlan:  domain.DefaultRollbackPlan(),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	return &job, nil
}

func (s *stubJobs) FindRecentActive(ctx context.Context, season string, window time.Duration) (*domain.RetrainJob, error) {
	return s.active, nil
}

func (s *stubJobs) ClaimNext(ctx context.Context, season string) (*domain.RetrainJob, error) {
	if len(s.queue) == 0 {
		return nil, nil
	}
	job := s.queue[0]
	s.queue = s.queue[1:]
	job.Status = domain.JobRunning
	now := time.Now()
	job.StartedAt = &now
	return job, nil
}

func (s *stubJobs) FinalizeJob(ctx context.Context, id string, status domain.JobStatus, details domain.RunDetails, errMsg string) (*domain.RetrainJob, error) {
	now := time.Now()
	job := domain.RetrainJob{
		ID:          id,
		Status:      status,
		RunDetails:  &details,
		Error:       errMsg,
		CompletedAt: &now,
	}
	s.finalized = append(s.finalized, job)
	return &job, nil
}

func (s *stubJobs) ListJobs(ctx context.Context, season string, limit int) ([]domain.RetrainJob, error) {
	return nil, nil
}

type stubAudit struct {
	records []domain.AuditRecord
}

func (s *stubAudit) RecordAudit(ctx context.Context, rec domain.AuditRecord) error {
	s.records = append(s.records, rec)
	return nil
}

type stubTrainer struct {
	output *domain.TrainingOutput
	err    error
	calls  int
}

func (s *stubTrainer) Train(ctx context.Context, season string) (*domain.TrainingOutput, error) {
	s.calls++
	return s.output, s.err
}
