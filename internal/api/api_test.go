package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/courtsight-ai/courtsight/internal/domain"
	"github.com/courtsight-ai/courtsight/internal/infra/sqlite"
	"github.com/courtsight-ai/courtsight/internal/mlops"
)

func newTestServer(t *testing.T) (*Server, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	th := domain.Thresholds{AccuracyMin: 0.55, BrierMax: 0.25, FreshnessDaysMax: 3, NewLabelsMin: 40}
	monitor := mlops.NewMonitor(db, db, db, th)
	policy := mlops.NewPolicy(db, db, db, th)
	worker := mlops.NewWorker(db, nil, db)

	srv := NewServer(monitor, policy, worker, db, "2025-26")
	srv.EnableMetrics()
	return srv, db
}

func doJSON(t *testing.T, h http.Handler, method, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestMonitoringEndpoint(t *testing.T) {
	srv, db := newTestServer(t)
	h := srv.Handler()

	var overview domain.Overview
	rec := doJSON(t, h, http.MethodGet, "/api/v1/mlops/monitoring", &overview)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if overview.Season != "2025-26" {
		t.Errorf("Season = %q, want default season", overview.Season)
	}
	if overview.Metrics.Accuracy != nil {
		t.Errorf("Accuracy = %v, want null with no evaluations", overview.Metrics.Accuracy)
	}

	// The evaluation appended a snapshot, so trend now has one entry.
	var trend struct {
		Season    string            `json:"season"`
		Snapshots []domain.Snapshot `json:"snapshots"`
	}
	rec = doJSON(t, h, http.MethodGet, "/api/v1/mlops/monitoring/trend?days=7", &trend)
	if rec.Code != http.StatusOK {
		t.Fatalf("trend status = %d", rec.Code)
	}
	if len(trend.Snapshots) != 1 {
		t.Errorf("len(Snapshots) = %d, want 1", len(trend.Snapshots))
	}

	// And one monitoring audit record.
	entries, err := db.RecentAudit(context.Background(), "mlops_monitoring", 5)
	if err != nil {
		t.Fatalf("RecentAudit() error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("audit entries = %d, want 1", len(entries))
	}
}

func TestPolicyEndpoint_DryRun(t *testing.T) {
	srv, db := newTestServer(t)

	var decision domain.Decision
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/v1/mlops/retrain/policy?dry_run=true", &decision)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}
	if decision.Action != domain.ActionDryRunNoop {
		t.Errorf("Action = %q, want dry-run-noop", decision.Action)
	}

	jobs, err := db.ListJobs(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("ListJobs() error: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("jobs = %d, want 0 after dry run", len(jobs))
	}
}

func TestPolicyEndpoint_EnqueuesAndWorkerTicks(t *testing.T) {
	srv, db := newTestServer(t)
	h := srv.Handler()
	ctx := context.Background()

	// Enough completed games without predictions to warrant a retrain.
	for i := 0; i < 45; i++ {
		err := db.UpsertMatch(ctx, domain.Match{
			GameID:       string(rune('a'+i%26)) + string(rune('0'+i/26)),
			Season:       "2025-26",
			GameDate:     time.Now().AddDate(0, 0, -1),
			HomeTeamID:   100,
			WinnerTeamID: 100,
			IsCompleted:  true,
		})
		if err != nil {
			t.Fatalf("UpsertMatch() error: %v", err)
		}
	}

	var decision domain.Decision
	rec := doJSON(t, h, http.MethodPost, "/api/v1/mlops/retrain/policy", &decision)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}
	if decision.Action != domain.ActionQueuedRetrain {
		t.Fatalf("Action = %q, want queued-retrain", decision.Action)
	}

	// A second evaluation hits the duplicate guard.
	rec = doJSON(t, h, http.MethodPost, "/api/v1/mlops/retrain/policy", &decision)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if decision.Action != domain.ActionAlreadyQueued {
		t.Errorf("Action = %q, want already-queued", decision.Action)
	}

	// The worker simulates the job to completion.
	var result domain.WorkerResult
	rec = doJSON(t, h, http.MethodPost, "/api/v1/mlops/retrain/worker/tick", &result)
	if rec.Code != http.StatusOK {
		t.Fatalf("tick status = %d; body %s", rec.Code, rec.Body.String())
	}
	if result.Status != domain.WorkerCompleted {
		t.Errorf("worker Status = %q, want completed", result.Status)
	}
	if result.Job == nil || result.Job.Status != domain.JobCompleted {
		t.Errorf("Job = %+v, want completed", result.Job)
	}

	var listing struct {
		Jobs  []domain.RetrainJob `json:"jobs"`
		Count int                 `json:"count"`
	}
	rec = doJSON(t, h, http.MethodGet, "/api/v1/mlops/retrain/jobs", &listing)
	if rec.Code != http.StatusOK {
		t.Fatalf("jobs status = %d", rec.Code)
	}
	if listing.Count != 1 {
		t.Errorf("Count = %d, want 1", listing.Count)
	}
}

func TestGetJob_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/v1/mlops/retrain/jobs/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
