package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ─── Monitoring ──────────────────────────────────────────────────────────────

// handleMonitoring runs a monitoring evaluation and returns the overview.
// Every call appends a snapshot and an audit record.
func (s *Server) handleMonitoring(w http.ResponseWriter, r *http.Request) {
	overview, err := s.monitor.Overview(r.Context(), s.season(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// handleTrend returns snapshot history within a trailing day window.
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 14)
	if days < 1 {
		days = 1
	}
	if days > 90 {
		days = 90
	}
	limit := queryInt(r, "limit", 30)
	if limit < 1 {
		limit = 30
	}

	season := s.season(r)
	snapshots, err := s.monitor.Trend(r.Context(), season, days, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"season":    season,
		"days":      days,
		"snapshots": snapshots,
	})
}

// ─── Retrain policy and jobs ─────────────────────────────────────────────────

// handlePolicy evaluates the retrain decision. dry_run=true reports the
// decision without touching the queue.
func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	dryRun := queryBool(r, "dry_run")
	decision, err := s.policy.Evaluate(r.Context(), s.season(r), dryRun)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	season := r.URL.Query().Get("season") // empty lists all seasons

	jobs, err := s.store.ListJobs(r.Context(), season, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "retrain job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// handleWorkerTick claims and processes one queued job. execute=true
// runs the real training pipeline; the default simulates.
func (s *Server) handleWorkerTick(w http.ResponseWriter, r *http.Request) {
	execute := queryBool(r, "execute")
	season := r.URL.Query().Get("season") // empty claims across seasons

	result, err := s.worker.ProcessNext(r.Context(), season, execute)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ─── Audit trail ─────────────────────────────────────────────────────────────

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	module := r.URL.Query().Get("module")

	entries, err := s.store.RecentAudit(r.Context(), module, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// ─── Query helpers ───────────────────────────────────────────────────────────

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
