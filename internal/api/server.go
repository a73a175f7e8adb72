// Package api provides the HTTP server for CourtSight's model
// operations surface: monitoring, trend history, retrain policy,
// the retrain job queue, and the worker tick.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/courtsight-ai/courtsight/internal/infra/sqlite"
	"github.com/courtsight-ai/courtsight/internal/mlops"
)

// Server is the CourtSight HTTP API server.
type Server struct {
	monitor *mlops.Monitor
	policy  *mlops.Policy
	worker  *mlops.Worker
	store   *sqlite.DB

	defaultSeason  string
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(monitor *mlops.Monitor, policy *mlops.Policy, worker *mlops.Worker, store *sqlite.DB, defaultSeason string) *Server {
	return &Server{
		monitor:       monitor,
		policy:        policy,
		worker:        worker,
		store:         store,
		defaultSeason: defaultSeason,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Minute))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := s.store.Ping(); err != nil {
			writeError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": "0.1.0",
		})
	})

	r.Route("/api/v1/mlops", func(r chi.Router) {
		r.Get("/monitoring", s.handleMonitoring)
		r.Get("/monitoring/trend", s.handleTrend)
		r.Get("/retrain/policy", s.handlePolicy)
		r.Post("/retrain/policy", s.handlePolicy)
		r.Get("/retrain/jobs", s.handleListJobs)
		r.Get("/retrain/jobs/{id}", s.handleGetJob)
		r.Post("/retrain/worker/tick", s.handleWorkerTick)
		r.Get("/audit", s.handleAudit)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// season resolves the season query param, falling back to the default.
func (s *Server) season(r *http.Request) string {
	if v := r.URL.Query().Get("season"); v != "" {
		return v
	}
	return s.defaultSeason
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}
