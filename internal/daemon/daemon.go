package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courtsight-ai/courtsight/internal/api"
	"github.com/courtsight-ai/courtsight/internal/infra/artifact"
	"github.com/courtsight-ai/courtsight/internal/infra/sqlite"
	"github.com/courtsight-ai/courtsight/internal/mlops"
	"github.com/courtsight-ai/courtsight/internal/train"
)

// Daemon is the core runtime. It wires the sqlite store, the monitoring
// and retrain engines, and the HTTP API together.
type Daemon struct {
	Config  Config
	DB      *sqlite.DB
	Monitor *mlops.Monitor
	Policy  *mlops.Policy
	Worker  *mlops.Worker
	Server  *api.Server

	cancel context.CancelFunc
}

// New creates a daemon with config loaded from disk.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a daemon with the given config.
func NewWithConfig(cfg Config) (*Daemon, error) {
	storeDir := cfg.Store.Dir
	if storeDir == "" {
		storeDir = courtsightHome()
	}

	db, err := sqlite.Open(storeDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	artifacts := artifact.NewDir(cfg.Retrain.ArtifactDir, cfg.Retrain.ArtifactMaxEntries)
	db.SetArtifactLister(artifacts)

	th := cfg.Thresholds()

	monitor := mlops.NewMonitor(db, db, db, th)
	if cfg.Monitoring.HistoryDepth > 0 {
		monitor.SetHistoryDepth(cfg.Monitoring.HistoryDepth)
	}

	policy := mlops.NewPolicy(db, db, db, th)
	if cfg.Retrain.DuplicateWindowHours > 0 {
		policy.SetDuplicateWindow(time.Duration(cfg.Retrain.DuplicateWindowHours) * time.Hour)
	}

	trainer := train.NewPipeline(cfg.Trainer.Command, cfg.Trainer.WorkDir)
	worker := mlops.NewWorker(db, trainer, db)

	srv := api.NewServer(monitor, policy, worker, db, cfg.Season.Current)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:  cfg,
		DB:      db,
		Monitor: monitor,
		Policy:  policy,
		Worker:  worker,
		Server:  srv,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // Retrain execution runs in-request
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("CourtSight serving on http://%s\n", addr)
	fmt.Printf("  Season: %s\n", d.Config.Season.Current)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
