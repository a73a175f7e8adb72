// Package daemon manages the CourtSight daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/courtsight-ai/courtsight/internal/domain"
)

// CurrentSeason is the season monitored when none is given explicitly.
const CurrentSeason = "2025-26"

// Config holds all daemon configuration.
type Config struct {
	Season     SeasonConfig     `toml:"season"`
	Store      StoreConfig      `toml:"store"`
	API        APIConfig        `toml:"api"`
	Monitoring MonitoringConfig `toml:"monitoring"`
	Retrain    RetrainConfig    `toml:"retrain"`
	Trainer    TrainerConfig    `toml:"trainer"`
	Telemetry  TelemetryConfig  `toml:"telemetry"`
}

// SeasonConfig selects the default season for evaluations.
type SeasonConfig struct {
	Current string `toml:"current"`
}

// StoreConfig controls where the sqlite database lives.
type StoreConfig struct {
	Dir string `toml:"dir"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// MonitoringConfig holds the model-quality alert thresholds.
type MonitoringConfig struct {
	AccuracyMin      float64 `toml:"accuracy_min"`
	BrierMax         float64 `toml:"brier_max"`
	FreshnessDaysMax int     `toml:"freshness_days_max"`
	HistoryDepth     int     `toml:"history_depth"`
}

// RetrainConfig controls the retrain policy and job queue.
type RetrainConfig struct {
	NewLabelsMin         int    `toml:"new_labels_min"`
	DuplicateWindowHours int    `toml:"duplicate_window_hours"`
	ArtifactDir          string `toml:"artifact_dir"`
	ArtifactMaxEntries   int    `toml:"artifact_max_entries"`
}

// TrainerConfig describes the external training pipeline command.
type TrainerConfig struct {
	Command []string `toml:"command"`
	WorkDir string   `toml:"work_dir"`
}

// TelemetryConfig controls the Prometheus endpoint.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// Thresholds converts the monitoring and retrain sections into the
// threshold set the engines evaluate against.
func (c Config) Thresholds() domain.Thresholds {
	return domain.Thresholds{
		AccuracyMin:      c.Monitoring.AccuracyMin,
		BrierMax:         c.Monitoring.BrierMax,
		FreshnessDaysMax: c.Monitoring.FreshnessDaysMax,
		NewLabelsMin:     c.Retrain.NewLabelsMin,
	}
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := courtsightHome()
	return Config{
		Season: SeasonConfig{
			Current: CurrentSeason,
		},
		Store: StoreConfig{
			Dir: homeDir,
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8090,
		},
		Monitoring: MonitoringConfig{
			AccuracyMin:      0.55,
			BrierMax:         0.25,
			FreshnessDaysMax: 3,
			HistoryDepth:     10,
		},
		Retrain: RetrainConfig{
			NewLabelsMin:         40,
			DuplicateWindowHours: 12,
			ArtifactDir:          filepath.Join(homeDir, "models"),
			ArtifactMaxEntries:   10,
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
	}
}

// LoadConfig reads config from ~/.courtsight/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(courtsightHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.courtsight/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(courtsightHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// courtsightHome returns the CourtSight data directory.
func courtsightHome() string {
	if env := os.Getenv("COURTSIGHT_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".courtsight")
}

// Home is exported for use by other packages.
func Home() string {
	return courtsightHome()
}
