package daemon

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8090 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8090)
	}
	if cfg.Season.Current != "2025-26" {
		t.Errorf("Season.Current = %q, want %q", cfg.Season.Current, "2025-26")
	}
	if cfg.Monitoring.AccuracyMin != 0.55 {
		t.Errorf("Monitoring.AccuracyMin = %v, want 0.55", cfg.Monitoring.AccuracyMin)
	}
	if cfg.Retrain.NewLabelsMin != 40 {
		t.Errorf("Retrain.NewLabelsMin = %d, want 40", cfg.Retrain.NewLabelsMin)
	}
	if cfg.Retrain.DuplicateWindowHours != 12 {
		t.Errorf("Retrain.DuplicateWindowHours = %d, want 12", cfg.Retrain.DuplicateWindowHours)
	}
}

func TestConfig_Thresholds(t *testing.T) {
	cfg := DefaultConfig()
	th := cfg.Thresholds()

	if th.AccuracyMin != cfg.Monitoring.AccuracyMin {
		t.Errorf("AccuracyMin = %v, want %v", th.AccuracyMin, cfg.Monitoring.AccuracyMin)
	}
	if th.BrierMax != cfg.Monitoring.BrierMax {
		t.Errorf("BrierMax = %v, want %v", th.BrierMax, cfg.Monitoring.BrierMax)
	}
	if th.FreshnessDaysMax != cfg.Monitoring.FreshnessDaysMax {
		t.Errorf("FreshnessDaysMax = %v, want %v", th.FreshnessDaysMax, cfg.Monitoring.FreshnessDaysMax)
	}
	if th.NewLabelsMin != cfg.Retrain.NewLabelsMin {
		t.Errorf("NewLabelsMin = %v, want %v", th.NewLabelsMin, cfg.Retrain.NewLabelsMin)
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("COURTSIGHT_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != 8090 {
		t.Errorf("API.Port = %d, want defaults when no file exists", cfg.API.Port)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	t.Setenv("COURTSIGHT_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.API.Port = 9999
	cfg.Monitoring.AccuracyMin = 0.60
	cfg.Trainer.Command = []string{"python", "train.py"}
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.API.Port != 9999 {
		t.Errorf("API.Port = %d, want 9999", loaded.API.Port)
	}
	if loaded.Monitoring.AccuracyMin != 0.60 {
		t.Errorf("Monitoring.AccuracyMin = %v, want 0.60", loaded.Monitoring.AccuracyMin)
	}
	if len(loaded.Trainer.Command) != 2 || loaded.Trainer.Command[0] != "python" {
		t.Errorf("Trainer.Command = %v", loaded.Trainer.Command)
	}
}
