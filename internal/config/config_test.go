package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("Driver = %q, want %q", cfg.Storage.Driver, "sqlite")
	}
	if cfg.RateLimit.MaxRequests != 40 {
		t.Errorf("MaxRequests = %d, want 40", cfg.RateLimit.MaxRequests)
	}
	if cfg.RateLimit.WindowMs != 1000 {
		t.Errorf("WindowMs = %d, want 1000", cfg.RateLimit.WindowMs)
	}
	if cfg.Game.MaxDelta != 500 {
		t.Errorf("MaxDelta = %d, want 500", cfg.Game.MaxDelta)
	}
	if cfg.Game.LevelGrowth != 1.25 {
		t.Errorf("LevelGrowth = %v, want 1.25", cfg.Game.LevelGrowth)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	os.Setenv("DEBIRUN_SERVER_PORT", "9090")
	t.Cleanup(func() { os.Unsetenv("DEBIRUN_SERVER_PORT") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q, want %q", cfg.Server.Port, "9090")
	}
}
