package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/procdash/internal/model"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Load = %+v, want defaults", cfg)
	}
	if Exists() {
		t.Error("Exists() = true with no file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv(EnvConfigDir, filepath.Join(t.TempDir(), "nested"))

	cfg := DefaultConfig()
	cfg.General.DataDir = "/srv/reports"
	cfg.General.DefaultTopN = 8
	cfg.Thresholds.RateYellow = 0.9
	cfg.Appearance.Theme = "tokyo-night"
	cfg.TUI.AutoRefresh = true

	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got != cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	data := "[thresholds]\nrate_green = 1.1\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Thresholds.RateGreen != 1.1 {
		t.Errorf("RateGreen = %v, want 1.1", cfg.Thresholds.RateGreen)
	}
	if cfg.Thresholds.OnTimeYellow != model.DefaultThresholds().OnTimeYellow {
		t.Errorf("OnTimeYellow = %v, want default", cfg.Thresholds.OnTimeYellow)
	}
	if cfg.General.DefaultTopN != 5 {
		t.Errorf("DefaultTopN = %d, want 5", cfg.General.DefaultTopN)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[thresholds\nbroken"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg != DefaultConfig() {
		t.Error("corrupt file should yield defaults")
	}
}

func TestDataDir(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv(EnvDataDir, "")
	if got := DataDir(cfg); got != DefaultDataDir {
		t.Errorf("DataDir = %q, want default", got)
	}
	cfg.General.DataDir = "/from/config"
	if got := DataDir(cfg); got != "/from/config" {
		t.Errorf("DataDir = %q, want config value", got)
	}
	t.Setenv(EnvDataDir, "/from/env")
	if got := DataDir(cfg); got != "/from/env" {
		t.Errorf("DataDir = %q, want env value", got)
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
		check      func(Config) bool
	}{
		{"thresholds.rate_yellow", "0.9", false, func(c Config) bool { return c.Thresholds.RateYellow == 0.9 }},
		{"thresholds.rate_yellow", "1.5", true, nil},
		{"thresholds.ontime_green", "-1", true, nil},
		{"Thresholds.Rate_Yellow", "2", true, nil},
		{"THRESHOLDS.ONTIME_YELLOW", "0.99", true, nil},
		{"Thresholds.Rate_Yellow", "0.8", false, func(c Config) bool { return c.Thresholds.RateYellow == 0.8 }},
		{"general.default_top_n", "12", false, func(c Config) bool { return c.General.DefaultTopN == 12 }},
		{"general.default_top_n", "many", true, nil},
		{"appearance.theme", "terminal", false, func(c Config) bool { return c.Appearance.Theme == "terminal" }},
		{"appearance.theme", "solarized-neon", true, nil},
		{"Appearance.Theme", "", true, nil},
		{"tui.auto_refresh", "true", false, func(c Config) bool { return c.TUI.AutoRefresh }},
		{"tui.refresh_interval_sec", "0", true, nil},
		{"nope.key", "1", true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			base := DefaultConfig()
			got, err := Set(base, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if got != base {
					t.Error("failed Set changed the config")
				}
				return
			}
			if !tt.check(got) {
				t.Errorf("Set(%s, %s) = %+v", tt.key, tt.value, got)
			}
		})
	}
}
