// Package config loads and saves the procdash TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/theirongolddev/procdash/internal/model"
	"github.com/theirongolddev/procdash/internal/tui/theme"

	"github.com/BurntSushi/toml"
)

// Environment overrides.
const (
	EnvDataDir   = "PROCDASH_DATA_DIR"
	EnvConfigDir = "PROCDASH_CONFIG_DIR"
)

// DefaultDataDir is scanned when neither flag, env nor config names one.
const DefaultDataDir = "./data"

// Config holds all procdash configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Thresholds model.Thresholds `toml:"thresholds"`
	Appearance AppearanceConfig `toml:"appearance"`
	TUI        TUIConfig        `toml:"tui"`
	Export     ExportConfig     `toml:"export"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir     string `toml:"data_dir,omitempty"`
	DefaultTopN int    `toml:"default_top_n"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TUIConfig holds dashboard behaviour.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// ExportConfig holds file export settings.
type ExportConfig struct {
	OutputDir string `toml:"output_dir,omitempty"`
	PDFFont   string `toml:"pdf_font,omitempty"` // TTF with CJK glyphs
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultTopN: 5,
		},
		Thresholds: model.DefaultThresholds(),
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		TUI: TUIConfig{
			AutoRefresh:        false,
			RefreshIntervalSec: 60,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "procdash")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "procdash")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// On a parse error the defaults are returned alongside the error.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk, replacing the previous file in one rename.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "config-*.toml")
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp.Name(), Path()); err != nil {
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// DataDir resolves the input directory: env var, then config, then the default.
func DataDir(cfg Config) string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	return DefaultDataDir
}

type setter func(cfg *Config, value string) error

var setters = map[string]setter{
	"general.data_dir": func(cfg *Config, v string) error {
		cfg.General.DataDir = v
		return nil
	},
	"general.default_top_n": func(cfg *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		cfg.General.DefaultTopN = n
		return nil
	},
	"thresholds.rate_green":    floatSetter(func(c *Config) *float64 { return &c.Thresholds.RateGreen }),
	"thresholds.rate_yellow":   floatSetter(func(c *Config) *float64 { return &c.Thresholds.RateYellow }),
	"thresholds.ontime_green":  floatSetter(func(c *Config) *float64 { return &c.Thresholds.OnTimeGreen }),
	"thresholds.ontime_yellow": floatSetter(func(c *Config) *float64 { return &c.Thresholds.OnTimeYellow }),
	"appearance.theme": func(cfg *Config, v string) error {
		if _, ok := theme.Lookup(v); !ok {
			return fmt.Errorf("unknown theme %q (valid: %s)", v, strings.Join(theme.Names(), ", "))
		}
		cfg.Appearance.Theme = v
		return nil
	},
	"export.output_dir": func(cfg *Config, v string) error {
		cfg.Export.OutputDir = v
		return nil
	},
	"export.pdf_font": func(cfg *Config, v string) error {
		cfg.Export.PDFFont = v
		return nil
	},
	"tui.auto_refresh": func(cfg *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		cfg.TUI.AutoRefresh = b
		return nil
	},
	"tui.refresh_interval_sec": func(cfg *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		if n < 1 {
			return fmt.Errorf("must be at least 1")
		}
		cfg.TUI.RefreshIntervalSec = n
		return nil
	},
}

func floatSetter(field func(*Config) *float64) setter {
	return func(cfg *Config, v string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return err
		}
		*field(cfg) = f
		return nil
	}
}

// Keys lists the dotted keys accepted by Set.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set updates one dotted key ("section.name", any case) on a copy of cfg.
// Threshold changes are validated as a whole before being accepted.
func Set(cfg Config, key, value string) (Config, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	set, ok := setters[key]
	if !ok {
		return cfg, fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	next := cfg
	if err := set(&next, value); err != nil {
		return cfg, fmt.Errorf("setting %s: %w", key, err)
	}
	if strings.HasPrefix(key, "thresholds.") {
		if err := next.Thresholds.Validate(); err != nil {
			return cfg, fmt.Errorf("setting %s: %w", key, err)
		}
	}
	return next, nil
}
