// Package config loads and saves advisor's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Backend kinds.
const (
	BackendAuto     = ""
	BackendLocal    = "local"
	BackendSupabase = "supabase"
)

// Config holds all advisor configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Backend    BackendConfig    `toml:"backend"`
	Budget     BudgetConfig     `toml:"budget"`
	Appearance AppearanceConfig `toml:"appearance"`
	TUI        TUIConfig        `toml:"tui"`
	Log        LogConfig        `toml:"log"`
	Daemon     DaemonConfig     `toml:"daemon"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultView string `toml:"default_view"`
	Currency    string `toml:"currency"`
}

// BackendConfig selects and configures the data service.
type BackendConfig struct {
	// Kind is "supabase", "local", or empty to pick supabase whenever a
	// project URL and key are available.
	Kind    string `toml:"kind,omitempty"`
	URL     string `toml:"url,omitempty"`
	AnonKey string `toml:"anon_key,omitempty"`
	LocalDB string `toml:"local_db,omitempty"`
}

// BudgetConfig holds budget tracking settings.
type BudgetConfig struct {
	Monthly *float64 `toml:"monthly,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TUIConfig holds dashboard behavior.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// DaemonConfig holds watch-daemon defaults.
type DaemonConfig struct {
	Addr        string `toml:"addr"`
	IntervalSec int    `toml:"interval_sec"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultView: "dashboard",
			Currency:    "₹",
		},
		Appearance: AppearanceConfig{
			Theme: "indigo",
		},
		TUI: TUIConfig{
			AutoRefresh:        true,
			RefreshIntervalSec: 60,
		},
		Log: LogConfig{
			Level: "info",
		},
		Daemon: DaemonConfig{
			Addr:        "127.0.0.1:8787",
			IntervalSec: 30,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "advisor")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "advisor")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "advisor")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "advisor")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk. The file may hold an API key, so it is
// created owner-only.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Validate reports every problem with cfg at once.
func Validate(cfg Config) error {
	var errs []error
	switch cfg.Backend.Kind {
	case BackendAuto, BackendLocal, BackendSupabase:
	default:
		errs = append(errs, fmt.Errorf("backend.kind must be %q or %q, got %q", BackendLocal, BackendSupabase, cfg.Backend.Kind))
	}
	if cfg.Backend.Kind == BackendSupabase && (SupabaseURL(cfg) == "" || SupabaseAnonKey(cfg) == "") {
		errs = append(errs, errors.New("backend.kind is supabase but no project URL or anon key is set"))
	}
	if strings.TrimSpace(cfg.General.Currency) == "" {
		errs = append(errs, errors.New("general.currency must not be empty"))
	}
	if cfg.Budget.Monthly != nil && *cfg.Budget.Monthly <= 0 {
		errs = append(errs, errors.New("budget.monthly must be positive"))
	}
	if cfg.TUI.AutoRefresh && cfg.TUI.RefreshIntervalSec < 5 {
		errs = append(errs, errors.New("tui.refresh_interval_sec must be at least 5"))
	}
	if cfg.Daemon.IntervalSec < 0 {
		errs = append(errs, errors.New("daemon.interval_sec must not be negative"))
	}
	return errors.Join(errs...)
}
