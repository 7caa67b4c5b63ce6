package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env files from the working directory and the config
// directory. Variables already set in the environment win.
func LoadEnv() {
	for _, path := range []string{".env", filepath.Join(ConfigDir(), ".env")} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// SupabaseURL returns the project URL from env var or config, in that order.
func SupabaseURL(cfg Config) string {
	if v := firstEnv("SUPABASE_URL", "VITE_SUPABASE_URL"); v != "" {
		return v
	}
	return cfg.Backend.URL
}

// SupabaseAnonKey returns the anon key from env var or config, in that order.
func SupabaseAnonKey(cfg Config) string {
	if v := firstEnv("SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY"); v != "" {
		return v
	}
	return cfg.Backend.AnonKey
}

// BackendKind resolves the configured backend, honoring ADVISOR_BACKEND.
func BackendKind(cfg Config) string {
	kind := cfg.Backend.Kind
	if v := os.Getenv("ADVISOR_BACKEND"); v != "" {
		kind = v
	}
	if kind != BackendAuto {
		return kind
	}
	if SupabaseURL(cfg) != "" && SupabaseAnonKey(cfg) != "" {
		return BackendSupabase
	}
	return BackendLocal
}

// DBPath returns the local database path.
func DBPath(cfg Config) string {
	if cfg.Backend.LocalDB != "" {
		return cfg.Backend.LocalDB
	}
	return filepath.Join(DataDir(), "advisor.db")
}

// LogPath returns the log file path.
func LogPath(cfg Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(DataDir(), "advisor.log")
}
