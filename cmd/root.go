// Package cmd implements the advisor CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/advisor/internal/backend"
	"github.com/theirongolddev/advisor/internal/config"
	"github.com/theirongolddev/advisor/internal/logger"
	"github.com/theirongolddev/advisor/internal/pipeline"
	"github.com/theirongolddev/advisor/internal/session"
	"github.com/theirongolddev/advisor/internal/store"
	"github.com/theirongolddev/advisor/internal/supabase"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// requestTimeout bounds each call a command makes to the data service.
const requestTimeout = 30 * time.Second

var errNotSignedIn = errors.New("not signed in; run `advisor login` or `advisor signup`")

var (
	flagBackend  string
	flagDBPath   string
	flagLogLevel string
	flagVerbose  bool
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:          "advisor",
	Short:        "AI financial coach for your terminal",
	Long:         "Track spending, goals and habit challenges, and get coaching insights from your data.",
	SilenceUsage: true,
	RunE:         runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Data service: local or supabase (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Local database path")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Also write logs to stderr")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// app is the wiring shared by every command.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	db      *store.DB
	svc     backend.Service
	session *session.Store
	loaders *pipeline.Loaders
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (config.Config, error) {
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagBackend != "" {
		cfg.Backend.Kind = flagBackend
	}
	if flagDBPath != "" {
		cfg.Backend.LocalDB = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openApp wires config, logging, the data service and the session store.
// With restore set, a saved session is restored before returning.
func openApp(ctx context.Context, restore bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Options{
		Level:  level,
		File:   config.LogPath(cfg),
		Stderr: flagVerbose,
	})
	if err != nil {
		return nil, err
	}

	// The local database always holds the saved session, whichever service
	// serves the rows.
	db, err := store.Open(config.DBPath(cfg), log)
	if err != nil {
		return nil, err
	}

	var svc backend.Service = db
	if config.BackendKind(cfg) == config.BackendSupabase {
		client, err := supabase.NewClient(config.SupabaseURL(cfg), config.SupabaseAnonKey(cfg), log)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		svc = client
	}
	log.Debug("backend selected", zap.String("backend", svc.Name()))

	a := &app{
		cfg:     cfg,
		log:     log,
		db:      db,
		svc:     svc,
		session: session.New(svc, db.Sessions(svc.Name()), log),
		loaders: pipeline.NewLoaders(svc, log, nil),
	}

	if restore {
		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()
		a.session.Init(ctx)
		if msg := a.session.Snapshot().AppError; msg != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", msg)
		}
	}
	return a, nil
}

func (a *app) Close() {
	_ = a.log.Sync()
	_ = a.db.Close()
}

// identity returns a usable identity for the signed-in user.
func (a *app) identity(ctx context.Context) (pipeline.Identity, error) {
	if a.session.Snapshot().Status != session.Authenticated {
		return pipeline.Identity{}, errNotSignedIn
	}
	id, err := a.session.EnsureFresh(ctx)
	if err != nil {
		return pipeline.Identity{}, fmt.Errorf("%s: %w", backend.UserMessage(err), errNotSignedIn)
	}
	return id, nil
}

// currency returns the configured currency symbol.
func (a *app) currency() string {
	return a.cfg.General.Currency
}

func progressf(format string, args ...any) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
