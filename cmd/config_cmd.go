package cmd

import (
	"fmt"

	"github.com/theirongolddev/advisor/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default view: %s\n", cfg.General.DefaultView)
	fmt.Printf("    Currency:     %s\n", cfg.General.Currency)
	fmt.Println()

	fmt.Println("  [Backend]")
	fmt.Printf("    Kind:     %s\n", config.BackendKind(cfg))
	if url := config.SupabaseURL(cfg); url != "" {
		fmt.Printf("    URL:      %s\n", url)
	}
	if key := config.SupabaseAnonKey(cfg); key != "" {
		fmt.Printf("    Anon key: %s\n", maskKey(key))
	} else {
		fmt.Println("    Anon key: not configured")
	}
	fmt.Printf("    Local DB: %s\n", config.DBPath(cfg))
	fmt.Println()

	fmt.Println("  [Budget]")
	if cfg.Budget.Monthly != nil {
		fmt.Printf("    Monthly budget: %s%.0f\n", cfg.General.Currency, *cfg.Budget.Monthly)
	} else {
		fmt.Println("    Monthly budget: not set")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto refresh: %v (every %ds)\n", cfg.TUI.AutoRefresh, cfg.TUI.RefreshIntervalSec)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	fmt.Printf("    File:  %s\n", config.LogPath(cfg))
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Listen:   %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %ds\n", cfg.Daemon.IntervalSec)
	fmt.Println()

	fmt.Println("  Run `advisor setup` to reconfigure.")
	return nil
}

func maskKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
