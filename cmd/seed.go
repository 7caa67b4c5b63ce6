package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/advisor/internal/config"
	"github.com/theirongolddev/advisor/internal/pipeline"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add sample goals, challenges, badges and insights (local backend only)",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.svc.Name() != config.BackendLocal {
		return fmt.Errorf("seed only writes to the local database; the active backend is %s", a.svc.Name())
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	id, err := a.identity(ctx)
	if err != nil {
		return err
	}
	n, err := pipeline.Seed(ctx, a.svc, id, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("  Added %d sample rows to %s\n", n, config.DBPath(a.cfg))
	return nil
}
