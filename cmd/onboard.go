package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/advisor/internal/cli"
	"github.com/theirongolddev/advisor/internal/present"
	"github.com/theirongolddev/advisor/internal/session"
	"github.com/theirongolddev/advisor/internal/tui"

	"github.com/spf13/cobra"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Choose your coach and set your main goal",
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

func runOnboard(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	snap := a.session.Snapshot()
	if snap.Status != session.Authenticated {
		return errNotSignedIn
	}

	// Start from the current profile so re-running edits it.
	p := snap.Profile
	vals := &tui.OnboardingValues{
		FullName:      cli.Deref(p.FullName, ""),
		Persona:       p.CoachPersona,
		StressSpender: p.StressSpender,
		PrimaryGoal:   cli.Deref(p.PrimaryGoal, ""),
	}
	if err := tui.NewOnboardingForm(vals).Run(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	res := a.session.UpdateProfile(ctx, vals.Update())
	if !res.Success {
		return errors.New(res.Message)
	}
	fmt.Printf("\n  %s\n", present.CoachGreeting(a.session.Snapshot().Profile))
	fmt.Println("  Run `advisor tui` to open your dashboard.")
	return nil
}
