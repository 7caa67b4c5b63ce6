package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/advisor/internal/cli"
	"github.com/theirongolddev/advisor/internal/present"

	"github.com/spf13/cobra"
)

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "Show earned badges",
	RunE:  runBadges,
}

func init() {
	rootCmd.AddCommand(badgesCmd)
}

func runBadges(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	id, err := a.identity(ctx)
	if err != nil {
		return err
	}
	if err := a.loaders.Badges.Load(ctx, id); err != nil {
		return fmt.Errorf("loading badges: %w", err)
	}

	badges := a.loaders.Badges.Items()
	fmt.Println()
	if len(badges) == 0 {
		fmt.Print(cli.RenderEmpty(present.EmptyBadges))
		return nil
	}

	rows := make([][]string, 0, len(badges))
	for _, b := range badges {
		rows = append(rows, []string{
			cli.Deref(b.Icon, "★") + " " + b.Title,
			cli.Deref(b.Description, present.Humanize(b.BadgeType)),
			cli.FormatTime(b.EarnedAt),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:      fmt.Sprintf("Badges Earned (%d)", len(badges)),
		Headers:    []string{"Badge", "Description", "Earned"},
		Rows:       rows,
		RightAlign: []bool{false, false, true},
	}))
	return nil
}
