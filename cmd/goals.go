package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/advisor/internal/cli"
	"github.com/theirongolddev/advisor/internal/pipeline"
	"github.com/theirongolddev/advisor/internal/present"

	"github.com/spf13/cobra"
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show active financial goals",
	RunE:  runGoals,
}

func init() {
	rootCmd.AddCommand(goalsCmd)
}

func runGoals(cmd *cobra.Command, _ []string) error {
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
	if err := a.loaders.Goals.Load(ctx, id); err != nil {
		return fmt.Errorf("loading goals: %w", err)
	}

	goals := a.loaders.Goals.Items()
	fmt.Println()
	if len(goals) == 0 {
		fmt.Print(cli.RenderEmpty(present.EmptyGoals))
		return nil
	}

	now := time.Now()
	fmt.Printf("  %s\n\n", cli.Header(fmt.Sprintf("Financial Goals (%d)", len(goals))))
	for _, g := range goals {
		cat := present.GoalCategory(g.Category)
		fmt.Printf("  %s  %s\n", g.Title, cli.Styled(cat))
		fmt.Printf("  %s\n", cli.RenderProgressBar(g.ProgressPercentage, 30, cat.Role))
		line := fmt.Sprintf("%s of %s · target %s · %s",
			cli.FormatMoney(g.CurrentAmount, a.currency()),
			cli.FormatMoney(g.TargetAmount, a.currency()),
			cli.FormatDate(g.TargetDate),
			cli.FormatDaysLeft(pipeline.DaysLeft(g.TargetDate, now), "past due"))
		if g.WeeklyPlanAmount != nil && g.WeeklyPlanAmount.IsPositive() {
			line += " · " + cli.FormatMoney(*g.WeeklyPlanAmount, a.currency()) + "/week"
		}
		fmt.Printf("  %s\n\n", cli.Muted(line))
	}
	return nil
}
