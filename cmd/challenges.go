package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/advisor/internal/cli"
	"github.com/theirongolddev/advisor/internal/model"
	"github.com/theirongolddev/advisor/internal/pipeline"
	"github.com/theirongolddev/advisor/internal/present"

	"github.com/spf13/cobra"
)

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "Show active and completed challenges",
	RunE:  runChallenges,
}

func init() {
	rootCmd.AddCommand(challengesCmd)
}

func runChallenges(cmd *cobra.Command, _ []string) error {
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
	if err := a.loaders.Challenges.Load(ctx, id); err != nil {
		return fmt.Errorf("loading challenges: %w", err)
	}

	active, completed := pipeline.PartitionChallenges(a.loaders.Challenges.Items())
	fmt.Println()
	if len(active) == 0 && len(completed) == 0 {
		fmt.Print(cli.RenderEmpty(present.EmptyChallenges))
		return nil
	}

	now := time.Now()
	render := func(title string, list []model.Challenge) {
		if len(list) == 0 {
			return
		}
		rows := make([][]string, 0, len(list))
		for _, c := range list {
			left := cli.FormatDaysLeft(pipeline.DaysLeft(c.EndDate, now), "ended")
			if c.Status == model.ChallengeCompleted {
				left = "done"
			}
			rows = append(rows, []string{
				c.Title,
				cli.Styled(present.ChallengeType(c.ChallengeType)),
				cli.FormatPercent(pipeline.ChallengeProgress(c)),
				left,
				fmt.Sprintf("%d pts", c.RewardPoints),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   title,
			Headers: []string{"Challenge", "Type", "Progress", "Time", "Reward"},
			Rows:    rows,
		}))
		fmt.Println()
	}
	render(fmt.Sprintf("Active Challenges (%d)", len(active)), active)
	render(fmt.Sprintf("Completed (%d)", len(completed)), completed)
	return nil
}
