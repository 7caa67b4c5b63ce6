package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/advisor/internal/cli"
	"github.com/theirongolddev/advisor/internal/model"
	"github.com/theirongolddev/advisor/internal/present"

	"github.com/spf13/cobra"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show your latest coaching insights",
	RunE:  runInsights,
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, _ []string) error {
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
	if err := a.loaders.Insights.Load(ctx, id); err != nil {
		return fmt.Errorf("loading insights: %w", err)
	}

	fmt.Println()
	printInsights(a.loaders.Insights.Items(), 0)
	return nil
}

// printInsights prints up to limit insights; limit 0 prints all.
func printInsights(insights []model.Insight, limit int) {
	if len(insights) == 0 {
		fmt.Print(cli.RenderEmpty(present.EmptyInsights))
		return
	}
	if limit > 0 && len(insights) > limit {
		insights = insights[:limit]
	}
	for _, in := range insights {
		kind := present.InsightType(in.InsightType)
		prio := present.Priority(in.Priority)
		fmt.Printf("  %s  %s\n", cli.Colored(kind.Role, kind.Glyph+" "+in.Title), cli.Colored(prio.Role, prio.Label))
		fmt.Printf("    %s\n", in.Message)
		if in.Explanation != nil && *in.Explanation != "" {
			fmt.Printf("    %s\n", cli.Muted(*in.Explanation))
		}
		if in.ActionRecommended != nil && *in.ActionRecommended != "" {
			fmt.Printf("    %s\n", cli.Colored(present.RoleCyan, "→ "+*in.ActionRecommended))
		}
		fmt.Println()
	}
}
