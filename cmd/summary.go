package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/advisor/internal/cli"
	"github.com/theirongolddev/advisor/internal/pipeline"
	"github.com/theirongolddev/advisor/internal/present"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Month-to-date overview",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
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

	// The reads are independent; a failed one leaves its section empty.
	var g errgroup.Group
	l := a.loaders
	for _, load := range []func(context.Context, pipeline.Identity) error{
		l.Month.Load, l.Transactions.Load, l.Goals.Load, l.Challenges.Load, l.Insights.Load,
	} {
		g.Go(func() error { return load(ctx, id) })
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "  Some data could not be loaded: %v\n", err)
	}

	now := time.Now()
	profile := a.session.Snapshot().Profile
	stats := pipeline.Aggregate(l.Month.Items())
	score := pipeline.HeadlineScore(profile)
	sym := a.currency()

	fmt.Println()
	fmt.Println(cli.RenderTitle("advisor · " + now.Format("January 2006")))
	fmt.Printf("  %s\n\n", present.CoachGreeting(profile))

	net := cli.FormatMoney(stats.NetSavings, sym)
	if stats.NetSavings.IsNegative() {
		net = cli.Colored(present.RoleRed, net)
	} else {
		net = cli.Colored(present.RoleGreen, net)
	}
	rows := [][]string{
		{"Total expenses", cli.FormatMoney(stats.TotalExpense, sym)},
		{"Total income", cli.FormatMoney(stats.TotalIncome, sym)},
		{"Net savings", net},
		{"Transactions", cli.FormatNumber(int64(stats.Count))},
		{"Health score", fmt.Sprintf("%d  %s", score, cli.Styled(present.Band(pipeline.BandFor(score))))},
	}
	if a.cfg.Budget.Monthly != nil {
		b := pipeline.Budget(stats, decimal.NewFromFloat(*a.cfg.Budget.Monthly), now)
		rows = append(rows,
			[]string{"---"},
			[]string{"Monthly budget", cli.FormatMoney(b.MonthlyBudget, sym)},
			[]string{"Budget used", cli.FormatPercent(b.BudgetUsedPercent)},
			[]string{"Daily burn rate", cli.FormatMoney(b.DailyBurnRate, sym)},
			[]string{"Projected spend", cli.FormatMoney(b.ProjectedMonthly, sym)},
			[]string{"Remaining", cli.FormatMoney(b.Remaining, sym)},
		)
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "This Month",
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	monthTxs := pipeline.FilterMonth(l.Transactions.Items(), now)
	if cats := pipeline.AggregateCategories(monthTxs); len(cats) > 0 {
		fmt.Println()
		fmt.Printf("  %s", cli.Header("Spending by Category"))
		if len(l.Transactions.Items()) >= pipeline.TransactionsLimit {
			fmt.Print(cli.Muted(fmt.Sprintf("  from the latest %d transactions", pipeline.TransactionsLimit)))
		}
		fmt.Println()
		peak := cats[0].Total.InexactFloat64()
		for _, c := range cats {
			st := present.Category(c.Category)
			fmt.Println(cli.RenderHorizontalBar(st.Label, 14, c.Total.InexactFloat64(), peak, 30, st.Role) +
				"  " + cli.FormatMoney(c.Total, sym) + cli.Muted(" "+cli.FormatPercent(c.SharePercent)))
		}
		daily := pipeline.DailySpend(monthTxs, now)
		fmt.Printf("\n  %s  %s\n", cli.Muted("Daily"), cli.RenderSparkline(daily))
	}

	if profile != nil && profile.StressSpender {
		if triggers := pipeline.AggregateTriggers(monthTxs); len(triggers) > 0 {
			fmt.Println()
			fmt.Printf("  %s\n", cli.Header("Emotional Spending"))
			for _, tr := range triggers {
				fmt.Printf("  %-16s %s (%d)\n", tr.Trigger, cli.FormatMoney(tr.Total, sym), tr.Count)
			}
		}
	}

	goals := l.Goals.Items()
	active, completed := pipeline.PartitionChallenges(l.Challenges.Items())
	fmt.Println()
	fmt.Printf("  %s %d active goals · %d active challenges · %d completed\n",
		cli.Header("Progress"), len(goals), len(active), len(completed))

	fmt.Println()
	fmt.Printf("  %s\n\n", cli.Header("Latest Insights"))
	printInsights(l.Insights.Items(), 3)
	return nil
}
