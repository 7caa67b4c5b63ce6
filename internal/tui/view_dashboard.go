package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/advisor/internal/cli"
	"github.com/theirongolddev/advisor/internal/model"
	"github.com/theirongolddev/advisor/internal/pipeline"
	"github.com/theirongolddev/advisor/internal/present"
	"github.com/theirongolddev/advisor/internal/tui/components"
	"github.com/theirongolddev/advisor/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// sampledTitle notes when a chart is drawn from a capped transaction read
// and may undercount the month.
func (a App) sampledTitle(title string) string {
	if len(a.loaders.Transactions.Items()) >= pipeline.TransactionsLimit {
		return fmt.Sprintf("%s · latest %d transactions", title, pipeline.TransactionsLimit)
	}
	return title
}

// placeholder renders an empty-set message inside a card body.
func placeholder(e present.EmptyState) string {
	t := theme.Active
	title := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Render(e.Title)
	hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render(e.Hint)
	return title + "\n" + hint
}

func loadingBody() string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("Loading...")
}

// isLoading reports whether a set has never been applied for this user.
func isLoading(s pipeline.State) bool {
	return !s.Loaded
}

func (a App) renderDashboard(cw int) string {
	t := theme.Active
	now := a.now()
	profile := a.snap.Profile

	greetStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Background).Bold(true)
	subStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)

	var b strings.Builder
	b.WriteString(greetStyle.Render(" " + present.CoachGreeting(profile)))
	b.WriteString("\n")
	b.WriteString(subStyle.Render(" Here's your financial overview for " + now.Format("January 2006")))
	b.WriteString("\n")

	stats := pipeline.Aggregate(a.loaders.Month.Items())
	score := pipeline.HeadlineScore(profile)
	band := present.Band(pipeline.BandFor(score))

	netColor := t.Green
	if stats.NetSavings.IsNegative() {
		netColor = t.Red
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Total Expenses", Value: cli.FormatMoney(stats.TotalExpense, a.currency), Delta: "This month", Color: t.Red},
		{Label: "Total Income", Value: cli.FormatMoney(stats.TotalIncome, a.currency), Delta: "This month", Color: t.Green},
		{Label: "Net Savings", Value: cli.FormatMoney(stats.NetSavings, a.currency), Delta: "Income - expenses", Color: netColor},
		{Label: "Health Score", Value: strconv.Itoa(score), Delta: band.Glyph + " " + band.Label, Color: t.Role(band.Role)},
	}, cw))
	b.WriteString("\n")

	if a.budget.IsPositive() {
		b.WriteString(a.renderBudget(stats, cw))
		b.WriteString("\n")
	}

	monthTxs := pipeline.FilterMonth(a.loaders.Transactions.Items(), now)
	widths := components.LayoutRow(cw, 2)

	gauge := pipeline.Gauge(score, pipeline.DefaultBreakdown())
	healthCard := components.ContentCard("Financial Health",
		components.HealthGauge(gauge, components.CardInnerWidth(widths[0])), widths[0])

	var catBody string
	cats := pipeline.AggregateCategories(monthTxs)
	switch {
	case isLoading(a.loaders.Transactions.State()):
		catBody = loadingBody()
	case len(cats) == 0:
		catBody = placeholder(present.EmptyTransactions)
	default:
		bars := make([]components.Bar, 0, len(cats))
		for _, c := range cats {
			st := present.Category(c.Category)
			bars = append(bars, components.Bar{
				Label: st.Glyph + " " + st.Label,
				Value: c.Total.InexactFloat64(),
				Text:  fmt.Sprintf("%s %s", cli.FormatMoney(c.Total, a.currency), cli.FormatPercent(c.SharePercent)),
				Color: t.Role(st.Role),
			})
		}
		catBody = components.HorizontalBars(bars, components.CardInnerWidth(widths[1]))
	}
	catCard := components.ContentCard(a.sampledTitle("Spending by Category"), catBody, widths[1])
	b.WriteString(components.CardRow([]string{healthCard, catCard}))
	b.WriteString("\n")

	if len(monthTxs) > 0 {
		daily := pipeline.DailySpend(monthTxs, now)
		chart := components.DayColumns(daily, a.currency, components.CardInnerWidth(cw), 8)
		b.WriteString(components.ContentCard(a.sampledTitle("Daily Spending"), chart, cw))
		b.WriteString("\n")
	}

	if profile != nil && profile.StressSpender {
		b.WriteString(a.renderTriggers(monthTxs, cw))
		b.WriteString("\n")
	}

	b.WriteString(a.renderInsights(cw))
	return b.String()
}

func (a App) renderBudget(stats model.MonthlyStats, cw int) string {
	t := theme.Active
	bs := pipeline.Budget(stats, a.budget, a.now())
	frac := bs.BudgetUsedPercent / 100
	inner := components.CardInnerWidth(cw)

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	body := components.ProgressBar(frac, max(inner-6, 10), components.ColorForPct(frac)) + "\n" +
		muted.Render(fmt.Sprintf("%s of %s spent · %s/day · projected %s · %s",
			cli.FormatMoney(bs.CurrentSpend, a.currency),
			cli.FormatMoney(bs.MonthlyBudget, a.currency),
			cli.FormatMoney(bs.DailyBurnRate, a.currency),
			cli.FormatMoney(bs.ProjectedMonthly, a.currency),
			cli.FormatDaysLeft(bs.DaysRemaining, "last day of the month")))
	return components.ContentCard("Monthly Budget", body, cw)
}

func (a App) renderTriggers(monthTxs []model.Transaction, cw int) string {
	t := theme.Active
	triggers := pipeline.AggregateTriggers(monthTxs)
	var body string
	if len(triggers) == 0 {
		body = lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render("No emotional spending recorded this month. Nice work!")
	} else {
		bars := make([]components.Bar, 0, len(triggers))
		for _, tr := range triggers {
			bars = append(bars, components.Bar{
				Label: tr.Trigger,
				Value: tr.Total.InexactFloat64(),
				Text:  fmt.Sprintf("%s (%d)", cli.FormatMoney(tr.Total, a.currency), tr.Count),
				Color: t.Orange,
			})
		}
		body = components.HorizontalBars(bars, components.CardInnerWidth(cw))
	}
	return components.ContentCard("Emotional Spending Triggers", body, cw)
}

func (a App) renderInsights(cw int) string {
	t := theme.Active
	insights := a.loaders.Insights.Items()
	inner := components.CardInnerWidth(cw)

	var body string
	switch {
	case isLoading(a.loaders.Insights.State()):
		body = loadingBody()
	case len(insights) == 0:
		body = placeholder(present.EmptyInsights)
	default:
		msgStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		actionStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface)
		lines := make([]string, 0, len(insights)*3)
		for _, in := range insights {
			kind := present.InsightType(in.InsightType)
			prio := present.Priority(in.Priority)
			title := lipgloss.NewStyle().Foreground(t.Role(kind.Role)).Background(t.Surface).Bold(true).
				Render(kind.Glyph + " " + truncStr(in.Title, inner-16))
			tag := lipgloss.NewStyle().Foreground(t.Role(prio.Role)).Background(t.Surface).
				Render("  " + prio.Glyph + " " + prio.Label)
			lines = append(lines, title+tag)
			lines = append(lines, msgStyle.Render("  "+truncStr(in.Message, inner-2)))
			if in.ActionRecommended != nil && *in.ActionRecommended != "" {
				lines = append(lines, actionStyle.Render("  → "+truncStr(*in.ActionRecommended, inner-4)))
			}
		}
		body = strings.Join(lines, "\n")
	}
	return components.ContentCard("AI Coach Insights", body, cw)
}
