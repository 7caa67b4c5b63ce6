package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/advisor/internal/cli"
	"github.com/theirongolddev/advisor/internal/model"
	"github.com/theirongolddev/advisor/internal/pipeline"
	"github.com/theirongolddev/advisor/internal/present"
	"github.com/theirongolddev/advisor/internal/tui/components"
	"github.com/theirongolddev/advisor/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func padRight(s string, w int) string {
	return s + strings.Repeat(" ", max(0, w-lipgloss.Width(s)))
}

func (a App) renderTransactions(cw int) string {
	t := theme.Active
	txs := a.loaders.Transactions.Items()
	title := fmt.Sprintf("Recent Transactions (%d)", len(txs))

	switch {
	case isLoading(a.loaders.Transactions.State()):
		return components.ContentCard(title, loadingBody(), cw)
	case len(txs) == 0:
		hint := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render("Press a to add one.")
		return components.ContentCard(title, placeholder(present.EmptyTransactions)+"\n\n"+hint, cw)
	}

	inner := components.CardInnerWidth(cw)
	const dateW, catW, amountW = 13, 16, 14
	descW := max(inner-dateW-catW-amountW-3, 10)

	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	lines := []string{dim.Render(padRight("Date", dateW) + padRight("Category", catW) +
		padRight("Description", descW) + " " + fmt.Sprintf("%*s", amountW, "Amount"))}

	for _, tx := range txs {
		cat := present.Category(tx.Category)
		kind := present.TransactionType(tx.TransactionType)

		desc := tx.Description
		if tx.Merchant != nil && *tx.Merchant != "" {
			desc += " · " + *tx.Merchant
		}
		if tx.EmotionalTrigger != nil && *tx.EmotionalTrigger != "" {
			desc += " [" + *tx.EmotionalTrigger + "]"
		}

		amount := cli.FormatSigned(tx.Amount, tx.TransactionType, a.currency)
		amountStyle := lipgloss.NewStyle().Foreground(t.Role(kind.Role)).Background(t.Surface).Bold(true)
		catStyle := lipgloss.NewStyle().Foreground(t.Role(cat.Role)).Background(t.Surface)

		lines = append(lines,
			dim.Render(padRight(cli.FormatDate(tx.TransactionDate), dateW))+
				catStyle.Render(padRight(cat.Glyph+" "+truncStr(cat.Label, catW-3), catW))+
				text.Render(padRight(truncStr(desc, descW), descW))+
				space.Render(" ")+
				amountStyle.Render(fmt.Sprintf("%*s", amountW, amount)))
	}
	return components.ContentCard(title, strings.Join(lines, "\n"), cw)
}

func (a App) renderGoals(cw int) string {
	t := theme.Active
	goals := a.loaders.Goals.Items()
	title := fmt.Sprintf("Financial Goals (%d)", len(goals))

	switch {
	case isLoading(a.loaders.Goals.State()):
		return components.ContentCard(title, loadingBody(), cw)
	case len(goals) == 0:
		return components.ContentCard(title, placeholder(present.EmptyGoals), cw)
	}

	now := a.now()
	widths := components.LayoutRow(cw, 2)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)

	var rows []string
	for i := 0; i < len(goals); i += 2 {
		var cards []string
		for j := 0; j < 2 && i+j < len(goals); j++ {
			g := goals[i+j]
			w := widths[j]
			inner := components.CardInnerWidth(w)
			cat := present.GoalCategory(g.Category)
			catStyle := lipgloss.NewStyle().Foreground(t.Role(cat.Role)).Background(t.Surface)

			var body strings.Builder
			body.WriteString(text.Render(truncStr(g.Title, inner)))
			body.WriteString("\n")
			body.WriteString(catStyle.Render(cat.Glyph + " " + cat.Label))
			body.WriteString("\n")
			frac := g.ProgressPercentage / 100
			body.WriteString(components.ProgressBar(frac, max(inner-6, 10), t.Role(cat.Role)))
			body.WriteString("\n")
			body.WriteString(muted.Render(fmt.Sprintf("%s of %s",
				cli.FormatMoney(g.CurrentAmount, a.currency), cli.FormatMoney(g.TargetAmount, a.currency))))
			body.WriteString("\n")
			due := cli.FormatDaysLeft(pipeline.DaysLeft(g.TargetDate, now), "Past due")
			body.WriteString(muted.Render("Target " + cli.FormatDate(g.TargetDate) + " · " + due))
			if g.WeeklyPlanAmount != nil && g.WeeklyPlanAmount.IsPositive() {
				body.WriteString("\n")
				body.WriteString(muted.Render("Plan: " + cli.FormatMoney(*g.WeeklyPlanAmount, a.currency) + " / week"))
			}
			cards = append(cards, components.ContentCard("", body.String(), w))
		}
		rows = append(rows, components.CardRow(cards))
	}
	return strings.Join(rows, "\n")
}

func (a App) challengeCard(c model.Challenge, w int) string {
	t := theme.Active
	inner := components.CardInnerWidth(w)
	kind := present.ChallengeType(c.ChallengeType)
	status := present.ChallengeStatus(c.Status)

	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	kindStyle := lipgloss.NewStyle().Foreground(t.Role(kind.Role)).Background(t.Surface)
	statusStyle := lipgloss.NewStyle().Foreground(t.Role(status.Role)).Background(t.Surface)
	rewardStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)

	var body strings.Builder
	body.WriteString(text.Render(truncStr(c.Title, inner)))
	body.WriteString("\n")
	body.WriteString(kindStyle.Render(kind.Glyph+" "+kind.Label) + muted.Render("  ") + statusStyle.Render(status.Glyph+" "+status.Label))
	if c.Description != nil && *c.Description != "" {
		body.WriteString("\n")
		body.WriteString(muted.Render(truncStr(*c.Description, inner)))
	}
	body.WriteString("\n")
	body.WriteString(components.ProgressBar(pipeline.ChallengeProgress(c)/100, max(inner-6, 10), t.Role(kind.Role)))
	body.WriteString("\n")
	info := cli.FormatDaysLeft(pipeline.DaysLeft(c.EndDate, a.now()), "Ended")
	if c.Status == model.ChallengeCompleted {
		info = "Finished " + cli.FormatDate(c.EndDate)
	}
	body.WriteString(muted.Render(info+" · ") + rewardStyle.Render(fmt.Sprintf("★ %d pts", c.RewardPoints)))
	if c.IsCommunity {
		body.WriteString(muted.Render(" · community"))
	}
	return components.ContentCard("", body.String(), w)
}

func (a App) renderChallenges(cw int) string {
	all := a.loaders.Challenges.Items()
	if isLoading(a.loaders.Challenges.State()) {
		return components.ContentCard("Challenges", loadingBody(), cw)
	}

	active, completed := pipeline.PartitionChallenges(all)
	if len(active) == 0 && len(completed) == 0 {
		return components.ContentCard("Challenges", placeholder(present.EmptyChallenges), cw)
	}

	t := theme.Active
	section := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Background).Bold(true)
	widths := components.LayoutRow(cw, 2)

	var out []string
	for _, group := range []struct {
		title string
		list  []model.Challenge
	}{
		{fmt.Sprintf(" Active Challenges (%d)", len(active)), active},
		{fmt.Sprintf(" Completed (%d)", len(completed)), completed},
	} {
		if len(group.list) == 0 {
			continue
		}
		out = append(out, section.Render(group.title))
		for i := 0; i < len(group.list); i += 2 {
			var cards []string
			for j := 0; j < 2 && i+j < len(group.list); j++ {
				cards = append(cards, a.challengeCard(group.list[i+j], widths[j]))
			}
			out = append(out, components.CardRow(cards))
		}
	}
	return strings.Join(out, "\n")
}

func (a App) renderBadges(cw int) string {
	t := theme.Active
	badges := a.loaders.Badges.Items()
	title := fmt.Sprintf("Badges Earned (%d)", len(badges))

	switch {
	case isLoading(a.loaders.Badges.State()):
		return components.ContentCard(title, loadingBody(), cw)
	case len(badges) == 0:
		return components.ContentCard(title, placeholder(present.EmptyBadges), cw)
	}

	const perRow = 3
	widths := components.LayoutRow(cw, perRow)
	iconStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface).Bold(true)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	rows := []string{lipgloss.NewStyle().Foreground(t.Accent).Background(t.Background).Bold(true).Render(" " + title)}
	for i := 0; i < len(badges); i += perRow {
		var cards []string
		for j := 0; j < perRow && i+j < len(badges); j++ {
			bd := badges[i+j]
			inner := components.CardInnerWidth(widths[j])
			body := iconStyle.Render(cli.Deref(bd.Icon, "★")) + text.Render(" "+truncStr(bd.Title, inner-3)) + "\n" +
				muted.Render(truncStr(cli.Deref(bd.Description, present.Humanize(bd.BadgeType)), inner)) + "\n" +
				dim.Render("Earned "+cli.FormatTime(bd.EarnedAt))
			cards = append(cards, components.ContentCard("", body, widths[j]))
		}
		rows = append(rows, components.CardRow(cards))
	}
	return strings.Join(rows, "\n")
}
