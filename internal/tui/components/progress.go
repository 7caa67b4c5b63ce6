package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/advisor/internal/model"
	"github.com/theirongolddev/advisor/internal/present"
	"github.com/theirongolddev/advisor/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

func clampFrac(pct float64) float64 {
	return max(0, min(pct, 1))
}

// ProgressBar renders a solid bar for pct in [0,1] followed by its percentage.
func ProgressBar(pct float64, width int, color lipgloss.Color) string {
	t := theme.Active
	pct = clampFrac(pct)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(width, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.SurfaceBright)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(pct) + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}

// ColorForPct returns green/yellow/orange/red for budget utilization in [0,1].
func ColorForPct(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 1:
		return t.Red
	case pct >= 0.8:
		return t.Orange
	case pct >= 0.5:
		return t.Yellow
	default:
		return t.Green
	}
}

// LabeledBar renders "label  [bar] pct" with the label padded to labelW.
func LabeledBar(label string, labelW int, pct float64, barW int, color lipgloss.Color) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	gap := max(0, labelW-lipgloss.Width(label))
	return labelStyle.Render(label+strings.Repeat(" ", gap)) +
		spaceStyle.Render(" ") +
		ProgressBar(pct, barW, color)
}

// HealthGauge renders the headline score, its band, and the sub-score bars.
func HealthGauge(g model.HealthGauge, width int) string {
	t := theme.Active
	band := present.Band(g.Band)
	color := t.Role(band.Role)

	scoreStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	outOfStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	bandStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var b strings.Builder
	b.WriteString(scoreStyle.Render(fmt.Sprintf("%d", g.Score)))
	b.WriteString(outOfStyle.Render(" / 100  "))
	b.WriteString(bandStyle.Render(band.Glyph + " " + band.Label))
	b.WriteString("\n")
	b.WriteString(ProgressBar(g.Fill, max(width-6, 10), color))

	labelW := 0
	for _, p := range g.Parts {
		labelW = max(labelW, lipgloss.Width(p.Label))
	}
	barW := max(width-labelW-7, 8)
	for _, p := range g.Parts {
		b.WriteString("\n")
		b.WriteString(LabeledBar(p.Label, labelW, p.Fill, barW, t.Role(present.Band(p.Band).Role)))
	}
	return b.String()
}
