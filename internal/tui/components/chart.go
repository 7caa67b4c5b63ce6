package components

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/advisor/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// eighths are the partial blocks used for the top cell of a column.
var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// DayColumns renders one column per day of the month, oldest first. Values
// are spend amounts; the y axis is labelled with prefix plus a compact
// amount at the peak, the midpoint and zero.
func DayColumns(values []float64, prefix string, width, height int) string {
	if len(values) == 0 || height < 2 {
		return ""
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}

	top := prefix + compactAmount(peak)
	mid := prefix + compactAmount(peak/2)
	axisW := max(lipgloss.Width(top), lipgloss.Width(mid), 1)

	n := len(values)
	avail := max(width-axisW-1, n)
	colW, gap := 1, 0
	if avail >= 2*n {
		gap = 1
		colW = min(max((avail-n)/n, 1), 3)
	}
	plotW := n*colW + (n-1)*gap

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	bar := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	hot := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	// Column heights in eighths of a row.
	units := make([]int, n)
	if peak > 0 {
		for i, v := range values {
			units[i] = int(math.Round(v / peak * float64(height*8)))
			if v > 0 && units[i] == 0 {
				units[i] = 1
			}
		}
	}

	var b strings.Builder
	for row := height; row >= 1; row-- {
		label := ""
		switch row {
		case height:
			label = top
		case (height + 1) / 2:
			if height > 3 {
				label = mid
			}
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", axisW, label)))

		floor := (row - 1) * 8
		for i, u := range units {
			if i > 0 && gap > 0 {
				b.WriteString(space.Render(" "))
			}
			cell := ' '
			switch {
			case u >= floor+8:
				cell = '█'
			case u > floor:
				cell = eighths[u-floor]
			}
			st := bar
			if peak > 0 && values[i] == peak {
				st = hot
			}
			b.WriteString(st.Render(strings.Repeat(string(cell), colW)))
		}
		b.WriteString("\n")
	}

	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", axisW, "0", strings.Repeat("─", plotW))))

	// Day numbers under the 1st, every 5th and the last column.
	labels := make([]rune, plotW)
	for i := range labels {
		labels[i] = ' '
	}
	lastEnd := -1
	for day := 1; day <= n; day++ {
		if day != 1 && day%5 != 0 && day != n {
			continue
		}
		text := strconv.Itoa(day)
		pos := (day - 1) * (colW + gap)
		if pos <= lastEnd || pos+len(text) > plotW {
			continue
		}
		copy(labels[pos:], []rune(text))
		lastEnd = pos + len(text)
	}
	b.WriteString("\n")
	b.WriteString(space.Render(strings.Repeat(" ", axisW+1)))
	b.WriteString(axis.Render(strings.TrimRight(string(labels), " ")))

	return b.String()
}

// compactAmount formats v with a k/M suffix above a thousand.
func compactAmount(v float64) string {
	switch {
	case v >= 1e6:
		return strconv.FormatFloat(math.Round(v/1e5)/10, 'f', -1, 64) + "M"
	case v >= 1e3:
		return strconv.FormatFloat(math.Round(v/1e2)/10, 'f', -1, 64) + "k"
	default:
		return strconv.FormatFloat(math.Round(v), 'f', -1, 64)
	}
}

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Text  string // rendered after the bar, e.g. a formatted amount
	Color lipgloss.Color
}

// HorizontalBars renders one labelled bar per row, scaled to the largest value.
func HorizontalBars(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW, textW := 0, 0
	peak := 0.0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		textW = max(textW, lipgloss.Width(b.Text))
		peak = max(peak, b.Value)
	}
	if peak == 0 {
		peak = 1
	}
	barMax := max(width-labelW-textW-3, 4)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		n := max(0, int(math.Round(b.Value/peak*float64(barMax))))
		if b.Value > 0 && n == 0 {
			n = 1
		}
		color := b.Color
		if color == "" {
			color = t.Accent
		}
		barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
		lines = append(lines,
			labelStyle.Render(b.Label+strings.Repeat(" ", labelW-lipgloss.Width(b.Label)))+
				space.Render(" ")+
				barStyle.Render(strings.Repeat("█", n))+
				space.Render(strings.Repeat(" ", barMax-n+1))+
				textStyle.Render(b.Text))
	}
	return strings.Join(lines, "\n")
}
