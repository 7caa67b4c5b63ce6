package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/advisor/internal/present"

	"github.com/charmbracelet/lipgloss"
)

// Palette used for plain CLI output.
var (
	ColorBorder    = lipgloss.Color("#334155")
	ColorTextDim   = lipgloss.Color("#64748B")
	ColorTextMuted = lipgloss.Color("#94A3B8")
	ColorText      = lipgloss.Color("#F1F5F9")
	ColorAccent    = lipgloss.Color("#6366F1")
	ColorGreen     = lipgloss.Color("#10B981")
	ColorBlue      = lipgloss.Color("#3B82F6")
	ColorCyan      = lipgloss.Color("#06B6D4")
	ColorYellow    = lipgloss.Color("#F59E0B")
	ColorOrange    = lipgloss.Color("#F97316")
	ColorRed       = lipgloss.Color("#EF4444")
	ColorMagenta   = lipgloss.Color("#A855F7")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// RoleColor resolves a presentation role for CLI output.
func RoleColor(r present.Role) lipgloss.Color {
	switch r {
	case present.RoleAccent:
		return ColorAccent
	case present.RoleGreen:
		return ColorGreen
	case present.RoleBlue:
		return ColorBlue
	case present.RoleCyan:
		return ColorCyan
	case present.RoleYellow:
		return ColorYellow
	case present.RoleOrange:
		return ColorOrange
	case present.RoleRed:
		return ColorRed
	case present.RoleMagenta:
		return ColorMagenta
	default:
		return ColorTextMuted
	}
}

// Styled renders text in a style's color, prefixed with its glyph.
func Styled(s present.Style) string {
	return lipgloss.NewStyle().Foreground(RoleColor(s.Role)).Render(s.Glyph + " " + s.Label)
}

// Colored renders text in a role's color.
func Colored(r present.Role, text string) string {
	return lipgloss.NewStyle().Foreground(RoleColor(r)).Render(text)
}

// Muted renders secondary text.
func Muted(text string) string {
	return mutedStyle.Render(text)
}

// Header renders a section label.
func Header(text string) string {
	return headerStyle.Render(text)
}

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
	// RightAlign marks columns to right-align. Defaults to every column but the first.
	RightAlign []bool
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderEmpty renders an empty-set placeholder.
func RenderEmpty(e present.EmptyState) string {
	return "  " + valueStyle.Render(e.Title) + "\n  " + mutedStyle.Render(e.Hint) + "\n"
}

// pad pads s to display width w.
func pad(s string, w int, right bool) string {
	gap := w - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

func (t Table) rightAligned(col int) bool {
	if t.RightAlign != nil {
		return col < len(t.RightAlign) && t.RightAlign[col]
	}
	return col > 0
}

// RenderTable renders a bordered table with headers and rows.
// A row holding the single cell "---" renders as a separator.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	rule := func(left, mid, right string) string {
		var b strings.Builder
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(" " + pad(h, widths[i], false) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		b.WriteString(rule("├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle.Render(" " + pad(cell, widths[i], t.rightAligned(i)) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

// RenderProgressBar renders a percentage bar. pct is clamped to [0,100].
func RenderProgressBar(pct float64, width int, role present.Role) string {
	pct = max(0, min(pct, 100))
	filled := int(pct / 100 * float64(width))
	bar := Colored(role, strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %s", bar, FormatPercent(pct))
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

// RenderHorizontalBar renders one labelled bar of a horizontal bar chart.
func RenderHorizontalBar(label string, labelWidth int, value, maxValue float64, maxWidth int, role present.Role) string {
	barLen := 0
	if maxValue > 0 {
		barLen = max(0, int(value/maxValue*float64(maxWidth)))
	}
	return fmt.Sprintf("  %s %s", pad(label, labelWidth, false), Colored(role, strings.Repeat("█", barLen)))
}
