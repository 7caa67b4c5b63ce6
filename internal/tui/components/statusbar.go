package components

import (
	"strings"

	"github.com/theirongolddev/advisor/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is the content of the bottom status bar.
type Status struct {
	User        string
	Backend     string
	Message     string
	IsError     bool
	DataAge     string
	Refreshing  bool
	AutoRefresh bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	userStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	msgStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	if s.IsError {
		msgStyle = msgStyle.Foreground(t.Red)
	}

	left := base.Render(" ") +
		keyStyle.Render("a") + base.Render(" add  ") +
		keyStyle.Render("r") + base.Render(" refresh  ") +
		keyStyle.Render("o") + base.Render(" sign out  ") +
		keyStyle.Render("?") + base.Render(" help  ") +
		keyStyle.Render("q") + base.Render(" quit")
	if s.Message != "" {
		left += base.Render("  ") + msgStyle.Render(s.Message)
	}

	var right []string
	if s.User != "" {
		right = append(right, userStyle.Render(s.User))
	}
	if s.Backend != "" {
		right = append(right, base.Render(s.Backend))
	}
	switch {
	case s.Refreshing:
		right = append(right, keyStyle.Render("refreshing…"))
	case s.DataAge != "":
		age := "updated " + s.DataAge
		if s.AutoRefresh {
			age += " (auto)"
		}
		right = append(right, base.Render(age))
	}
	rightStr := strings.Join(right, base.Render(" · ")) + base.Render(" ")

	gap := max(0, width-lipgloss.Width(left)-lipgloss.Width(rightStr))
	return left + base.Render(strings.Repeat(" ", gap)) + rightStr
}
