package cmd

import (
	"fmt"

	"github.com/theirongolddev/advisor/internal/tui"
	"github.com/theirongolddev/advisor/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// The dashboard restores the session itself, behind its loading screen.
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	theme.SetActive(a.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	model := tui.NewApp(tui.Deps{
		Session: a.session,
		Rows:    a.svc,
		Loaders: a.loaders,
		Config:  a.cfg,
		Backend: a.svc.Name(),
		Log:     a.log,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	final, err := p.Run()
	if app, ok := final.(tui.App); ok {
		app.Close()
	}
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
