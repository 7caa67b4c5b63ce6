package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/advisor/internal/config"
	"github.com/theirongolddev/advisor/internal/source"
	"github.com/theirongolddev/advisor/internal/tui/components"
	"github.com/theirongolddev/advisor/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

type setupValues struct {
	Backend     string
	URL         string
	AnonKey     string
	Currency    string
	Budget      string
	Theme       string
	DefaultView string
	AutoRefresh bool
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	v := &setupValues{
		Backend:     cfg.Backend.Kind,
		URL:         cfg.Backend.URL,
		AnonKey:     cfg.Backend.AnonKey,
		Currency:    cfg.General.Currency,
		Theme:       cfg.Appearance.Theme,
		DefaultView: cfg.General.DefaultView,
		AutoRefresh: cfg.TUI.AutoRefresh,
	}
	if v.Backend == config.BackendAuto {
		v.Backend = config.BackendKind(cfg)
	}
	if cfg.Budget.Monthly != nil {
		v.Budget = strconv.FormatFloat(*cfg.Budget.Monthly, 'f', -1, 64)
	}

	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}
	views := make([]huh.Option[string], 0, len(components.Tabs))
	for _, tab := range components.Tabs {
		views = append(views, huh.NewOption(tab.Name, strings.ToLower(tab.Name)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to advisor!").
				Description("Your financial wellness coach in the terminal."),
			huh.NewSelect[string]().
				Title("Where should your data live?").
				Options(
					huh.NewOption("On this machine (local database)", config.BackendLocal),
					huh.NewOption("Supabase project", config.BackendSupabase),
				).
				Value(&v.Backend),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Supabase project URL").
				Placeholder("https://xyz.supabase.co").
				Value(&v.URL).
				Validate(required("project URL")),
			huh.NewInput().
				Title("Supabase anon key").
				EchoMode(huh.EchoModePassword).
				Value(&v.AnonKey).
				Validate(required("anon key")),
		).WithHideFunc(func() bool { return v.Backend != config.BackendSupabase }),
		huh.NewGroup(
			huh.NewInput().
				Title("Currency symbol").
				Value(&v.Currency).
				Validate(required("currency")),
			huh.NewInput().
				Title("Monthly budget").
				Description("Leave blank to skip budget tracking.").
				Value(&v.Budget).
				Validate(optionalAmount),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
			huh.NewSelect[string]().
				Title("Open the dashboard on").
				Options(views...).
				Value(&v.DefaultView),
			huh.NewConfirm().
				Title("Refresh the dashboard automatically?").
				Value(&v.AutoRefresh),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	cfg.Backend.Kind = v.Backend
	if v.Backend == config.BackendSupabase {
		cfg.Backend.URL = strings.TrimSpace(v.URL)
		cfg.Backend.AnonKey = strings.TrimSpace(v.AnonKey)
	}
	cfg.General.Currency = strings.TrimSpace(v.Currency)
	cfg.General.DefaultView = v.DefaultView
	cfg.Appearance.Theme = v.Theme
	cfg.TUI.AutoRefresh = v.AutoRefresh
	cfg.Budget.Monthly = nil
	if b := strings.TrimSpace(v.Budget); b != "" {
		amt, _ := source.ParseAmount(b)
		f := amt.InexactFloat64()
		cfg.Budget.Monthly = &f
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `advisor setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func optionalAmount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	amt, err := source.ParseAmount(s)
	if err != nil || !amt.IsPositive() {
		return errors.New("enter a positive amount")
	}
	return nil
}
