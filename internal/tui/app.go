// Package tui provides the interactive Bubble Tea dashboard for advisor.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/advisor/internal/backend"
	"github.com/theirongolddev/advisor/internal/cli"
	"github.com/theirongolddev/advisor/internal/config"
	"github.com/theirongolddev/advisor/internal/pipeline"
	"github.com/theirongolddev/advisor/internal/session"
	"github.com/theirongolddev/advisor/internal/tui/components"
	"github.com/theirongolddev/advisor/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Views, in tab order.
const (
	viewDashboard = iota
	viewTransactions
	viewGoals
	viewChallenges
	viewBadges
)

type screen int

const (
	screenLoading screen = iota
	screenAuth
	screenOnboarding
	screenMain
)

const (
	minTerminalWidth = 80
	maxContentWidth  = 180
	minContentHeight = 5
)

// Deps are the collaborators the dashboard needs. Session and Loaders are
// shared with the rest of the process.
type Deps struct {
	Session *session.Store
	Rows    backend.Rows
	Loaders *pipeline.Loaders
	Config  config.Config
	Backend string
	Log     *zap.Logger
	Now     func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	sess     *session.Store
	rows     backend.Rows
	loaders  *pipeline.Loaders
	log      *zap.Logger
	now      func() time.Time
	backend  string
	currency string
	budget   decimal.Decimal

	// Session state, fed by the store's subscription channel.
	snap         session.Snapshot
	sessCh       <-chan session.Snapshot
	unsubscribe  func()
	initializing bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	spinner   spinner.Model

	// Sign-in form
	authForm   *huh.Form
	authVals   *AuthValues
	authNotice string
	authBusy   bool

	// Onboarding form
	onboardForm *huh.Form
	onboardVals *OnboardingValues
	onboardBusy bool

	// Add-transaction overlay
	txForm *huh.Form
	txVals *TransactionValues

	// Status line
	message    string
	messageErr bool

	// Loads
	pending         int
	lastRefresh     time.Time
	autoRefresh     bool
	refreshInterval time.Duration
}

// NewApp creates the dashboard and subscribes it to the session store.
// Call Close once the program exits.
func NewApp(d Deps) App {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	currency := d.Config.General.Currency
	if currency == "" {
		currency = cli.DefaultCurrency
	}
	var budget decimal.Decimal
	if d.Config.Budget.Monthly != nil {
		budget = decimal.NewFromFloat(*d.Config.Budget.Monthly)
	}
	interval := time.Duration(d.Config.TUI.RefreshIntervalSec) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}

	ch, unsubscribe := d.Session.Subscribe()

	return App{
		sess:            d.Session,
		rows:            d.Rows,
		loaders:         d.Loaders,
		log:             d.Log.Named("tui"),
		now:             d.Now,
		backend:         d.Backend,
		currency:        currency,
		budget:          budget,
		snap:            d.Session.Snapshot(),
		sessCh:          ch,
		unsubscribe:     unsubscribe,
		initializing:    true,
		activeTab:       viewIndex(d.Config.General.DefaultView),
		spinner:         sp,
		authVals:        &AuthValues{},
		onboardVals:     &OnboardingValues{},
		autoRefresh:     d.Config.TUI.AutoRefresh,
		refreshInterval: interval,
	}
}

func viewIndex(name string) int {
	for i, tab := range components.Tabs {
		if strings.EqualFold(tab.Name, name) {
			return i
		}
	}
	return viewDashboard
}

// Close stops the session subscription.
func (a App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		initSessionCmd(a.sess),
		waitForSession(a.sessCh),
		refreshTickCmd(a.refreshInterval),
	)
}

func (a App) screen() screen {
	if a.initializing || a.authBusy || a.onboardBusy || a.snap.Status == session.Loading {
		return screenLoading
	}
	switch {
	case a.snap.Status != session.Authenticated:
		return screenAuth
	case a.snap.NeedsOnboarding():
		return screenOnboarding
	default:
		return screenMain
	}
}

func (a App) userID() string {
	if a.snap.Status != session.Authenticated || a.snap.User == nil {
		return ""
	}
	return a.snap.User.ID
}

// syncForms creates the form for the current screen when it is missing.
func (a *App) syncForms() tea.Cmd {
	switch a.screen() {
	case screenAuth:
		if a.authForm == nil {
			notice := a.authNotice
			if notice == "" {
				notice = a.snap.AppError
			}
			a.authVals.Password = ""
			a.authForm = NewAuthForm(a.authVals, notice)
			a.sizeForm(a.authForm)
			return a.authForm.Init()
		}
	case screenOnboarding:
		if a.onboardForm == nil {
			a.onboardForm = NewOnboardingForm(a.onboardVals)
			a.sizeForm(a.onboardForm)
			return a.onboardForm.Init()
		}
	}
	return nil
}

func (a App) sizeForm(f *huh.Form) {
	if f == nil || a.width == 0 {
		return
	}
	f.WithWidth(min(a.width, 72)).WithHeight(a.height)
}

func (a *App) setMessage(msg string, isErr bool) {
	a.message = msg
	a.messageErr = isErr
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// viewSets names the loaders each view reads.
func (a App) viewSets(view int) []string {
	switch view {
	case viewTransactions:
		return []string{setTransactions}
	case viewGoals:
		return []string{setGoals}
	case viewChallenges:
		return []string{setChallenges}
	case viewBadges:
		return []string{setBadges}
	default:
		return []string{setMonth, setTransactions, setInsights}
	}
}

func (a *App) switchView(view int) tea.Cmd {
	if view < 0 || view >= len(components.Tabs) {
		return nil
	}
	a.activeTab = view
	return a.reload(a.viewSets(view)...)
}

// reload refreshes the named sets for the signed-in user.
func (a *App) reload(sets ...string) tea.Cmd {
	if a.screen() != screenMain || len(sets) == 0 {
		return nil
	}
	a.pending += len(sets)
	return freshIdentityCmd(a.sess, sets)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	switch a.screen() {
	case screenLoading:
		return a.viewLoading()
	case screenAuth:
		return a.viewForm(a.authForm)
	case screenOnboarding:
		return a.viewForm(a.onboardForm)
	}

	if a.txForm != nil {
		return a.viewForm(a.txForm)
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  advisor needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	label := " Loading..."
	switch {
	case a.authBusy && a.authVals.Mode == AuthSignUp:
		label = " Creating your account..."
	case a.authBusy:
		label = " Signing in..."
	case a.onboardBusy:
		label = " Saving your profile..."
	}

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ advisor"))
	b.WriteString(subtitleStyle.Render(" · AI Financial Coach"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(label))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewForm(f *huh.Form) string {
	if f == nil {
		return a.viewLoading()
	}
	t := theme.Active
	body := f.View()
	if a.message != "" && a.screen() == screenOnboarding {
		color := t.Green
		if a.messageErr {
			color = t.Red
		}
		body += "\n" + lipgloss.NewStyle().Foreground(color).Render(a.message)
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2).
		Render(body)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"d t g c b", "Jump to view"},
			{"← →", "Previous / Next view"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"a", "Add transaction"},
			{"r", "Refresh view"},
			{"R", "Toggle auto-refresh"},
			{"o", "Sign out"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) status() components.Status {
	s := components.Status{
		Backend:     a.backend,
		Message:     a.message,
		IsError:     a.messageErr,
		Refreshing:  a.pending > 0,
		AutoRefresh: a.autoRefresh,
	}
	if a.snap.User != nil {
		s.User = a.snap.User.Email
	}
	if !a.lastRefresh.IsZero() {
		s.DataAge = a.lastRefresh.Format("15:04")
	}
	return s
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.status())

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case viewTransactions:
		content = a.renderTransactions(cw)
	case viewGoals:
		content = a.renderGoals(cw)
	case viewChallenges:
		content = a.renderChallenges(cw)
	case viewBadges:
		content = a.renderBadges(cw)
	default:
		content = a.renderDashboard(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 {
		return ""
	}
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
