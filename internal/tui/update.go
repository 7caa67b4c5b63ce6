package tui

import (
	"time"

	"github.com/theirongolddev/advisor/internal/backend"
	"github.com/theirongolddev/advisor/internal/config"
	"github.com/theirongolddev/advisor/internal/present"
	"github.com/theirongolddev/advisor/internal/tui/components"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"go.uber.org/zap"
)

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	prevScreen, prevUser := a.screen(), a.userID()

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.sizeForm(a.authForm)
		a.sizeForm(a.onboardForm)
		a.sizeForm(a.txForm)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case initDoneMsg:
		a.initializing = false
		a.snap = a.sess.Snapshot()
		return a, a.transition(prevScreen, prevUser)

	case sessionMsg:
		a.snap = msg.snap
		return a, tea.Batch(a.transition(prevScreen, prevUser), waitForSession(a.sessCh))

	case authResultMsg:
		a.authBusy = false
		a.authNotice = msg.result.Message
		a.snap = a.sess.Snapshot()
		return a, a.transition(prevScreen, prevUser)

	case profileSavedMsg:
		a.onboardBusy = false
		a.snap = a.sess.Snapshot()
		if !msg.result.Success {
			a.setMessage(msg.result.Message, true)
		} else {
			a.setMessage("Profile saved. Welcome, "+present.FirstName(a.snap.Profile)+"!", false)
		}
		return a, a.transition(prevScreen, prevUser)

	case signedOutMsg:
		if !msg.result.Success {
			a.authNotice = msg.result.Message
		}
		a.snap = a.sess.Snapshot()
		return a, a.transition(prevScreen, prevUser)

	case txAddedMsg:
		if msg.err != nil {
			a.setMessage("Failed to add transaction: "+backend.UserMessage(msg.err), true)
			return a, nil
		}
		a.setMessage("Transaction added.", false)
		return a, a.reload(setTransactions, setMonth, setInsights)

	case freshMsg:
		if msg.err != nil || msg.id.UserID != a.userID() {
			a.pending = max(0, a.pending-len(msg.sets))
			if msg.err != nil {
				a.setMessage(backend.UserMessage(msg.err), true)
			}
			return a, nil
		}
		return a, tea.Batch(loadCmds(a.loaders, msg.id, msg.sets)...)

	case loadedMsg:
		a.pending = max(0, a.pending-1)
		if msg.userID != a.userID() {
			a.log.Debug("dropping load for another user", zap.String("set", msg.name))
			return a, nil
		}
		if !msg.apply() {
			return a, nil
		}
		a.lastRefresh = a.now()
		if msg.err != nil {
			a.setMessage("Failed to load "+msg.name+": "+backend.UserMessage(msg.err), true)
		}
		return a, nil

	case refreshTickMsg:
		cmds := []tea.Cmd{refreshTickCmd(a.refreshInterval)}
		if a.autoRefresh && a.txForm == nil && a.pending == 0 {
			cmds = append(cmds, a.reload(a.viewSets(a.activeTab)...))
		}
		return a, tea.Batch(cmds...)

	case tea.MouseMsg:
		if a.screen() != screenMain || a.txForm != nil || a.showHelp {
			return a, nil
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				return a, a.switchView(tab)
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.updateKey(msg)
	}

	return a.forwardToForm(msg)
}

// transition reacts to a change of screen or signed-in user.
func (a *App) transition(prevScreen screen, prevUser string) tea.Cmd {
	user := a.userID()
	if user != prevUser {
		a.loaders.InvalidateAll()
		a.pending = 0
		a.lastRefresh = time.Time{}
		a.txForm = nil
		a.showHelp = false
		if user == "" {
			a.onboardForm = nil
			a.onboardVals = &OnboardingValues{}
			a.message = ""
		}
	}

	cur := a.screen()
	if cur != screenAuth {
		a.authForm = nil
	}
	if cur != screenOnboarding {
		a.onboardForm = nil
	}

	var cmds []tea.Cmd
	if cur == screenMain && (prevScreen != screenMain || user != prevUser) {
		a.authNotice = ""
		cmds = append(cmds, a.reload(a.viewSets(a.activeTab)...))
	}
	cmds = append(cmds, a.syncForms())
	return tea.Batch(cmds...)
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.screen() {
	case screenLoading:
		return a, nil
	case screenAuth, screenOnboarding:
		return a.forwardToForm(msg)
	}

	if a.txForm != nil {
		return a.forwardToForm(msg)
	}

	key := msg.String()
	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "left":
		return a, a.switchView((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
	case "right":
		return a, a.switchView((a.activeTab + 1) % len(components.Tabs))
	case "a":
		a.txVals = &TransactionValues{}
		a.txForm = NewTransactionForm(a.txVals)
		a.sizeForm(a.txForm)
		return a, a.txForm.Init()
	case "r":
		return a, a.reload(a.viewSets(a.activeTab)...)
	case "R":
		a.autoRefresh = !a.autoRefresh
		// Persist the toggle; a failed save only loses the preference.
		if cfg, err := config.Load(); err == nil {
			cfg.TUI.AutoRefresh = a.autoRefresh
			if err := config.Save(cfg); err != nil {
				a.log.Warn("saving auto-refresh preference", zap.Error(err))
			}
		}
		return a, nil
	case "o":
		a.setMessage("Signing out...", false)
		return a, signOutCmd(a.sess)
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			return a, a.switchView(idx)
		}
	}
	return a, nil
}

func updateForm(f *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd) {
	m, cmd := f.Update(msg)
	if nf, ok := m.(*huh.Form); ok {
		f = nf
	}
	return f, cmd
}

// forwardToForm hands msg to whichever form is active and acts on its completion.
func (a App) forwardToForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case a.screen() == screenAuth && a.authForm != nil:
		a.authForm, cmd = updateForm(a.authForm, msg)
		switch a.authForm.State {
		case huh.StateCompleted:
			a.authForm = nil
			a.authBusy = true
			a.authNotice = ""
			a.sess.ClearAppError()
			return a, authCmd(a.sess, a.authVals.Mode, a.authVals.Email, a.authVals.Password)
		case huh.StateAborted:
			return a, tea.Quit
		}

	case a.screen() == screenOnboarding && a.onboardForm != nil:
		a.onboardForm, cmd = updateForm(a.onboardForm, msg)
		switch a.onboardForm.State {
		case huh.StateCompleted:
			a.onboardForm = nil
			a.onboardBusy = true
			a.message = ""
			return a, saveProfileCmd(a.sess, a.onboardVals.Update())
		case huh.StateAborted:
			return a, tea.Quit
		}

	case a.screen() == screenMain && a.txForm != nil:
		a.txForm, cmd = updateForm(a.txForm, msg)
		switch a.txForm.State {
		case huh.StateCompleted:
			vals := *a.txVals
			a.txForm = nil
			a.setMessage("Saving transaction...", false)
			return a, addTransactionCmd(a.sess, a.rows, vals, a.now())
		case huh.StateAborted:
			a.txForm = nil
			return a, nil
		}
	}
	return a, cmd
}
