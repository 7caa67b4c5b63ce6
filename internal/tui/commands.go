package tui

import (
	"context"
	"time"

	"github.com/theirongolddev/advisor/internal/backend"
	"github.com/theirongolddev/advisor/internal/model"
	"github.com/theirongolddev/advisor/internal/pipeline"
	"github.com/theirongolddev/advisor/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// requestTimeout bounds every call the dashboard makes to the data service.
const requestTimeout = 20 * time.Second

// Loader names, as passed to reload.
const (
	setTransactions = "transactions"
	setMonth        = "month"
	setGoals        = "goals"
	setChallenges   = "challenges"
	setBadges       = "badges"
	setInsights     = "insights"
)

type sessionMsg struct{ snap session.Snapshot }

type initDoneMsg struct{}

type authResultMsg struct {
	mode   string
	result session.Result
}

type profileSavedMsg struct{ result session.Result }

type signedOutMsg struct{ result session.Result }

type txAddedMsg struct{ err error }

// freshMsg carries an identity with a usable token for the sets to load.
type freshMsg struct {
	id   pipeline.Identity
	sets []string
	err  error
}

// loadedMsg is one finished read. apply stores it in its loader if the read
// is still current and reports whether it did.
type loadedMsg struct {
	name   string
	userID string
	apply  func() bool
	err    error
}

type refreshTickMsg struct{}

func initSessionCmd(s *session.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		s.Init(ctx)
		return initDoneMsg{}
	}
}

// waitForSession blocks until the store publishes its next snapshot.
func waitForSession(ch <-chan session.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return sessionMsg{snap: snap}
	}
}

func authCmd(s *session.Store, mode, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if mode == AuthSignUp {
			return authResultMsg{mode: mode, result: s.SignUp(ctx, email, password)}
		}
		return authResultMsg{mode: mode, result: s.SignIn(ctx, email, password)}
	}
}

func saveProfileCmd(s *session.Store, upd model.ProfileUpdate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return profileSavedMsg{result: s.UpdateProfile(ctx, upd)}
	}
}

func signOutCmd(s *session.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return signedOutMsg{result: s.SignOut(ctx)}
	}
}

func addTransactionCmd(s *session.Store, rows backend.Rows, vals TransactionValues, now time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		id, err := s.EnsureFresh(ctx)
		if err != nil {
			return txAddedMsg{err: err}
		}
		in, err := vals.Input(id.UserID, now)
		if err != nil {
			return txAddedMsg{err: err}
		}
		return txAddedMsg{err: rows.Insert(ctx, id.Token, backend.TableTransactions, in)}
	}
}

func freshIdentityCmd(s *session.Store, sets []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		id, err := s.EnsureFresh(ctx)
		return freshMsg{id: id, sets: sets, err: err}
	}
}

func loadCmd[T any](l *pipeline.Loader[T], id pipeline.Identity) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		r := l.Run(ctx, id)
		return loadedMsg{
			name:   l.Name(),
			userID: id.UserID,
			apply:  func() bool { return l.Apply(r) },
			err:    r.Err,
		}
	}
}

// loadCmds starts one read per named set.
func loadCmds(l *pipeline.Loaders, id pipeline.Identity, sets []string) []tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(sets))
	for _, name := range sets {
		switch name {
		case setTransactions:
			cmds = append(cmds, loadCmd(l.Transactions, id))
		case setMonth:
			cmds = append(cmds, loadCmd(l.Month, id))
		case setGoals:
			cmds = append(cmds, loadCmd(l.Goals, id))
		case setChallenges:
			cmds = append(cmds, loadCmd(l.Challenges, id))
		case setBadges:
			cmds = append(cmds, loadCmd(l.Badges, id))
		case setInsights:
			cmds = append(cmds, loadCmd(l.Insights, id))
		}
	}
	return cmds
}

func refreshTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}
