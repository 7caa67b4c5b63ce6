// Package session holds the signed-in identity and its profile. A Store is
// created once per process and handed to every component that needs it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/theirongolddev/advisor/internal/backend"
	"github.com/theirongolddev/advisor/internal/model"
	"github.com/theirongolddev/advisor/internal/pipeline"

	"go.uber.org/zap"
)

// Status is the authentication state.
type Status int

const (
	Unauthenticated Status = iota
	Loading
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Advisory messages.
const (
	MsgProfileLoadFailed = "Failed to load user profile data."
	MsgNotSignedIn       = "User not logged in."
	MsgConfirmEmail      = "Check your email to confirm your account, then sign in."
	MsgSessionExpired    = "Your session has expired. Sign in again."
	msgSuperseded        = "Cancelled by a newer sign-in or sign-out."
)

// Result reports the outcome of a user-initiated operation.
type Result struct {
	Success bool
	Message string
}

// Persister keeps the session across process restarts.
type Persister interface {
	Save(*backend.Session) error
	Load() (*backend.Session, error)
	Clear() error
}

// Snapshot is an immutable view of the store.
type Snapshot struct {
	Status   Status
	User     *backend.User
	Profile  *model.UserProfile
	AppError string
}

// NeedsOnboarding reports whether the signed-in user has not finished onboarding.
func (s Snapshot) NeedsOnboarding() bool {
	return s.Status == Authenticated && s.Profile != nil && !s.Profile.OnboardingCompleted
}

// Store is the session state machine. Authenticated always implies a profile.
type Store struct {
	svc     backend.Service
	persist Persister
	log     *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	gen      uint64
	status   Status
	sess     *backend.Session
	profile  *model.UserProfile
	appError string
	subs     map[int]chan Snapshot
	nextSub  int
}

// New creates a store over svc. persist may be nil.
func New(svc backend.Service, persist Persister, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		svc:     svc,
		persist: persist,
		log:     log.Named("session"),
		now:     time.Now,
		subs:    make(map[int]chan Snapshot),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Status: s.status, AppError: s.appError}
	if s.status == Authenticated && s.sess != nil {
		u := s.sess.User
		snap.User = &u
		if s.profile != nil {
			p := *s.profile
			snap.Profile = &p
		}
	}
	return snap
}

// Identity returns the identity loaders should use, or the zero identity.
func (s *Store) Identity() pipeline.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != Authenticated || !s.sess.HasTokens() {
		return pipeline.Identity{}
	}
	return pipeline.Identity{UserID: s.sess.User.ID, Token: s.sess.AccessToken}
}

// Subscribe returns a channel that receives the latest snapshot after every
// change. Slow readers only see the newest snapshot. Call cancel to stop.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
}

func (s *Store) notifyLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// begin starts a new generation in the loading state.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.status = Loading
	s.notifyLocked()
	return s.gen
}

// fail returns to unauthenticated for gen, recording msg as the app error.
func (s *Store) fail(gen uint64, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.status = Unauthenticated
	s.sess = nil
	s.profile = nil
	s.appError = msg
	s.clearPersisted()
	s.notifyLocked()
}

// commit enters the authenticated state for gen.
func (s *Store) commit(gen uint64, sess *backend.Session, profile *model.UserProfile) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.status = Authenticated
	s.sess = sess
	s.profile = profile
	s.appError = ""
	if s.persist != nil {
		if err := s.persist.Save(sess); err != nil {
			s.log.Warn("persisting session", zap.Error(err))
		}
	}
	s.notifyLocked()
	return true
}

func (s *Store) clearPersisted() {
	if s.persist == nil {
		return
	}
	if err := s.persist.Clear(); err != nil {
		s.log.Warn("clearing persisted session", zap.Error(err))
	}
}

// ClearAppError dismisses the advisory error.
func (s *Store) ClearAppError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appError == "" {
		return
	}
	s.appError = ""
	s.notifyLocked()
}

func (s *Store) setAppError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appError = msg
	s.notifyLocked()
}

// errMessage prefers the service's message, then fallback.
func errMessage(err error, fallback string) string {
	if msg := backend.UserMessage(err); msg != "" {
		return msg
	}
	return fallback
}

// fetchProfile reads the profile row. A missing row returns nil, nil.
func (s *Store) fetchProfile(ctx context.Context, sess *backend.Session) (*model.UserProfile, error) {
	var rows []model.UserProfile
	if err := s.svc.Select(ctx, sess.AccessToken, pipeline.ProfileQuery(sess.User.ID), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// loadProfile reads the profile, creating the default row when the identity has none.
func (s *Store) loadProfile(ctx context.Context, sess *backend.Session) (*model.UserProfile, error) {
	p, err := s.fetchProfile(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if p != nil {
		return p, nil
	}

	s.log.Info("profile missing, creating default", zap.String("user_id", sess.User.ID))
	if err := s.svc.Insert(ctx, sess.AccessToken, backend.TableProfiles, model.DefaultProfile(sess.User.ID, sess.User.Email)); err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}
	p, err = s.fetchProfile(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if p == nil {
		return nil, errors.New("profile missing after insert")
	}
	return p, nil
}

// establish loads the profile for sess and commits, or fails the generation.
func (s *Store) establish(ctx context.Context, gen uint64, sess *backend.Session, okMsg string) Result {
	profile, err := s.loadProfile(ctx, sess)
	if err != nil {
		s.log.Error("profile load failed", zap.String("user_id", sess.User.ID), zap.Error(err))
		s.fail(gen, MsgProfileLoadFailed)
		return Result{Message: MsgProfileLoadFailed}
	}
	if !s.commit(gen, sess, profile) {
		return Result{Message: msgSuperseded}
	}
	return Result{Success: true, Message: okMsg}
}
