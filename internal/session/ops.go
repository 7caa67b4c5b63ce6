package session

import (
	"context"
	"errors"

	"github.com/theirongolddev/advisor/internal/backend"
	"github.com/theirongolddev/advisor/internal/model"
	"github.com/theirongolddev/advisor/internal/pipeline"

	"go.uber.org/zap"
)

// Init restores a persisted session, refreshing it when expired.
func (s *Store) Init(ctx context.Context) {
	if s.persist == nil {
		return
	}
	sess, err := s.persist.Load()
	if err != nil {
		s.log.Warn("loading persisted session", zap.Error(err))
		return
	}
	if !sess.HasTokens() {
		return
	}

	gen := s.begin()
	if sess.Expired(s.now()) {
		next, err := s.svc.Refresh(ctx, sess.RefreshToken)
		if err != nil {
			s.log.Info("persisted session could not be refreshed", zap.Error(err))
			s.fail(gen, "")
			return
		}
		sess = next
	}
	s.establish(ctx, gen, sess, "")
}

// SignUp registers an identity and creates its default profile.
func (s *Store) SignUp(ctx context.Context, email, password string) Result {
	gen := s.begin()

	sess, err := s.svc.SignUp(ctx, email, password)
	if err != nil {
		msg := errMessage(err, "Sign up failed due to an unknown error.")
		s.fail(gen, msg)
		return Result{Message: msg}
	}

	if !sess.HasTokens() {
		// The profile is created at first sign-in, once the address is confirmed.
		s.fail(gen, "")
		return Result{Success: true, Message: MsgConfirmEmail}
	}

	if err := s.svc.Insert(ctx, sess.AccessToken, backend.TableProfiles, model.DefaultProfile(sess.User.ID, sess.User.Email)); err != nil {
		msg := errMessage(err, "Account created, but failed to create profile data.")
		s.log.Error("creating profile", zap.String("user_id", sess.User.ID), zap.Error(err))
		s.fail(gen, msg)
		return Result{Message: msg}
	}
	return s.establish(ctx, gen, sess, "Account created.")
}

// SignIn authenticates with email and password and loads the profile.
func (s *Store) SignIn(ctx context.Context, email, password string) Result {
	gen := s.begin()

	sess, err := s.svc.SignIn(ctx, email, password)
	if err != nil {
		msg := errMessage(err, "Invalid login credentials.")
		s.fail(gen, msg)
		return Result{Message: msg}
	}
	return s.establish(ctx, gen, sess, "Signed in.")
}

// SignOut ends the session. Local state is always cleared; a failure to
// revoke remotely is reported but does not keep the user signed in.
func (s *Store) SignOut(ctx context.Context) Result {
	s.mu.Lock()
	s.gen++
	sess := s.sess
	s.status = Unauthenticated
	s.sess = nil
	s.profile = nil
	s.appError = ""
	s.clearPersisted()
	s.notifyLocked()
	s.mu.Unlock()

	if !sess.HasTokens() {
		return Result{Success: true}
	}
	if err := s.svc.SignOut(ctx, sess.AccessToken); err != nil && !errors.Is(err, backend.ErrUnauthorized) {
		msg := errMessage(err, "Failed to sign out.")
		s.log.Warn("remote sign-out failed", zap.Error(err))
		s.setAppError(msg)
		return Result{Message: msg}
	}
	return Result{Success: true}
}

// UpdateProfile writes a partial profile change and reloads the profile.
func (s *Store) UpdateProfile(ctx context.Context, upd model.ProfileUpdate) Result {
	id, err := s.EnsureFresh(ctx)
	if err != nil || !id.Valid() {
		return Result{Message: MsgNotSignedIn}
	}

	err = s.svc.Update(ctx, id.Token, backend.TableProfiles, upd.Values(s.now()), backend.Eq("id", id.UserID))
	if err != nil {
		msg := errMessage(err, "Failed to update profile.")
		s.setAppError(msg)
		return Result{Message: msg}
	}
	if err := s.ReloadProfile(ctx); err != nil {
		return Result{Message: MsgProfileLoadFailed}
	}
	return Result{Success: true, Message: "Profile updated."}
}

// ReloadProfile re-reads the profile. On failure the previous profile is
// kept and the app error is set.
func (s *Store) ReloadProfile(ctx context.Context) error {
	s.mu.Lock()
	gen, sess := s.gen, s.sess
	authed := s.status == Authenticated
	s.mu.Unlock()
	if !authed || !sess.HasTokens() {
		return errors.New(MsgNotSignedIn)
	}

	p, err := s.fetchProfile(ctx, sess)
	if err == nil && p == nil {
		err = errors.New("profile row missing")
	}
	if err != nil {
		s.log.Error("profile reload failed", zap.Error(err))
		s.setAppError(MsgProfileLoadFailed)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen && s.status == Authenticated {
		s.profile = p
		s.notifyLocked()
	}
	return nil
}

// EnsureFresh refreshes the access token when it is near expiry and returns
// the identity to use. A failed refresh signs the user out.
func (s *Store) EnsureFresh(ctx context.Context) (pipeline.Identity, error) {
	s.mu.Lock()
	gen, sess := s.gen, s.sess
	authed := s.status == Authenticated
	s.mu.Unlock()

	if !authed || !sess.HasTokens() {
		return pipeline.Identity{}, nil
	}
	if !sess.Expired(s.now()) {
		return pipeline.Identity{UserID: sess.User.ID, Token: sess.AccessToken}, nil
	}

	next, err := s.svc.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		s.log.Warn("token refresh failed", zap.Error(err))
		s.fail(gen, MsgSessionExpired)
		return pipeline.Identity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return pipeline.Identity{}, errors.New(msgSuperseded)
	}
	s.sess = next
	if s.persist != nil {
		if err := s.persist.Save(next); err != nil {
			s.log.Warn("persisting refreshed session", zap.Error(err))
		}
	}
	return pipeline.Identity{UserID: next.User.ID, Token: next.AccessToken}, nil
}
