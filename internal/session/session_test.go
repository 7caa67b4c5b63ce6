package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/advisor/internal/backend"
	"github.com/theirongolddev/advisor/internal/model"
)

// fakeService is an in-memory backend.Service with failure hooks.
type fakeService struct {
	mu           sync.Mutex
	profiles     map[string]model.UserProfile
	users        map[string]string // email -> id
	noConfirm    bool
	failSelect   error
	failInsert   error
	failSignOut  error
	failRefresh  error
	signInGate   chan struct{}
	refreshCalls int
	expiresAt    time.Time
	updates      []map[string]any
}

func newFake() *fakeService {
	return &fakeService{
		profiles:  make(map[string]model.UserProfile),
		users:     make(map[string]string),
		expiresAt: time.Now().Add(time.Hour),
	}
}

func (f *fakeService) Name() string { return "fake" }

func (f *fakeService) session(id, email string) *backend.Session {
	return &backend.Session{
		AccessToken:  "access-" + id,
		RefreshToken: "refresh-" + id,
		ExpiresAt:    f.expiresAt,
		User:         backend.User{ID: id, Email: email},
	}
}

func (f *fakeService) SignUp(_ context.Context, email, _ string) (*backend.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[email]; ok {
		return nil, &backend.APIError{Status: 422, Code: "user_already_exists", Message: "User already registered", Err: backend.ErrUserExists}
	}
	id := "u" + email
	f.users[email] = id
	if f.noConfirm {
		return &backend.Session{User: backend.User{ID: id, Email: email}}, nil
	}
	return f.session(id, email), nil
}

func (f *fakeService) SignIn(_ context.Context, email, _ string) (*backend.Session, error) {
	if f.signInGate != nil {
		<-f.signInGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.users[email]
	if !ok {
		return nil, backend.ErrInvalidCredentials
	}
	return f.session(id, email), nil
}

func (f *fakeService) Refresh(_ context.Context, token string) (*backend.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	if f.failRefresh != nil {
		return nil, f.failRefresh
	}
	for email, id := range f.users {
		if "refresh-"+id == token {
			s := f.session(id, email)
			s.ExpiresAt = time.Now().Add(time.Hour)
			return s, nil
		}
	}
	return nil, backend.ErrUnauthorized
}

func (f *fakeService) SignOut(context.Context, string) error { return f.failSignOut }

func (f *fakeService) Select(_ context.Context, _ string, q backend.Query, dest any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSelect != nil {
		return f.failSelect
	}
	id, _ := q.Owner("id")
	out := dest.(*[]model.UserProfile)
	if p, ok := f.profiles[id]; ok {
		*out = append(*out, p)
	}
	return nil
}

func (f *fakeService) Insert(_ context.Context, _, _ string, row any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert != nil {
		return f.failInsert
	}
	np := row.(model.NewProfile)
	f.profiles[np.ID] = model.UserProfile{
		ID:                   np.ID,
		Email:                np.Email,
		CoachPersona:         np.CoachPersona,
		FinancialHealthScore: np.FinancialHealthScore,
	}
	return nil
}

func (f *fakeService) Update(_ context.Context, _, _ string, values map[string]any, filters ...backend.Filter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, values)
	id := filters[0].Value.(string)
	p := f.profiles[id]
	if v, ok := values["full_name"].(string); ok {
		p.FullName = &v
	}
	if v, ok := values["onboarding_completed"].(bool); ok {
		p.OnboardingCompleted = v
	}
	f.profiles[id] = p
	return nil
}

// memPersister keeps a session in memory.
type memPersister struct {
	sess *backend.Session
}

func (m *memPersister) Save(s *backend.Session) error   { m.sess = s; return nil }
func (m *memPersister) Load() (*backend.Session, error) { return m.sess, nil }
func (m *memPersister) Clear() error                    { m.sess = nil; return nil }

func TestSignUpCreatesProfile(t *testing.T) {
	svc := newFake()
	persist := &memPersister{}
	s := New(svc, persist, nil)

	res := s.SignUp(context.Background(), "ana@example.com", "secret1")
	if !res.Success {
		t.Fatalf("SignUp = %+v, want success", res)
	}
	snap := s.Snapshot()
	if snap.Status != Authenticated {
		t.Fatalf("status = %v, want authenticated", snap.Status)
	}
	if snap.Profile == nil || snap.Profile.CoachPersona != model.PersonaChillFriend {
		t.Fatalf("profile = %+v, want default profile", snap.Profile)
	}
	if !snap.NeedsOnboarding() {
		t.Error("new profile should need onboarding")
	}
	if persist.sess == nil {
		t.Error("session was not persisted")
	}
}

func TestSignUpDuplicateLeavesNoProfile(t *testing.T) {
	svc := newFake()
	s := New(svc, nil, nil)
	ctx := context.Background()

	s.SignUp(ctx, "ana@example.com", "secret1")
	s.SignOut(ctx)
	before := len(svc.profiles)

	res := s.SignUp(ctx, "ana@example.com", "secret1")
	if res.Success || res.Message == "" {
		t.Fatalf("duplicate SignUp = %+v, want failure with message", res)
	}
	if len(svc.profiles) != before {
		t.Errorf("profiles = %d, want %d", len(svc.profiles), before)
	}
	if got := s.Snapshot().Status; got != Unauthenticated {
		t.Errorf("status = %v, want unauthenticated", got)
	}
}

func TestSignUpAwaitingConfirmation(t *testing.T) {
	svc := newFake()
	svc.noConfirm = true
	s := New(svc, nil, nil)

	res := s.SignUp(context.Background(), "ana@example.com", "secret1")
	if !res.Success || res.Message != MsgConfirmEmail {
		t.Fatalf("SignUp = %+v, want confirmation notice", res)
	}
	if len(svc.profiles) != 0 {
		t.Error("profile created before confirmation")
	}
	if got := s.Snapshot().Status; got != Unauthenticated {
		t.Errorf("status = %v, want unauthenticated", got)
	}
}

func TestSignUpProfileInsertFailure(t *testing.T) {
	svc := newFake()
	svc.failInsert = errors.New("insert refused")
	s := New(svc, nil, nil)

	res := s.SignUp(context.Background(), "ana@example.com", "secret1")
	if res.Success {
		t.Fatal("SignUp succeeded despite profile insert failure")
	}
	snap := s.Snapshot()
	if snap.Status != Unauthenticated || snap.User != nil {
		t.Fatalf("snapshot = %+v, want unauthenticated", snap)
	}
}

func TestSignInInvalidCredentials(t *testing.T) {
	s := New(newFake(), nil, nil)
	res := s.SignIn(context.Background(), "nobody@example.com", "secret1")
	if res.Success {
		t.Fatal("SignIn succeeded for unknown user")
	}
	if res.Message != "Invalid login credentials" {
		t.Errorf("message = %q", res.Message)
	}
}

func TestSignInCreatesMissingProfile(t *testing.T) {
	svc := newFake()
	svc.users["ana@example.com"] = "u1"
	s := New(svc, nil, nil)

	res := s.SignIn(context.Background(), "ana@example.com", "secret1")
	if !res.Success {
		t.Fatalf("SignIn = %+v", res)
	}
	if _, ok := svc.profiles["u1"]; !ok {
		t.Error("missing profile was not created")
	}
	if s.Snapshot().Profile == nil {
		t.Error("authenticated without a profile")
	}
}

func TestProfileLoadFailureSignsOut(t *testing.T) {
	svc := newFake()
	svc.users["ana@example.com"] = "u1"
	svc.failSelect = errors.New("connection reset")
	persist := &memPersister{}
	s := New(svc, persist, nil)

	res := s.SignIn(context.Background(), "ana@example.com", "secret1")
	if res.Success {
		t.Fatal("SignIn succeeded without a profile")
	}
	snap := s.Snapshot()
	if snap.Status != Unauthenticated {
		t.Errorf("status = %v, want unauthenticated", snap.Status)
	}
	if snap.AppError != MsgProfileLoadFailed {
		t.Errorf("app error = %q, want %q", snap.AppError, MsgProfileLoadFailed)
	}
	if persist.sess != nil {
		t.Error("persisted session survived profile failure")
	}
	if id := s.Identity(); id.Valid() {
		t.Errorf("identity = %+v, want zero", id)
	}
}

func TestSignOutDuringSignInDropsResult(t *testing.T) {
	svc := newFake()
	svc.users["ana@example.com"] = "u1"
	svc.signInGate = make(chan struct{})
	s := New(svc, nil, nil)

	done := make(chan Result)
	go func() { done <- s.SignIn(context.Background(), "ana@example.com", "secret1") }()

	// Wait for the sign-in to enter the loading state.
	deadline := time.Now().Add(2 * time.Second)
	for s.Snapshot().Status != Loading {
		if time.Now().After(deadline) {
			t.Fatal("sign-in never started")
		}
		time.Sleep(time.Millisecond)
	}

	s.SignOut(context.Background())
	close(svc.signInGate)
	res := <-done

	if res.Success {
		t.Error("superseded sign-in reported success")
	}
	if got := s.Snapshot().Status; got != Unauthenticated {
		t.Errorf("status = %v, want unauthenticated", got)
	}
}

func TestSignOutRemoteFailureStillClears(t *testing.T) {
	svc := newFake()
	s := New(svc, nil, nil)
	ctx := context.Background()
	s.SignUp(ctx, "ana@example.com", "secret1")

	svc.failSignOut = errors.New("network down")
	res := s.SignOut(ctx)
	if res.Success {
		t.Error("SignOut reported success despite remote failure")
	}
	snap := s.Snapshot()
	if snap.Status != Unauthenticated {
		t.Errorf("status = %v, want unauthenticated", snap.Status)
	}
	if snap.AppError == "" {
		t.Error("app error not set")
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := newFake()
	s := New(svc, nil, nil)
	ctx := context.Background()

	if res := s.UpdateProfile(ctx, model.ProfileUpdate{}); res.Success || res.Message != MsgNotSignedIn {
		t.Fatalf("UpdateProfile signed out = %+v", res)
	}

	s.SignUp(ctx, "ana@example.com", "secret1")
	name, done := "Ana Lima", true
	res := s.UpdateProfile(ctx, model.ProfileUpdate{FullName: &name, OnboardingCompleted: &done})
	if !res.Success {
		t.Fatalf("UpdateProfile = %+v", res)
	}
	snap := s.Snapshot()
	if snap.Profile.DisplayName() != name || snap.NeedsOnboarding() {
		t.Errorf("profile = %+v", snap.Profile)
	}
	if _, ok := svc.updates[0]["updated_at"]; !ok {
		t.Error("update missing updated_at")
	}
}

func TestInitRestoresAndRefreshes(t *testing.T) {
	svc := newFake()
	svc.users["ana@example.com"] = "u1"
	persist := &memPersister{sess: &backend.Session{
		AccessToken:  "stale",
		RefreshToken: "refresh-u1",
		ExpiresAt:    time.Now().Add(-time.Minute),
		User:         backend.User{ID: "u1", Email: "ana@example.com"},
	}}
	s := New(svc, persist, nil)
	s.Init(context.Background())

	if svc.refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want 1", svc.refreshCalls)
	}
	if got := s.Snapshot().Status; got != Authenticated {
		t.Fatalf("status = %v, want authenticated", got)
	}
	if persist.sess.AccessToken != "access-u1" {
		t.Errorf("persisted token = %q, want refreshed", persist.sess.AccessToken)
	}
}

func TestInitRefreshFailure(t *testing.T) {
	svc := newFake()
	svc.failRefresh = backend.ErrUnauthorized
	persist := &memPersister{sess: &backend.Session{
		AccessToken:  "stale",
		RefreshToken: "gone",
		ExpiresAt:    time.Now().Add(-time.Minute),
		User:         backend.User{ID: "u1"},
	}}
	s := New(svc, persist, nil)
	s.Init(context.Background())

	if got := s.Snapshot().Status; got != Unauthenticated {
		t.Errorf("status = %v, want unauthenticated", got)
	}
	if persist.sess != nil {
		t.Error("stale session not cleared")
	}
}

func TestEnsureFreshRefreshesNearExpiry(t *testing.T) {
	svc := newFake()
	svc.expiresAt = time.Now().Add(10 * time.Second)
	s := New(svc, nil, nil)
	ctx := context.Background()
	s.SignUp(ctx, "ana@example.com", "secret1")

	id, err := s.EnsureFresh(ctx)
	if err != nil {
		t.Fatalf("EnsureFresh: %v", err)
	}
	if !id.Valid() || svc.refreshCalls != 1 {
		t.Errorf("identity = %+v, refresh calls = %d", id, svc.refreshCalls)
	}
}

func TestSubscribeReceivesLatest(t *testing.T) {
	s := New(newFake(), nil, nil)
	ch, cancel := s.Subscribe()
	defer cancel()

	s.SignUp(context.Background(), "ana@example.com", "secret1")

	snap := <-ch
	if snap.Status != Authenticated {
		t.Errorf("latest snapshot status = %v, want authenticated", snap.Status)
	}
}
