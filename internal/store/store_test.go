package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/advisor/internal/backend"
	"github.com/theirongolddev/advisor/internal/model"

	"github.com/shopspring/decimal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "advisor.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func signUp(t *testing.T, db *DB, email string) *backend.Session {
	t.Helper()
	sess, err := db.SignUp(context.Background(), email, "hunter22")
	if err != nil {
		t.Fatalf("SignUp(%s): %v", email, err)
	}
	return sess
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "advisor.db")
	first, err := Open(path, nil)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	secret := string(first.secret)
	_ = first.Close()

	second, err := Open(path, nil)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer func() { _ = second.Close() }()
	if string(second.secret) != secret {
		t.Fatal("signing secret changed across reopen")
	}
}

func TestSignUpAndSignIn(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	sess := signUp(t, db, "Ana@Example.com")
	if !sess.HasTokens() || sess.User.Email != "ana@example.com" {
		t.Fatalf("session = %+v", sess)
	}

	if _, err := db.SignUp(ctx, "ana@example.com", "another1"); !errors.Is(err, backend.ErrUserExists) {
		t.Fatalf("duplicate SignUp err = %v, want ErrUserExists", err)
	}
	if _, err := db.SignIn(ctx, "ana@example.com", "wrong-pw"); !errors.Is(err, backend.ErrInvalidCredentials) {
		t.Fatalf("bad password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := db.SignIn(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, backend.ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v, want ErrInvalidCredentials", err)
	}

	again, err := db.SignIn(ctx, "ANA@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if again.User.ID != sess.User.ID {
		t.Fatalf("user id = %s, want %s", again.User.ID, sess.User.ID)
	}
}

func TestSignUpValidation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	if _, err := db.SignUp(ctx, "not-an-email", "hunter22"); err == nil {
		t.Fatal("expected invalid email error")
	}
	if _, err := db.SignUp(ctx, "a@b.co", "123"); err == nil {
		t.Fatal("expected weak password error")
	}
}

func TestRefreshRotates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	sess := signUp(t, db, "r@example.com")

	next, err := db.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.RefreshToken == sess.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}
	if _, err := db.Refresh(ctx, sess.RefreshToken); !errors.Is(err, backend.ErrUnauthorized) {
		t.Fatalf("reused refresh token err = %v, want ErrUnauthorized", err)
	}

	if err := db.SignOut(ctx, next.AccessToken); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := db.Refresh(ctx, next.RefreshToken); !errors.Is(err, backend.ErrUnauthorized) {
		t.Fatalf("refresh after sign-out err = %v, want ErrUnauthorized", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	db := openTestDB(t)
	sess := signUp(t, db, "e@example.com")

	db.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	var rows []model.Transaction
	err := db.Select(context.Background(), sess.AccessToken, backend.From(backend.TableTransactions), &rows)
	if !errors.Is(err, backend.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestProfileInsertSelectUpdate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	sess := signUp(t, db, "p@example.com")

	if err := db.Insert(ctx, sess.AccessToken, backend.TableProfiles,
		model.DefaultProfile(sess.User.ID, sess.User.Email)); err != nil {
		t.Fatalf("Insert profile: %v", err)
	}
	if err := db.Insert(ctx, sess.AccessToken, backend.TableProfiles,
		model.DefaultProfile(sess.User.ID, sess.User.Email)); err == nil {
		t.Fatal("second profile insert should conflict")
	}

	name := "Priya Sharma"
	done := true
	upd := model.ProfileUpdate{FullName: &name, OnboardingCompleted: &done}
	if err := db.Update(ctx, sess.AccessToken, backend.TableProfiles,
		upd.Values(time.Now()), backend.Eq("id", sess.User.ID)); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var profiles []model.UserProfile
	q := backend.From(backend.TableProfiles).Eq("id", sess.User.ID)
	if err := db.Select(ctx, sess.AccessToken, q, &profiles); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("got %d profiles, want 1", len(profiles))
	}
	p := profiles[0]
	if p.DisplayName() != name || !p.OnboardingCompleted {
		t.Fatalf("profile = %+v", p)
	}
	if p.CoachPersona != model.PersonaChillFriend || p.FinancialHealthScore != 50 || p.StressSpender {
		t.Fatalf("defaults not applied: %+v", p)
	}
}

func TestRowsAreOwnerScoped(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	alice := signUp(t, db, "alice@example.com")
	bob := signUp(t, db, "bob@example.com")

	tx := model.TransactionInput{
		UserID:          alice.User.ID,
		Amount:          decimal.RequireFromString("120.50"),
		Category:        "Food",
		Description:     "groceries",
		TransactionDate: model.NewDate(time.Now()),
		TransactionType: model.TransactionExpense,
		DayOfWeek:       "Monday",
	}
	if err := db.Insert(ctx, alice.AccessToken, backend.TableTransactions, tx); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := db.Insert(ctx, bob.AccessToken, backend.TableTransactions, tx); !errors.Is(err, backend.ErrForbidden) {
		t.Fatalf("insert for another user err = %v, want ErrForbidden", err)
	}

	var rows []model.Transaction
	q := backend.From(backend.TableTransactions).Eq("user_id", alice.User.ID)
	if err := db.Select(ctx, bob.AccessToken, q, &rows); err != nil {
		t.Fatalf("Select as bob: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("bob sees %d of alice's rows", len(rows))
	}

	if err := db.Select(ctx, alice.AccessToken, q, &rows); err != nil {
		t.Fatalf("Select as alice: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	got := rows[0]
	if !got.Amount.Equal(decimal.RequireFromString("120.5")) || got.ID == "" || got.CreatedAt.IsZero() {
		t.Fatalf("row = %+v", got)
	}
	if got.DayOfWeek == nil || *got.DayOfWeek != "Monday" {
		t.Fatalf("day_of_week = %v", got.DayOfWeek)
	}
}

func TestSelectFiltersOrderLimit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	sess := signUp(t, db, "f@example.com")

	for i, day := range []string{"2026-09-30", "2026-10-02", "2026-10-05", "2026-10-03"} {
		d, _ := model.ParseDate(day)
		typ := model.TransactionExpense
		if i%2 == 1 {
			typ = model.TransactionIncome
		}
		err := db.Insert(ctx, sess.AccessToken, backend.TableTransactions, model.TransactionInput{
			Amount:          decimal.NewFromInt(int64(10 * (i + 1))),
			Category:        "Other",
			Description:     day,
			TransactionDate: d,
			TransactionType: typ,
		})
		if err != nil {
			t.Fatalf("Insert %s: %v", day, err)
		}
	}

	var rows []model.Transaction
	q := backend.From(backend.TableTransactions).
		Eq("user_id", sess.User.ID).
		Gte("transaction_date", "2026-10-01").
		OrderBy("transaction_date", true).
		WithLimit(2)
	if err := db.Select(ctx, sess.AccessToken, q, &rows); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].TransactionDate.String() != "2026-10-05" || rows[1].TransactionDate.String() != "2026-10-03" {
		t.Fatalf("order = %s, %s", rows[0].TransactionDate, rows[1].TransactionDate)
	}

	var partial []struct {
		Amount          decimal.Decimal       `json:"amount"`
		TransactionType model.TransactionType `json:"transaction_type"`
	}
	q = backend.From(backend.TableTransactions).Select("amount", "transaction_type").Eq("user_id", sess.User.ID)
	if err := db.Select(ctx, sess.AccessToken, q, &partial); err != nil {
		t.Fatalf("Select columns: %v", err)
	}
	if len(partial) != 4 {
		t.Fatalf("got %d rows, want 4", len(partial))
	}

	if err := db.Select(ctx, sess.AccessToken, backend.From(backend.TableTransactions).Select("password"), &partial); err == nil {
		t.Fatal("unknown column should be rejected")
	}
	if err := db.Select(ctx, sess.AccessToken, backend.From("auth_users"), &partial); !errors.Is(err, backend.ErrNotFound) {
		t.Fatalf("non-row table err = %v, want ErrNotFound", err)
	}
}

func TestBooleanFilter(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	sess := signUp(t, db, "g@example.com")

	target, _ := model.ParseDate("2027-01-01")
	for _, active := range []bool{true, false} {
		err := db.Insert(ctx, sess.AccessToken, backend.TableGoals, map[string]any{
			"title":         "goal",
			"target_amount": "1000",
			"target_date":   target,
			"category":      string(model.GoalSavings),
			"is_active":     active,
		})
		if err != nil {
			t.Fatalf("Insert goal: %v", err)
		}
	}

	var goals []model.FinancialGoal
	q := backend.From(backend.TableGoals).Eq("user_id", sess.User.ID).Eq("is_active", true)
	if err := db.Select(ctx, sess.AccessToken, q, &goals); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(goals) != 1 || !goals[0].IsActive {
		t.Fatalf("goals = %+v", goals)
	}
	if !goals[0].CurrentAmount.IsZero() {
		t.Fatalf("current_amount = %s, want 0", goals[0].CurrentAmount)
	}
}

func TestSessionPersistence(t *testing.T) {
	db := openTestDB(t)
	sessions := db.Sessions("local")

	got, err := sessions.Load()
	if err != nil || got != nil {
		t.Fatalf("empty Load = %v, %v", got, err)
	}

	want := &backend.Session{
		AccessToken:  "at",
		RefreshToken: "rt",
		ExpiresAt:    time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		User:         backend.User{ID: "u1", Email: "a@b.co"},
	}
	if err := sessions.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = sessions.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.AccessToken != "at" || got.User.ID != "u1" || !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Fatalf("Load = %+v", got)
	}

	if other, _ := db.Sessions("supabase").Load(); other != nil {
		t.Fatal("session leaked across backends")
	}

	if err := sessions.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got, _ := sessions.Load(); got != nil {
		t.Fatal("session survived Clear")
	}
}
