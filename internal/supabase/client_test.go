package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/theirongolddev/advisor/internal/backend"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, "anon-key", nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRequiresConfig(t *testing.T) {
	if _, err := NewClient("", "key", nil); !errors.Is(err, backend.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
	if _, err := NewClient("not a url", "key", nil); err == nil {
		t.Fatal("expected error for invalid URL")
	}
}

func TestSelectEncodesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/transactions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("select"); got != "amount,transaction_type" {
			t.Errorf("select = %q", got)
		}
		if got := q.Get("user_id"); got != "eq.u1" {
			t.Errorf("user_id = %q", got)
		}
		if got := q.Get("transaction_date"); got != "gte.2026-10-01" {
			t.Errorf("transaction_date = %q", got)
		}
		if got := q.Get("order"); got != "transaction_date.desc" {
			t.Errorf("order = %q", got)
		}
		if got := q.Get("limit"); got != "50" {
			t.Errorf("limit = %q", got)
		}
		if got := r.Header.Get("apikey"); got != "anon-key" {
			t.Errorf("apikey = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer user-token" {
			t.Errorf("Authorization = %q", got)
		}
		_, _ = io.WriteString(w, `[{"amount":"12.50","transaction_type":"expense"}]`)
	})

	q := backend.From(backend.TableTransactions).
		Select("amount", "transaction_type").
		Eq("user_id", "u1").
		Gte("transaction_date", "2026-10-01").
		OrderBy("transaction_date", true).
		WithLimit(50)

	var rows []struct {
		Amount          string `json:"amount"`
		TransactionType string `json:"transaction_type"`
	}
	if err := c.Select(context.Background(), "user-token", q, &rows); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 1 || rows[0].Amount != "12.50" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestInsertAndUpdate(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.RawQuery)
		if got := r.Header.Get("Prefer"); got != "return=minimal" {
			t.Errorf("Prefer = %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := context.Background()
	if err := c.Insert(ctx, "tok", backend.TableTransactions, map[string]any{"amount": 1}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := c.Update(ctx, "tok", backend.TableProfiles, map[string]any{"full_name": "A"}, backend.Eq("id", "u1")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(calls) != 2 || calls[0] != "POST " || calls[1] != "PATCH id=eq.u1" {
		t.Fatalf("calls = %v", calls)
	}

	if err := c.Update(ctx, "tok", backend.TableProfiles, map[string]any{"x": 1}); err == nil {
		t.Fatal("unfiltered update should be refused")
	}
}

func TestSignInSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request %s", r.URL)
		}
		_, _ = io.WriteString(w, `{
			"access_token":"at","refresh_token":"rt","expires_in":3600,
			"user":{"id":"u1","email":"a@b.co"}}`)
	})

	before := time.Now()
	s, err := c.SignIn(context.Background(), "a@b.co", "pw")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if s.AccessToken != "at" || s.RefreshToken != "rt" || s.User.ID != "u1" {
		t.Fatalf("session = %+v", s)
	}
	if s.ExpiresAt.Before(before.Add(59 * time.Minute)) {
		t.Fatalf("ExpiresAt = %v, want about an hour out", s.ExpiresAt)
	}
}

func TestAuthErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"bad password", 400, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, backend.ErrInvalidCredentials},
		{"new style bad password", 400, `{"code":400,"error_code":"invalid_credentials","msg":"Invalid login credentials"}`, backend.ErrInvalidCredentials},
		{"duplicate", 422, `{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`, backend.ErrUserExists},
		{"rate limited", 429, `{"msg":"slow down"}`, backend.ErrRateLimited},
		{"expired jwt", 401, `{"code":"PGRST301","message":"JWT expired"}`, backend.ErrUnauthorized},
		{"rls", 403, `{"code":"42501","message":"new row violates row-level security policy"}`, backend.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := c.SignIn(context.Background(), "a@b.co", "pw")
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var apiErr *backend.APIError
			if !errors.As(err, &apiErr) || apiErr.Message == "" {
				t.Fatalf("expected APIError with message, got %v", err)
			}
		})
	}
}

func TestSignUpConfirmationRequired(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"id":"u2","email":"new@b.co","identities":[{"id":"x"}]}`)
	})
	s, err := c.SignUp(context.Background(), "new@b.co", "pw")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if s.HasTokens() {
		t.Fatal("confirmation-pending signup should carry no tokens")
	}
	if s.User.ID != "u2" {
		t.Fatalf("user = %+v", s.User)
	}
}

func TestSignUpObfuscatedDuplicate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"id":"u3","email":"dup@b.co","identities":[]}`)
	})
	_, err := c.SignUp(context.Background(), "dup@b.co", "pw")
	if !errors.Is(err, backend.ErrUserExists) {
		t.Fatalf("err = %v, want ErrUserExists", err)
	}
}
