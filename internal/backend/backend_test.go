package backend

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

func TestQueryBuilderDoesNotAlias(t *testing.T) {
	base := From(TableTransactions).Eq("user_id", "u1")
	a := base.OrderBy("transaction_date", true).WithLimit(50)
	b := base.Gte("transaction_date", "2026-10-01")

	if len(base.Filters) != 1 || len(base.Orders) != 0 || base.Limit != 0 {
		t.Fatalf("base query mutated: %+v", base)
	}
	if len(a.Filters) != 1 || len(a.Orders) != 1 || a.Limit != 50 {
		t.Fatalf("a = %+v", a)
	}
	if len(b.Filters) != 2 || b.Filters[1].Op != OpGte {
		t.Fatalf("b = %+v", b)
	}
}

func TestQueryOwner(t *testing.T) {
	q := From(TableGoals).Eq("user_id", "abc").Eq("is_active", true)
	got, ok := q.Owner("user_id")
	if !ok || got != "abc" {
		t.Fatalf("Owner = %q, %v; want abc, true", got, ok)
	}
	if _, ok := From(TableGoals).Owner("user_id"); ok {
		t.Fatal("Owner on unfiltered query should be false")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"x", "x"},
		{true, "true"},
		{42, "42"},
		{1.5, "1.5"},
		{decimal.RequireFromString("12.30"), "12.3"},
		{nil, "null"},
		{time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), "2026-01-02T03:04:05Z"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s := &Session{AccessToken: "t", ExpiresAt: now.Add(time.Hour)}
	if s.Expired(now) {
		t.Fatal("session expiring in an hour reported expired")
	}
	s.ExpiresAt = now.Add(10 * time.Second)
	if !s.Expired(now) {
		t.Fatal("session inside the refresh margin should be expired")
	}
	var nilSession *Session
	if nilSession.HasTokens() {
		t.Fatal("nil session has no tokens")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(fmt.Errorf("signing in: %w", ErrInvalidCredentials)); got != "Invalid login credentials" {
		t.Fatalf("UserMessage = %q", got)
	}
	apiErr := &APIError{Status: 422, Message: "User already registered", Err: ErrUserExists}
	if got := UserMessage(apiErr); got != "User already registered" {
		t.Fatalf("UserMessage(APIError) = %q", got)
	}
	if !errors.Is(apiErr, ErrUserExists) {
		t.Fatal("APIError should unwrap to its sentinel")
	}
	if UserMessage(nil) != "" {
		t.Fatal("UserMessage(nil) should be empty")
	}
}

func TestPeekClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: "a@b.co",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	claims, err := PeekClaims(signed)
	if err != nil {
		t.Fatalf("PeekClaims: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "a@b.co" {
		t.Fatalf("claims = %+v", claims)
	}
	if !claims.ExpiresAt.Time.Equal(exp) {
		t.Fatalf("exp = %v, want %v", claims.ExpiresAt.Time, exp)
	}
}
