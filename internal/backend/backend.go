// Package backend defines the data-service contract shared by the hosted
// Supabase client and the local sqlite store.
package backend

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Table names.
const (
	TableProfiles     = "user_profiles"
	TableTransactions = "transactions"
	TableGoals        = "financial_goals"
	TableChallenges   = "challenges"
	TableBadges       = "badges"
	TableInsights     = "insights"
)

// Tables lists every table in creation order.
var Tables = []string{
	TableProfiles, TableTransactions, TableGoals,
	TableChallenges, TableBadges, TableInsights,
}

// Auth creates and manages identities.
type Auth interface {
	// SignUp registers an identity. The returned session carries no tokens
	// when the service requires email confirmation first.
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Rows reads and writes table rows on behalf of the token's identity.
type Rows interface {
	// Select decodes matching rows into dest, which must be a pointer to a slice.
	Select(ctx context.Context, token string, q Query, dest any) error
	Insert(ctx context.Context, token, table string, row any) error
	Update(ctx context.Context, token, table string, values map[string]any, filters ...Filter) error
}

// Service is a complete data service.
type Service interface {
	Auth
	Rows
	Name() string
}

// User is the identity attached to a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session holds the tokens for a signed-in identity.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// expiryMargin refreshes tokens slightly before they lapse.
const expiryMargin = 30 * time.Second

// HasTokens reports whether the session can authorize requests.
func (s *Session) HasTokens() bool {
	return s != nil && s.AccessToken != ""
}

// Expired reports whether the access token is at or near expiry.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(expiryMargin).Before(s.ExpiresAt)
}

// Claims are the access-token claims issued by Supabase auth.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// PeekClaims decodes token claims without verifying the signature.
// Used only to read identity and expiry from tokens the client already holds.
func PeekClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
