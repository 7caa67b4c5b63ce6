package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/theirongolddev/advisor/internal/backend"
)

// credentials is the body of signup and password-grant requests.
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authUser is the user object returned by GoTrue.
type authUser struct {
	ID         string            `json:"id"`
	Email      string            `json:"email"`
	Identities []json.RawMessage `json:"identities"`
}

// tokenResponse is a GoTrue session. When email confirmation is required,
// signup returns the bare user object instead, which lands in the embedded fields.
type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at"`
	User         *authUser `json:"user"`
	authUser
}

func (t *tokenResponse) session(now time.Time) (*backend.Session, error) {
	u := t.User
	if u == nil {
		u = &t.authUser
	}
	s := &backend.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		User:         backend.User{ID: u.ID, Email: u.Email},
	}

	switch {
	case t.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(t.ExpiresAt, 0)
	case t.ExpiresIn > 0:
		s.ExpiresAt = now.Add(time.Duration(t.ExpiresIn) * time.Second)
	}

	if s.AccessToken != "" && (s.User.ID == "" || s.ExpiresAt.IsZero()) {
		claims, err := backend.PeekClaims(s.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("supabase: decoding access token: %w", err)
		}
		if s.User.ID == "" {
			s.User = backend.User{ID: claims.Subject, Email: claims.Email}
		}
		if s.ExpiresAt.IsZero() && claims.ExpiresAt != nil {
			s.ExpiresAt = claims.ExpiresAt.Time
		}
	}
	if s.User.ID == "" {
		return nil, fmt.Errorf("supabase: auth response carried no user")
	}
	return s, nil
}

// SignUp registers a new identity.
func (c *Client) SignUp(ctx context.Context, email, password string) (*backend.Session, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body:   credentials{Email: email, Password: password},
	})
	if err != nil {
		return nil, err
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("supabase: parsing signup: %w", err)
	}

	// With email confirmation on, an existing address comes back as a user
	// with no identities instead of an error.
	u := tr.User
	if u == nil {
		u = &tr.authUser
	}
	if tr.AccessToken == "" && u.Identities != nil && len(u.Identities) == 0 {
		return nil, &backend.APIError{
			Status:  http.StatusUnprocessableEntity,
			Code:    "user_already_exists",
			Message: "User already registered",
			Err:     backend.ErrUserExists,
		}
	}
	return tr.session(time.Now())
}

// SignIn exchanges an email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*backend.Session, error) {
	return c.token(ctx, "password", credentials{Email: email, Password: password})
}

// Refresh exchanges a refresh token for a new session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*backend.Session, error) {
	return c.token(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

func (c *Client) token(ctx context.Context, grant string, payload any) (*backend.Session, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {grant}},
		body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("supabase: parsing token: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("supabase: token response carried no access token")
	}
	return tr.session(time.Now())
}

// SignOut revokes the session's refresh tokens.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		token:  accessToken,
	})
	return err
}
