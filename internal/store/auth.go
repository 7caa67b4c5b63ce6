package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/theirongolddev/advisor/internal/backend"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var errInvalidLogin = &backend.APIError{
	Status:  http.StatusBadRequest,
	Code:    "invalid_credentials",
	Message: "Invalid login credentials",
	Err:     backend.ErrInvalidCredentials,
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates a local identity and returns a signed-in session.
func (s *DB) SignUp(ctx context.Context, email, password string) (*backend.Session, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &backend.APIError{
			Status:  http.StatusBadRequest,
			Code:    "validation_failed",
			Message: "Unable to validate email address: invalid format",
			Err:     fmt.Errorf("store: invalid email %q", email),
		}
	}
	if len(password) < minPasswordLength {
		return nil, &backend.APIError{
			Status:  http.StatusUnprocessableEntity,
			Code:    "weak_password",
			Message: fmt.Sprintf("Password should be at least %d characters.", minPasswordLength),
			Err:     errors.New("store: weak password"),
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO auth_users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		id, email, string(hash), s.timestamp())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &backend.APIError{
				Status:  http.StatusUnprocessableEntity,
				Code:    "user_already_exists",
				Message: "User already registered",
				Err:     backend.ErrUserExists,
			}
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.log.Info("user created", zapUser(id))
	return s.issue(ctx, backend.User{ID: id, Email: email})
}

// SignIn checks the password and returns a new session.
func (s *DB) SignIn(ctx context.Context, email, password string) (*backend.Session, error) {
	email = normalizeEmail(email)

	var id, hash string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, password_hash FROM auth_users WHERE email = ?", email).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errInvalidLogin
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, errInvalidLogin
	}
	return s.issue(ctx, backend.User{ID: id, Email: email})
}

// Refresh rotates a refresh token.
func (s *DB) Refresh(ctx context.Context, refreshToken string) (*backend.Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var user backend.User
	err = tx.QueryRowContext(ctx, `SELECT u.id, u.email FROM refresh_tokens r
		JOIN auth_users u ON u.id = r.user_id
		WHERE r.token = ? AND r.revoked = 0`, refreshToken).Scan(&user.ID, &user.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &backend.APIError{
			Status:  http.StatusBadRequest,
			Code:    "refresh_token_not_found",
			Message: "Invalid Refresh Token: Refresh Token Not Found",
			Err:     backend.ErrUnauthorized,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("looking up refresh token: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE refresh_tokens SET revoked = 1 WHERE token = ?", refreshToken); err != nil {
		return nil, fmt.Errorf("revoking refresh token: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

// SignOut revokes every refresh token of the token's identity.
func (s *DB) SignOut(ctx context.Context, accessToken string) error {
	claims, err := s.parse(accessToken, true)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, "UPDATE refresh_tokens SET revoked = 1 WHERE user_id = ?", claims.Subject)
	if err != nil {
		return fmt.Errorf("revoking refresh tokens: %w", err)
	}
	return nil
}

// issue mints an access token and a refresh token for user.
func (s *DB) issue(ctx context.Context, user backend.User) (*backend.Session, error) {
	now := s.now()
	expires := now.Add(tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, backend.Claims{
		Email: user.Email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}

	refresh := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO refresh_tokens (token, user_id, created_at) VALUES (?, ?, ?)",
		refresh, user.ID, s.timestamp())
	if err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}

	return &backend.Session{
		AccessToken:  signed,
		RefreshToken: refresh,
		ExpiresAt:    jwt.NewNumericDate(expires).Time,
		User:         user,
	}, nil
}

// parse verifies an access token. allowExpired skips the expiry check.
func (s *DB) parse(accessToken string, allowExpired bool) (*backend.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(jwtIssuer),
		jwt.WithTimeFunc(s.now),
	}
	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &backend.Claims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || claims.Subject == "" {
		msg := "invalid JWT"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "JWT expired"
		}
		return nil, &backend.APIError{
			Status:  http.StatusUnauthorized,
			Code:    "PGRST301",
			Message: msg,
			Err:     backend.ErrUnauthorized,
		}
	}
	return claims, nil
}

// authorize returns the identity that owns the token.
func (s *DB) authorize(token string) (string, error) {
	claims, err := s.parse(token, false)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isCheckViolation(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "CHECK constraint failed") ||
		strings.Contains(err.Error(), "NOT NULL constraint failed"))
}
