package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/advisor/internal/backend"
)

// SessionStore persists the signed-in session for one backend between runs.
type SessionStore struct {
	db      *DB
	backend string
}

// Sessions returns the session persister for the named backend.
func (s *DB) Sessions(backendName string) *SessionStore {
	return &SessionStore{db: s, backend: backendName}
}

// Save replaces the persisted session.
func (p *SessionStore) Save(sess *backend.Session) error {
	if sess == nil {
		return p.Clear()
	}
	expires := ""
	if !sess.ExpiresAt.IsZero() {
		expires = sess.ExpiresAt.UTC().Format(time.RFC3339)
	}
	_, err := p.db.db.Exec(`INSERT OR REPLACE INTO saved_session
		(id, backend, access_token, refresh_token, expires_at, user_id, email, saved_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)`,
		p.backend, sess.AccessToken, sess.RefreshToken, expires,
		sess.User.ID, sess.User.Email, p.db.timestamp())
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load returns the persisted session, or nil when none was saved for this backend.
func (p *SessionStore) Load() (*backend.Session, error) {
	var (
		sess    backend.Session
		name    string
		expires sql.NullString
	)
	err := p.db.db.QueryRow(`SELECT backend, access_token, refresh_token, expires_at, user_id, email
		FROM saved_session WHERE id = 1`).Scan(
		&name, &sess.AccessToken, &sess.RefreshToken, &expires, &sess.User.ID, &sess.User.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if name != p.backend {
		return nil, nil
	}
	if expires.Valid && expires.String != "" {
		if t, err := time.Parse(time.RFC3339, expires.String); err == nil {
			sess.ExpiresAt = t
		}
	}
	return &sess, nil
}

// Clear removes the persisted session.
func (p *SessionStore) Clear() error {
	if _, err := p.db.db.Exec("DELETE FROM saved_session"); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
