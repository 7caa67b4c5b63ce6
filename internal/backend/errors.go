package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured indicates no backend URL or key was provided.
	ErrNotConfigured = errors.New("backend: not configured")
	// ErrUnauthorized indicates a missing, expired, or invalid access token.
	ErrUnauthorized = errors.New("backend: unauthorized")
	// ErrForbidden indicates the identity may not touch the requested rows.
	ErrForbidden = errors.New("backend: forbidden")
	// ErrNotFound indicates the table or resource does not exist.
	ErrNotFound = errors.New("backend: not found")
	// ErrRateLimited indicates the service throttled the request.
	ErrRateLimited = errors.New("backend: rate limited")
	// ErrInvalidCredentials indicates a wrong email or password.
	ErrInvalidCredentials = errors.New("backend: invalid login credentials")
	// ErrUserExists indicates the email is already registered.
	ErrUserExists = errors.New("backend: user already registered")
)

// APIError carries the service's own message alongside a sentinel.
type APIError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (status %d, code %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

// UserMessage returns a short message suitable for showing next to a form.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid login credentials"
	case errors.Is(err, ErrUserExists):
		return "User already registered"
	case errors.Is(err, ErrRateLimited):
		return "Too many requests. Try again in a moment."
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Sign in again."
	case errors.Is(err, ErrNotConfigured):
		return "No backend configured. Run `advisor setup`."
	}
	return err.Error()
}
