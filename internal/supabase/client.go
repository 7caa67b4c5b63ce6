// Package supabase implements backend.Service against a hosted Supabase
// project: GoTrue for auth and PostgREST for rows.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/advisor/internal/backend"

	"go.uber.org/zap"
)

const (
	requestTimeout = 15 * time.Second
	maxBodySize    = 4 << 20 // 4 MB
	userAgent      = "github.com/theirongolddev/advisor/1.0"
)

// Client talks to one Supabase project.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
	log     *zap.Logger
}

var _ backend.Service = (*Client)(nil)

// NewClient creates a client for the project at baseURL.
func NewClient(baseURL, anonKey string, log *zap.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	anonKey = strings.TrimSpace(anonKey)
	if baseURL == "" || anonKey == "" {
		return nil, backend.ErrNotConfigured
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("supabase: invalid project URL %q", baseURL)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		http:    &http.Client{},
		log:     log.Named("supabase"),
	}, nil
}

// Name implements backend.Service.
func (c *Client) Name() string { return "supabase" }

// request is one call against the project.
type request struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any
	prefer string
}

// do performs the request and returns the response body.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("supabase: encoding request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("supabase: creating request: %w", err)
	}

	token := r.token
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.prefer != "" {
		req.Header.Set("Prefer", r.prefer)
	}

	start := time.Now()
	//nolint:gosec // URL is built from the configured project URL
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("supabase: reading response: %w", err)
	}

	c.log.Debug("request",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp.StatusCode, raw)
	}
	return raw, nil
}

// errorBody covers both GoTrue and PostgREST error shapes.
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
}

// decodeError maps a failed response onto an *backend.APIError.
func decodeError(status int, raw []byte) error {
	var eb errorBody
	_ = json.Unmarshal(raw, &eb)

	code := eb.ErrorCode
	if code == "" && len(eb.Code) > 0 {
		var s string
		if json.Unmarshal(eb.Code, &s) == nil {
			code = s
		}
	}
	if code == "" {
		code = eb.Error
	}

	msg := firstNonEmpty(eb.Msg, eb.ErrorDescription, eb.Message, eb.Error)
	if msg == "" {
		msg = http.StatusText(status)
	}

	apiErr := &backend.APIError{Status: status, Code: code, Message: msg}
	lower := strings.ToLower(msg)
	switch {
	case code == "user_already_exists" || code == "email_exists" || strings.Contains(lower, "already registered"):
		apiErr.Err = backend.ErrUserExists
	case code == "invalid_credentials" || code == "invalid_grant":
		apiErr.Err = backend.ErrInvalidCredentials
	case status == http.StatusTooManyRequests || code == "over_request_rate_limit" || code == "over_email_send_rate_limit":
		apiErr.Err = backend.ErrRateLimited
	case status == http.StatusUnauthorized:
		apiErr.Err = backend.ErrUnauthorized
	case status == http.StatusForbidden || code == "42501":
		apiErr.Err = backend.ErrForbidden
	case status == http.StatusNotFound:
		apiErr.Err = backend.ErrNotFound
	default:
		apiErr.Err = errors.New("supabase: unexpected status " + strconv.Itoa(status))
	}
	return apiErr
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
