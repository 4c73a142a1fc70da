package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// TokenSource supplies the current bearer credential at call time.
// Reading the token per request, instead of mutating shared client
// defaults, is what prevents a stale header outliving a session.
type TokenSource interface {
	Token() string
}

// Client is the HTTP client for the workout tracking backend. All
// domain-specific calls (auth, machines, workouts, ...) are methods on
// it, defined in the sibling files of this package.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	deviceID       string
	onUnauthorized func()
	log            zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithDeviceID attaches a stable device identifier to every request.
func WithDeviceID(id string) Option {
	return func(c *Client) { c.deviceID = id }
}

// WithLogger sets the logger used for request-level debug logging.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithHTTPClient replaces the underlying http.Client (used in tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a backend client rooted at baseURL. tokens may be
// nil for a client that only performs credential exchanges.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetUnauthorizedHook registers the callback invoked when an authorized
// request is rejected with 401. The hook runs synchronously within the
// failing call; de-duplication of concurrent triggers is the hook
// owner's responsibility (the session manager keeps a one-shot guard).
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// request describes one backend call for do().
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
	// noAuth marks credential-exchange calls: no bearer is attached
	// and a 401 means bad credentials, never a dead session.
	noAuth bool
}

func (c *Client) do(ctx context.Context, req request) error {
	var body io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.deviceID != "" {
		httpReq.Header.Set("X-Device-ID", c.deviceID)
	}

	// Read the token at call time. A logged-out session yields an
	// empty token and therefore a request with no Authorization header.
	authorized := false
	if !req.noAuth && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
			authorized = true
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Debug().Err(err).Str("method", req.method).Str("path", req.path).Msg("request failed")
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if authorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		if req.noAuth {
			return ErrInvalidCredentials
		}
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &Error{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if req.out != nil {
		if err := json.NewDecoder(resp.Body).Decode(req.out); err != nil {
			return fmt.Errorf("%w: decoding response: %v", ErrNetwork, err)
		}
	}
	return nil
}

// readErrorMessage extracts the backend's error text. The backend is
// not consistent about the field name ("error" vs "msg"), so try both.
func readErrorMessage(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
		Msg   string `json:"msg"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Msg
}
