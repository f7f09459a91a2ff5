package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mkarpova/voyagerui/internal/config"
	"github.com/mkarpova/voyagerui/internal/session"
)

const JSONContentType = "application/json"

// Auth endpoints are the only ones called without a bearer token; a 401
// from them is an ordinary failure, not an expired session.
var authPaths = []string{"/users/login/", "/users/register/"}

// Client is the request pipeline: it builds requests against the backend,
// attaches the bearer token outside of auth paths, decodes the response or
// a typed failure, and expires the session on an unauthorized response.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	session        *session.Store
	onUnauthorized func()
}

type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUnauthorizedHook registers the callback fired after a 401 clears the
// session; the UI uses it to fall back to the login screen.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// NewClient wires the pipeline to the backend and the session store.
func NewClient(cfg *config.Config, store *session.Store, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		session:    store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func isAuthPath(path string) bool {
	for _, p := range authPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// do runs one request/response round-trip. No retries; failures surface
// once to the caller.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", JSONContentType)
	req.Header.Set("Accept", JSONContentType)
	if !isAuthPath(path) {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if res.StatusCode == http.StatusUnauthorized && !isAuthPath(path) {
		c.expireSession()
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		apiErr := decodeAPIError(res.StatusCode, respBody)
		slog.Error("request rejected",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", res.StatusCode),
		)
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response body: %w", err)
		}
	}
	return nil
}

// expireSession clears the persisted session after an unauthorized
// response and notifies whoever handles navigation back to login.
func (c *Client) expireSession() {
	slog.Info("unauthorized response, clearing session")
	if err := c.session.Clear(); err != nil {
		slog.Error("failed to clear session", "error", err)
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}
