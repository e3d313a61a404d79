// Package api is the single choke point for every network operation against
// the inventory backend: authentication, product CRUD, and reachability
// probes. It attaches credentials from the session guard, classifies
// responses, and normalizes failures into a small typed taxonomy.
package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stockctl/stockctl/cliauth"
)

// DefaultBaseURL is used when neither configuration nor environment provide
// an API address.
const DefaultBaseURL = "http://localhost:3000"

// DefaultTimeout bounds every request. The original client had none and a
// hung request would spin forever; a bounded transport is strictly kinder.
const DefaultTimeout = 30 * time.Second

// Client performs all backend operations. Construct with NewClient; the zero
// value is not usable.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	guard        *cliauth.Guard
	logger       *slog.Logger
	newRequestID func() string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API base address.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithHTTPClient sets a custom HTTP client (useful for testing or proxies).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.httpClient = client }
}

// WithTimeout overrides the default request timeout. Zero disables it,
// reproducing the original unbounded behavior.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the structured logger for request/response events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithRequestIDFunc overrides request ID generation. Tests use this for
// deterministic IDs.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) { c.newRequestID = fn }
}

// NewClient creates a Client bound to the given session guard.
func NewClient(guard *cliauth.Guard, opts ...Option) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		guard:        guard,
		logger:       slog.Default(),
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API base address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Guard returns the session guard this client consults and invalidates.
func (c *Client) Guard() *cliauth.Guard {
	return c.guard
}

// newRequest builds a request with a generated X-Request-Id.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-Id", c.newRequestID())
	return req, nil
}

// bearerToken consults the guard before any protected call. When no token is
// stored the network call must not be issued, so the caller gets
// ErrNotAuthenticated immediately.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	token, err := c.guard.CurrentToken(ctx)
	if err != nil {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

// do dispatches the request and classifies transport failure. A thrown
// network error (no response at all) becomes a ConnectivityError and is
// never conflated with an HTTP-level error response.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", req.Header.Get("X-Request-Id"),
			"error", err)
		return nil, &ConnectivityError{Err: err}
	}
	c.logger.Debug("request completed",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start).Truncate(time.Millisecond),
		"request_id", req.Header.Get("X-Request-Id"))
	return resp, nil
}

// expireSession performs the cross-cutting 401 rule: exactly the guard's
// invalidate transition, then abort with the typed expiry error. No
// operation returns a partial result after a 401.
func (c *Client) expireSession(ctx context.Context) error {
	if err := c.guard.Invalidate(ctx); err != nil {
		return fmt.Errorf("session invalidation failed: %w", err)
	}
	return cliauth.ErrSessionExpired
}

// readBody drains a response body for error classification. Size-capped;
// error bodies are small by contract.
func readBody(resp *http.Response) []byte {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return data
}
