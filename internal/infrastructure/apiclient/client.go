// Package apiclient talks to the storefront REST backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
	"github.com/marketplace/storefront/internal/metrics"
)

const (
	defaultTimeout  = 30 * time.Second
	maxErrorBody    = 64 << 10
	requestIDHeader = "X-Request-ID"
)

// Client is the API client for the storefront backend. It implements every
// remote port the services depend on.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         ports.TokenSource
	onUnauthorized func(ctx context.Context)
	log            zerolog.Logger
}

var (
	_ ports.AuthAPI     = (*Client)(nil)
	_ ports.CartAPI     = (*Client)(nil)
	_ ports.CatalogAPI  = (*Client)(nil)
	_ ports.SupplierAPI = (*Client)(nil)
	_ ports.OrderAPI    = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithTokenSource supplies the bearer token attached to authenticated calls.
func WithTokenSource(ts ports.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHandler registers fn to run when the backend answers 401
// to a request that carried a bearer token.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a new API client with the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// request describes one backend call. route is the path template used as a
// metrics label; path is the concrete path.
type request struct {
	method string
	route  string
	path   string
	query  map[string]string
	body   any
	authed bool
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if len(r.query) > 0 {
		q := req.URL.Query()
		for k, v := range r.query {
			if v != "" {
				q.Set(k, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	sentToken := false
	if r.authed && c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
			sentToken = true
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.APIRequestDuration.WithLabelValues(r.route, r.method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(r.route, r.method, "transport_error").Inc()
		c.log.Debug().Err(err).Str("request_id", requestID).Str("method", r.method).Str("path", r.path).Msg("backend request failed")
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	metrics.APIRequestsTotal.WithLabelValues(r.route, r.method, strconv.Itoa(resp.StatusCode)).Inc()
	c.log.Debug().
		Str("request_id", requestID).
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := c.handleErrorResponse(resp)
		if resp.StatusCode == http.StatusUnauthorized && sentToken && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts transport failures into ErrTransport.
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%w: request canceled", domain.ErrTransport)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out", domain.ErrTransport)
	}
	return fmt.Errorf("%w: cannot connect to backend at %s: %v", domain.ErrTransport, c.baseURL, err)
}

// handleErrorResponse parses the {error} envelope. A body that is not JSON
// still yields an APIError with the status code.
func (c *Client) handleErrorResponse(resp *http.Response) error {
	apiErr := &domain.APIError{Status: resp.StatusCode}
	var errResp errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&errResp); err == nil {
		apiErr.Message = errResp.Error
	}
	return apiErr
}
