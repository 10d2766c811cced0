// Package client is a typed REST client for the memory service API.
//
// All business logic (memory persistence, search ranking, consolidation
// and pruning algorithms) lives in the service; this package only shapes
// requests, decodes responses, and translates HTTP failures into typed
// errors the CLI can branch on.
package client

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

	"github.com/hindsight-ai/memctl/internal/logging"
)

// defaultTimeout bounds each HTTP request when the caller does not
// configure one. A hung request otherwise blocks a bulk run indefinitely.
const defaultTimeout = 30 * time.Second

// headerOrganization scopes a request to one organization.
const headerOrganization = "X-Organization-Id"

// Client talks to the memory service. It is safe for concurrent use.
type Client struct {
	baseURL      *url.URL
	token        string
	organization string
	httpClient   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithOrganization scopes all requests to the given organization ID.
func WithOrganization(orgID string) Option {
	return func(c *Client) {
		c.organization = orgID
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests and
// by callers that need custom transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client for the service at baseURL, authenticating every
// request with the given bearer token.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base URL cannot be empty")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must use http or https", baseURL)
	}

	c := &Client{
		baseURL:    parsed,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// do performs one request and decodes a JSON response into out (when out
// is non-nil). Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.organization != "" {
		req.Header.Set(headerOrganization, c.organization)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := logging.FromContext(ctx)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Ctx(ctx).
			Str("component", "client").
			Str("method", method).
			Str("path", path).
			Err(err).
			Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	log.Debug().Ctx(ctx).
		Str("component", "client").
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// get issues a GET request.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// post issues a POST request with a JSON body.
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// put issues a PUT request with a JSON body.
func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// del issues a DELETE request.
func (c *Client) del(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// ListOptions carries limit/offset pagination common to all list calls.
type ListOptions struct {
	Limit  int
	Offset int
}

// apply adds the pagination parameters to query when set.
func (o ListOptions) apply(query url.Values) {
	if o.Limit > 0 {
		query.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		query.Set("offset", strconv.Itoa(o.Offset))
	}
}
