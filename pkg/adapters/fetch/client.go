// Package fetch provides a ports.Fetcher over HTTP.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxBody caps the decoded response size.
	DefaultMaxBody = 8 << 20
)

// Client fetches and decodes JSON documents.
type Client struct {
	http    *http.Client
	timeout time.Duration
	maxBody int64
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithMaxBody caps the response body size.
func WithMaxBody(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// New creates a fetch client.
func New(opts ...Option) *Client {
	c := &Client{
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
		maxBody: DefaultMaxBody,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchJSON performs a GET and decodes the body. Non-2xx statuses are errors.
func (c *Client) FetchJSON(ctx context.Context, url string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	var v any
	if err := json.NewDecoder(io.LimitReader(resp.Body, c.maxBody)).Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return v, nil
}
