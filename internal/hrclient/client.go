package hrclient

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
)

// Client calls the HR remote store over its JSON REST surface.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Header  http.Header
	metrics *Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.HTTP = h }
}

// WithTimeout sets the per-request timeout. The HTTP client is copied first so
// a shared one, such as http.DefaultClient, is left alone.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		h := *c.HTTP
		h.Timeout = d
		c.HTTP = &h
	}
}

// WithHeader adds a default header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.Header.Set(key, value) }
}

// WithMetrics records per-operation call counts and latency.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a client for the store at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		Header:  http.Header{},
	}
	c.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do performs one request. A non-2xx response becomes an *APIError; a nil out
// discards the response body.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) (err error) {
	start := time.Now()
	defer func() { c.metrics.observe(op, outcome(err), time.Since(start)) }()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, query), body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &APIError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(b),
			Body:       string(b),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func escape(id string) string {
	return url.PathEscape(id)
}
