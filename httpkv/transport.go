package httpkv

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

	"golang.org/x/time/rate"

	"kvcache/client"
)

const defaultTimeout = 2 * time.Second

// Client is the HTTP implementation of client.Transport. Node addresses
// are base URLs such as "http://10.0.0.1:8081".
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
}

// ClientOption configures the HTTP transport.
type ClientOption func(*Client)

// WithTimeout bounds each HTTP request end to end (default 2s). Callers
// usually also carry a per-attempt context deadline; the shorter one wins.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient substitutes the underlying *http.Client, e.g. to share a
// transport with connection pool tuning.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit caps outbound requests per second across all nodes.
// Waiting for a token respects the request context, so a rate-starved
// attempt times out like any other transport failure.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient builds an HTTP transport with sane defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Put writes key→value to a node. Any 2xx status is success; every other
// outcome, including connection errors and timeouts, is a transport error.
func (c *Client) Put(ctx context.Context, node, key, value string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(map[string]string{"key": key, "value": value})
	if err != nil {
		return fmt.Errorf("httpkv: encode put body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinPath(node, "/put"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("httpkv: build put request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("httpkv: put to %s: %w", node, err)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("httpkv: put to %s: unexpected status %d", node, resp.StatusCode)
	}
	return nil
}

// Get reads key from a node. 200 yields the value, 404 is an authoritative
// miss, anything else is a transport error.
func (c *Client) Get(ctx context.Context, node, key string) (string, bool, error) {
	if err := c.wait(ctx); err != nil {
		return "", false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinPath(node, "/get/"+url.PathEscape(key)), nil)
	if err != nil {
		return "", false, fmt.Errorf("httpkv: build get request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("httpkv: get from %s: %w", node, err)
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", false, fmt.Errorf("httpkv: read get body from %s: %w", node, err)
		}
		return string(b), true, nil
	case http.StatusNotFound:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("httpkv: get from %s: unexpected status %d", node, resp.StatusCode)
	}
}

// Ping probes GET /health. Any non-200 answer is reported as an error.
func (c *Client) Ping(ctx context.Context, node string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinPath(node, "/health"), nil)
	if err != nil {
		return fmt.Errorf("httpkv: build health request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("httpkv: ping %s: %w", node, err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("httpkv: ping %s: unexpected status %d", node, resp.StatusCode)
	}
	return nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// drain discards the rest of the body before closing so the underlying
// connection is reusable.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func joinPath(node, path string) string {
	return strings.TrimRight(node, "/") + path
}

var _ client.Transport = (*Client)(nil)
