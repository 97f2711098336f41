// Package httpclient is a small fluent HTTP client for outbound calls such
// as webhook notifications.
//
//	var out map[string]any
//	err := httpclient.New().
//	    Timeout(5 * time.Second).
//	    Header("X-Source", "bazaar").
//	    PostJSON(ctx, url, payload, &out)
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client wraps http.Client with JSON helpers.
type Client struct {
	http    *http.Client
	headers http.Header
}

func New() *Client {
	return &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		headers: make(http.Header),
	}
}

// Timeout overrides the default request timeout.
func (c *Client) Timeout(d time.Duration) *Client {
	c.http.Timeout = d
	return c
}

// Header sets a header applied to every request.
func (c *Client) Header(key, value string) *Client {
	c.headers.Set(key, value)
	return c
}

// GetJSON performs a GET and decodes the response body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out interface{}) error {
	return c.do(ctx, http.MethodGet, url, nil, out)
}

// PostJSON sends body as JSON and decodes the response into out. out may
// be nil when the response body is not needed.
func (c *Client) PostJSON(ctx context.Context, url string, body, out interface{}) error {
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("httpclient: marshal body: %w", err)
		}
		buf = bytes.NewReader(raw)
	}
	return c.do(ctx, http.MethodPost, url, buf, out)
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("httpclient: %s %s: status %d: %s", method, url, resp.StatusCode, string(raw))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
