// Package engine provides an HTTP client for the remote workflow engine the
// gateway proxies to. The engine's execution semantics are opaque here; the
// client forwards envelopes and relays JSON responses. Calls are bounded by
// the client timeout and are never retried.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxErrorBody bounds how much of an engine error body is retained.
const maxErrorBody = 2000

// StatusError reports a non-2xx response from the engine. The remote message
// is kept so the proxy can embed it in its own error rather than swallowing it.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("engine %s failed: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Client talks to the workflow engine over HTTP.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a Client for the engine at baseURL. Every call made
// through the client is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Health checks the engine's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil, "health check")
	return err
}

// Validate submits an envelope to the engine for validation.
func (c *Client) Validate(ctx context.Context, envelope json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/v1/validate", envelope, "validate")
}

// Execute submits an envelope to the engine for execution.
func (c *Client) Execute(ctx context.Context, envelope json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/v1/execute", envelope, "execute")
}

// RunLogs fetches the logs for a run. The caller is responsible for
// validating runID before it reaches the URL path.
func (c *Client) RunLogs(ctx context.Context, runID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/v1/runs/"+runID+"/logs", nil, "run logs")
}

// Introspect fetches the engine's capability description.
func (c *Client) Introspect(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/v1/introspect", nil, "introspect")
}

// do issues one request and returns the response body. Non-2xx responses
// become a *StatusError carrying a bounded copy of the remote body.
func (c *Client) do(ctx context.Context, method, path string, body json.RawMessage, op string) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("engine %s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("engine %s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("engine %s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       trim(string(data), maxErrorBody),
		}
	}

	return data, nil
}

// trim bounds s to limit characters.
func trim(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
