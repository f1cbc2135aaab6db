// Package reminderfn calls the external function that e-mails the daily
// medication reminders.
package reminderfn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"meddiary/internal/domain"
	"meddiary/internal/metrics"
)

const maxBodyBytes = 1 << 20

// Client posts reminder runs to the function URL.
type Client struct {
	endpoint   *url.URL
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds each call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// WithAPIKey sends key as a bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// New creates a Client for the function at endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("endpoint must be an absolute url")
	}
	c := &Client{
		endpoint:   parsed,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ domain.ReminderTrigger = (*Client)(nil)

// Trigger posts one run and returns the function's status and body. Non-2xx
// answers are returned as results, not errors.
func (c *Client) Trigger(ctx context.Context, runID string) (res domain.ReminderResult, err error) {
	start := time.Now()
	defer func() { metrics.ObserveNetworkRequest("reminderfn", "trigger", start, err) }()

	payload, err := json.Marshal(map[string]string{"runId": runID})
	if err != nil {
		return domain.ReminderResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return domain.ReminderResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", runID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ReminderResult{}, fmt.Errorf("call reminder function: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.ReminderResult{}, fmt.Errorf("read reminder response: %w", err)
	}
	return domain.ReminderResult{Status: resp.StatusCode, Body: string(body)}, nil
}
