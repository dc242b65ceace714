// Package httpclient provides the retrying HTTP client used by the Vertex AI
// raw-predict wire layer. It retries rate-limit and server errors with
// exponential backoff and jitter, honoring Retry-After when present.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// Config configures the retrying client.
type Config struct {
	Timeout           time.Duration
	MaxRetries        int
	BaseRetryDelay    time.Duration
	MaxRetryDelay     time.Duration
	BackoffMultiplier float64
	UserAgent         string
}

// DefaultConfig returns the defaults used for Vertex AI requests.
func DefaultConfig() Config {
	return Config{
		Timeout:           120 * time.Second,
		MaxRetries:        3,
		BaseRetryDelay:    time.Second,
		MaxRetryDelay:     30 * time.Second,
		BackoffMultiplier: 2.0,
		UserAgent:         "llm-gcp-vertex/1.0",
	}
}

// Client is a retrying HTTP client. Request bodies are buffered so retries
// can replay them.
type Client struct {
	client *http.Client
	config Config
}

// New creates a client, filling zero config fields with defaults.
func New(config Config) *Client {
	defaults := DefaultConfig()
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = defaults.MaxRetries
	}
	if config.BaseRetryDelay == 0 {
		config.BaseRetryDelay = defaults.BaseRetryDelay
	}
	if config.MaxRetryDelay == 0 {
		config.MaxRetryDelay = defaults.MaxRetryDelay
	}
	if config.BackoffMultiplier == 0 {
		config.BackoffMultiplier = defaults.BackoffMultiplier
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}

	return &Client{
		client: &http.Client{Timeout: config.Timeout},
		config: config,
	}
}

// Post sends body to url with the given headers, retrying retryable
// failures. The caller owns the returned response body.
func (c *Client) Post(ctx context.Context, url string, headers map[string]string, body []byte) (*http.Response, error) {
	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoffDelay(attempt, resp)
			if resp != nil {
				_ = resp.Body.Close()
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", c.config.UserAgent)
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, lastErr = c.client.Do(req)
		if lastErr != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			resp = nil
			continue
		}

		if !retryableStatus(resp.StatusCode) {
			return resp, nil
		}
	}

	if resp != nil {
		return resp, nil
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
}

// backoffDelay computes the wait before the given attempt. A Retry-After
// header on the previous response wins over the computed backoff, capped
// at MaxRetryDelay.
func (c *Client) backoffDelay(attempt int, prev *http.Response) time.Duration {
	if prev != nil {
		if after := prev.Header.Get("Retry-After"); after != "" {
			if secs, err := strconv.Atoi(after); err == nil && secs > 0 {
				d := time.Duration(secs) * time.Second
				if d > c.config.MaxRetryDelay {
					d = c.config.MaxRetryDelay
				}
				return d
			}
		}
	}

	delay := float64(c.config.BaseRetryDelay)
	for i := 1; i < attempt; i++ {
		delay *= c.config.BackoffMultiplier
	}
	if delay > float64(c.config.MaxRetryDelay) {
		delay = float64(c.config.MaxRetryDelay)
	}

	// Up to 25% jitter to avoid thundering herds
	jitter := rand.Float64() * 0.25 * delay
	return time.Duration(delay + jitter)
}

func retryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
