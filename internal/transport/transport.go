// Package transport issues authenticated GET requests against the CRM REST
// API with bounded exponential-backoff retry.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// ErrAuth marks a request rejected for missing or expired credentials. It is
// the one failure category callers must surface so the user can log in again.
var ErrAuth = errors.New("authentication failed")

// StatusError is a non-2xx response after any applicable retries.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: GET %s", e.StatusCode, e.URL)
}

// retryable statuses: request timeout, rate limiting, and server-side errors.
var retryableStatus = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	Token          string
	MaxRetries     uint64
	InitialBackoff time.Duration
	HTTPClient     *http.Client
}

// Client performs GET requests with a bearer token, retrying transient
// failures with exponential backoff.
type Client struct {
	token      string
	maxRetries uint64
	initial    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

func New(opts Options, logger *zap.Logger) *Client {
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.InitialBackoff == 0 {
		opts.InitialBackoff = 500 * time.Millisecond
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		token:      opts.Token,
		maxRetries: opts.MaxRetries,
		initial:    opts.InitialBackoff,
		httpClient: opts.HTTPClient,
		logger:     logger,
	}
}

// Get fetches the URL and returns the response body. Network errors and
// retryable statuses are retried up to MaxRetries times; 401/403 map to
// ErrAuth and other 4xx fail immediately.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("performing request: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			body = data
			return nil
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return backoff.Permanent(fmt.Errorf("%w: HTTP %d from %s", ErrAuth, resp.StatusCode, url))
		case retryableStatus[resp.StatusCode]:
			return &StatusError{StatusCode: resp.StatusCode, URL: url}
		default:
			return backoff.Permanent(&StatusError{StatusCode: resp.StatusCode, URL: url})
		}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initial
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("retrying request",
			zap.String("url", url),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	err := backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx), notify)
	if err != nil {
		return nil, err
	}
	return body, nil
}
