// Package fetch is the shared HTTP client for the scrapers: retries with
// exponential backoff behind a circuit breaker.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

const (
	// Pages are small HTML documents; anything larger is not what we want.
	maxBodyBytes = 8 << 20

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

var (
	ErrRateLimited      = errors.New("rate limited")
	ErrServerError      = errors.New("server error")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrCircuitOpen      = errors.New("circuit breaker open")
)

// Backoff controls retry timing.
type Backoff struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultBackoff starts at 500ms and caps at 5s.
func DefaultBackoff(maxRetries int) Backoff {
	return Backoff{
		MaxRetries:      maxRetries,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// Client fetches page bodies.
type Client struct {
	http    *http.Client
	backoff Backoff
	breaker *gobreaker.CircuitBreaker
}

// NewClient returns a client with its own circuit breaker named name.
func NewClient(name string, timeout time.Duration, backoff Backoff) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		backoff: backoff,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
			// A 4xx means the server is up; only transport errors, 429 and 5xx trip.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrUnexpectedStatus)
			},
		}),
	}
}

// Get returns the body of url. Transport errors, 429 and 5xx responses are
// retried up to MaxRetries times; an open breaker fails immediately.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.do(ctx, url)
		})
		if err == nil {
			body, ok := result.([]byte)
			if !ok {
				return nil, errors.New("unexpected result type from circuit breaker")
			}
			return body, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		if errors.Is(err, ErrUnexpectedStatus) {
			return nil, err
		}

		lastErr = err
		if attempt >= c.backoff.MaxRetries {
			return nil, fmt.Errorf("get %s after %d attempts: %w", url, attempt+1, lastErr)
		}

		timer := time.NewTimer(c.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Client) delay(attempt int) time.Duration {
	d := c.backoff.InitialInterval << attempt
	if c.backoff.MaxInterval > 0 && (d > c.backoff.MaxInterval || d <= 0) {
		d = c.backoff.MaxInterval
	}
	return d
}

func (c *Client) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // body fully consumed below

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %d", ErrServerError, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
