// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for talking to rate-limited
// public endpoints.
package httputil

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff when a
// Policy leaves BaseDelay unset. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const (
	defaultMaxRetries = 5
	defaultMaxDelay   = 10 * time.Minute
)

// Policy configures DoWithRetry. Zero values select the defaults.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt
	// (default 5).
	MaxRetries int

	// BaseDelay is the first backoff; it doubles on every retry
	// (default RetryBaseDelay).
	BaseDelay time.Duration

	// MaxDelay caps a single wait, including one requested by a
	// Retry-After header (default 10m).
	MaxDelay time.Duration

	// Logger receives one debug line per retry. Nil discards them.
	Logger *slog.Logger
}

// Retryable reports whether a response status is worth retrying: 429 Too
// Many Requests and 503 Service Unavailable, which EDGAR returns when a
// client exceeds its request budget.
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// DoWithRetry executes an HTTP request and retries retryable statuses with
// exponential backoff: BaseDelay, 2x, 4x and so on. A Retry-After header
// given in seconds or as an HTTP date replaces the computed delay.
//
// On each retry the response body is drained and closed before sleeping.
// If the context is cancelled during a wait the function returns
// ctx.Err(). After exhausting retries the last response is returned so
// the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, p Policy) (*http.Response, error) {
	maxRetries := p.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	base := p.BaseDelay
	if base <= 0 {
		base = RetryBaseDelay
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		backoff := base << attempt
		if d, ok := retryAfter(resp.Header.Get("Retry-After"), time.Now()); ok {
			backoff = d
		}
		backoff = min(backoff, maxDelay)

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if p.Logger != nil {
			p.Logger.Debug("retrying request",
				"url", req.URL.Redacted(),
				"status", resp.StatusCode,
				"wait", backoff,
				"attempt", attempt+1,
				"max_retries", maxRetries)
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// retryAfter parses a Retry-After header value relative to now.
func retryAfter(v string, now time.Time) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		return max(t.Sub(now), 0), true
	}
	return 0, false
}
