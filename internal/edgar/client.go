// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package edgar downloads filing bodies from SEC EDGAR and reads the
// filing header that describes them.
//
// EDGAR asks automated clients to identify themselves with a contact in
// the User-Agent header and to stay under ten requests per second; the
// Client enforces both.
package edgar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/pdiddy/secedgartext/internal/httputil"
	"github.com/pdiddy/secedgartext/pkg/types"
)

// ErrNoUserAgent is returned by NewClient when no User-Agent is configured.
var ErrNoUserAgent = errors.New("edgar: a User-Agent with contact details is required")

// Client fetches documents from EDGAR at a bounded request rate.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	cfg     types.FetchConfig
	logger  *slog.Logger
}

// NewClient creates a Client. httpClient may be nil, in which case one is
// built with cfg.Timeout. A nil logger discards output.
func NewClient(cfg types.FetchConfig, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, ErrNoUserAgent
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// Get fetches url and returns its body decoded to UTF-8 according to the
// response Content-Type.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html, text/plain, */*")

	resp, err := httputil.DoWithRetry(ctx, c.http, req, httputil.Policy{
		MaxRetries: c.cfg.MaxRetries,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		c.logger.Debug("unknown charset, reading raw body", "url", url, "error", err)
		body = resp.Body
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", url, err)
	}
	return data, nil
}
