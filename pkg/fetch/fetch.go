// Package fetch retrieves JSON documents from catalog upstreams on a best-effort basis.
// A failed fetch is logged and reported as an absent value, it never surfaces as an error.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/avast/retry-go"
	"github.com/samber/mo"
	"go.uber.org/zap"
)

// UserAgent identifies the extractor to upstreams.
const UserAgent = "StreamArr-Extractor/1.0"

// Options configures a Client. The zero value is valid and yields DefaultOptions.
type Options struct {
	// Timeout bounds a single attempt including reading the body.
	// Default 30s.
	Timeout time.Duration
	// Attempts is the number of tries per URL.
	// Default 1, so every URL is requested exactly once.
	Attempts uint
	// Delay between attempts. Only relevant when Attempts > 1.
	Delay time.Duration
	// UserAgent overrides the User-Agent header.
	UserAgent string
	// Transport is the base RoundTripper. Default http.DefaultTransport.
	Transport http.RoundTripper
	// Failures is incremented for every URL that couldn't be fetched. Optional.
	Failures *metrics.Counter
}

// DefaultOptions is the configuration used for zero values in Options.
var DefaultOptions = Options{
	Timeout:   30 * time.Second,
	Attempts:  1,
	Delay:     500 * time.Millisecond,
	UserAgent: UserAgent,
}

// Client fetches JSON documents.
type Client struct {
	http     *http.Client
	attempts uint
	delay    time.Duration
	failures *metrics.Counter
	logger   *zap.Logger
}

// NewClient creates a Client. The logger receives one diagnostic line per failed URL.
func NewClient(opts Options, logger *zap.Logger) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultOptions.Timeout
	}
	if opts.Attempts == 0 {
		opts.Attempts = DefaultOptions.Attempts
	}
	if opts.Delay == 0 {
		opts.Delay = DefaultOptions.Delay
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultOptions.UserAgent
	}
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		http: &http.Client{
			Timeout: opts.Timeout,
			Transport: &headerTransport{
				headers: map[string]string{
					"User-Agent": opts.UserAgent,
					"Accept":     "application/json",
				},
				base: opts.Transport,
			},
		},
		attempts: opts.Attempts,
		delay:    opts.Delay,
		failures: opts.Failures,
		logger:   logger,
	}
}

// JSON fetches url and decodes the body into a T.
// It returns None on any network, status, timeout or decode failure after logging the reason.
func JSON[T any](ctx context.Context, c *Client, url string) mo.Option[T] {
	var v T
	if err := c.get(ctx, url, &v); err != nil {
		c.logger.Warn("Couldn't fetch JSON", zap.String("url", url), zap.Error(err))
		if c.failures != nil {
			c.failures.Inc()
		}
		return mo.None[T]()
	}
	return mo.Some(v)
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	return retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return retry.Unrecoverable(fmt.Errorf("couldn't create request: %w", err))
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("couldn't send request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode > 299 {
			return fmt.Errorf("bad status: %s", resp.Status)
		}

		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			// A timeout while reading the body is worth another attempt, garbage isn't.
			var netErr interface{ Timeout() bool }
			if errors.As(err, &netErr) && netErr.Timeout() {
				return fmt.Errorf("couldn't read body: %w", err)
			}
			return retry.Unrecoverable(fmt.Errorf("couldn't decode body: %w", err))
		}
		return nil
	},
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
}
