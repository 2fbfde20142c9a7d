// Package apiclient is a small GET-only client for the courtvision backend.
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	defaultTimeout        = 10 * time.Second
	defaultMaxTries       = 3
	defaultInitialBackoff = 100 * time.Millisecond
	maxBodyBytes          = 1 << 20
)

// Client issues GET requests relative to BaseURL.
type Client struct {
	// BaseURL is the backend root. A nil BaseURL makes every request fail
	// with ErrInvalidURL.
	BaseURL *url.URL

	http           *http.Client
	maxTries       uint
	initialBackoff time.Duration
}

// New parses rawBaseURL and builds a Client. An empty rawBaseURL yields a
// client without a base URL.
func New(rawBaseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		http:           &http.Client{Timeout: defaultTimeout},
		maxTries:       defaultMaxTries,
		initialBackoff: defaultInitialBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	if rawBaseURL == "" {
		return c, nil
	}
	u, err := url.Parse(rawBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawBaseURL)
	}
	c.BaseURL = u
	return c, nil
}

// Request GETs path (which may carry a query string) and returns the body.
// Transport failures and 5xx responses are retried with exponential
// backoff; 4xx responses fail immediately with *StatusError.
func (c *Client) Request(ctx context.Context, path string) ([]byte, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff

	return backoff.Retry(ctx, func() ([]byte, error) {
		return c.do(ctx, target)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(c.maxTries))
}

func (c *Client) resolve(path string) (string, error) {
	if c == nil || c.BaseURL == nil {
		return "", ErrInvalidURL
	}
	rel, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, path)
	}
	base := *c.BaseURL
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base.ResolveReference(rel).String(), nil
}

func (c *Client) do(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: %w", ErrInvalidURL, err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, backoff.Permanent(ctxErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode >= 500:
		return nil, &StatusError{Code: resp.StatusCode}
	default:
		return nil, backoff.Permanent(&StatusError{Code: resp.StatusCode})
	}
}

// IsStatus reports whether err is a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
