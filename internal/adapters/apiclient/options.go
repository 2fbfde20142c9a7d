package apiclient

import (
	"net/http"
	"time"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithMaxTries bounds the attempts made for transport failures and 5xx
// responses. 1 disables retries.
func WithMaxTries(n uint) Option {
	return func(cl *Client) {
		if n > 0 {
			cl.maxTries = n
		}
	}
}

// WithInitialBackoff sets the first retry delay.
func WithInitialBackoff(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.initialBackoff = d
		}
	}
}
