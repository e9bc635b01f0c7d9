package httpclient

import (
	"net/http"
	"time"
)

// Option configures a NetClient.
type Option func(*clientOptions)

type clientOptions struct {
	timeout      time.Duration
	httpClient   *http.Client
	userAgent    string
	maxBodyBytes int64
}

func defaultOptions() clientOptions {
	return clientOptions{
		timeout:      30 * time.Second,
		userAgent:    "nowplaying",
		maxBodyBytes: 32 << 20,
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHTTPClient uses a custom *http.Client. The timeout option is ignored.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithUserAgent sets the User-Agent header on requests that don't carry one.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithMaxBodyBytes limits how much of a response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.maxBodyBytes = n
		}
	}
}
