package httpclient

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/KOMKZ/go-crpt-client/retry"
)

// config internal option state, shared by client-level and request-level
// options
type config struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
	headers   map[string]string

	retryEnabled bool
	retryOpts    []retry.Option

	beforeRequest func(*http.Request) error
	afterResponse func(*Response) error
}

func newConfig() *config {
	return &config{
		headers: make(map[string]string),
	}
}

// merge overlays non-zero request-level settings on the client config
func (c *config) merge(override *config) *config {
	merged := *c
	merged.headers = make(map[string]string, len(c.headers)+len(override.headers))
	for k, v := range c.headers {
		merged.headers[k] = v
	}
	for k, v := range override.headers {
		merged.headers[k] = v
	}

	if override.baseURL != "" {
		merged.baseURL = override.baseURL
	}
	if override.timeout > 0 {
		merged.timeout = override.timeout
	}
	if override.transport != nil {
		merged.transport = override.transport
	}
	if override.retryEnabled {
		merged.retryEnabled = true
		merged.retryOpts = override.retryOpts
	}
	if override.beforeRequest != nil {
		merged.beforeRequest = override.beforeRequest
	}
	if override.afterResponse != nil {
		merged.afterResponse = override.afterResponse
	}
	return &merged
}

// Option configuration option
type Option func(*config)

// WithBaseURL sets the base URL prepended to relative request paths
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithTransport sets a custom RoundTripper
func WithTransport(rt http.RoundTripper) Option {
	return func(c *config) {
		c.transport = rt
	}
}

// WithTLSConfig sets the TLS configuration on a fresh transport
func WithTLSConfig(tlsCfg *tls.Config) Option {
	return func(c *config) {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = tlsCfg
		c.transport = transport
	}
}

// WithHeader sets a single default header
func WithHeader(key, value string) Option {
	return func(c *config) {
		c.headers[key] = value
	}
}

// WithHeaders sets multiple default headers
func WithHeaders(headers map[string]string) Option {
	return func(c *config) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithRetry enables retries with the given retry options.
// Server errors (5xx) and 429 responses are retried as well.
func WithRetry(opts ...retry.Option) Option {
	return func(c *config) {
		c.retryEnabled = true
		c.retryOpts = opts
	}
}

// WithBeforeRequest sets a hook run on the built *http.Request
func WithBeforeRequest(fn func(*http.Request) error) Option {
	return func(c *config) {
		c.beforeRequest = fn
	}
}

// WithAfterResponse sets a hook run on the wrapped response
func WithAfterResponse(fn func(*Response) error) Option {
	return func(c *config) {
		c.afterResponse = fn
	}
}

func applyOptions(cfg *config, opts []Option) {
	for _, opt := range opts {
		opt(cfg)
	}
}
