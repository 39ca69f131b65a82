package retry

import "time"

// Option configures a retry loop
type Option func(*config)

type config struct {
	maxAttempts int
	backoff     BackoffStrategy
	timeout     time.Duration // per-attempt timeout, 0 = none
	shouldRetry func(err error, attempt int) bool
	onRetry     func(attempt int, err error)
}

func defaultConfig() *config {
	return &config{
		maxAttempts: 3,
		backoff:     NewFixedBackoff(100 * time.Millisecond),
		shouldRetry: func(error, int) bool { return true },
	}
}

// WithMaxAttempts sets the total attempt count (including the first)
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBackoff sets the backoff strategy
func WithBackoff(strategy BackoffStrategy) Option {
	return func(c *config) {
		if strategy != nil {
			c.backoff = strategy
		}
	}
}

// WithAttemptTimeout bounds each individual attempt
func WithAttemptTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithRetryIf sets the predicate deciding whether an error is retried
func WithRetryIf(fn func(err error, attempt int) bool) Option {
	return func(c *config) {
		if fn != nil {
			c.shouldRetry = fn
		}
	}
}

// WithOnRetry sets a callback fired before each retry wait
func WithOnRetry(fn func(attempt int, err error)) Option {
	return func(c *config) {
		c.onRetry = fn
	}
}
