// Package limiter provides a windowed admission limiter for outbound calls.
//
// Design philosophy:
// - Standalone package, depends only on the logger component
// - Excess callers block until capacity frees, they never see a limit error
// - A single mutex guards both the permit pool and the window counter, so an
//   admission check can never race a window reset
// - Blocked acquirers are woken by releases and resets, with a configurable
//   backoff poll as a fallback
// - Events and metrics exposed, the application layer can observe everything
package limiter

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/KOMKZ/go-crpt-client/logger"
)

// WindowLimiter admits at most Capacity callers per window.
//
// Two counters live under one mutex:
//   - admitted: admissions granted since the last window reset
//   - inflight: permits currently held by callers (admitted minus released)
//
// inflight never exceeds admitted, and both are cleared by the window reset.
// A release racing a reset is clamped so the pool can never hold more than
// Capacity permits.
type WindowLimiter struct {
	cfg    Config
	window time.Duration

	mu       sync.Mutex
	admitted int64
	inflight int64
	wake     chan struct{}
	closed   bool

	resetter *resetter
	events   *EventBus
	metrics  *metricsCollector
	otel     *otelInstruments
	log      *logger.CtxZapLogger
}

// Option configures a WindowLimiter
type Option func(*WindowLimiter)

// WithLogger sets the logger instance
func WithLogger(log *logger.CtxZapLogger) Option {
	return func(l *WindowLimiter) {
		l.log = log
	}
}

// Create a windowed limiter and start its background resetter.
// An unsupported unit or a capacity below 1 fails construction and no
// resetter is started.
func New(cfg Config, opts ...Option) (*WindowLimiter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	window, err := cfg.Unit.Duration()
	if err != nil {
		return nil, err
	}

	l := &WindowLimiter{
		cfg:     cfg,
		window:  window,
		wake:    make(chan struct{}),
		events:  NewEventBus(cfg.EventBusBuffer),
		metrics: newMetricsCollector(),
	}

	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logger.GetLogger("limiter")
	}

	if err := l.startResetter(); err != nil {
		l.events.Close()
		return nil, err
	}

	l.log.Debug("window limiter started",
		zap.String("unit", cfg.Unit.String()),
		zap.Int64("capacity", cfg.Capacity),
		zap.Duration("window", window),
		zap.Duration("backoff", cfg.Backoff))

	return l, nil
}

// Acquire blocks until the caller is admitted into the current window.
//
// Blocked callers retry in an explicit loop: wait for a wakeup (release or
// window reset), fall back to the configured backoff tick, re-check. The
// caller's context cancels the wait without consuming a permit.
func (l *WindowLimiter) Acquire(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	throttled := false
	for {
		admitted, remaining := l.tryAdmit()
		if admitted {
			l.metrics.recordAdmitted()
			l.recordOTelAdmitted(ctx)
			l.events.publish(Event{Type: EventAdmitted, Remaining: remaining, At: time.Now()})
			return nil
		}

		if l.isClosed() {
			return ErrClosed
		}

		if !throttled {
			throttled = true
			l.metrics.recordThrottled()
			l.recordOTelThrottled(ctx)
			l.events.publish(Event{Type: EventThrottled, Remaining: remaining, At: time.Now()})
		}

		l.mu.Lock()
		ch := l.wake
		l.mu.Unlock()

		timer := time.NewTimer(l.cfg.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-ch:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// TryAcquire attempts a non-blocking admission
func (l *WindowLimiter) TryAcquire() bool {
	admitted, remaining := l.tryAdmit()
	if admitted {
		l.metrics.recordAdmitted()
		l.recordOTelAdmitted(context.Background())
		l.events.publish(Event{Type: EventAdmitted, Remaining: remaining, At: time.Now()})
	}
	return admitted
}

// tryAdmit takes a permit when both the window budget and the permit pool
// allow it. Returns whether admission was granted and the remaining window
// budget.
func (l *WindowLimiter) tryAdmit() (bool, int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return false, 0
	}

	if l.admitted < l.cfg.Capacity && l.inflight < l.cfg.Capacity {
		l.admitted++
		l.inflight++
		return true, l.cfg.Capacity - l.admitted
	}

	return false, l.cfg.Capacity - l.admitted
}

// Release returns the caller's permit to the pool and wakes one round of
// waiters. A permit already reclaimed by a window reset is not returned
// twice: the pool is clamped at Capacity.
func (l *WindowLimiter) Release() {
	l.mu.Lock()
	if l.inflight > 0 {
		l.inflight--
	}
	l.notifyLocked()
	l.mu.Unlock()
}

// Do runs fn while holding a permit. The permit is released whatever fn
// returns.
func (l *WindowLimiter) Do(ctx context.Context, fn func() error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}

// reset zeroes the window counter and reclaims every issued permit back to
// the pool. This is a hard reset: in-flight callers keep running, and their
// eventual Release is clamped instead of over-restoring the pool.
func (l *WindowLimiter) reset() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.admitted = 0
	l.inflight = 0
	l.notifyLocked()
	l.mu.Unlock()

	l.metrics.recordReset()
	l.recordOTelReset(context.Background())
	l.events.publish(Event{Type: EventReset, Remaining: l.cfg.Capacity, At: time.Now()})
	l.log.Debug("window reset", zap.Int64("capacity", l.cfg.Capacity))
}

// Close stops the background resetter and fails pending acquirers with
// ErrClosed. Safe to call more than once.
func (l *WindowLimiter) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.notifyLocked()
	l.mu.Unlock()

	var err error
	if l.resetter != nil {
		err = l.resetter.stop()
	}
	l.events.publish(Event{Type: EventClosed, At: time.Now()})
	l.events.Close()

	l.log.Debug("window limiter closed")
	return err
}

// Capacity returns the configured per-window admission limit
func (l *WindowLimiter) Capacity() int64 {
	return l.cfg.Capacity
}

// Window returns the replenishment period
func (l *WindowLimiter) Window() time.Duration {
	return l.window
}

// Events returns the event bus for subscriptions
func (l *WindowLimiter) Events() *EventBus {
	return l.events
}

// Snapshot point-in-time limiter state
type Snapshot struct {
	Capacity  int64
	Admitted  int64
	InFlight  int64
	Available int64
	Window    time.Duration
}

// Snapshot returns the current counters
func (l *WindowLimiter) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Snapshot{
		Capacity:  l.cfg.Capacity,
		Admitted:  l.admitted,
		InFlight:  l.inflight,
		Available: l.cfg.Capacity - l.inflight,
		Window:    l.window,
	}
}

func (l *WindowLimiter) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// notifyLocked wakes every blocked acquirer. Callers must hold l.mu.
func (l *WindowLimiter) notifyLocked() {
	close(l.wake)
	l.wake = make(chan struct{})
}
