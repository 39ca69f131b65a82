package limiter

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsConfig OpenTelemetry instrumentation switches
type MetricsConfig struct {
	// Enabled whether OTel instruments are recorded once registered
	Enabled bool `mapstructure:"enabled"`
}

// otelInstruments holds the registered OTel instruments
type otelInstruments struct {
	admittedTotal  metric.Int64Counter
	throttledTotal metric.Int64Counter
	resetsTotal    metric.Int64Counter
	registration   metric.Registration
	attrs          attribute.Set
}

// RegisterMetrics registers the limiter's instruments with the provided
// Meter. The in-flight permit count is exposed as an observable gauge read
// from the limiter state on collection.
func (l *WindowLimiter) RegisterMetrics(meter metric.Meter) error {
	if !l.cfg.Metrics.Enabled {
		return nil
	}
	if l.otel != nil {
		return nil
	}

	inst := &otelInstruments{
		attrs: attribute.NewSet(
			attribute.String("unit", l.cfg.Unit.String()),
			attribute.Int64("capacity", l.cfg.Capacity),
		),
	}

	var err error
	inst.admittedTotal, err = meter.Int64Counter(
		"limiter_admitted_total",
		metric.WithDescription("Admissions granted by the window limiter"),
	)
	if err != nil {
		return fmt.Errorf("create admitted counter: %w", err)
	}

	inst.throttledTotal, err = meter.Int64Counter(
		"limiter_throttled_total",
		metric.WithDescription("Callers that had to wait for window capacity"),
	)
	if err != nil {
		return fmt.Errorf("create throttled counter: %w", err)
	}

	inst.resetsTotal, err = meter.Int64Counter(
		"limiter_window_resets_total",
		metric.WithDescription("Window resets fired"),
	)
	if err != nil {
		return fmt.Errorf("create resets counter: %w", err)
	}

	inflight, err := meter.Int64ObservableGauge(
		"limiter_inflight_permits",
		metric.WithDescription("Permits currently held by callers"),
	)
	if err != nil {
		return fmt.Errorf("create inflight gauge: %w", err)
	}

	inst.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(inflight, l.Snapshot().InFlight, metric.WithAttributeSet(inst.attrs))
		return nil
	}, inflight)
	if err != nil {
		return fmt.Errorf("register inflight callback: %w", err)
	}

	l.otel = inst
	return nil
}

// UnregisterMetrics removes the gauge callback
func (l *WindowLimiter) UnregisterMetrics() error {
	if l.otel == nil || l.otel.registration == nil {
		return nil
	}
	err := l.otel.registration.Unregister()
	l.otel = nil
	return err
}

func (l *WindowLimiter) recordOTelAdmitted(ctx context.Context) {
	if l.otel == nil {
		return
	}
	l.otel.admittedTotal.Add(ctx, 1, metric.WithAttributeSet(l.otel.attrs))
}

func (l *WindowLimiter) recordOTelThrottled(ctx context.Context) {
	if l.otel == nil {
		return
	}
	l.otel.throttledTotal.Add(ctx, 1, metric.WithAttributeSet(l.otel.attrs))
}

func (l *WindowLimiter) recordOTelReset(ctx context.Context) {
	if l.otel == nil {
		return
	}
	l.otel.resetsTotal.Add(ctx, 1, metric.WithAttributeSet(l.otel.attrs))
}
