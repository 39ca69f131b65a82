package limiter

import (
	"sync/atomic"
	"time"
)

// MetricsSnapshot 指标快照
type MetricsSnapshot struct {
	Admitted    int64 // admissions granted
	Throttled   int64 // callers that had to wait at least once
	Resets      int64 // window resets fired
	LastResetAt time.Time
}

// metricsCollector in-process counters for the limiter
type metricsCollector struct {
	admitted    atomic.Int64
	throttled   atomic.Int64
	resets      atomic.Int64
	lastResetAt atomic.Int64 // unix nanos, 0 = never
}

func newMetricsCollector() *metricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) recordAdmitted() {
	m.admitted.Add(1)
}

func (m *metricsCollector) recordThrottled() {
	m.throttled.Add(1)
}

func (m *metricsCollector) recordReset() {
	m.resets.Add(1)
	m.lastResetAt.Store(time.Now().UnixNano())
}

func (m *metricsCollector) snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Admitted:  m.admitted.Load(),
		Throttled: m.throttled.Load(),
		Resets:    m.resets.Load(),
	}
	if ns := m.lastResetAt.Load(); ns > 0 {
		snap.LastResetAt = time.Unix(0, ns)
	}
	return snap
}

// Metrics returns the current counter values
func (l *WindowLimiter) Metrics() MetricsSnapshot {
	return l.metrics.snapshot()
}
