package limiter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/KOMKZ/go-crpt-client/logger"
)

func newTestLimiter(t *testing.T, cfg Config) *WindowLimiter {
	t.Helper()

	log := logger.NewNopLogger()
	l, err := New(cfg, WithLogger(log))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = l.Close()
	})
	return l
}

func TestNew_UnsupportedUnit(t *testing.T) {
	cases := []Unit{"", "fortnight", "SECONDS", "ms"}
	for _, unit := range cases {
		l, err := New(Config{Unit: unit, Capacity: 1})
		require.Error(t, err, "unit %q", unit)
		assert.True(t, errors.Is(err, ErrUnsupportedUnit))
		assert.Nil(t, l)
	}
}

func TestNew_InvalidCapacity(t *testing.T) {
	for _, capacity := range []int64{0, -1} {
		l, err := New(Config{Unit: UnitSecond, Capacity: capacity})
		require.Error(t, err, "capacity %d", capacity)
		assert.Nil(t, l)
	}
}

func TestAcquire_CapsAdmissionsPerWindow(t *testing.T) {
	l := newTestLimiter(t, Config{
		Unit:     UnitSecond,
		Capacity: 2,
		Backoff:  20 * time.Millisecond,
	})

	start := time.Now()

	var mu sync.Mutex
	var admitTimes []time.Time

	var g errgroup.Group
	for i := 0; i < 5; i++ {
		g.Go(func() error {
			if err := l.Acquire(context.Background()); err != nil {
				return err
			}
			mu.Lock()
			admitTimes = append(admitTimes, time.Now())
			mu.Unlock()
			l.Release()
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Len(t, admitTimes, 5)

	// only 2 admissions within the first window, the rest after resets
	firstWindow := 0
	for _, at := range admitTimes {
		if at.Sub(start) < 600*time.Millisecond {
			firstWindow++
		}
	}
	assert.Equal(t, 2, firstWindow)
	assert.GreaterOrEqual(t, time.Since(start), 900*time.Millisecond)
}

func TestTryAcquire(t *testing.T) {
	l := newTestLimiter(t, Config{Unit: UnitMinute, Capacity: 2, Backoff: 10 * time.Millisecond})

	assert.True(t, l.TryAcquire())
	assert.True(t, l.TryAcquire())
	assert.False(t, l.TryAcquire())

	// releasing frees the permit, not the window budget
	l.Release()
	assert.False(t, l.TryAcquire())

	// a window reset replenishes everything
	l.reset()
	assert.True(t, l.TryAcquire())
}

func TestReset_ClampsPermitPool(t *testing.T) {
	l := newTestLimiter(t, Config{Unit: UnitMinute, Capacity: 2, Backoff: 10 * time.Millisecond})

	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Acquire(context.Background()))

	snap := l.Snapshot()
	assert.Equal(t, int64(2), snap.InFlight)
	assert.Equal(t, int64(0), snap.Available)

	// hard reset while both callers are still in flight
	l.reset()

	snap = l.Snapshot()
	assert.Equal(t, int64(0), snap.Admitted)
	assert.Equal(t, int64(0), snap.InFlight)
	assert.Equal(t, int64(2), snap.Available)

	// the two stale releases must not push the pool above capacity
	l.Release()
	l.Release()

	snap = l.Snapshot()
	assert.Equal(t, int64(0), snap.InFlight)
	assert.Equal(t, int64(2), snap.Available)

	// the fresh window still admits exactly Capacity callers
	assert.True(t, l.TryAcquire())
	assert.True(t, l.TryAcquire())
	assert.False(t, l.TryAcquire())
}

func TestAcquire_CancelledWithoutLeak(t *testing.T) {
	l := newTestLimiter(t, Config{Unit: UnitMinute, Capacity: 1, Backoff: 10 * time.Millisecond})

	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	// the cancelled caller consumed nothing
	snap := l.Snapshot()
	assert.Equal(t, int64(1), snap.Admitted)
	assert.Equal(t, int64(1), snap.InFlight)
}

func TestAcquire_ExcessCallerBlocksUntilReset(t *testing.T) {
	l := newTestLimiter(t, Config{Unit: UnitSecond, Capacity: 3, Backoff: 20 * time.Millisecond})

	// three callers acquire and stall without releasing
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}

	assert.False(t, l.TryAcquire())

	// the fourth caller stays blocked until the window reset reclaims permits
	start := time.Now()
	require.NoError(t, l.Acquire(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 700*time.Millisecond)
}

func TestClose_FailsPendingAcquirers(t *testing.T) {
	log := logger.NewNopLogger()
	l, err := New(Config{Unit: UnitMinute, Capacity: 1, Backoff: 10 * time.Millisecond}, WithLogger(log))
	require.NoError(t, err)

	require.NoError(t, l.Acquire(context.Background()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- l.Acquire(context.Background())
	}()

	// let the goroutine reach its wait
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, l.Close())

	select {
	case err := <-errCh:
		assert.True(t, errors.Is(err, ErrClosed))
	case <-time.After(time.Second):
		t.Fatal("blocked acquirer was not woken by Close")
	}

	// closed limiter rejects new acquirers and tolerates repeated Close
	assert.True(t, errors.Is(l.Acquire(context.Background()), ErrClosed))
	assert.False(t, l.TryAcquire())
	assert.NoError(t, l.Close())
}

func TestIndependentLimiters(t *testing.T) {
	cfg := Config{Unit: UnitMinute, Capacity: 1, Backoff: 10 * time.Millisecond}
	a := newTestLimiter(t, cfg)
	b := newTestLimiter(t, cfg)

	assert.True(t, a.TryAcquire())

	// exhausting a must not affect b
	assert.True(t, b.TryAcquire())
	assert.False(t, a.TryAcquire())
	assert.False(t, b.TryAcquire())
}

func TestDo_ReleasesOnError(t *testing.T) {
	l := newTestLimiter(t, Config{Unit: UnitMinute, Capacity: 1, Backoff: 10 * time.Millisecond})

	wantErr := errors.New("submit failed")
	err := l.Do(context.Background(), func() error {
		assert.Equal(t, int64(1), l.Snapshot().InFlight)
		return wantErr
	})
	assert.True(t, errors.Is(err, wantErr))

	// the permit came back even though fn failed
	assert.Equal(t, int64(0), l.Snapshot().InFlight)
}

func TestMetrics(t *testing.T) {
	l := newTestLimiter(t, Config{Unit: UnitMinute, Capacity: 1, Backoff: 10 * time.Millisecond})

	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = l.Acquire(ctx)

	snap := l.Metrics()
	assert.Equal(t, int64(1), snap.Admitted)
	assert.Equal(t, int64(1), snap.Throttled)
}

func TestEvents(t *testing.T) {
	l := newTestLimiter(t, Config{Unit: UnitMinute, Capacity: 1, Backoff: 10 * time.Millisecond})

	received := make(chan Event, 10)
	l.Events().Subscribe(func(ev Event) {
		received <- ev
	})

	require.NoError(t, l.Acquire(context.Background()))

	select {
	case ev := <-received:
		assert.Equal(t, EventAdmitted, ev.Type)
		assert.Equal(t, int64(0), ev.Remaining)
		assert.False(t, ev.At.IsZero())
	case <-time.After(time.Second):
		t.Fatal("admitted event was not delivered")
	}
}

func TestSnapshot(t *testing.T) {
	l := newTestLimiter(t, Config{Unit: UnitHour, Capacity: 3, Backoff: 10 * time.Millisecond})

	require.NoError(t, l.Acquire(context.Background()))

	snap := l.Snapshot()
	assert.Equal(t, int64(3), snap.Capacity)
	assert.Equal(t, int64(1), snap.Admitted)
	assert.Equal(t, int64(1), snap.InFlight)
	assert.Equal(t, int64(2), snap.Available)
	assert.Equal(t, time.Hour, snap.Window)
}
