package limiter

import (
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// resetter drives the periodic window reset.
//
// The job fires at a fixed rate, first after one full window, and its
// lifetime is tied to the limiter: Close shuts the scheduler down so tests
// never leak a background task.
type resetter struct {
	scheduler gocron.Scheduler
}

// startResetter schedules the window reset job and starts the scheduler
func (l *WindowLimiter) startResetter() error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create reset scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(l.window),
		gocron.NewTask(l.runReset),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("schedule window reset: %w", err)
	}

	scheduler.Start()
	l.resetter = &resetter{scheduler: scheduler}
	return nil
}

// runReset guards the reset so a panic cannot kill future firings
// (log-and-continue policy)
func (l *WindowLimiter) runReset() {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("window reset panicked", zap.Any("panic", r))
		}
	}()

	l.reset()
}

// stop shuts the scheduler down and waits for a running job to finish
func (r *resetter) stop() error {
	if err := r.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("shutdown reset scheduler: %w", err)
	}
	return nil
}
