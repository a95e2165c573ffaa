package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/loomery-io/loomery-backend/pkg/logger"
)

// Runner executes detached tasks after request handling has finished. The
// spawning request's context is not reused so an early client disconnect
// cannot cancel the task.
type Runner struct {
	logg    *logger.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRunner builds a runner. Tasks are bounded by the given timeout.
func NewRunner(logg *logger.Logger, timeout time.Duration) (*Runner, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{logg: logg, timeout: timeout}, nil
}

// Go runs the task on its own goroutine. Failures are logged, never
// propagated; the caller has already responded by the time the task runs.
func (r *Runner) Go(name string, task func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		ctx = r.logg.WithField(ctx, "task", name)

		defer func() {
			if rec := recover(); rec != nil {
				r.logg.Error(ctx, "background task panicked", fmt.Errorf("panic: %v", rec))
			}
		}()

		if err := task(ctx); err != nil {
			r.logg.Error(ctx, "background task failed", err)
			return
		}
		r.logg.Info(ctx, "background task finished")
	}()
}

// Drain blocks until in-flight tasks complete or the context expires. Used
// during shutdown.
func (r *Runner) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
