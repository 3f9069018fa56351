package worker

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Task processes item i. Tasks needing scratch storage take it from an
// Arena.
type Task func(ctx context.Context, i int) error

// Runner executes independent items on a bounded set of goroutines.
type Runner struct {
	workers int

	// Atomic counters for lock-free statistics
	processed int64
	failed    int64
}

// NewRunner creates a runner with the given number of workers. workers < 1
// uses GOMAXPROCS.
func NewRunner(workers int) *Runner {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{workers: workers}
}

// Workers returns the number of worker goroutines.
func (r *Runner) Workers() int {
	return r.workers
}

// Run calls task for every item in [0, n). The first error cancels the
// remaining items; items already started run to completion. Items are
// dispatched in ascending order.
func (r *Runner) Run(ctx context.Context, n int, task Task) error {
	g, gctx := errgroup.WithContext(ctx)
	items := make(chan int)

	g.Go(func() error {
		defer close(items)
		for i := 0; i < n; i++ {
			select {
			case items <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	workers := min(r.workers, max(n, 1))
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for i := range items {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := task(gctx, i); err != nil {
					atomic.AddInt64(&r.failed, 1)
					logrus.WithFields(logrus.Fields{
						"function": "Runner.Run",
						"worker":   w,
						"item":     i,
						"error":    err.Error(),
					}).Error("Task failed")
					return err
				}
				atomic.AddInt64(&r.processed, 1)
			}
			return nil
		})
	}

	return g.Wait()
}

// Stats returns the number of items processed and failed so far.
func (r *Runner) Stats() (processed, failed int64) {
	return atomic.LoadInt64(&r.processed), atomic.LoadInt64(&r.failed)
}
