// Package outbound is the single place where the engine's best-effort
// remote calls run. Every analytics write and cart mirror goes through
// here: one attempt, bounded by a timeout, failure logged and counted,
// never retried, never surfaced to the caller.
package outbound

import (
	"context"
	"sync"
	"time"

	"kneexEngine/pkg/logger"
	"kneexEngine/pkg/metrics"
)

type Queue struct {
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewQueue(timeout time.Duration) *Queue {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Queue{timeout: timeout}
}

// Go runs fn in the background. The caller returns immediately; a failed
// call is terminal at this point.
func (q *Queue) Go(operation string, fn func(ctx context.Context) error) {
	q.wg.Add(1)

	go func() {
		defer q.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			metrics.OutboundFailures.WithLabelValues(operation).Inc()
			logger.Warn("Best-effort call failed", "operation", operation, "error", err)
		}
	}()
}

// Drain waits for in-flight calls to finish. Used on shutdown and by tests
// that need the fire-and-forget paths to have settled.
func (q *Queue) Drain(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
