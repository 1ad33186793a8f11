package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/autoscribe-io/autoscribe/internal/logger"
	"github.com/autoscribe-io/autoscribe/internal/media"
	"github.com/autoscribe-io/autoscribe/internal/processor"
)

// ErrStopped is returned by Submit once shutdown has begun.
var ErrStopped = errors.New("scheduler stopped")

// Scheduler bounds the number of concurrently executing pipelines.
// Admission is backpressured: Submit blocks while every worker is busy,
// so neither the backlog nor the live event stream can grow an unbounded
// in-memory queue.
type Scheduler struct {
	proc    processor.Processor
	log     logger.Logger
	workers int

	jobs chan media.Item
	quit chan struct{}
	wg   sync.WaitGroup

	mu       sync.Mutex
	stats    Stats
	stopOnce sync.Once

	workCtx    context.Context
	cancelWork context.CancelFunc
}

// Stats tallies pipeline results across one scheduler lifetime.
type Stats struct {
	Completed int
	Skipped   int
	Failed    int
}

// New creates a Scheduler running at most workers pipelines at once.
func New(workers int, proc processor.Processor, log logger.Logger) *Scheduler {
	return &Scheduler{
		proc:    proc,
		log:     log,
		workers: workers,
		jobs:    make(chan media.Item),
		quit:    make(chan struct{}),
	}
}

// Start launches the worker pool. Workers run until Shutdown; in-flight
// executions observe workCtx, which Shutdown cancels when the grace
// period expires.
func (s *Scheduler) Start(ctx context.Context) {
	s.workCtx, s.cancelWork = context.WithCancel(ctx)

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case item := <-s.jobs:
					s.record(s.proc.Process(s.workCtx, item))
				case <-s.quit:
					return
				}
			}
		}()
	}
}

// Submit hands one item to the pool, blocking while the pool is
// saturated. It returns ctx.Err() if the caller's context is cancelled
// while waiting and ErrStopped once shutdown has begun.
func (s *Scheduler) Submit(ctx context.Context, item media.Item) error {
	select {
	case <-s.quit:
		return ErrStopped
	default:
	}

	select {
	case s.jobs <- item:
		return nil
	case <-s.quit:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops admission, waits up to grace for in-flight executions to
// finish, then cancels them and waits for the workers to exit. Lock
// release is owned by the pipeline executions themselves (deferred), so
// every held lock is released before Shutdown returns.
func (s *Scheduler) Shutdown(grace time.Duration) Stats {
	s.stopOnce.Do(func() {
		close(s.quit)

		timer := time.AfterFunc(grace, func() {
			s.log.Warn(context.Background(), "Shutdown grace period expired, cancelling in-flight work")
			s.cancelWork()
		})
		s.wg.Wait()
		timer.Stop()
		s.cancelWork()
	})

	return s.Stats()
}

// Stats returns a snapshot of the result tally.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Scheduler) record(r processor.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case r == processor.Completed:
		s.stats.Completed++
	case r.Failed():
		s.stats.Failed++
	default:
		s.stats.Skipped++
	}
}
