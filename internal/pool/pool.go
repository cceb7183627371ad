// Package pool runs the items of one chunk on a bounded set of workers.
//
// Workers pull item indexes from a shared counter until the items run out,
// the context is cancelled, or some worker reports a match. Matching is
// cooperative: a worker already inside an item finishes it before it sees
// the found flag, so callers must tolerate work that completes after the
// accepted result.
package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrWorkerPanic is returned when a work item panics.
var ErrWorkerPanic = errors.New("pool: worker panicked")

// Config holds the pool sizing and its logger.
type Config struct {
	NumWorkers int         // default: GOMAXPROCS
	Logger     *zap.Logger // default: no-op
}

// NewConfig returns a Config with non-positive worker counts and a nil
// logger replaced by their defaults.
func NewConfig(numWorkers int, logger *zap.Logger) Config {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return Config{
		NumWorkers: numWorkers,
		Logger:     logger,
	}
}

// FindAny calls fn for the indexes [0, n) on up to cfg.NumWorkers goroutines
// and returns the value of the first call that reports ok. Which of several
// matching indexes wins is not specified.
//
// The first error or panic from any item stops the remaining workers and is
// returned; a panic is wrapped in ErrWorkerPanic.
func FindAny[T any](
	ctx context.Context,
	cfg Config,
	n int,
	fn func(ctx context.Context, i int) (T, bool, error),
) (res T, found bool, err error) {
	if n <= 0 {
		return res, false, ctx.Err()
	}
	cfg = NewConfig(cfg.NumWorkers, cfg.Logger)
	numWorkers := min(cfg.NumWorkers, n)

	var (
		next   atomic.Int64
		done   atomic.Bool
		winner atomic.Pointer[T]
	)

	eg, egCtx := errgroup.WithContext(ctx)
	for w := 0; w < numWorkers; w++ {
		w := w // per-iteration copy; go.mod targets go 1.21 (pre-1.22 loopvar semantics)
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					cfg.Logger.Error("panic in pool worker",
						zap.Int("worker", w),
						zap.Any("error", r),
					)
					err = fmt.Errorf("%w: %v", ErrWorkerPanic, r)
				}
			}()

			for !done.Load() {
				select {
				case <-egCtx.Done():
					return egCtx.Err()
				default:
				}

				i := int(next.Add(1) - 1)
				if i >= n {
					return nil
				}

				v, ok, err := fn(egCtx, i)
				if err != nil {
					return err
				}
				if ok && done.CompareAndSwap(false, true) {
					winner.Store(&v)
				}
			}
			return nil
		})
	}

	if err = eg.Wait(); err != nil {
		var zero T
		return zero, false, err
	}
	if v := winner.Load(); v != nil {
		return *v, true, nil
	}
	return res, false, nil
}

// Any reports whether pred holds for at least one index in [0, n).
// It stops handing out indexes as soon as one worker finds a match.
func Any(
	ctx context.Context,
	cfg Config,
	n int,
	pred func(ctx context.Context, i int) (bool, error),
) (bool, error) {
	_, found, err := FindAny(ctx, cfg, n, func(ctx context.Context, i int) (struct{}, bool, error) {
		ok, err := pred(ctx, i)
		return struct{}{}, ok, err
	})
	return found, err
}
