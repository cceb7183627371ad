package progress

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// WithZapReporter starts a fire-and-forget reporter that logs every event
// through logger on its own goroutine, so a slow sink never stalls the
// search.
//
//   - Events are buffered up to bufferSize (minimum 1); a full buffer blocks
//     the caller until the logging goroutine catches up.
//   - Once ctx is done, events are dropped.
//   - The returned teardown flushes pending events, stops the goroutine and
//     syncs the logger. It is safe to call more than once; reporting after
//     teardown is a no-op.
func WithZapReporter(
	ctx context.Context,
	bufferSize int,
	logger *zap.Logger,
) (Reporter, func()) {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	ctx, cancelFn := context.WithCancel(ctx)
	eventCh := make(chan Event, bufferSize)
	doneCh := make(chan struct{})

	go func() {
		defer close(doneCh)
		for {
			select {
			case ev, ok := <-eventCh:
				if !ok {
					return
				}
				logger.Info("factorization progress",
					zap.Int("percent", ev.Percent),
					zap.Stringer("consumed", ev.Consumed),
					zap.Stringer("total", ev.Total),
					zap.Duration("elapsed", ev.Elapsed()),
				)
			case <-ctx.Done():
				return
			}
		}
	}()

	var (
		mu     sync.RWMutex
		closed bool
		once   sync.Once
	)

	report := func(ev Event) {
		mu.RLock()
		defer mu.RUnlock()
		if closed {
			return
		}
		select {
		case <-ctx.Done():
		case eventCh <- ev:
		}
	}

	teardown := func() {
		once.Do(func() {
			mu.Lock()
			closed = true
			close(eventCh)
			mu.Unlock()

			<-doneCh
			cancelFn()
			if err := logger.Sync(); err != nil {
				logger.Warn("failed to sync logger", zap.Error(err))
			}
		})
	}

	return report, teardown
}
