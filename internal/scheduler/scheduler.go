package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"channelpass-be/internal/pkg/logger"
)

// Scheduler runs background tasks on a fixed interval. It is injected into
// services so the engine stays free of process-wide timer state and multiple
// instances can run side by side in tests.
type Scheduler interface {
	// Every runs task immediately and then on every interval tick. If a
	// run is still in progress when the next tick fires, that tick is
	// skipped, not queued.
	Every(interval time.Duration, name string, task func(ctx context.Context))
	Stop()
}

type TickerScheduler struct {
	logger logger.ILogger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTickerScheduler(log logger.ILogger) *TickerScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &TickerScheduler{
		logger: log,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *TickerScheduler) Every(interval time.Duration, name string, task func(ctx context.Context)) {
	var running atomic.Bool

	run := func() {
		if !running.CompareAndSwap(false, true) {
			s.logger.Warn("Scheduler", "Tick skipped, previous run still in progress", map[string]interface{}{"task": name})
			return
		}
		defer running.Store(false)
		task(s.ctx)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// Eager first run at startup.
		run()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}

func (s *TickerScheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}
