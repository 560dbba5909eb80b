package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// IntervalTrigger submits one job of a kind every interval
type IntervalTrigger struct {
	kind      string
	interval  time.Duration
	scheduler *Scheduler
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalTrigger creates a stopped trigger
func NewIntervalTrigger(kind string, interval time.Duration, scheduler *Scheduler, logger *zap.Logger) *IntervalTrigger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntervalTrigger{kind: kind, interval: interval, scheduler: scheduler, logger: logger}
}

// Start begins ticking. The first job is submitted after one interval.
func (t *IntervalTrigger) Start(ctx context.Context) error {
	if t.interval <= 0 {
		return ErrInvalidInterval
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isRunning {
		return nil
	}
	t.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.wg.Add(1)
	go t.run(ctx)

	t.logger.Info("Interval trigger started", zap.String("kind", t.kind), zap.Duration("interval", t.interval))
	return nil
}

// Stop halts the trigger
func (t *IntervalTrigger) Stop() {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return
	}
	t.isRunning = false
	t.mu.Unlock()

	t.cancel()
	t.wg.Wait()
}

func (t *IntervalTrigger) run(ctx context.Context) {
	defer t.wg.Done()
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := t.scheduler.Submit(t.kind); err != nil {
				if errors.Is(err, ErrSchedulerNotRunning) {
					return
				}
				t.logger.Warn("Failed to submit scheduled job", zap.String("kind", t.kind), zap.Error(err))
			}
		}
	}
}
