// ABOUTME: Cancellable scheduled tasks: a trailing-edge debouncer and a fixed interval.
// ABOUTME: Used by the non-interactive commands; the TUI uses tick messages instead.
package schedule

import (
	"context"
	"sync"
	"time"
)

// Debouncer runs only the last function triggered within a quiet period.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the delay, replacing any pending call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A timer that fired while Trigger or Cancel held the lock is stale.
		stale := gen != d.gen
		if !stale {
			d.timer = nil
		}
		d.mu.Unlock()
		if !stale {
			fn()
		}
	})
}

// Cancel drops the pending call, if any. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

// Interval calls a function on a fixed period until stopped.
type Interval struct {
	period time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewInterval creates an interval task with the given period.
func NewInterval(period time.Duration) *Interval {
	return &Interval{period: period}
}

// Start runs fn every period until ctx is done or Stop is called. Calls are not
// serialized against each other: a slow fn may still be running when the next
// tick fires. Start on a running Interval restarts it.
func (i *Interval) Start(ctx context.Context, fn func(context.Context)) {
	i.Stop()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	i.mu.Lock()
	i.cancel = cancel
	i.done = done
	i.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(i.period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				go fn(ctx)
			}
		}
	}()
}

// Stop halts the interval and waits for the ticking goroutine to exit. In-flight
// calls see their context cancelled but are not waited for.
func (i *Interval) Stop() {
	i.mu.Lock()
	cancel, done := i.cancel, i.done
	i.cancel, i.done = nil, nil
	i.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
