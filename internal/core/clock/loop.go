package clock

import (
	"context"
	"sync"
	"time"
)

// Loop is a wall-clock Scheduler that hands expired callbacks to a single
// consumer instead of running them on the timer goroutine. The consumer is
// either a bubbletea command reading from C or a call to Run.
type Loop struct {
	ch chan func()
}

// NewLoop creates a Loop whose delivery channel holds up to buf callbacks.
func NewLoop(buf int) *Loop {
	return &Loop{ch: make(chan func(), buf)}
}

// C returns the channel expired callbacks are delivered on. Each value must
// be invoked by the receiver.
func (l *Loop) C() <-chan func() {
	return l.ch
}

// Run executes delivered callbacks until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.ch:
			fn()
		}
	}
}

// AfterFunc implements Scheduler.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.ch <- t.fire(fn)
	})
	return t
}

type loopTimer struct {
	timer *time.Timer

	mu      sync.Mutex
	stopped bool
	fired   bool
}

// fire wraps fn so a Stop issued between expiry and consumption still wins.
func (t *loopTimer) fire(fn func()) func() {
	return func() {
		t.mu.Lock()
		if t.stopped {
			t.mu.Unlock()
			return
		}
		t.fired = true
		t.mu.Unlock()
		fn()
	}
}

func (t *loopTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}
