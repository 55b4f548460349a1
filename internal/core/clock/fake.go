package clock

import (
	"sort"
	"time"
)

// Fake is a deterministic Scheduler driven by Advance. It is not safe for
// concurrent use; like the widgets it drives, it belongs to one goroutine.
type Fake struct {
	now    time.Time
	seq    uint64
	timers []*fakeTimer
}

// NewFake returns a Fake whose clock starts at the Unix epoch.
func NewFake() *Fake {
	return &Fake{now: time.Unix(0, 0)}
}

// Now returns the current fake time.
func (f *Fake) Now() time.Time {
	return f.now
}

// Elapsed returns the time advanced since the fake was created.
func (f *Fake) Elapsed() time.Duration {
	return f.now.Sub(time.Unix(0, 0))
}

// AfterFunc implements Scheduler.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.seq++
	t := &fakeTimer{
		fake: f,
		at:   f.now.Add(d),
		seq:  f.seq,
		fn:   fn,
	}
	f.timers = append(f.timers, t)
	return t
}

// Advance moves the clock forward by d, running every callback that becomes
// due in deadline order. Callbacks scheduled while advancing run too if their
// deadline falls inside the window.
func (f *Fake) Advance(d time.Duration) {
	target := f.now.Add(d)
	for {
		t := f.next(target)
		if t == nil {
			break
		}
		f.now = t.at
		t.done = true
		f.remove(t)
		t.fn()
	}
	f.now = target
}

// Pending returns the number of timers that have not fired or been stopped.
func (f *Fake) Pending() int {
	return len(f.timers)
}

func (f *Fake) next(target time.Time) *fakeTimer {
	if len(f.timers) == 0 {
		return nil
	}
	sort.SliceStable(f.timers, func(i, j int) bool {
		if f.timers[i].at.Equal(f.timers[j].at) {
			return f.timers[i].seq < f.timers[j].seq
		}
		return f.timers[i].at.Before(f.timers[j].at)
	})
	if f.timers[0].at.After(target) {
		return nil
	}
	return f.timers[0]
}

func (f *Fake) remove(t *fakeTimer) {
	for i, other := range f.timers {
		if other == t {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)
			return
		}
	}
}

type fakeTimer struct {
	fake *Fake
	at   time.Time
	seq  uint64
	fn   func()
	done bool
}

func (t *fakeTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.fake.remove(t)
	return true
}
