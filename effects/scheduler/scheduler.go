// Package scheduler provides the clocks effects are timed against.
//
// Effects never read ambient time. Delays, debounces and hops onto a
// designated goroutine all go through a Scheduler handed to them by the
// environment, so tests can swap in a virtual clock and advance it
// deterministically.
package scheduler

import (
	"time"
)

// Scheduler runs work after a delay.
type Scheduler interface {
	// Now reports the scheduler's current time.
	Now() time.Time
	// Schedule runs fn once d has elapsed. A non-positive d means "as soon as possible".
	// The returned function cancels fn if it has not started yet.
	Schedule(d time.Duration, fn func()) (cancel func())
}

// Immediate runs every job synchronously on the calling goroutine, ignoring delays.
func Immediate() Scheduler {
	return immediate{}
}

type immediate struct{}

func (immediate) Now() time.Time { return time.Now() }

func (immediate) Schedule(_ time.Duration, fn func()) func() {
	fn()
	return func() {}
}

// Live runs jobs on runtime timers. Jobs run on timer goroutines.
func Live() Scheduler {
	return live{}
}

type live struct{}

func (live) Now() time.Time { return time.Now() }

func (live) Schedule(d time.Duration, fn func()) func() {
	if d < 0 {
		d = 0
	}
	timer := time.AfterFunc(d, fn)
	return func() { timer.Stop() }
}
