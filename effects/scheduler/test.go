package scheduler

import (
	"sync"
	"time"
)

var _ Scheduler = (*TestScheduler)(nil)

// TestScheduler is a virtual clock. Scheduled jobs only run when the clock
// is advanced, on the goroutine calling Advance or Run.
type TestScheduler struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	pending jobQueue
}

// NewTest returns a virtual clock starting at start, or at the Unix epoch when start is zero.
func NewTest(start time.Time) *TestScheduler {
	if start.IsZero() {
		start = time.Unix(0, 0).UTC()
	}
	return &TestScheduler{now: start}
}

func (s *TestScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *TestScheduler) Schedule(d time.Duration, fn func()) func() {
	if d < 0 {
		d = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	j := &job{due: s.now.Add(d), seq: s.seq, fn: fn}
	s.pending.insert(j)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pending.remove(j)
	}
}

// Advance moves the clock forward by d, running every job that falls due on
// the way in due order. Jobs scheduled by running jobs are honoured when they
// fall inside the window.
func (s *TestScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	deadline := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next, ok := s.pending.popDue(deadline)
		if !ok {
			s.now = deadline
			s.mu.Unlock()
			return
		}
		s.now = next.due
		s.mu.Unlock()

		next.fn()
	}
}

// Run advances the clock until no job is pending.
func (s *TestScheduler) Run() {
	for {
		s.mu.Lock()
		if s.pending.len() == 0 {
			s.mu.Unlock()
			return
		}
		last := s.pending.data[s.pending.len()-1].due
		d := last.Sub(s.now)
		s.mu.Unlock()

		s.Advance(d)
	}
}

// Pending reports how many jobs wait for the clock.
func (s *TestScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.len()
}
