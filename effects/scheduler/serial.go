package scheduler

import (
	"context"
	"sync"
	"time"
)

var _ Scheduler = (*Serial)(nil)

// Serial runs every job on one dedicated worker goroutine, in the order jobs
// fall due. It plays the role of a UI "main queue": effect outputs hopped onto
// it are delivered from a single goroutine.
//
// The queue is unbounded so that jobs scheduled from the worker itself never block.
// The worker stops when ctx is done; jobs left in the queue are dropped.
type Serial struct {
	ctx  context.Context
	mu   sync.Mutex
	jobs []func()
	wake chan struct{}
	done chan struct{}
}

// NewSerial starts the worker goroutine and returns once it is running.
func NewSerial(ctx context.Context) *Serial {
	s := &Serial{
		ctx:  ctx,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	ready := make(chan struct{})

	go func() {
		defer close(s.done)
		close(ready)
		for {
			select {
			case <-s.wake:
				s.drain()
			case <-ctx.Done():
				return
			}
		}
	}()

	<-ready
	return s
}

func (s *Serial) drain() {
	for {
		s.mu.Lock()
		if len(s.jobs) == 0 {
			s.mu.Unlock()
			return
		}
		fn := s.jobs[0]
		s.jobs = s.jobs[1:]
		s.mu.Unlock()

		if s.ctx.Err() != nil {
			return
		}
		fn()
	}
}

func (s *Serial) enqueue(fn func()) {
	s.mu.Lock()
	s.jobs = append(s.jobs, fn)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Serial) Now() time.Time { return time.Now() }

func (s *Serial) Schedule(d time.Duration, fn func()) func() {
	var (
		mu        sync.Mutex
		cancelled bool
	)
	guarded := func() {
		mu.Lock()
		skip := cancelled
		mu.Unlock()
		if !skip {
			fn()
		}
	}
	cancel := func() {
		mu.Lock()
		cancelled = true
		mu.Unlock()
	}

	if d <= 0 {
		s.enqueue(guarded)
		return cancel
	}

	timer := time.AfterFunc(d, func() { s.enqueue(guarded) })
	return func() {
		timer.Stop()
		cancel()
	}
}

// Done is closed once the worker goroutine has exited.
func (s *Serial) Done() <-chan struct{} {
	return s.done
}
