package effects

import (
	"context"
	"sync"
)

// Never is the element type of effects that produce no output.
// Use Discard to lift an Effect[Never] into any other action type.
type Never struct{}

// Effect is a lazy unit of work that emits values of type A and then completes.
// The zero value completes immediately without output.
type Effect[A any] struct {
	run func(ctx context.Context, emit func(A), done func())
}

// New builds an effect from a subscription function.
// run must call emit only before done, and done at most once.
func New[A any](run func(ctx context.Context, emit func(A), done func())) Effect[A] {
	return Effect[A]{run: run}
}

// Run subscribes to the effect.
//
// emit is not called after done or after ctx is cancelled. done is called
// exactly once when the effect completes or ctx is cancelled, whichever
// comes first.
func (e Effect[A]) Run(ctx context.Context, emit func(A), done func()) {
	if e.run == nil {
		done()
		return
	}

	s := &subscription[A]{ctx: ctx, emit: emit, done: done}
	s.mu.Lock()
	s.stop = context.AfterFunc(ctx, s.finish)
	s.mu.Unlock()

	e.run(ctx, s.send, s.finish)
}

type subscription[A any] struct {
	ctx      context.Context
	emit     func(A)
	done     func()
	mu       sync.Mutex
	stop     func() bool
	finished bool
}

func (s *subscription[A]) send(a A) {
	s.mu.Lock()
	closed := s.finished || s.ctx.Err() != nil
	s.mu.Unlock()
	if closed {
		return
	}
	s.emit(a)
}

func (s *subscription[A]) finish() {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	stop := s.stop
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
	s.done()
}

// None completes immediately without output.
func None[A any]() Effect[A] {
	return Effect[A]{}
}

// FireAndForget runs work when subscribed and completes without output.
func FireAndForget[A any](work func()) Effect[A] {
	return New(func(_ context.Context, _ func(A), done func()) {
		work()
		done()
	})
}

// Sync runs work when subscribed, emits its result and completes, all before Run returns.
func Sync[A any](work func() A) Effect[A] {
	return New(func(_ context.Context, emit func(A), done func()) {
		emit(work())
		done()
	})
}

// Just emits a single value synchronously.
func Just[A any](a A) Effect[A] {
	return Sync(func() A { return a })
}

// Future runs fn on its own goroutine and emits the result unless ctx was cancelled meanwhile.
func Future[A any](fn func(context.Context) A) Effect[A] {
	return New(func(ctx context.Context, emit func(A), done func()) {
		ready := make(chan struct{})
		go func() {
			close(ready)
			defer done()

			select {
			case <-ctx.Done():
				return
			default:
			}

			res := fn(ctx)
			if ctx.Err() == nil {
				emit(res)
			}
		}()
		<-ready
	})
}

// Attempt is Future for fallible work. Errors are handed to recover, which
// decides whether they become a value (ok) or are swallowed.
// A nil recover swallows every error.
func Attempt[A any](fn func(context.Context) (A, error), recover func(error) (A, bool)) Effect[A] {
	return New(func(ctx context.Context, emit func(A), done func()) {
		ready := make(chan struct{})
		go func() {
			close(ready)
			defer done()

			res, err := fn(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				if recover == nil {
					return
				}
				var ok bool
				if res, ok = recover(err); !ok {
					return
				}
			}
			emit(res)
		}()
		<-ready
	})
}

// Collect runs e and blocks until it completes or ctx is done, returning every emitted value.
func Collect[A any](ctx context.Context, e Effect[A]) []A {
	var (
		mu  sync.Mutex
		out []A
	)
	finished := make(chan struct{})
	e.Run(ctx, func(a A) {
		mu.Lock()
		out = append(out, a)
		mu.Unlock()
	}, func() { close(finished) })

	select {
	case <-finished:
	case <-ctx.Done():
	}

	mu.Lock()
	defer mu.Unlock()
	return append([]A(nil), out...)
}

// Forever neither emits nor completes; only cancellation of its context ends it.
func Forever[A any]() Effect[A] {
	return New(func(context.Context, func(A), func()) {})
}
