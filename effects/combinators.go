package effects

import (
	"context"
	"sync"
	"time"

	"github.com/on-the-ground/composable_go/effects/scheduler"
)

// Map transforms every value of e with f. Cardinality and completion are preserved.
func Map[A, B any](e Effect[A], f func(A) B) Effect[B] {
	return New(func(ctx context.Context, emit func(B), done func()) {
		e.Run(ctx, func(a A) { emit(f(a)) }, done)
	})
}

// CompactMap transforms values with f and drops those it rejects.
func CompactMap[A, B any](e Effect[A], f func(A) (B, bool)) Effect[B] {
	return New(func(ctx context.Context, emit func(B), done func()) {
		e.Run(ctx, func(a A) {
			if b, ok := f(a); ok {
				emit(b)
			}
		}, done)
	})
}

// Discard runs e for its side effects and drops every value.
// Typical use is lifting an Effect[Never] into an action type.
func Discard[A, B any](e Effect[A]) Effect[B] {
	return New(func(ctx context.Context, _ func(B), done func()) {
		e.Run(ctx, func(A) {}, done)
	})
}

// Merge runs all effects at once and completes when every one of them has completed.
// Values are forwarded one at a time.
func Merge[A any](effs ...Effect[A]) Effect[A] {
	if len(effs) == 0 {
		return None[A]()
	}
	return New(func(ctx context.Context, emit func(A), done func()) {
		var (
			mu        sync.Mutex
			remaining = len(effs)
		)
		serialized := func(a A) {
			mu.Lock()
			defer mu.Unlock()
			emit(a)
		}
		for _, e := range effs {
			e.Run(ctx, serialized, func() {
				mu.Lock()
				remaining--
				last := remaining == 0
				mu.Unlock()
				if last {
					done()
				}
			})
		}
	})
}

// Concat runs effects one after another; each starts once the previous one completes.
func Concat[A any](effs ...Effect[A]) Effect[A] {
	return New(func(ctx context.Context, emit func(A), done func()) {
		var next func(i int)
		next = func(i int) {
			if i == len(effs) || ctx.Err() != nil {
				done()
				return
			}
			effs[i].Run(ctx, emit, func() { next(i + 1) })
		}
		next(0)
	})
}

// Delay re-emits every value of e after d on s. Completion is delayed by the same amount.
// Values and completion are delivered in upstream order even when s runs jobs concurrently.
func (e Effect[A]) Delay(d time.Duration, s scheduler.Scheduler) Effect[A] {
	return New(func(ctx context.Context, emit func(A), done func()) {
		type job struct {
			value  A
			last   bool
			ready  bool
			cancel func()
		}
		var (
			mu       sync.Mutex
			queue    []*job
			flushing bool
		)

		stop := context.AfterFunc(ctx, func() {
			mu.Lock()
			cancels := make([]func(), 0, len(queue))
			for _, j := range queue {
				if j.cancel != nil {
					cancels = append(cancels, j.cancel)
				}
			}
			queue = nil
			mu.Unlock()
			for _, c := range cancels {
				c()
			}
		})

		// flush delivers the ready prefix of queue. Only one goroutine flushes at a time.
		flush := func() {
			mu.Lock()
			if flushing {
				mu.Unlock()
				return
			}
			flushing = true
			for len(queue) > 0 && queue[0].ready {
				j := queue[0]
				queue = queue[1:]
				mu.Unlock()
				if j.last {
					stop()
					done()
				} else {
					emit(j.value)
				}
				mu.Lock()
			}
			flushing = false
			mu.Unlock()
		}

		schedule := func(j *job) {
			mu.Lock()
			queue = append(queue, j)
			mu.Unlock()

			cancel := s.Schedule(d, func() {
				mu.Lock()
				j.ready = true
				mu.Unlock()
				flush()
			})

			mu.Lock()
			if !j.ready {
				j.cancel = cancel
			}
			mu.Unlock()
		}

		e.Run(ctx,
			func(a A) { schedule(&job{value: a}) },
			func() { schedule(&job{last: true}) },
		)
	})
}

// ReceiveOn re-emits the values of e on s without delay.
func (e Effect[A]) ReceiveOn(s scheduler.Scheduler) Effect[A] {
	return e.Delay(0, s)
}
