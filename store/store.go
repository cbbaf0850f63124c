// Package store runs reducers: it owns the state, reduces actions one at a
// time, runs the effects they return and feeds effect outputs back in.
//
// Actions are processed on a single logical timeline per root store. Send
// enqueues the action; if no other Send is draining the queue, the caller
// drains it, so actions produced synchronously by effects are reduced before
// the outermost Send returns. Sends issued while a drain is in progress
// (from an observer, an effect or another goroutine) are queued and handled
// by the active drainer before it finishes.
//
// Observers registered with Subscribe are notified once per drain, after
// every synchronously derived action has been reduced, and only if state
// changed.
package store

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/on-the-ground/composable_go/effects"
	"github.com/on-the-ground/composable_go/internal/snapshot"
	"github.com/on-the-ground/composable_go/reducer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Store exposes a state value and the actions that change it.
// Both root stores built by New and scoped stores built by Scope are Stores.
type Store[S, A any] struct {
	state     func() S
	send      func(A)
	subscribe func(func(S)) func()
	close     func()
	inFlight  func() int
}

// State returns a snapshot of the current state.
// The snapshot is deep when S implements Clone() S or holds no references.
func (s *Store[S, A]) State() S { return s.state() }

// Send reduces action and everything it synchronously leads to.
func (s *Store[S, A]) Send(action A) { s.send(action) }

// Subscribe registers fn for change notifications and returns a function that detaches it.
func (s *Store[S, A]) Subscribe(fn func(S)) (unsubscribe func()) { return s.subscribe(fn) }

// Close releases the store. For a root store it cancels every in-flight
// effect and detaches all observers; later sends are ignored. For a scoped
// store it only detaches the observers registered through it.
func (s *Store[S, A]) Close() { s.close() }

// InFlight reports how many effects of the root store are still running.
func (s *Store[S, A]) InFlight() int { return s.inFlight() }

// New builds a root store owning initial.
func New[S, A, E any](initial S, r reducer.Reducer[S, A, E], env E, opts ...Option[S]) *Store[S, A] {
	cfg := defaultConfig[S]()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.equal == nil && snapshot.Independent[S]() {
		cfg.equal = func(a, b S) bool { return reflect.DeepEqual(a, b) }
	}

	ctx, cancel := context.WithCancel(cfg.ctx)
	ctx, teardown := effects.WithCancellation(ctx)

	rt := &runtime[S, A, E]{
		state:     initial,
		reducer:   r,
		env:       env,
		ctx:       ctx,
		cancel:    cancel,
		teardown:  teardown,
		logger:    cfg.logger,
		tracer:    cfg.tracer,
		equal:     cfg.equal,
		observers: make(map[uint64]func(S)),
		inFlight:  make(map[string]*subscription),
	}
	if cfg.metrics != nil {
		rt.metrics = newMetrics(*cfg.metrics)
	}

	return &Store[S, A]{
		state:     rt.snapshot,
		send:      func(a A) { rt.enqueue(a, nil) },
		subscribe: rt.addObserver,
		close:     rt.close,
		inFlight:  rt.countInFlight,
	}
}

type runtime[S, A, E any] struct {
	stateMu sync.RWMutex
	state   S
	reducer reducer.Reducer[S, A, E]
	env     E

	queueMu  sync.Mutex
	queue    []queued[A]
	draining bool
	closed   bool

	obsMu     sync.Mutex
	observers map[uint64]func(S)
	nextObs   uint64

	subMu    sync.Mutex
	inFlight map[string]*subscription

	ctx      context.Context
	cancel   context.CancelFunc
	teardown func() context.Context

	logger  *zap.Logger
	metrics *metrics
	tracer  trace.Tracer
	equal   func(a, b S) bool
}

type queued[A any] struct {
	action A
	from   *subscription
}

// subscription is one running effect.
type subscription struct {
	id        string
	cancel    context.CancelFunc
	cancelled atomic.Bool
	started   time.Time
}

func (s *subscription) live() bool {
	return s == nil || !s.cancelled.Load()
}

func (rt *runtime[S, A, E]) snapshot() S {
	rt.stateMu.RLock()
	defer rt.stateMu.RUnlock()
	return snapshot.Of(rt.state)
}

func (rt *runtime[S, A, E]) enqueue(action A, from *subscription) {
	rt.queueMu.Lock()
	if rt.closed {
		rt.queueMu.Unlock()
		return
	}
	rt.queue = append(rt.queue, queued[A]{action: action, from: from})
	if rt.draining {
		rt.queueMu.Unlock()
		return
	}
	rt.draining = true
	rt.queueMu.Unlock()

	rt.drain()
}

// drain reduces queued actions until the queue is empty, notifying observers
// whenever it runs dry after a change. The caller must hold the drainer role.
func (rt *runtime[S, A, E]) drain() {
	var (
		before    S
		processed bool
	)
	for {
		rt.queueMu.Lock()
		if len(rt.queue) == 0 {
			if !processed {
				rt.draining = false
				rt.queueMu.Unlock()
				return
			}
			rt.queueMu.Unlock()

			rt.notify(before)
			processed = false
			continue
		}
		item := rt.queue[0]
		rt.queue[0] = queued[A]{}
		rt.queue = rt.queue[1:]
		rt.queueMu.Unlock()

		if !item.from.live() {
			rt.logger.Debug("dropped output of cancelled effect",
				zap.String("effectId", item.from.id),
				zap.String("action", fmt.Sprintf("%T", item.action)),
			)
			rt.metrics.outputDropped()
			continue
		}

		if !processed {
			if rt.equal != nil {
				before = rt.snapshot()
			}
			processed = true
		}

		for _, e := range rt.reduce(item.action) {
			rt.run(e)
		}
	}
}

func (rt *runtime[S, A, E]) reduce(action A) []effects.Effect[A] {
	actionType := fmt.Sprintf("%T", action)
	_, span := rt.tracer.Start(rt.ctx, "store.reduce",
		trace.WithAttributes(attribute.String("store.action", actionType)),
	)
	defer span.End()

	start := time.Now()
	rt.stateMu.Lock()
	effs := rt.reducer(&rt.state, action, rt.env)
	rt.stateMu.Unlock()

	rt.metrics.reduced(actionType, time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("store.effects", len(effs)))
	return effs
}

func (rt *runtime[S, A, E]) run(e effects.Effect[A]) {
	sub := &subscription{id: uuid.NewString(), started: time.Now()}

	ctx, cancel := context.WithCancel(rt.ctx)
	sub.cancel = cancel
	ctx = effects.WithCancelHook(ctx, func() { sub.cancelled.Store(true) })

	rt.subMu.Lock()
	rt.inFlight[sub.id] = sub
	rt.subMu.Unlock()

	rt.metrics.effectStarted()
	rt.logger.Debug("effect started", zap.String("effectId", sub.id))

	e.Run(ctx,
		func(a A) { rt.enqueue(a, sub) },
		func() { rt.finish(sub) },
	)
}

func (rt *runtime[S, A, E]) finish(sub *subscription) {
	rt.subMu.Lock()
	_, ok := rt.inFlight[sub.id]
	delete(rt.inFlight, sub.id)
	rt.subMu.Unlock()
	if !ok {
		return
	}
	sub.cancel()

	cancelled := sub.cancelled.Load()
	rt.metrics.effectFinished(cancelled)
	if cancelled {
		rt.logger.Debug("effect cancelled", zap.String("effectId", sub.id))
		return
	}
	rt.logger.Debug("effect completed",
		zap.String("effectId", sub.id),
		zap.Duration("took", time.Since(sub.started)),
	)
}

func (rt *runtime[S, A, E]) notify(before S) {
	current := rt.snapshot()
	if rt.equal != nil && rt.equal(before, current) {
		return
	}

	rt.obsMu.Lock()
	observers := make([]func(S), 0, len(rt.observers))
	for _, fn := range rt.observers {
		observers = append(observers, fn)
	}
	rt.obsMu.Unlock()

	for _, fn := range observers {
		fn(current)
	}
	rt.metrics.notified()
}

func (rt *runtime[S, A, E]) addObserver(fn func(S)) func() {
	rt.obsMu.Lock()
	defer rt.obsMu.Unlock()
	id := rt.nextObs
	rt.nextObs++
	rt.observers[id] = fn

	return func() {
		rt.obsMu.Lock()
		defer rt.obsMu.Unlock()
		delete(rt.observers, id)
	}
}

func (rt *runtime[S, A, E]) close() {
	rt.queueMu.Lock()
	if rt.closed {
		rt.queueMu.Unlock()
		return
	}
	rt.closed = true
	rt.queue = nil
	rt.queueMu.Unlock()

	rt.subMu.Lock()
	subs := make([]*subscription, 0, len(rt.inFlight))
	for _, sub := range rt.inFlight {
		subs = append(subs, sub)
	}
	rt.subMu.Unlock()

	for _, sub := range subs {
		sub.cancelled.Store(true)
	}
	rt.teardown()
	rt.cancel()
	for _, sub := range subs {
		rt.finish(sub)
	}

	rt.obsMu.Lock()
	clear(rt.observers)
	rt.obsMu.Unlock()

	rt.logger.Debug("store closed", zap.Int("cancelledEffects", len(subs)))
}

func (rt *runtime[S, A, E]) countInFlight() int {
	rt.subMu.Lock()
	defer rt.subMu.Unlock()
	return len(rt.inFlight)
}
