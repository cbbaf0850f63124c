// Package storetest checks reducers step by step.
//
// A TestStore reduces actions on a private copy of state and runs the
// effects they return, but instead of feeding effect outputs back in, it
// queues them. Each output has to be claimed with Receive, and every state
// change has to be predicted by the test:
//
//	ts := storetest.New(t, counter.State{}, counter.Reducer, env)
//	ts.Send(counter.IncrTapped{}, func(s *counter.State) { s.Count = 1 })
//	ts.Send(counter.NthPrimeButtonTapped{}, func(s *counter.State) { s.IsNthPrimeButtonDisabled = true })
//	ts.Receive(counter.NthPrimeResponse{N: 1, Prime: &two}, func(s *counter.State) { ... })
//	ts.Finish()
//
// Finish fails the test if outputs were left unclaimed or effects are still running.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/on-the-ground/composable_go/effects"
	"github.com/on-the-ground/composable_go/internal/snapshot"
	"github.com/on-the-ground/composable_go/reducer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultTimeout = time.Second

// TestStore drives a reducer one action at a time.
type TestStore[S, A, E any] struct {
	t       testing.TB
	state   S
	reducer reducer.Reducer[S, A, E]
	env     E
	timeout time.Duration

	ctx      context.Context
	teardown func() context.Context

	mu       sync.Mutex
	received []output[A]
	inFlight map[uint64]*running
	nextID   uint64
}

type output[A any] struct {
	action A
	from   *running
}

type running struct {
	cancelled atomic.Bool
}

// Option configures a TestStore.
type Option func(*options)

type options struct {
	timeout time.Duration
}

// WithTimeout bounds how long Receive and Finish wait for asynchronous effects.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// New builds a TestStore starting from initial.
// S should implement Clone() S when it holds slices, maps or pointers, so that
// expected and actual states never share memory.
func New[S, A, E any](t testing.TB, initial S, r reducer.Reducer[S, A, E], env E, opts ...Option) *TestStore[S, A, E] {
	t.Helper()
	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, teardown := effects.WithCancellation(context.Background())
	ts := &TestStore[S, A, E]{
		t:        t,
		state:    snapshot.Of(initial),
		reducer:  r,
		env:      env,
		timeout:  o.timeout,
		ctx:      ctx,
		teardown: teardown,
		inFlight: make(map[uint64]*running),
	}
	t.Cleanup(func() { ts.teardown() })
	return ts
}

// State returns a copy of the current state.
func (ts *TestStore[S, A, E]) State() S {
	return snapshot.Of(ts.state)
}

// Env lets a test change the environment between steps.
func (ts *TestStore[S, A, E]) Env(update func(*E)) {
	update(&ts.env)
}

// Send reduces action. update receives a copy of the state before the action
// and must turn it into the state the test expects afterwards; nil expects no change.
func (ts *TestStore[S, A, E]) Send(action A, update func(*S)) {
	ts.t.Helper()

	ts.mu.Lock()
	pending := 0
	for _, o := range ts.received {
		if !o.from.cancelled.Load() {
			pending++
		}
	}
	ts.mu.Unlock()
	require.Zero(ts.t, pending, "must handle %d received action(s) before sending %T", pending, action)

	ts.step(action, update)
}

// Receive claims the oldest unclaimed effect output, checks it equals
// expected and reduces it. It waits for asynchronous effects up to the
// configured timeout.
func (ts *TestStore[S, A, E]) Receive(expected A, update func(*S)) {
	ts.t.Helper()

	var got output[A]
	ok := assert.Eventually(ts.t, func() bool {
		var found bool
		got, found = ts.popLive()
		return found
	}, ts.timeout, time.Millisecond, "expected to receive %T, but no action was emitted", expected)
	if !ok {
		ts.t.FailNow()
	}

	require.True(ts.t, assert.ObjectsAreEqual(expected, got.action),
		"received unexpected action\nexpected: %#v\nactual:   %#v", expected, got.action)

	ts.step(got.action, update)
}

// Do runs fn between steps, typically to advance a test scheduler.
func (ts *TestStore[S, A, E]) Do(fn func()) {
	fn()
}

// Finish asserts that every output was received and no effect is still running.
func (ts *TestStore[S, A, E]) Finish() {
	ts.t.Helper()

	ts.mu.Lock()
	var unclaimed []string
	for _, o := range ts.received {
		if !o.from.cancelled.Load() {
			unclaimed = append(unclaimed, fmt.Sprintf("%#v", o.action))
		}
	}
	ts.mu.Unlock()
	assert.Empty(ts.t, unclaimed, "received actions were not asserted")

	assert.Eventually(ts.t, func() bool {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		return len(ts.inFlight) == 0
	}, ts.timeout, time.Millisecond, "effects are still running")
}

func (ts *TestStore[S, A, E]) popLive() (output[A], bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for len(ts.received) > 0 {
		o := ts.received[0]
		ts.received = ts.received[1:]
		if !o.from.cancelled.Load() {
			return o, true
		}
	}
	return output[A]{}, false
}

func (ts *TestStore[S, A, E]) step(action A, update func(*S)) {
	ts.t.Helper()

	expected := snapshot.Of(ts.state)
	if update != nil {
		update(&expected)
	}

	effs := ts.reducer(&ts.state, action, ts.env)
	assert.Equal(ts.t, expected, ts.state, "state after %T", action)

	for _, e := range effs {
		ts.run(e)
	}
}

func (ts *TestStore[S, A, E]) run(e effects.Effect[A]) {
	r := &running{}
	ts.mu.Lock()
	id := ts.nextID
	ts.nextID++
	ts.inFlight[id] = r
	ts.mu.Unlock()

	ctx := effects.WithCancelHook(ts.ctx, func() { r.cancelled.Store(true) })
	e.Run(ctx,
		func(a A) {
			ts.mu.Lock()
			ts.received = append(ts.received, output[A]{action: a, from: r})
			ts.mu.Unlock()
		},
		func() {
			ts.mu.Lock()
			delete(ts.inFlight, id)
			ts.mu.Unlock()
		},
	)
}
