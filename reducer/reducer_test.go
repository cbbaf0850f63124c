package reducer_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/on-the-ground/composable_go/effects"
	"github.com/on-the-ground/composable_go/optics"
	"github.com/on-the-ground/composable_go/reducer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type counterAction interface{ isCounterAction() }

type (
	incr  struct{}
	decr  struct{}
	reply struct{ N int }
)

func (incr) isCounterAction()  {}
func (decr) isCounterAction()  {}
func (reply) isCounterAction() {}

type counterEnv struct {
	step int
}

func counterReducer(state *int, action counterAction, env counterEnv) []effects.Effect[counterAction] {
	switch a := action.(type) {
	case incr:
		*state += env.step
		return []effects.Effect[counterAction]{effects.Just[counterAction](reply{N: *state})}
	case decr:
		*state -= env.step
	case reply:
		_ = a
	}
	return nil
}

type appAction interface{ isAppAction() }

type (
	counterView struct{ Action counterAction }
	rowAction   struct{ optics.Indexed[counterAction] }
	rename      struct{ Name string }
)

func (counterView) isAppAction() {}
func (rowAction) isAppAction()   {}
func (rename) isAppAction()      {}

type appState struct {
	Name  string
	Count int
	Rows  []int
}

func (s appState) Clone() appState {
	s.Rows = append([]int(nil), s.Rows...)
	return s
}

type appEnv struct {
	step int
}

var (
	countPath = optics.Field(func(s *appState) *int { return &s.Count })
	rowsPath  = optics.Field(func(s *appState) *[]int { return &s.Rows })

	counterViewCase = optics.Wrap[appAction](
		func(a counterAction) counterView { return counterView{Action: a} },
		func(v counterView) counterAction { return v.Action },
	)
	rowCase = optics.Wrap[appAction](
		func(i optics.Indexed[counterAction]) rowAction { return rowAction{i} },
		func(r rowAction) optics.Indexed[counterAction] { return r.Indexed },
	)
	toCounterEnv = func(e appEnv) counterEnv { return counterEnv{step: e.step} }
)

func TestCombine_RunsInOrderAndConcatenatesEffects(t *testing.T) {
	var calls []string
	first := func(s *[]string, a string, _ struct{}) []effects.Effect[string] {
		calls = append(calls, "first")
		*s = append(*s, a+"1")
		return []effects.Effect[string]{effects.Just("e1")}
	}
	second := func(s *[]string, a string, _ struct{}) []effects.Effect[string] {
		calls = append(calls, "second saw "+strings.Join(*s, ","))
		*s = append(*s, a+"2")
		return []effects.Effect[string]{effects.Just("e2"), effects.Just("e3")}
	}

	r := reducer.Combine[[]string, string, struct{}](first, second)

	var state []string
	effs := r(&state, "a", struct{}{})

	assert.Equal(t, []string{"first", "second saw a1"}, calls)
	assert.Equal(t, []string{"a1", "a2"}, state)

	var out []string
	for _, e := range effs {
		out = append(out, effects.Collect(context.Background(), e)...)
	}
	assert.Equal(t, []string{"e1", "e2", "e3"}, out)
}

func TestPullback_EmbedsLocalEffects(t *testing.T) {
	r := reducer.Pullback(counterReducer, countPath, counterViewCase, toCounterEnv)

	state := appState{Name: "x"}
	effs := r(&state, counterView{Action: incr{}}, appEnv{step: 2})

	assert.Equal(t, appState{Name: "x", Count: 2}, state)
	require.Len(t, effs, 1)
	assert.Equal(t,
		[]appAction{counterView{Action: reply{N: 2}}},
		effects.Collect(context.Background(), effs[0]),
	)
}

func TestPullback_IgnoresForeignActions(t *testing.T) {
	called := false
	local := func(*int, counterAction, counterEnv) []effects.Effect[counterAction] {
		called = true
		return nil
	}
	r := reducer.Pullback(local, countPath, counterViewCase, toCounterEnv)

	state := appState{Name: "x", Count: 3}
	effs := r(&state, rename{Name: "y"}, appEnv{step: 1})

	assert.False(t, called)
	assert.Empty(t, effs)
	assert.Equal(t, appState{Name: "x", Count: 3}, state)
}

func TestForEach_UpdatesElementAndEmbedsIndex(t *testing.T) {
	r := reducer.ForEach(counterReducer, rowsPath, rowCase, toCounterEnv)

	state := appState{Rows: []int{10, 20, 30}}
	effs := r(&state, rowAction{optics.Indexed[counterAction]{Index: 1, Action: incr{}}}, appEnv{step: 5})

	assert.Equal(t, []int{10, 25, 30}, state.Rows)
	require.Len(t, effs, 1)
	assert.Equal(t,
		[]appAction{rowAction{optics.Indexed[counterAction]{Index: 1, Action: reply{N: 25}}}},
		effects.Collect(context.Background(), effs[0]),
	)
}

func TestForEach_OutOfRangeIsNoop(t *testing.T) {
	r := reducer.ForEach(counterReducer, rowsPath, rowCase, toCounterEnv)

	for _, idx := range []int{-1, 3, 100} {
		state := appState{Rows: []int{1, 2, 3}}
		effs := r(&state, rowAction{optics.Indexed[counterAction]{Index: idx, Action: incr{}}}, appEnv{step: 1})

		assert.Empty(t, effs, "index %d", idx)
		assert.Equal(t, []int{1, 2, 3}, state.Rows, "index %d", idx)
	}
}

func TestCombinedPullbacks_Idempotent(t *testing.T) {
	r := reducer.Combine(
		reducer.Pullback(counterReducer, countPath, counterViewCase, toCounterEnv),
		reducer.ForEach(counterReducer, rowsPath, rowCase, toCounterEnv),
	)

	state := appState{Name: "x", Count: 1, Rows: []int{1}}
	before := state.Clone()
	effs := r(&state, rename{Name: "ignored"}, appEnv{step: 1})

	assert.Empty(t, effs)
	assert.Equal(t, before, state)
}

func TestLogging_PassesThrough(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := reducer.Logging(counterReducer, zap.New(core))

	state := 0
	effs := r(&state, incr{}, counterEnv{step: 1})

	assert.Equal(t, 1, state)
	assert.Len(t, effs, 1)
	assert.Equal(t, 1, logs.FilterMessage("action").Len())
}

func TestDebug_RecordsDiffAndSpan(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	clock := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	now := func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}

	var transitions []reducer.Transition
	r := reducer.Debug(
		reducer.Pullback(counterReducer, countPath, counterViewCase, toCounterEnv),
		zap.New(core),
		reducer.WithClock[appState](now),
		reducer.WithSink[appState](func(tr reducer.Transition) { transitions = append(transitions, tr) }),
	)

	state := appState{Rows: []int{1}}
	r(&state, counterView{Action: incr{}}, appEnv{step: 1})
	r(&state, rename{Name: "noop"}, appEnv{step: 1})

	require.Len(t, transitions, 2)
	assert.Contains(t, transitions[0].Diff, "Count")
	assert.Equal(t, "reducer_test.counterView", transitions[0].Action)
	assert.Equal(t, time.Millisecond, transitions[0].TimeSpan().Duration())
	assert.Equal(t, "(no state changes)", transitions[1].Diff)
	assert.Equal(t, 2, logs.FilterMessage("received action").Len())
}
