package storetest_test

import (
	"context"
	"testing"
	"time"

	"github.com/on-the-ground/composable_go/effects"
	"github.com/on-the-ground/composable_go/effects/scheduler"
	"github.com/on-the-ground/composable_go/store/storetest"
	"github.com/stretchr/testify/assert"
)

type action interface{ isAction() }

type (
	incr     struct{}
	ask      struct{}
	answer   struct{ N int }
	debounce struct{}
	fired    struct{}
	flash    struct{}
)

func (incr) isAction()     {}
func (ask) isAction()      {}
func (answer) isAction()   {}
func (debounce) isAction() {}
func (fired) isAction()    {}
func (flash) isAction()    {}

type state struct {
	Count   int
	Answers []int
	Fired   int
}

func (s state) Clone() state {
	s.Answers = append([]int(nil), s.Answers...)
	return s
}

type env struct {
	answer    func() effects.Effect[int]
	scheduler scheduler.Scheduler
}

type (
	debounceID struct{}
	flashID    struct{}
)

func reduce(s *state, a action, e env) []effects.Effect[action] {
	switch a := a.(type) {
	case incr:
		s.Count++
	case ask:
		return []effects.Effect[action]{
			effects.Map(e.answer(), func(n int) action { return answer{N: n} }),
		}
	case answer:
		s.Answers = append(s.Answers, a.N)
	case debounce:
		return []effects.Effect[action]{
			effects.Just[action](fired{}).Delay(time.Second, e.scheduler).Cancellable(debounceID{}, true),
		}
	case flash:
		return []effects.Effect[action]{
			effects.Concat(effects.Just[action](fired{}), effects.Cancel[action](flashID{})).Cancellable(flashID{}, false),
		}
	case fired:
		s.Fired++
	}
	return nil
}

func TestTestStore_SendAndReceive(t *testing.T) {
	ts := storetest.New[state, action, env](t, state{}, reduce, env{
		answer: func() effects.Effect[int] {
			return effects.Future(func(context.Context) int { return 42 })
		},
	})

	ts.Send(incr{}, func(s *state) { s.Count = 1 })
	ts.Send(ask{}, nil)
	ts.Receive(answer{N: 42}, func(s *state) { s.Answers = []int{42} })
	ts.Finish()

	assert.Equal(t, state{Count: 1, Answers: []int{42}}, ts.State())
}

func TestTestStore_EnvCanChangeBetweenSteps(t *testing.T) {
	ts := storetest.New[state, action, env](t, state{}, reduce, env{
		answer: func() effects.Effect[int] { return effects.Just(1) },
	})

	ts.Send(ask{}, nil)
	ts.Receive(answer{N: 1}, func(s *state) { s.Answers = []int{1} })

	ts.Env(func(e *env) {
		e.answer = func() effects.Effect[int] { return effects.Just(2) }
	})
	ts.Send(ask{}, nil)
	ts.Receive(answer{N: 2}, func(s *state) { s.Answers = append(s.Answers, 2) })
	ts.Finish()
}

func TestTestStore_CancelledOutputsAreNeverReceived(t *testing.T) {
	clock := scheduler.NewTest(time.Time{})
	ts := storetest.New[state, action, env](t, state{}, reduce, env{scheduler: clock})

	ts.Send(debounce{}, nil)
	ts.Do(func() { clock.Advance(500 * time.Millisecond) })
	ts.Send(debounce{}, nil)
	ts.Do(func() { clock.Advance(time.Second) })
	ts.Receive(fired{}, func(s *state) { s.Fired = 1 })
	ts.Finish()
}

func TestTestStore_SendIgnoresOutputsOfCancelledEffects(t *testing.T) {
	ts := storetest.New[state, action, env](t, state{}, reduce, env{})

	ts.Send(flash{}, nil)
	ts.Send(incr{}, func(s *state) { s.Count = 1 })
	ts.Finish()
}

func TestAssert_Steps(t *testing.T) {
	clock := scheduler.NewTest(time.Time{})
	storetest.Assert[state, action, env](t, state{}, reduce, env{scheduler: clock},
		storetest.Sending[state, action](incr{}, func(s *state) { s.Count = 1 }),
		storetest.Sending[state, action](debounce{}, nil),
		storetest.Doing[state, action](func() { clock.Advance(time.Second) }),
		storetest.Receiving[state, action](fired{}, func(s *state) { s.Fired = 1 }),
	)
}
