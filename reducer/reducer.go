// Package reducer defines the pure state transition function and the operators that compose it.
//
// A Reducer mutates state in place for one action and returns the effects
// the action calls for. It must not perform side effects itself; those are
// described by the returned effects and run by the store afterwards.
package reducer

import (
	"github.com/on-the-ground/composable_go/effects"
	"github.com/on-the-ground/composable_go/optics"
)

// Reducer is the state transition function of a feature.
type Reducer[S, A, E any] func(state *S, action A, env E) []effects.Effect[A]

// Empty ignores every action.
func Empty[S, A, E any]() Reducer[S, A, E] {
	return func(*S, A, E) []effects.Effect[A] { return nil }
}

// Combine runs reducers in order on the same state and action.
// Later reducers observe the mutations of earlier ones. Effects are
// concatenated in call order.
func Combine[S, A, E any](reducers ...Reducer[S, A, E]) Reducer[S, A, E] {
	return func(state *S, action A, env E) []effects.Effect[A] {
		var out []effects.Effect[A]
		for _, r := range reducers {
			out = append(out, r(state, action, env)...)
		}
		return out
	}
}

// Pullback lifts a reducer on local state, action and environment into a global one.
//
// Actions the case path cannot extract are ignored: state is untouched and
// no effects are returned. Local effect outputs are embedded back into
// global actions.
func Pullback[LS, LA, LE, GS, GA, GE any](
	local Reducer[LS, LA, LE],
	statePath optics.KeyPath[GS, LS],
	actionPath optics.CasePath[GA, LA],
	toLocalEnv func(GE) LE,
) Reducer[GS, GA, GE] {
	return func(state *GS, action GA, env GE) []effects.Effect[GA] {
		localAction, ok := actionPath.Extract(action)
		if !ok {
			return nil
		}

		localState := statePath.Get(*state)
		localEffects := local(&localState, localAction, toLocalEnv(env))
		statePath.Set(state, localState)

		return Embed(localEffects, actionPath.Embed)
	}
}

// ForEach lifts a reducer on one collection element into a reducer on the
// whole collection. Actions carry the element index; an index out of range
// is ignored. Element effect outputs are embedded with the same index.
func ForEach[ES, EA, EE, GS, GA, GE any](
	element Reducer[ES, EA, EE],
	collection optics.KeyPath[GS, []ES],
	actionPath optics.CasePath[GA, optics.Indexed[EA]],
	toElementEnv func(GE) EE,
) Reducer[GS, GA, GE] {
	return func(state *GS, action GA, env GE) []effects.Effect[GA] {
		indexed, ok := actionPath.Extract(action)
		if !ok {
			return nil
		}

		items := collection.Get(*state)
		if indexed.Index < 0 || indexed.Index >= len(items) {
			return nil
		}

		item := items[indexed.Index]
		elementEffects := element(&item, indexed.Action, toElementEnv(env))
		items[indexed.Index] = item
		collection.Set(state, items)

		index := indexed.Index
		return Embed(elementEffects, func(a EA) GA {
			return actionPath.Embed(optics.Indexed[EA]{Index: index, Action: a})
		})
	}
}

// Embed maps the outputs of every effect with embed.
func Embed[LA, GA any](effs []effects.Effect[LA], embed func(LA) GA) []effects.Effect[GA] {
	if len(effs) == 0 {
		return nil
	}
	out := make([]effects.Effect[GA], len(effs))
	for i, e := range effs {
		out[i] = effects.Map(e, embed)
	}
	return out
}
