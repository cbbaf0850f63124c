package storetest

import (
	"testing"

	"github.com/on-the-ground/composable_go/reducer"
)

type stepKind int

const (
	sendStep stepKind = iota
	receiveStep
	doStep
)

// Step is one entry of a scripted Assert run.
type Step[S, A any] struct {
	kind   stepKind
	action A
	update func(*S)
	do     func()
}

// Sending is a Send step.
func Sending[S, A any](action A, update func(*S)) Step[S, A] {
	return Step[S, A]{kind: sendStep, action: action, update: update}
}

// Receiving is a Receive step.
func Receiving[S, A any](action A, update func(*S)) Step[S, A] {
	return Step[S, A]{kind: receiveStep, action: action, update: update}
}

// Doing is a Do step.
func Doing[S, A any](fn func()) Step[S, A] {
	return Step[S, A]{kind: doStep, do: fn}
}

// Assert runs steps against a fresh TestStore and finishes it.
func Assert[S, A, E any](t testing.TB, initial S, r reducer.Reducer[S, A, E], env E, steps ...Step[S, A]) {
	t.Helper()

	ts := New(t, initial, r, env)
	for _, s := range steps {
		switch s.kind {
		case sendStep:
			ts.Send(s.action, s.update)
		case receiveStep:
			ts.Receive(s.action, s.update)
		case doStep:
			ts.Do(s.do)
		}
	}
	ts.Finish()
}
