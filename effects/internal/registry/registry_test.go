package registry_test

import (
	"testing"

	"github.com/on-the-ground/composable_go/effects/internal/registry"
	"github.com/stretchr/testify/assert"
)

type delayID struct{}

func TestRegistry_CancelInvokesAllHandlesUnderID(t *testing.T) {
	reg := registry.New(4)

	var cancelled []string
	reg.Register("a", func() { cancelled = append(cancelled, "a1") })
	reg.Register("a", func() { cancelled = append(cancelled, "a2") })
	reg.Register("b", func() { cancelled = append(cancelled, "b") })

	assert.Equal(t, 3, reg.Len())
	assert.Equal(t, 2, reg.Cancel("a"))
	assert.ElementsMatch(t, []string{"a1", "a2"}, cancelled)
	assert.Equal(t, 1, reg.Len())

	// already gone
	assert.Equal(t, 0, reg.Cancel("a"))
}

func TestRegistry_UnregisterDoesNotInvokeHandle(t *testing.T) {
	reg := registry.New(1)

	called := false
	token := reg.Register(delayID{}, func() { called = true })
	reg.Unregister(delayID{}, token)

	assert.Equal(t, 0, reg.Cancel(delayID{}))
	assert.False(t, called)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_IDsOfDifferentTypesDoNotCollide(t *testing.T) {
	reg := registry.New(8)

	type otherID struct{}
	calledDelay, calledOther := false, false
	reg.Register(delayID{}, func() { calledDelay = true })
	reg.Register(otherID{}, func() { calledOther = true })

	reg.Cancel(delayID{})
	assert.True(t, calledDelay)
	assert.False(t, calledOther)
}

func TestRegistry_CancelAll(t *testing.T) {
	reg := registry.New(3)

	count := 0
	for i := 0; i < 10; i++ {
		reg.Register(i, func() { count++ })
	}
	assert.Equal(t, 10, reg.CancelAll())
	assert.Equal(t, 10, count)
	assert.Equal(t, 0, reg.Len())
}
