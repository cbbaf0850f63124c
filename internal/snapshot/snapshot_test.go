package snapshot_test

import (
	"testing"

	"github.com/on-the-ground/composable_go/internal/snapshot"
	"github.com/stretchr/testify/assert"
)

type list struct {
	Items []int
}

func (l list) Clone() list {
	return list{Items: append([]int(nil), l.Items...)}
}

type plain struct {
	Items []int
}

func TestOf_UsesClone(t *testing.T) {
	l := list{Items: []int{1, 2}}
	c := snapshot.Of(l)
	l.Items[0] = 9

	assert.Equal(t, []int{1, 2}, c.Items)
	assert.True(t, snapshot.Deep[list]())
}

func TestOf_ShallowWithoutClone(t *testing.T) {
	p := plain{Items: []int{1, 2}}
	c := snapshot.Of(p)
	p.Items[0] = 9

	assert.Equal(t, []int{9, 2}, c.Items)
	assert.False(t, snapshot.Deep[plain]())
}

type counter struct {
	Count int
	Label string
	Grid  [2][2]bool
}

func TestFlat(t *testing.T) {
	assert.True(t, snapshot.Flat[int]())
	assert.True(t, snapshot.Flat[counter]())
	assert.True(t, snapshot.Independent[counter]())

	assert.False(t, snapshot.Flat[plain]())
	assert.False(t, snapshot.Flat[*counter]())
	assert.False(t, snapshot.Flat[map[string]int]())
	assert.False(t, snapshot.Flat[struct{ V any }]())
	assert.False(t, snapshot.Flat[[1]func()]())
	assert.False(t, snapshot.Independent[plain]())
	assert.True(t, snapshot.Independent[list]())
}
