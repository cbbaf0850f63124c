package pure_test

import (
	"sync"
	"testing"

	"github.com/on-the-ground/composable_go/pure"

	"github.com/stretchr/testify/assert"
)

func TestTableize1(t *testing.T) {
	count := 0
	fn := pure.Tableize1(func(i int) int {
		count++
		return i * 2
	}, 2)

	assert.Equal(t, 4, fn(2))
	assert.Equal(t, 4, fn(2)) // cached
	assert.Equal(t, 1, count)
}

func TestTableize2(t *testing.T) {
	count := 0
	fn := pure.Tableize2(func(a, b int) int {
		count++
		return a + b
	}, 2)

	assert.Equal(t, 5, fn(2, 3))
	assert.Equal(t, 5, fn(2, 3))
	assert.Equal(t, 1, count)

	assert.Equal(t, 5, fn(3, 2))
	assert.Equal(t, 2, count)
}

func TestMemo_RotatesGenerations(t *testing.T) {
	m := pure.NewMemo[string, int](2)
	m.Store("a", 1)
	m.Store("b", 2)
	m.Store("c", 3) // a, b move to the previous generation

	v, ok := m.Load("a") // promoted
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	m.Store("d", 4) // c, a move back; b is dropped
	_, ok = m.Load("b")
	assert.False(t, ok)

	for _, tt := range []struct {
		key  string
		want int
	}{{"a", 1}, {"c", 3}, {"d", 4}} {
		got, ok := m.Load(tt.key)
		assert.True(t, ok, tt.key)
		assert.Equal(t, tt.want, got, tt.key)
	}
	assert.LessOrEqual(t, m.Len(), 4)
}

func TestMemo_PanicsOnZeroSize(t *testing.T) {
	assert.Panics(t, func() { pure.NewMemo[int, int](0) })
}

func TestTableize1_Concurrent(t *testing.T) {
	fn := pure.Tableize1(func(i int) int { return i * i }, 8)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				assert.Equal(t, i*i, fn(i))
			}
		}()
	}
	wg.Wait()
}
