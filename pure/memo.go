// Package pure memoizes pure functions.
//
// Results are kept in two generations. New results go into the current
// generation; once it holds maxSize entries it becomes the previous one and
// the old previous generation is dropped. A hit in the previous generation
// is promoted, so frequently used results survive rotation.
package pure

import "sync"

// Memo is a bounded, concurrency-safe result table.
type Memo[K comparable, V any] struct {
	mu       sync.Mutex
	current  map[K]V
	previous map[K]V
	maxSize  int
}

// NewMemo builds a memo keeping at most 2*maxSize results.
func NewMemo[K comparable, V any](maxSize int) *Memo[K, V] {
	if maxSize <= 0 {
		panic("maxSize should be greater than 0")
	}
	return &Memo[K, V]{
		current: make(map[K]V, maxSize),
		maxSize: maxSize,
	}
}

func (m *Memo[K, V]) Load(k K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.current[k]; ok {
		return v, true
	}
	if v, ok := m.previous[k]; ok {
		m.store(k, v)
		return v, true
	}
	var zero V
	return zero, false
}

func (m *Memo[K, V]) Store(k K, v V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store(k, v)
}

func (m *Memo[K, V]) store(k K, v V) {
	if _, ok := m.current[k]; !ok && len(m.current) >= m.maxSize {
		m.previous = m.current
		m.current = make(map[K]V, m.maxSize)
	}
	m.current[k] = v
}

// Len is the number of results currently retained.
func (m *Memo[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.current)
	for k := range m.previous {
		if _, dup := m.current[k]; !dup {
			n++
		}
	}
	return n
}
