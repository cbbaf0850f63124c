package registry

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// Registry tracks cancel handles of in-flight effects by a caller-chosen id.
// Several handles may live under one id; Cancel invokes and drops all of them.
//
// Ids must be comparable. They are routed to shards by the xxhash of their
// type-qualified string form, so ids of distinct types never share an entry.
type Registry struct {
	shards []*shard
	nextID atomic.Uint64
}

type shard struct {
	mu      sync.Mutex
	entries map[any]map[uint64]func()
}

// New builds a registry with numShards shards. Non-positive values fall back to one.
func New(numShards int) *Registry {
	if numShards <= 0 {
		numShards = 1
	}
	shards := make([]*shard, numShards)
	for i := range shards {
		shards[i] = &shard{entries: make(map[any]map[uint64]func())}
	}
	return &Registry{shards: shards}
}

func partitionKey(id any) string {
	return fmt.Sprintf("%T:%v", id, id)
}

func (r *Registry) shardOf(id any) *shard {
	if len(r.shards) == 1 {
		return r.shards[0]
	}
	return r.shards[xxhash.Sum64String(partitionKey(id))%uint64(len(r.shards))]
}

// Register stores cancel under id and returns a token identifying this registration.
func (r *Registry) Register(id any, cancel func()) uint64 {
	token := r.nextID.Add(1)
	s := r.shardOf(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	handles, ok := s.entries[id]
	if !ok {
		handles = make(map[uint64]func())
		s.entries[id] = handles
	}
	handles[token] = cancel
	return token
}

// Unregister drops one registration without invoking its handle.
func (r *Registry) Unregister(id any, token uint64) {
	s := r.shardOf(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	handles, ok := s.entries[id]
	if !ok {
		return
	}
	delete(handles, token)
	if len(handles) == 0 {
		delete(s.entries, id)
	}
}

// Cancel invokes every handle registered under id and removes them.
// Handles run after the shard lock is released. It returns the number cancelled.
func (r *Registry) Cancel(id any) int {
	s := r.shardOf(id)

	s.mu.Lock()
	handles := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()

	for _, cancel := range handles {
		cancel()
	}
	return len(handles)
}

// CancelAll cancels every tracked registration.
func (r *Registry) CancelAll() int {
	var all []func()
	for _, s := range r.shards {
		s.mu.Lock()
		for id, handles := range s.entries {
			for _, cancel := range handles {
				all = append(all, cancel)
			}
			delete(s.entries, id)
		}
		s.mu.Unlock()
	}
	for _, cancel := range all {
		cancel()
	}
	return len(all)
}

// Len reports the number of live registrations.
func (r *Registry) Len() int {
	n := 0
	for _, s := range r.shards {
		s.mu.Lock()
		for _, handles := range s.entries {
			n += len(handles)
		}
		s.mu.Unlock()
	}
	return n
}
