package scheduler

import (
	"sort"
	"time"
)

type job struct {
	due time.Time
	seq uint64
	fn  func()
}

func compareJobs(a, b *job) int {
	switch {
	case a.due.Before(b.due):
		return -1
	case a.due.After(b.due):
		return 1
	case a.seq < b.seq:
		return -1
	case a.seq > b.seq:
		return 1
	default:
		return 0
	}
}

// jobQueue keeps jobs ordered by due time, ties broken by scheduling order.
type jobQueue struct {
	data []*job
}

func (q *jobQueue) insert(j *job) {
	idx := sort.Search(len(q.data), func(i int) bool {
		return compareJobs(j, q.data[i]) < 0
	})

	q.data = append(q.data, nil)
	copy(q.data[idx+1:], q.data[idx:])
	q.data[idx] = j
}

func (q *jobQueue) remove(j *job) bool {
	for i, candidate := range q.data {
		if candidate == j {
			q.data = append(q.data[:i], q.data[i+1:]...)
			return true
		}
	}
	return false
}

// popDue removes and returns the earliest job due at or before deadline.
func (q *jobQueue) popDue(deadline time.Time) (*job, bool) {
	if len(q.data) == 0 || q.data[0].due.After(deadline) {
		return nil, false
	}
	head := q.data[0]
	q.data = q.data[1:]
	return head, true
}

func (q *jobQueue) len() int {
	return len(q.data)
}
