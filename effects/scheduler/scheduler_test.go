package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/on-the-ground/composable_go/effects/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestScheduler_RunsJobsInDueOrder(t *testing.T) {
	s := scheduler.NewTest(time.Time{})

	var order []string
	s.Schedule(2*time.Second, func() { order = append(order, "two") })
	s.Schedule(time.Second, func() { order = append(order, "one") })
	s.Schedule(time.Second, func() { order = append(order, "one-bis") })

	s.Advance(500 * time.Millisecond)
	assert.Empty(t, order)
	assert.Equal(t, 3, s.Pending())

	s.Advance(500 * time.Millisecond)
	assert.Equal(t, []string{"one", "one-bis"}, order)

	s.Advance(time.Second)
	assert.Equal(t, []string{"one", "one-bis", "two"}, order)
	assert.Equal(t, 0, s.Pending())
}

func TestTestScheduler_ClockFollowsJobs(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s := scheduler.NewTest(start)

	var seen time.Time
	s.Schedule(time.Second, func() { seen = s.Now() })
	s.Advance(3 * time.Second)

	assert.Equal(t, start.Add(time.Second), seen)
	assert.Equal(t, start.Add(3*time.Second), s.Now())
}

func TestTestScheduler_CancelledJobNeverRuns(t *testing.T) {
	s := scheduler.NewTest(time.Time{})

	ran := false
	cancel := s.Schedule(time.Second, func() { ran = true })
	cancel()
	s.Advance(time.Hour)

	assert.False(t, ran)
}

func TestTestScheduler_NestedSchedulingInsideWindow(t *testing.T) {
	s := scheduler.NewTest(time.Time{})

	var order []int
	s.Schedule(time.Second, func() {
		order = append(order, 1)
		s.Schedule(time.Second, func() { order = append(order, 2) })
	})

	s.Advance(2 * time.Second)
	assert.Equal(t, []int{1, 2}, order)
}

func TestTestScheduler_Run(t *testing.T) {
	s := scheduler.NewTest(time.Time{})

	count := 0
	s.Schedule(time.Minute, func() {
		count++
		s.Schedule(time.Hour, func() { count++ })
	})
	s.Run()

	assert.Equal(t, 2, count)
	assert.Equal(t, 0, s.Pending())
}

func TestImmediate_RunsSynchronously(t *testing.T) {
	ran := false
	scheduler.Immediate().Schedule(time.Hour, func() { ran = true })
	assert.True(t, ran)
}

func TestSerial_RunsJobsOnOneGoroutineInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := scheduler.NewSerial(ctx)

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		s.Schedule(0, func() {
			defer wg.Done()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestSerial_CancelBeforeDue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := scheduler.NewSerial(ctx)

	ran := make(chan struct{}, 1)
	stop := s.Schedule(50*time.Millisecond, func() { ran <- struct{}{} })
	stop()

	select {
	case <-ran:
		t.Fatal("cancelled job ran")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestSerial_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := scheduler.NewSerial(ctx)
	cancel()

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		require.Fail(t, "serial worker did not stop")
	}
}
