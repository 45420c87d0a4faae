package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunner_Validation(t *testing.T) {
	_, err := NewRunner(Job{Name: "no-run", Interval: time.Second})
	assert.Error(t, err)

	_, err = NewRunner(Job{Name: "zero", Run: func(context.Context) error { return nil }})
	assert.Error(t, err)
}

func TestRunner_RunOnStartAndTicks(t *testing.T) {
	var runs atomic.Int32
	r, err := NewRunner(Job{
		Name:       "count",
		Interval:   20 * time.Millisecond,
		RunOnStart: true,
		Run: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = r.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}

func TestRunner_WaitsIntervalAfterEachRun(t *testing.T) {
	const (
		interval = 20 * time.Millisecond
		work     = 40 * time.Millisecond
	)

	var mu sync.Mutex
	var starts, ends []time.Time
	r, err := NewRunner(Job{
		Name:     "slow",
		Interval: interval,
		Run: func(context.Context) error {
			mu.Lock()
			starts = append(starts, time.Now())
			mu.Unlock()
			time.Sleep(work)
			mu.Lock()
			ends = append(ends, time.Now())
			mu.Unlock()
			return nil
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(starts) >= 3
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(starts) && i-1 < len(ends); i++ {
		assert.GreaterOrEqual(t, starts[i].Sub(ends[i-1]), interval, "run %d started before the delay elapsed", i)
	}
}

func TestRunner_FailuresDoNotStopJob(t *testing.T) {
	var runs atomic.Int32
	r, err := NewRunner(Job{
		Name:     "flaky",
		Interval: 10 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			return errors.New("upstream down")
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestRunner_TimeoutBoundsRun(t *testing.T) {
	deadlines := make(chan bool, 1)
	r, err := NewRunner(Job{
		Name:       "bounded",
		Interval:   time.Hour,
		RunOnStart: true,
		Timeout:    50 * time.Millisecond,
		Run: func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			select {
			case deadlines <- ok:
			default:
			}
			return nil
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	select {
	case ok := <-deadlines:
		assert.True(t, ok, "run context should carry a deadline")
	case <-time.After(time.Second):
		t.Fatal("job never ran")
	}
}
