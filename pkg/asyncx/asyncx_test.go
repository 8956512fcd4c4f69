package asyncx_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Abraxas-365/callx/pkg/asyncx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture_RunAwait(t *testing.T) {
	f := asyncx.Run(func() (string, error) {
		time.Sleep(5 * time.Millisecond)
		return "done", nil
	})

	v, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, "done", v)

	// cached
	v, err = f.Await()
	require.NoError(t, err)
	assert.Equal(t, "done", v)
}

func TestPromise_FirstResolveWins(t *testing.T) {
	f, resolve := asyncx.NewPromise[int]()
	resolve(1, nil)
	resolve(2, errors.New("late"))

	v, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestFuture_AwaitContext(t *testing.T) {
	f, _ := asyncx.NewPromise[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.AwaitContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCountdown_ExactlyOneLastArrival(t *testing.T) {
	const n = 500
	c := asyncx.NewCountdown(n)

	var winners atomic.Int32
	var wg sync.WaitGroup
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			if c.Arrive() {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
	assert.Zero(t, c.Remaining())
	assert.False(t, c.Arrive(), "arrivals past zero never win")
}

func TestPool_RunsEveryTaskWithBoundedWorkers(t *testing.T) {
	const workers, tasks = 3, 100
	p := asyncx.NewPool(workers)

	var running, peak, ran atomic.Int32
	var wg sync.WaitGroup
	wg.Add(tasks)
	for range tasks {
		p.Submit(func() {
			defer wg.Done()
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
			ran.Add(1)
		})
	}
	wg.Wait()
	p.Close()

	assert.Equal(t, int32(tasks), ran.Load())
	assert.LessOrEqual(t, peak.Load(), int32(workers))
}

func TestPool_CloseDrainsBacklogAndLateSubmitStillRuns(t *testing.T) {
	p := asyncx.NewPool(1)

	var ran atomic.Int32
	for range 10 {
		p.Submit(func() { ran.Add(1) })
	}
	p.Close()
	assert.Equal(t, int32(10), ran.Load())
	assert.Zero(t, p.Pending())

	done := make(chan struct{})
	p.Submit(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task submitted after Close never ran")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	attempts := 0
	v, err := asyncx.RetryWithBackoff(context.Background(), 3, time.Millisecond, func(context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, attempts)

	attempts = 0
	_, err = asyncx.RetryWithBackoff(context.Background(), 2, time.Millisecond, func(context.Context) (int, error) {
		attempts++
		return 0, errors.New("permanent")
	})
	assert.EqualError(t, err, "permanent")
	assert.Equal(t, 2, attempts)
}
