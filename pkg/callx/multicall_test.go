package callx_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Abraxas-365/callx/pkg/asyncx"
	"github.com/Abraxas-365/callx/pkg/callx"
	"github.com/Abraxas-365/callx/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type joined[R any] struct {
	data  []R
	errs  []error
	calls []*callx.Call[R]
	mc    *callx.MultiCall[R]
}

// recorder counts callback invocations and keeps the first one.
type recorder[R any] struct {
	mu    sync.Mutex
	count int
	first joined[R]
	fired chan struct{}
}

func newRecorder[R any]() *recorder[R] {
	return &recorder[R]{fired: make(chan struct{})}
}

func (r *recorder[R]) callback(data []R, errs []error, calls []*callx.Call[R], mc *callx.MultiCall[R]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	if r.count == 1 {
		r.first = joined[R]{data: data, errs: errs, calls: calls, mc: mc}
		close(r.fired)
	}
}

func (r *recorder[R]) wait(t *testing.T) joined[R] {
	t.Helper()
	select {
	case <-r.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("multi-call callback was not invoked")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.first
}

func (r *recorder[R]) invocations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

func after[R any](d time.Duration, v R, err error) func(context.Context) (R, error) {
	return func(ctx context.Context) (R, error) {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			var zero R
			return zero, ctx.Err()
		}
		if err != nil {
			var zero R
			return zero, err
		}
		return v, nil
	}
}

func TestNewMultiCall_Validation(t *testing.T) {
	_, err := callx.NewMultiCall[int](nil)
	assert.True(t, errx.IsCode(err, callx.ErrEmptyCallSet))

	_, err = callx.Join[int]()
	assert.True(t, errx.IsCode(err, callx.ErrEmptyCallSet))

	a := callx.NewFunc(value(1))
	_, err = callx.Join(a, nil)
	assert.True(t, errx.IsCode(err, callx.ErrInvalidCall))

	_, err = callx.Join(a, callx.NewFunc(value(2)), a)
	assert.True(t, errx.IsCode(err, callx.ErrDuplicateCall))
	var e *errx.Error
	require.True(t, errx.As(err, &e))
	idx, _ := e.Detail("index")
	assert.Equal(t, 2, idx)
}

func TestMultiCall_AllSucceed(t *testing.T) {
	mc, err := callx.Join(
		callx.NewFunc(after(30*time.Millisecond, "a", nil)),
		callx.NewFunc(after(10*time.Millisecond, "b", nil)),
		callx.NewFunc(after(20*time.Millisecond, "c", nil)),
	)
	require.NoError(t, err)
	assert.Equal(t, 3, mc.Len())
	assert.Equal(t, callx.MultiCallConstructed, mc.State())
	assert.Nil(t, mc.Results(), "no results before settlement")

	rec := newRecorder[string]()
	require.NoError(t, mc.Dispatch(rec.callback))

	got := rec.wait(t)
	assert.Equal(t, []string{"a", "b", "c"}, got.data)
	assert.Equal(t, []error{nil, nil, nil}, got.errs)
	assert.Equal(t, mc.Calls(), got.calls)
	assert.Same(t, mc, got.mc)

	<-mc.Done()
	assert.Equal(t, callx.MultiCallSettled, mc.State())
	assert.Empty(t, mc.Failed())
	for _, c := range mc.Calls() {
		assert.Equal(t, callx.StateSucceeded, c.State())
	}
}

func TestMultiCall_AllFail(t *testing.T) {
	errs := []error{errors.New("e0"), errors.New("e1")}
	mc, err := callx.Join(
		callx.NewFunc(failure[int](errs[0])),
		callx.NewFunc(failure[int](errs[1])),
	)
	require.NoError(t, err)

	rec := newRecorder[int]()
	require.NoError(t, mc.Dispatch(rec.callback))

	got := rec.wait(t)
	assert.Equal(t, []int{0, 0}, got.data)
	assert.Same(t, errs[0], got.errs[0])
	assert.Same(t, errs[1], got.errs[1])
}

func TestMultiCall_MixedOutcomesStayIndexAligned(t *testing.T) {
	e0 := errors.New("e0")
	e2 := errors.New("e2")

	// completion order is 2, 1, 0
	mc, err := callx.Join(
		callx.NewFunc(after(40*time.Millisecond, 0, e0)),
		callx.NewFunc(after(20*time.Millisecond, 11, nil)),
		callx.NewFunc(after(1*time.Millisecond, 0, e2)),
	)
	require.NoError(t, err)

	rec := newRecorder[int]()
	require.NoError(t, mc.Dispatch(rec.callback))
	got := rec.wait(t)

	assert.Equal(t, []int{0, 11, 0}, got.data)
	assert.Same(t, e0, got.errs[0])
	assert.NoError(t, got.errs[1])
	assert.Same(t, e2, got.errs[2])

	<-mc.Done()
	calls := mc.Calls()
	assert.Equal(t, []*callx.Call[int]{calls[0], calls[2]}, mc.Failed())

	results := mc.Results()
	require.Len(t, results, 3)
	assert.False(t, results[0].IsOk())
	assert.Equal(t, 11, results[1].Value())
	assert.ErrorIs(t, results[2].Err(), e2)
}

func TestMultiCall_SingleCall(t *testing.T) {
	mc, err := callx.Join(callx.NewFunc(value("only")))
	require.NoError(t, err)

	rec := newRecorder[string]()
	require.NoError(t, mc.Dispatch(rec.callback))
	got := rec.wait(t)
	assert.Equal(t, []string{"only"}, got.data)
}

func TestMultiCall_DispatchTwice(t *testing.T) {
	var runs atomic.Int32
	counted := func(context.Context) (int, error) {
		runs.Add(1)
		return 1, nil
	}
	mc, err := callx.Join(callx.NewFunc(counted), callx.NewFunc(counted))
	require.NoError(t, err)

	assert.True(t, errx.IsCode(mc.Dispatch(nil), callx.ErrNilCallback))
	assert.Equal(t, callx.MultiCallConstructed, mc.State(), "a rejected callback does not consume the multi-call")

	rec := newRecorder[int]()
	require.NoError(t, mc.Dispatch(rec.callback))

	err = mc.Dispatch(rec.callback)
	assert.True(t, errx.IsCode(err, callx.ErrAlreadyDispatched))

	rec.wait(t)
	<-mc.Done()
	assert.True(t, errx.IsCode(mc.Dispatch(rec.callback), callx.ErrAlreadyDispatched))
	assert.Equal(t, int32(2), runs.Load())
	assert.Equal(t, 1, rec.invocations())
}

func TestMultiCall_StartedMemberFailsItsSlot(t *testing.T) {
	used := callx.NewFunc(value(5))
	_, err := used.Execute(context.Background())
	require.NoError(t, err)

	mc, err := callx.Join(callx.NewFunc(value(1)), used)
	require.NoError(t, err)

	rec := newRecorder[int]()
	require.NoError(t, mc.Dispatch(rec.callback))
	got := rec.wait(t)

	assert.Equal(t, 1, got.data[0])
	assert.NoError(t, got.errs[0])
	assert.Zero(t, got.data[1])
	assert.True(t, errx.IsCode(got.errs[1], callx.ErrInvalidState))
}

func TestMultiCall_Cancel(t *testing.T) {
	started := make(chan struct{}, 3)
	mc, err := callx.Join(
		callx.NewFunc(blocking[string](started)),
		callx.NewFunc(blocking[string](started)),
		callx.NewFunc(value("fast")),
	)
	require.NoError(t, err)

	rec := newRecorder[string]()
	require.NoError(t, mc.Dispatch(rec.callback))
	<-started
	<-started

	mc.Cancel()
	got := rec.wait(t)

	assert.True(t, callx.IsCancelled(got.errs[0]))
	assert.True(t, callx.IsCancelled(got.errs[1]))
	assert.NoError(t, got.errs[2])
	assert.Equal(t, "fast", got.data[2])
	assert.Equal(t, 1, rec.invocations())
}

func TestMultiCall_CancelledBeforeDispatch(t *testing.T) {
	first := callx.NewFunc(value(1))
	first.Cancel()

	mc, err := callx.Join(first, callx.NewFunc(value(2)))
	require.NoError(t, err)

	rec := newRecorder[int]()
	require.NoError(t, mc.Dispatch(rec.callback))
	got := rec.wait(t)

	assert.True(t, callx.IsCancelled(got.errs[0]))
	assert.Equal(t, []int{0, 2}, got.data)
}

func TestMultiCall_WaitAndResults(t *testing.T) {
	mc, err := callx.Join(
		callx.NewFunc(after(5*time.Millisecond, 1, nil)),
		callx.NewFunc(after(1*time.Millisecond, 2, nil)),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = mc.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "waiting on an undispatched multi-call times out")

	require.NoError(t, mc.Dispatch(func([]int, []error, []*callx.Call[int], *callx.MultiCall[int]) {}))

	results, err := mc.Wait(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Value())
	assert.Equal(t, 2, results[1].Value())
	assert.Equal(t, []int{1, 2}, mc.Values())
	assert.Equal(t, []error{nil, nil}, mc.Errors())
}

func TestMultiCall_CallbackSlicesAreCopies(t *testing.T) {
	mc, err := callx.Join(callx.NewFunc(value(1)), callx.NewFunc(value(2)))
	require.NoError(t, err)

	require.NoError(t, mc.Dispatch(func(data []int, _ []error, _ []*callx.Call[int], _ *callx.MultiCall[int]) {
		data[0] = 100
	}))
	<-mc.Done()
	assert.Equal(t, []int{1, 2}, mc.Values())
}

func TestMultiCall_StressThousandCalls(t *testing.T) {
	const n = 1000

	pool := asyncx.NewPool(16)
	defer pool.Close()

	calls := make([]*callx.Call[int], n)
	for i := range calls {
		delay := time.Duration(rand.IntN(500)) * time.Microsecond
		calls[i] = callx.NewFunc(func(context.Context) (int, error) {
			time.Sleep(delay)
			if i%7 == 0 {
				return 0, errors.New("multiple of seven")
			}
			return i, nil
		}, callx.WithScheduler(pool))
	}

	mc, err := callx.NewMultiCall(calls, callx.WithMultiName("stress"))
	require.NoError(t, err)

	rec := newRecorder[int]()
	require.NoError(t, mc.Dispatch(rec.callback))
	got := rec.wait(t)
	<-mc.Done()

	require.Len(t, got.data, n)
	require.Len(t, got.errs, n)
	for i := 0; i < n; i++ {
		if i%7 == 0 {
			assert.Error(t, got.errs[i], "slot %d", i)
			assert.Zero(t, got.data[i], "slot %d", i)
			continue
		}
		assert.NoError(t, got.errs[i], "slot %d", i)
		assert.Equal(t, i, got.data[i], "slot %d", i)
	}

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, rec.invocations())
}

func TestMultiCall_ConcurrentDispatchStartsOnce(t *testing.T) {
	var runs atomic.Int32
	mc, err := callx.Join(callx.NewFunc(func(context.Context) (int, error) {
		runs.Add(1)
		return 1, nil
	}))
	require.NoError(t, err)

	rec := newRecorder[int]()
	var accepted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if mc.Dispatch(rec.callback) == nil {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()
	rec.wait(t)
	<-mc.Done()

	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, int32(1), runs.Load())
	assert.Equal(t, 1, rec.invocations())
}

func TestMultiCall_Retry(t *testing.T) {
	var flaky atomic.Int32
	mc, err := callx.Join(
		callx.NewFunc(value("stable"), callx.WithName("stable")),
		callx.NewFunc(func(context.Context) (string, error) {
			if flaky.Add(1) == 1 {
				return "", errors.New("first run fails")
			}
			return "recovered", nil
		}, callx.WithName("flaky")),
	)
	require.NoError(t, err)

	_, err = mc.Retry()
	assert.True(t, errx.IsCode(err, callx.ErrNotSettled))

	require.NoError(t, mc.Dispatch(func([]string, []error, []*callx.Call[string], *callx.MultiCall[string]) {}))
	<-mc.Done()

	_, err = mc.Retry(callx.NewFunc(value("stranger")))
	assert.True(t, errx.IsCode(err, callx.ErrUnknownCall))

	retry, err := mc.RetryFailed()
	require.NoError(t, err)
	require.Equal(t, 1, retry.Len())
	assert.Equal(t, "flaky", retry.Calls()[0].Name())
	assert.NotEqual(t, mc.ID(), retry.ID())

	rec := newRecorder[string]()
	require.NoError(t, retry.Dispatch(rec.callback))
	got := rec.wait(t)
	assert.Equal(t, []string{"recovered"}, got.data)

	<-retry.Done()
	_, err = retry.RetryFailed()
	assert.True(t, errx.IsCode(err, callx.ErrEmptyCallSet), "nothing left to retry")

	all, err := mc.Retry()
	require.NoError(t, err)
	assert.Equal(t, 2, all.Len())
}

func TestMultiCall_RetryFromCallback(t *testing.T) {
	retried := make(chan *callx.MultiCall[int], 1)
	mc, err := callx.Join(callx.NewFunc(failure[int](errors.New("nope"))))
	require.NoError(t, err)

	require.NoError(t, mc.Dispatch(func(_ []int, _ []error, _ []*callx.Call[int], self *callx.MultiCall[int]) {
		next, err := self.RetryFailed()
		if err == nil {
			retried <- next
		}
		close(retried)
	}))

	next, ok := <-retried
	require.True(t, ok, "retry inside the callback should succeed")
	assert.Equal(t, callx.MultiCallConstructed, next.State())
}

func TestMultiCall_Sinks(t *testing.T) {
	var got []callx.Summary
	var mu sync.Mutex
	sink := callx.SinkFunc(func(_ context.Context, s callx.Summary) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, s)
		return nil
	})
	failing := callx.SinkFunc(func(context.Context, callx.Summary) error {
		return errors.New("sink down")
	})

	cancelled := callx.NewFunc(value(0), callx.WithName("skipped"))
	cancelled.Cancel()

	mc, err := callx.NewMultiCall([]*callx.Call[int]{
		callx.NewFunc(value(1), callx.WithName("ok")),
		callx.NewFunc(failure[int](errors.New("bad")), callx.WithName("bad")),
		cancelled,
	}, callx.WithMultiName("batch"), callx.WithSink(failing), callx.WithSink(sink), callx.WithSink(callx.NewLogSink()))
	require.NoError(t, err)

	require.NoError(t, mc.Dispatch(func([]int, []error, []*callx.Call[int], *callx.MultiCall[int]) {}))
	<-mc.Done()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1, "a failing sink does not stop the others")

	s := got[0]
	assert.Equal(t, mc.ID(), s.ID)
	assert.Equal(t, "batch", s.Name)
	assert.Equal(t, 3, s.Size)
	assert.Equal(t, 1, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Cancelled)
	assert.False(t, s.SettledAt.Before(s.DispatchedAt))

	require.Len(t, s.Slots, 3)
	assert.Equal(t, "ok", s.Slots[0].Name)
	assert.Equal(t, callx.StateSucceeded.String(), s.Slots[0].State)
	assert.Equal(t, "bad", s.Slots[1].Error)
	assert.Equal(t, callx.StateFailed.String(), s.Slots[1].State)
	assert.Equal(t, callx.StateCancelled.String(), s.Slots[2].State)
	assert.Equal(t, callx.ErrCancelled.Code, s.Slots[2].ErrorCode)
}
