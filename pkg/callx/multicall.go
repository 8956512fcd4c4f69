package callx

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	"github.com/Abraxas-365/callx/pkg/asyncx"
	"github.com/Abraxas-365/callx/pkg/logx"
	"github.com/google/uuid"
)

// MultiCallback receives the joined outcome of a MultiCall. All slices have
// the MultiCall's length and are index-aligned with the calls it was built
// from: data[i] is the zero value whenever errs[i] is non-nil.
type MultiCallback[R any] func(data []R, errs []error, calls []*Call[R], mc *MultiCall[R])

// MultiCall enqueues a fixed, ordered set of calls and invokes a single
// callback once every one of them has reached a terminal outcome.
//
// Individual failures never abort sibling calls and are delivered as data.
// A call that never completes holds back the callback indefinitely; timeouts
// belong to the calls themselves.
type MultiCall[R any] struct {
	id      string
	opts    multiOptions
	rawOpts []MultiOption

	calls  []*Call[R]
	values []R
	errs   []error

	join  *asyncx.Countdown
	state atomic.Int32
	done  chan struct{}

	dispatchedAt time.Time
	settledAt    time.Time
}

// NewMultiCall builds a MultiCall over calls, in order. It fails with
// ErrEmptyCallSet for no calls, ErrInvalidCall for a nil call and
// ErrDuplicateCall when the same call appears twice.
func NewMultiCall[R any](calls []*Call[R], opts ...MultiOption) (*MultiCall[R], error) {
	if len(calls) == 0 {
		return nil, callxErrors.New(ErrEmptyCallSet)
	}

	seen := make(map[*Call[R]]int, len(calls))
	for i, c := range calls {
		if c == nil {
			return nil, callxErrors.New(ErrInvalidCall).WithDetail("index", i)
		}
		if first, dup := seen[c]; dup {
			return nil, callxErrors.New(ErrDuplicateCall).
				WithDetail("index", i).
				WithDetail("first_index", first).
				WithDetail("call_id", c.ID())
		}
		seen[c] = i
	}

	var o multiOptions
	for _, opt := range opts {
		opt(&o)
	}

	return &MultiCall[R]{
		id:      uuid.NewString(),
		opts:    o,
		rawOpts: slices.Clone(opts),
		calls:   slices.Clone(calls),
		values:  make([]R, len(calls)),
		errs:    make([]error, len(calls)),
		join:    asyncx.NewCountdown(len(calls)),
		done:    make(chan struct{}),
	}, nil
}

// Join is NewMultiCall without options.
func Join[R any](calls ...*Call[R]) (*MultiCall[R], error) {
	return NewMultiCall(calls)
}

// ID returns the multi-call's unique identifier.
func (m *MultiCall[R]) ID() string { return m.id }

// Len returns the number of member calls.
func (m *MultiCall[R]) Len() int { return len(m.calls) }

// State returns the current lifecycle state.
func (m *MultiCall[R]) State() MultiCallState {
	return MultiCallState(m.state.Load())
}

// Calls returns the member calls in construction order.
func (m *MultiCall[R]) Calls() []*Call[R] {
	return slices.Clone(m.calls)
}

// Dispatch enqueues every member call and returns immediately; cb runs once
// all of them have settled. It fails with ErrAlreadyDispatched on any call
// after the first, without enqueueing anything.
//
// A member that refuses to be enqueued (because it was already started)
// settles its slot with that error straight away, so the callback may run on
// the dispatching goroutine.
func (m *MultiCall[R]) Dispatch(cb MultiCallback[R]) error {
	if cb == nil {
		return callxErrors.New(ErrNilCallback).WithDetail("multicall_id", m.id)
	}
	if !m.state.CompareAndSwap(int32(MultiCallConstructed), int32(MultiCallDispatched)) {
		return callxErrors.New(ErrAlreadyDispatched).
			WithDetail("multicall_id", m.id).
			WithDetail("state", m.State().String())
	}

	m.dispatchedAt = time.Now()
	logx.WithFields(logx.Fields{
		"multicall_id": m.id,
		"name":         m.opts.name,
		"calls":        len(m.calls),
	}).Debug("callx: dispatching multi-call")

	for i, call := range m.calls {
		err := call.Enqueue(func(v R, err error, _ *Call[R]) {
			m.resolve(i, v, err, cb)
		})
		if err != nil {
			var zero R
			m.resolve(i, zero, err, cb)
		}
	}
	return nil
}

// resolve publishes slot i. Each slot has exactly one writer and the write
// precedes the arrival, so the last arrival sees every slot.
func (m *MultiCall[R]) resolve(i int, v R, err error, cb MultiCallback[R]) {
	m.values[i] = v
	m.errs[i] = err
	if m.join.Arrive() {
		m.settle(cb)
	}
}

func (m *MultiCall[R]) settle(cb MultiCallback[R]) {
	m.settledAt = time.Now()
	m.state.Store(int32(MultiCallSettled))

	summary := m.Summary()
	logx.WithFields(logx.Fields{
		"multicall_id": m.id,
		"name":         m.opts.name,
		"succeeded":    summary.Succeeded,
		"failed":       summary.Failed,
		"cancelled":    summary.Cancelled,
		"elapsed":      m.settledAt.Sub(m.dispatchedAt).String(),
	}).Debug("callx: multi-call settled")

	cb(slices.Clone(m.values), slices.Clone(m.errs), slices.Clone(m.calls), m)
	m.record(summary)
	close(m.done)
}

func (m *MultiCall[R]) record(summary Summary) {
	for _, sink := range m.opts.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
		if err := sink.Record(ctx, summary); err != nil {
			logx.WithField("multicall_id", m.id).WithError(err).Warn("callx: failed to record settlement")
		}
		cancel()
	}
}

// Done is closed after the callback has returned and sinks have been
// notified. Waiting on it from inside the callback deadlocks.
func (m *MultiCall[R]) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the multi-call has settled or ctx ends.
func (m *MultiCall[R]) Wait(ctx context.Context) ([]Result[R], error) {
	select {
	case <-m.done:
		return m.Results(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Results returns one Result per call in construction order, or nil before
// settlement.
func (m *MultiCall[R]) Results() []Result[R] {
	if m.State() != MultiCallSettled {
		return nil
	}
	out := make([]Result[R], len(m.calls))
	for i := range m.calls {
		out[i] = resultOf(m.values[i], m.errs[i])
	}
	return out
}

// Values returns the per-call values, or nil before settlement.
func (m *MultiCall[R]) Values() []R {
	if m.State() != MultiCallSettled {
		return nil
	}
	return slices.Clone(m.values)
}

// Errors returns the per-call failures, or nil before settlement.
func (m *MultiCall[R]) Errors() []error {
	if m.State() != MultiCallSettled {
		return nil
	}
	return slices.Clone(m.errs)
}

// Failed returns the member calls whose slot holds a failure.
func (m *MultiCall[R]) Failed() []*Call[R] {
	if m.State() != MultiCallSettled {
		return nil
	}
	var failed []*Call[R]
	for i, err := range m.errs {
		if err != nil {
			failed = append(failed, m.calls[i])
		}
	}
	return failed
}

// Cancel cancels every member call. Each still settles its slot, with
// ErrCancelled, so the callback fires as usual.
func (m *MultiCall[R]) Cancel() {
	for _, c := range m.calls {
		c.Cancel()
	}
}

// Retry builds a new, undispatched MultiCall over fresh clones of the given
// member calls, or of all members when none are given. The receiver must have
// settled.
func (m *MultiCall[R]) Retry(calls ...*Call[R]) (*MultiCall[R], error) {
	if m.State() != MultiCallSettled {
		return nil, callxErrors.New(ErrNotSettled).WithDetail("multicall_id", m.id)
	}
	if len(calls) == 0 {
		calls = m.calls
	}

	clones := make([]*Call[R], 0, len(calls))
	for _, c := range calls {
		if !slices.Contains(m.calls, c) {
			return nil, callxErrors.New(ErrUnknownCall).WithDetail("multicall_id", m.id)
		}
		clones = append(clones, c.Clone())
	}
	return NewMultiCall(clones, m.rawOpts...)
}

// RetryFailed is Retry over the failed members. It fails with
// ErrEmptyCallSet when nothing failed.
func (m *MultiCall[R]) RetryFailed() (*MultiCall[R], error) {
	if m.State() != MultiCallSettled {
		return nil, callxErrors.New(ErrNotSettled).WithDetail("multicall_id", m.id)
	}
	failed := m.Failed()
	clones := make([]*Call[R], len(failed))
	for i, c := range failed {
		clones[i] = c.Clone()
	}
	return NewMultiCall(clones, m.rawOpts...)
}
