package callx

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Abraxas-365/callx/pkg/asyncx"
	"github.com/Abraxas-365/callx/pkg/logx"
	"github.com/google/uuid"
)

// Executor performs one unit of work and produces a value or a failure.
// Implementations should return promptly once ctx is cancelled.
type Executor[R any] interface {
	Execute(ctx context.Context) (R, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc[R any] func(ctx context.Context) (R, error)

// Execute calls f(ctx).
func (f ExecutorFunc[R]) Execute(ctx context.Context) (R, error) {
	return f(ctx)
}

// Callback receives the terminal outcome of a call. Exactly one of data and
// err is meaningful: on failure data is the zero value.
type Callback[R any] func(data R, err error, call *Call[R])

// Call wraps one unit of asynchronous work. It can be started once, either
// synchronously with Execute or asynchronously with Enqueue, and produces
// exactly one terminal outcome.
type Call[R any] struct {
	id       string
	executor Executor[R]

	state atomic.Int32
	used  atomic.Bool

	mu        sync.Mutex
	opts      callOptions
	bound     context.Context
	cancelled bool
	stop      context.CancelFunc
	callback  Callback[R]
}

// New creates an idle call around executor.
func New[R any](executor Executor[R], opts ...Option) *Call[R] {
	o := defaultCallOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Call[R]{
		id:       uuid.NewString(),
		executor: executor,
		opts:     o,
		bound:    context.Background(),
	}
}

// NewFunc is New for a plain function.
func NewFunc[R any](fn func(ctx context.Context) (R, error), opts ...Option) *Call[R] {
	return New[R](ExecutorFunc[R](fn), opts...)
}

// ID returns the call's unique identifier.
func (c *Call[R]) ID() string { return c.id }

// Name returns the label set with WithName.
func (c *Call[R]) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts.name
}

// State returns the current lifecycle state.
func (c *Call[R]) State() State {
	return State(c.state.Load())
}

// Conditions returns the conditions the call will check.
func (c *Call[R]) Conditions() []Condition {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.opts.conditions)
}

// Include adds a condition. It has no effect once the call has started.
func (c *Call[R]) Include(cond Condition) *Call[R] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !slices.Contains(c.opts.conditions, cond) {
		c.opts.conditions = append(c.opts.conditions, cond)
	}
	return c
}

// Exclude removes a condition. It has no effect once the call has started.
func (c *Call[R]) Exclude(cond Condition) *Call[R] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.conditions = slices.DeleteFunc(c.opts.conditions, func(x Condition) bool { return x == cond })
	return c
}

// Bind ties the call to ctx: when ctx is done the call is cancelled. A call
// bound to an already finished ctx settles as cancelled without running.
func (c *Call[R]) Bind(ctx context.Context) *Call[R] {
	if ctx == nil {
		return c
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bound = ctx
	return c
}

// Execute runs the call on the calling goroutine and blocks until it
// completes. It fails with ErrInvalidState if the call was already started.
func (c *Call[R]) Execute(ctx context.Context) (R, error) {
	if !c.used.CompareAndSwap(false, true) {
		var zero R
		return zero, c.invalidState()
	}
	return c.run(ctx)
}

// Enqueue schedules the call and returns immediately. cb is invoked exactly
// once, on the scheduler's goroutine, with the terminal outcome. It fails with
// ErrInvalidState if the call was already started.
func (c *Call[R]) Enqueue(cb Callback[R]) error {
	if cb == nil {
		return callxErrors.New(ErrNilCallback).WithDetail("call_id", c.id)
	}
	if !c.used.CompareAndSwap(false, true) {
		return c.invalidState()
	}

	c.mu.Lock()
	c.callback = cb
	scheduler := c.opts.scheduler
	c.mu.Unlock()

	scheduler.Submit(func() {
		v, err := c.run(context.Background())
		cb(v, err, c)
	})
	return nil
}

// Go enqueues the call and returns a Future for its outcome.
func (c *Call[R]) Go() (*asyncx.Future[R], error) {
	f, resolve := asyncx.NewPromise[R]()
	if err := c.Enqueue(func(v R, err error, _ *Call[R]) { resolve(v, err) }); err != nil {
		return nil, err
	}
	return f, nil
}

// Cancel stops the call. An idle call becomes cancelled and will report
// ErrCancelled when started; a running call has its context cancelled and
// reports ErrCancelled. Cancelling a finished call is a no-op.
func (c *Call[R]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.State()
	if state.Terminal() {
		return
	}
	c.cancelled = true
	if c.stop != nil {
		c.stop()
	}
	if state == StateIdle {
		c.state.Store(int32(StateCancelled))
	}
}

// Clone returns a new idle call with the same executor, options and binding.
func (c *Call[R]) Clone() *Call[R] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &Call[R]{
		id:       uuid.NewString(),
		executor: c.executor,
		opts:     c.opts.clone(),
		bound:    c.bound,
	}
}

// Retry enqueues a clone of a finished call. A nil cb reuses the callback
// given to the previous Enqueue. The returned clone is the call passed to cb.
func (c *Call[R]) Retry(cb Callback[R]) (*Call[R], error) {
	if !c.State().Terminal() {
		return nil, c.invalidState()
	}
	if cb == nil {
		c.mu.Lock()
		cb = c.callback
		c.mu.Unlock()
	}
	if cb == nil {
		return nil, callxErrors.New(ErrNilCallback).WithDetail("call_id", c.id)
	}

	next := c.Clone()
	if err := next.Enqueue(cb); err != nil {
		return nil, err
	}
	return next, nil
}

func (c *Call[R]) run(parent context.Context) (R, error) {
	var zero R

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	c.mu.Lock()
	bound := c.bound
	if c.cancelled || bound.Err() != nil {
		c.cancelled = true
		c.state.Store(int32(StateCancelled))
		c.mu.Unlock()
		return zero, c.cancelledErr(context.Cause(bound))
	}
	c.stop = cancel
	opts := c.opts.clone()
	c.state.Store(int32(StateRunning))
	c.mu.Unlock()

	if bound.Done() != nil {
		unbind := context.AfterFunc(bound, c.Cancel)
		defer unbind()
	}

	v, err := c.attempt(ctx, opts)
	if err == nil {
		err = checkConditions(v, opts.conditions)
	}

	c.mu.Lock()
	c.stop = nil
	cancelled := c.cancelled || (err != nil && parent.Err() != nil)
	c.mu.Unlock()

	switch {
	case cancelled:
		c.state.Store(int32(StateCancelled))
		return zero, c.cancelledErr(err)
	case err != nil:
		c.state.Store(int32(StateFailed))
		logx.WithFields(logx.Fields{
			"call_id": c.id,
			"name":    opts.name,
		}).WithError(err).Debug("callx: call failed")
		return zero, err
	}

	c.state.Store(int32(StateSucceeded))
	return v, nil
}

func (c *Call[R]) attempt(ctx context.Context, opts callOptions) (v R, err error) {
	if c.executor == nil {
		return v, callxErrors.New(ErrNilExecutor).WithDetail("call_id", c.id)
	}

	defer func() {
		if r := recover(); r != nil {
			var zero R
			v = zero
			err = callxErrors.NewWithCause(ErrExecutorPanic, fmt.Errorf("%v", r)).WithDetail("call_id", c.id)
		}
	}()

	if opts.attempts <= 1 {
		return c.executor.Execute(ctx)
	}
	return asyncx.RetryWithBackoff(ctx, opts.attempts, opts.retryDelay, c.executor.Execute)
}

func (c *Call[R]) invalidState() error {
	return callxErrors.New(ErrInvalidState).
		WithDetail("call_id", c.id).
		WithDetail("state", c.State().String())
}

func (c *Call[R]) cancelledErr(cause error) error {
	return callxErrors.NewWithCause(ErrCancelled, cause).WithDetail("call_id", c.id)
}
