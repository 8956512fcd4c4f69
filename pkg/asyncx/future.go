package asyncx

import (
	"context"
	"sync"
)

// ─── Future ──────────────────────────────────────────────────────────────────

// result holds the outcome of an async computation.
type result[T any] struct {
	value T
	err   error
}

// Future represents a value that will be available asynchronously.
// Create one with Run or NewPromise and retrieve its value with Await.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	res  result[T]
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// resolve publishes the outcome. Only the first call has an effect.
func (f *Future[T]) resolve(v T, err error) {
	f.once.Do(func() {
		f.res = result[T]{value: v, err: err}
		close(f.done)
	})
}

// NewPromise returns an unresolved Future together with the function that
// resolves it. Calls to resolve after the first are ignored.
func NewPromise[T any]() (*Future[T], func(T, error)) {
	f := newFuture[T]()
	return f, f.resolve
}

// Run executes fn in a goroutine and returns a Future for its result.
func Run[T any](fn func() (T, error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		f.resolve(fn())
	}()
	return f
}

// Done is closed once the Future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the Future completes and returns its value and error.
// Safe to call multiple times and from multiple goroutines.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.res.value, f.res.err
}

// AwaitContext is Await bounded by ctx. It returns ctx.Err() when ctx ends
// first; the Future itself keeps running.
func (f *Future[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.res.value, f.res.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
