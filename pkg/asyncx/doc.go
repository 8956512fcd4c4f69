// Package asyncx provides the concurrency primitives callx is built on:
// futures, a one-shot join counter, schedulers and retry with backoff.
//
// # Futures
//
// A [Future] represents a value that will be computed asynchronously.
// Use [Run] to start work immediately in a goroutine, or [NewPromise] when
// the value is produced by a callback, and [Future.Await] to block until the
// result is ready. Await is safe to call from multiple goroutines.
//
//	fut, resolve := asyncx.NewPromise[*User]()
//	client.FetchUser(id, func(u *User, err error) { resolve(u, err) })
//
//	user, err := fut.AwaitContext(ctx)
//
// # Join counter
//
// [Countdown] is the primitive behind multi-call aggregation. Every
// participant writes its own slot and then calls [Countdown.Arrive]; the
// single participant that sees Arrive return true observes every slot write
// made before the other arrivals and may safely read the full result set.
//
//	slots := make([]int, n)
//	join := asyncx.NewCountdown(n)
//	for i := range n {
//	    go func() {
//	        slots[i] = work(i)
//	        if join.Arrive() {
//	            report(slots)
//	        }
//	    }()
//	}
//
// # Schedulers
//
// [Scheduler] decides where asynchronous tasks run. [GoScheduler] starts a
// goroutine per task. [Pool] bounds concurrency to a fixed number of workers
// and queues the rest in an unbounded FIFO backlog, so submitting never
// blocks and no task is dropped.
//
//	pool := asyncx.NewPool(8)
//	defer pool.Close()
//	pool.Submit(func() { ... })
//
// # Retry
//
// [RetryWithBackoff] calls a function up to n times, doubling the wait
// after every failure, and stops early when the context ends.
//
//	data, err := asyncx.RetryWithBackoff(ctx, 5, 100*time.Millisecond, func(ctx context.Context) (*Data, error) {
//	    return client.Fetch(ctx)
//	})
package asyncx
