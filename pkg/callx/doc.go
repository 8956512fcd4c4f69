// Package callx coordinates asynchronous calls and joins their outcomes.
//
// # Calls
//
// A [Call] wraps one unit of work behind an [Executor]. It is started once,
// either synchronously with [Call.Execute] or asynchronously with
// [Call.Enqueue], and always produces exactly one terminal outcome: a value
// or a failure. Cancelling a call does not drop its outcome; it settles with
// [ErrCancelled].
//
//	call := callx.NewFunc(func(ctx context.Context) (*User, error) {
//	    return repo.GetByID(ctx, id)
//	}, callx.WithConditions(callx.NullResponse))
//
//	err := call.Enqueue(func(u *User, err error, c *callx.Call[*User]) {
//	    ...
//	})
//
// Conditions turn unusable successes into failures: [NullResponse] rejects a
// nil value and [EmptyList] rejects an empty collection. Retry policy belongs
// to the call ([WithRetry]); where it runs belongs to its scheduler
// ([WithScheduler]).
//
// # Multi-calls
//
// A [MultiCall] owns an ordered list of calls, enqueues them all on
// [MultiCall.Dispatch] and invokes one [MultiCallback] once every call has
// settled. Values, errors and calls are index-aligned with construction
// order, whatever order the calls finish in. Failures never cancel siblings
// and are delivered as data, so the caller decides whether a partial failure
// matters.
//
//	mc, err := callx.Join(userCall, ordersCall, prefsCall)
//	if err != nil {
//	    return err
//	}
//	err = mc.Dispatch(func(data []Profile, errs []error, calls []*callx.Call[Profile], mc *callx.MultiCall[Profile]) {
//	    for i := range data {
//	        ...
//	    }
//	})
//
// [MultiCall.Wait] offers the same outcome as a slice of [Result] for callers
// that prefer blocking. A settled multi-call can be retried, in full or for
// its failed members, as a new multi-call over cloned calls.
//
// Settlement summaries can be exported through a [Sink]; [LogSink] writes
// them with logx, and callxredis stores them in Redis.
package callx
