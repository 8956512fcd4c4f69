package callx

import "errors"

var errMissingFailure = errors.New("callx: failure result without an error")

// Result is the terminal outcome of one call: either a value or a failure.
// The zero Result is Ok with the zero value.
type Result[R any] struct {
	value R
	err   error
}

// Ok returns a successful Result.
func Ok[R any](v R) Result[R] {
	return Result[R]{value: v}
}

// Err returns a failed Result. A nil err is replaced by a generic failure so
// the Result never silently turns into a success.
func Err[R any](err error) Result[R] {
	if err == nil {
		err = errMissingFailure
	}
	return Result[R]{err: err}
}

// IsOk reports whether the Result holds a value.
func (r Result[R]) IsOk() bool { return r.err == nil }

// Value returns the value, or the zero value for a failure.
func (r Result[R]) Value() R { return r.value }

// Err returns the failure, or nil for a success.
func (r Result[R]) Err() error { return r.err }

// Unpack returns the Result in Go's (value, error) form.
func (r Result[R]) Unpack() (R, error) { return r.value, r.err }

// ValueOr returns the value, or def for a failure.
func (r Result[R]) ValueOr(def R) R {
	if r.err != nil {
		return def
	}
	return r.value
}

func resultOf[R any](v R, err error) Result[R] {
	if err != nil {
		return Err[R](err)
	}
	return Ok(v)
}
