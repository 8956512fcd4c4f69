package callx

import (
	"slices"
	"time"

	"github.com/Abraxas-365/callx/pkg/asyncx"
)

type callOptions struct {
	name       string
	scheduler  asyncx.Scheduler
	conditions []Condition
	attempts   int
	retryDelay time.Duration
}

func defaultCallOptions() callOptions {
	return callOptions{
		scheduler: asyncx.GoScheduler{},
		attempts:  1,
	}
}

func (o callOptions) clone() callOptions {
	o.conditions = slices.Clone(o.conditions)
	return o
}

// Option configures a Call.
type Option func(*callOptions)

// WithName labels the call in logs and settlement summaries.
func WithName(name string) Option {
	return func(o *callOptions) {
		o.name = name
	}
}

// WithScheduler sets where Enqueue runs the executor. Defaults to a
// goroutine per call.
func WithScheduler(s asyncx.Scheduler) Option {
	return func(o *callOptions) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithConditions sets the conditions checked against a successful value.
func WithConditions(conds ...Condition) Option {
	return func(o *callOptions) {
		o.conditions = slices.Clone(conds)
	}
}

// WithRetry retries a failing executor up to attempts times in total,
// doubling initialDelay between attempts.
func WithRetry(attempts int, initialDelay time.Duration) Option {
	return func(o *callOptions) {
		if attempts > 0 {
			o.attempts = attempts
		}
		o.retryDelay = initialDelay
	}
}

type multiOptions struct {
	name  string
	sinks []Sink
}

// MultiOption configures a MultiCall.
type MultiOption func(*multiOptions)

// WithMultiName labels the multi-call in logs and summaries.
func WithMultiName(name string) MultiOption {
	return func(o *multiOptions) {
		o.name = name
	}
}

// WithSink adds a Sink that receives the settlement Summary.
func WithSink(s Sink) MultiOption {
	return func(o *multiOptions) {
		if s != nil {
			o.sinks = append(o.sinks, s)
		}
	}
}
