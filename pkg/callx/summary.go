package callx

import (
	"context"
	"time"

	"github.com/Abraxas-365/callx/pkg/errx"
	"github.com/Abraxas-365/callx/pkg/logx"
)

const sinkTimeout = 5 * time.Second

// SlotSummary describes the outcome of one member call.
type SlotSummary struct {
	Index     int    `json:"index"`
	CallID    string `json:"call_id"`
	Name      string `json:"name,omitempty"`
	State     string `json:"state"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

// Summary is a serializable record of a settled MultiCall.
type Summary struct {
	ID           string        `json:"id"`
	Name         string        `json:"name,omitempty"`
	Size         int           `json:"size"`
	Succeeded    int           `json:"succeeded"`
	Failed       int           `json:"failed"`
	Cancelled    int           `json:"cancelled"`
	Slots        []SlotSummary `json:"slots"`
	DispatchedAt time.Time     `json:"dispatched_at"`
	SettledAt    time.Time     `json:"settled_at"`
}

// Sink receives the Summary of every settled MultiCall it is attached to.
type Sink interface {
	Record(ctx context.Context, s Summary) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, s Summary) error

// Record calls f(ctx, s).
func (f SinkFunc) Record(ctx context.Context, s Summary) error {
	return f(ctx, s)
}

// LogSink writes summaries through logx.
type LogSink struct{}

// NewLogSink creates a LogSink.
func NewLogSink() *LogSink {
	return &LogSink{}
}

func (LogSink) Record(_ context.Context, s Summary) error {
	entry := logx.WithFields(logx.Fields{
		"multicall_id": s.ID,
		"size":         s.Size,
		"succeeded":    s.Succeeded,
		"failed":       s.Failed,
		"cancelled":    s.Cancelled,
		"elapsed":      s.SettledAt.Sub(s.DispatchedAt).String(),
	})
	if s.Name != "" {
		entry = entry.WithField("name", s.Name)
	}
	if s.Failed+s.Cancelled > 0 {
		entry.WithStruct(s.Slots).Warn("callx: multi-call settled with failures")
		return nil
	}
	entry.Info("callx: multi-call settled")
	return nil
}

// Summary describes the multi-call. Before settlement only the identity and
// size are filled in.
func (m *MultiCall[R]) Summary() Summary {
	s := Summary{
		ID:   m.id,
		Name: m.opts.name,
		Size: len(m.calls),
	}
	if m.State() != MultiCallSettled {
		return s
	}

	s.DispatchedAt = m.dispatchedAt
	s.SettledAt = m.settledAt
	s.Slots = make([]SlotSummary, len(m.calls))
	for i, c := range m.calls {
		slot := SlotSummary{Index: i, CallID: c.ID(), Name: c.Name()}
		err := m.errs[i]
		switch {
		case err == nil:
			slot.State = StateSucceeded.String()
			s.Succeeded++
		case IsCancelled(err):
			slot.State = StateCancelled.String()
			s.Cancelled++
		default:
			slot.State = StateFailed.String()
			s.Failed++
		}
		if err != nil {
			slot.Error = err.Error()
			var e *errx.Error
			if errx.As(err, &e) {
				slot.ErrorCode = e.Code
			}
		}
		s.Slots[i] = slot
	}
	return s
}
