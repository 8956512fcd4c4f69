package callxredis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Abraxas-365/callx/pkg/callx"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL       = 24 * time.Hour
	DefaultRecentCap = 100
)

// Sink persists multi-call summaries in Redis. Each summary is stored as
// JSON under its own key and its id is pushed onto a capped list of recent
// settlements.
type Sink struct {
	rdb       redis.Cmdable
	ttl       time.Duration
	recentCap int64
}

// Option configures a Sink.
type Option func(*Sink)

// WithTTL sets how long a summary is kept. Zero keeps it forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Sink) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

// WithRecentCap sets the length of the recent list.
func WithRecentCap(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.recentCap = int64(n)
		}
	}
}

// NewSink creates a Redis-backed sink.
func NewSink(rdb redis.Cmdable, opts ...Option) *Sink {
	s := &Sink{
		rdb:       rdb,
		ttl:       DefaultTTL,
		recentCap: DefaultRecentCap,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ callx.Sink = (*Sink)(nil)

// Key helpers
func summaryKey(id string) string { return fmt.Sprintf("callx:multicall:%s", id) }
func recentKey() string           { return "callx:multicall:recent" }

// Record stores s and pushes its id onto the recent list.
func (rs *Sink) Record(ctx context.Context, s callx.Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return redisErrors.NewWithCause(ErrMarshal, err).WithDetail("multicall_id", s.ID)
	}

	pipe := rs.rdb.TxPipeline()
	pipe.Set(ctx, summaryKey(s.ID), data, rs.ttl)
	pipe.LPush(ctx, recentKey(), s.ID)
	pipe.LTrim(ctx, recentKey(), 0, rs.recentCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return redisErrors.NewWithCause(ErrRecord, err).WithDetail("multicall_id", s.ID)
	}
	return nil
}

// Get loads the summary recorded for a multi-call.
func (rs *Sink) Get(ctx context.Context, id string) (*callx.Summary, error) {
	data, err := rs.rdb.Get(ctx, summaryKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, redisErrors.New(ErrNotFound).WithDetail("multicall_id", id)
		}
		return nil, redisErrors.NewWithCause(ErrGet, err).WithDetail("multicall_id", id)
	}

	var s callx.Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, redisErrors.NewWithCause(ErrUnmarshal, err).WithDetail("multicall_id", id)
	}
	return &s, nil
}

// Recent returns up to n of the latest summaries, newest first. Summaries
// that have expired are skipped.
func (rs *Sink) Recent(ctx context.Context, n int) ([]callx.Summary, error) {
	if n <= 0 {
		return nil, nil
	}

	ids, err := rs.rdb.LRange(ctx, recentKey(), 0, int64(n)-1).Result()
	if err != nil {
		return nil, redisErrors.NewWithCause(ErrRecent, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = summaryKey(id)
	}
	values, err := rs.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, redisErrors.NewWithCause(ErrRecent, err)
	}

	out := make([]callx.Summary, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var s callx.Summary
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, redisErrors.NewWithCause(ErrUnmarshal, err).WithDetail("multicall_id", ids[i])
		}
		out = append(out, s)
	}
	return out, nil
}
