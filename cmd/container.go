// cmd/container.go
//
// Composition root. Owns the worker pool, the HTTP client and the optional
// Redis connection, and hands them to commands.
package main

import (
	"context"

	"github.com/Abraxas-365/callx/pkg/asyncx"
	"github.com/Abraxas-365/callx/pkg/callx"
	"github.com/Abraxas-365/callx/pkg/callx/callxhttp"
	"github.com/Abraxas-365/callx/pkg/callx/callxredis"
	"github.com/Abraxas-365/callx/pkg/config"
	"github.com/Abraxas-365/callx/pkg/logx"
	"github.com/redis/go-redis/v9"
)

// Container holds shared infrastructure.
type Container struct {
	Config *config.Config

	Pool  *asyncx.Pool
	HTTP  *callxhttp.Client
	Redis *redis.Client
	Store *callxredis.Sink
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logx.Debug("initializing container")

	c := &Container{Config: cfg}
	c.Pool = asyncx.NewPool(cfg.Scheduler.Workers)

	opts := []callxhttp.ClientOption{
		callxhttp.WithTimeout(cfg.HTTP.Timeout),
		callxhttp.WithScheduler(c.Pool),
		callxhttp.WithDebug(cfg.HTTP.Debug),
	}
	if cfg.HTTP.BaseURL != "" {
		opts = append(opts, callxhttp.WithBaseURL(cfg.HTTP.BaseURL))
	}
	c.HTTP = callxhttp.NewClient(opts...)

	if cfg.Redis.Enabled {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			c.Cleanup()
			return nil, err
		}
		c.Store = callxredis.NewSink(c.Redis,
			callxredis.WithTTL(cfg.Redis.TTL),
			callxredis.WithRecentCap(cfg.Redis.RecentCap),
		)
		logx.WithField("addr", cfg.Redis.Address()).Debug("redis connected")
	}

	return c, nil
}

// Sinks returns the sinks every multi-call should report to.
func (c *Container) Sinks() []callx.MultiOption {
	opts := []callx.MultiOption{callx.WithSink(callx.NewLogSink())}
	if c.Store != nil {
		opts = append(opts, callx.WithSink(c.Store))
	}
	return opts
}

func (c *Container) Cleanup() {
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		}
	}
}
