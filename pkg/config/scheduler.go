package config

import (
	"time"

	"github.com/spf13/viper"
)

// SchedulerConfig configures the worker pool calls are enqueued on.
type SchedulerConfig struct {
	Workers       int
	RetryAttempts int
	RetryDelay    time.Duration
}

func setSchedulerDefaults(v *viper.Viper) {
	v.SetDefault("scheduler.workers", 8)
	v.SetDefault("scheduler.retry_attempts", 1)
	v.SetDefault("scheduler.retry_delay", 200*time.Millisecond)
}

func loadSchedulerConfig(v *viper.Viper) SchedulerConfig {
	workers := v.GetInt("scheduler.workers")
	if workers < 1 {
		workers = 1
	}
	return SchedulerConfig{
		Workers:       workers,
		RetryAttempts: v.GetInt("scheduler.retry_attempts"),
		RetryDelay:    v.GetDuration("scheduler.retry_delay"),
	}
}
