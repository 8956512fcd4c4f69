package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// RedisConfig configures the optional settlement sink. The sink is only
// wired when Enabled is set.
type RedisConfig struct {
	Enabled   bool
	Host      string
	Port      int
	Password  string
	DB        int
	TTL       time.Duration
	RecentCap int
}

// Address returns host:port.
func (c RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setRedisDefaults(v *viper.Viper) {
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)
	v.SetDefault("redis.recent_cap", 100)
}

func loadRedisConfig(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Enabled:   v.GetBool("redis.enabled"),
		Host:      v.GetString("redis.host"),
		Port:      v.GetInt("redis.port"),
		Password:  v.GetString("redis.password"),
		DB:        v.GetInt("redis.db"),
		TTL:       v.GetDuration("redis.ttl"),
		RecentCap: v.GetInt("redis.recent_cap"),
	}
}
