package config

import (
	"github.com/Abraxas-365/callx/pkg/logx"
	"github.com/spf13/viper"
)

// LogConfig configures the default logger.
type LogConfig struct {
	Level  string
	Format string
	Color  bool
	Caller bool
}

func setLogDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.color", true)
	v.SetDefault("log.caller", false)
}

func loadLogConfig(v *viper.Viper) LogConfig {
	return LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
		Color:  v.GetBool("log.color"),
		Caller: v.GetBool("log.caller"),
	}
}

// Logger builds a logx configuration from the section.
func (c LogConfig) Logger() *logx.Config {
	cfg := logx.DefaultConfig()
	cfg.Level = logx.ParseLevel(c.Level)
	cfg.Format = logx.ParseFormat(c.Format)
	cfg.EnableColors = c.Color
	cfg.EnableCaller = c.Caller
	return cfg
}
