package config

import (
	"errors"
	"strings"

	"github.com/Abraxas-365/callx/pkg/errx"
	"github.com/spf13/viper"
)

const envPrefix = "CALLX"

var configErrors = errx.NewRegistry("CONFIG")

var (
	ErrRead = configErrors.Register("READ", errx.TypeValidation, 400, "Failed to read config file")
)

// Config is the root configuration. Values come from defaults, an optional
// config file and CALLX_* environment variables, in increasing precedence.
type Config struct {
	Log       LogConfig
	Scheduler SchedulerConfig
	HTTP      HTTPConfig
	Redis     RedisConfig
}

// Load builds a Config. path may be empty, in which case a callx.yaml in the
// working directory is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setLogDefaults(v)
	setSchedulerDefaults(v)
	setHTTPDefaults(v)
	setRedisDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("callx")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, configErrors.NewWithCause(ErrRead, err).WithDetail("path", path)
		}
	}

	return &Config{
		Log:       loadLogConfig(v),
		Scheduler: loadSchedulerConfig(v),
		HTTP:      loadHTTPConfig(v),
		Redis:     loadRedisConfig(v),
	}, nil
}
