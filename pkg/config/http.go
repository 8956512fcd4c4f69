package config

import (
	"time"

	"github.com/spf13/viper"
)

// HTTPConfig configures the HTTP executor client.
type HTTPConfig struct {
	BaseURL string
	Timeout time.Duration
	Debug   bool
}

func setHTTPDefaults(v *viper.Viper) {
	v.SetDefault("http.base_url", "")
	v.SetDefault("http.timeout", 60*time.Second)
	v.SetDefault("http.debug", false)
}

func loadHTTPConfig(v *viper.Viper) HTTPConfig {
	return HTTPConfig{
		BaseURL: v.GetString("http.base_url"),
		Timeout: v.GetDuration("http.timeout"),
		Debug:   v.GetBool("http.debug"),
	}
}
