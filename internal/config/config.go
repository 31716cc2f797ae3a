// Package config loads daemon settings through Viper and builds the Zap
// logger from them.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Load returns a Viper with pulsecam defaults applied, environment
// overrides (PULSECAM_SERVER_ADDR etc.) enabled, and, when path is
// non-empty, the given config file merged in.
func Load(path string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.name", "pulsecam")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("source", "nats") // "nats" or "sensor"
	v.SetDefault("sensor.bus", "")
	v.SetDefault("sensor.addr", 0)
	v.SetDefault("monitor.sample_rate", 30.0)
	v.SetDefault("monitor.warmup", 30)
	v.SetDefault("monitor.min_saturation", 0.5)
	v.SetDefault("monitor.min_brightness", 0.1)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetEnvPrefix("PULSECAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	return v, nil
}
