package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "nats://127.0.0.1:4222", v.GetString("nats.url"))
	assert.Equal(t, ":8080", v.GetString("server.addr"))
	assert.Equal(t, "nats", v.GetString("source"))
	assert.Equal(t, 30.0, v.GetFloat64("monitor.sample_rate"))
	assert.Equal(t, 30, v.GetInt("monitor.warmup"))
	assert.Equal(t, 0.5, v.GetFloat64("monitor.min_saturation"))
	assert.Equal(t, 0.1, v.GetFloat64("monitor.min_brightness"))
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PULSECAM_SERVER_ADDR", ":9999")
	t.Setenv("PULSECAM_SOURCE", "sensor")

	v, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9999", v.GetString("server.addr"))
	assert.Equal(t, "sensor", v.GetString("source"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/pulsecam.yaml")
	assert.Error(t, err)
}
