package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggerViper(level, format string) *viper.Viper {
	v := viper.New()
	v.Set("logging.level", level)
	v.Set("logging.format", format)
	return v
}

func TestNewLoggerJSON(t *testing.T) {
	logger, err := NewLogger(loggerViper("info", "json"))
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Sync()
}

func TestNewLoggerConsole(t *testing.T) {
	logger, err := NewLogger(loggerViper("debug", "console"))
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Sync()
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	_, err := NewLogger(loggerViper("loud", "json"))
	assert.Error(t, err)
}

func TestNewLoggerInvalidFormat(t *testing.T) {
	_, err := NewLogger(loggerViper("info", "xml"))
	assert.Error(t, err)
}
