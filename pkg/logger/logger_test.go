package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_ValidLevelsAndFormats(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		for _, format := range []string{"json", "console"} {
			t.Run(level+" "+format, func(t *testing.T) {
				log, err := New(level, format)

				require.NoError(t, err)
				require.NotNil(t, log)
				log.Info("test log message")
			})
		}
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	for _, level := range []string{"invalid", "INFO", "trace", ""} {
		t.Run(level, func(t *testing.T) {
			log, err := New(level, "json")

			assert.Error(t, err)
			assert.Nil(t, log)
			assert.Contains(t, err.Error(), "invalid log level")
		})
	}
}

func TestNew_InvalidFormat(t *testing.T) {
	log, err := New("info", "yaml")

	assert.Error(t, err)
	assert.Nil(t, log)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestNew_LevelFiltering(t *testing.T) {
	log, err := New("info", "json")
	require.NoError(t, err)

	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.ErrorLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}
