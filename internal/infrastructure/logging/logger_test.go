package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewFromLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		dev   bool
		want  zapcore.Level
	}{
		{name: "production default", level: "", dev: false, want: zapcore.InfoLevel},
		{name: "development default", level: "", dev: true, want: zapcore.DebugLevel},
		{name: "explicit warn", level: "warn", dev: false, want: zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewFromLevel(tt.level, tt.dev)
			require.NotNil(t, logger)
			assert.True(t, logger.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNewFromLevelFallsBackToNop(t *testing.T) {
	logger := NewFromLevel("nonsense", false)
	require.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestNewStderr(t *testing.T) {
	logger := NewStderr("error")
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
}
