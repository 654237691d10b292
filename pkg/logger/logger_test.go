package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	cases := []struct {
		level    string
		format   string
		expected zapcore.Level
	}{
		{"debug", FormatConsole, zapcore.DebugLevel},
		{"warn", FormatJson, zapcore.WarnLevel},
		{"verbose", FormatJson, zapcore.InfoLevel},
		{"", FormatJson, zapcore.InfoLevel},
	}

	for _, testCase := range cases {
		logger, err := New(testCase.level, testCase.format)

		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(testCase.expected), "level %v", testCase.level)
		if testCase.expected > zapcore.DebugLevel {
			assert.False(t, logger.Core().Enabled(testCase.expected-1), "level %v", testCase.level)
		}
	}
}
