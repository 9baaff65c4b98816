package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultLoggerIsUsable(t *testing.T) {
	require.NotNil(t, Logger)
	assert.NotPanics(t, func() { Logger.Infow("noop", FieldCount, 1) })
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbose    bool
		level      zapcore.Level
	}{
		{name: "JSON output mode", jsonOutput: true, level: zapcore.InfoLevel},
		{name: "Console output mode", level: zapcore.InfoLevel},
		{name: "Verbose console", verbose: true, level: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := Logger
			t.Cleanup(func() {
				Logger = prev
				JSONOutput = false
			})

			require.NoError(t, Initialize(tt.jsonOutput, tt.verbose))
			assert.Equal(t, tt.jsonOutput, JSONOutput)
			assert.True(t, Logger.Desugar().Core().Enabled(tt.level))
			assert.NotNil(t, Named("build"))
		})
	}
}
