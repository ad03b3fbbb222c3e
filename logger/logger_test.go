package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitializeJSON(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	require.NoError(t, InitializeTo(&buf, true, VerbosityInfo))
	assert.True(t, JSONOutput)

	ComponentLogger("registry").Infow("indexed", FieldCount, 3)
	Cleanup()

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "indexed", line["msg"])
	assert.Equal(t, "registry", line["logger"])
	assert.EqualValues(t, 3, line[FieldCount])
}

func TestInitializeConsoleRespectsVerbosity(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	require.NoError(t, InitializeTo(&buf, false, VerbosityUser))
	assert.False(t, JSONOutput)

	Logger.Infow("hidden at default verbosity")
	Logger.Warnw("shown", FieldSymbol, "VkResult")

	out := stripANSI(buf.String())
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "symbol=VkResult")
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityAll, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestShouldOutput(t *testing.T) {
	assert.False(t, ShouldOutput(VerbosityUser, OutputProgress))
	assert.False(t, ShouldOutput(VerbosityUser, OutputSummary))
	assert.True(t, ShouldOutput(VerbosityInfo, OutputSummary))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputMarkers))
	assert.True(t, ShouldOutput(VerbosityTrace, OutputMarkers))
	assert.False(t, ShouldOutput(VerbosityTrace, OutputDataDump))
	assert.True(t, ShouldOutput(VerbosityAll, OutputDataDump))
	assert.False(t, ShouldOutput(VerbosityTrace, OutputCategory(999)))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Trace (-vvv)", LevelName(VerbosityTrace))
	assert.Equal(t, "All (-vvvv+)", LevelName(7))
}

func TestChildLogger(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	require.NoError(t, InitializeTo(&buf, false, VerbosityInfo))

	child := ChildLogger(ComponentLogger("convert"), FieldDocument, "VkExtent2D.md")
	child.Infow("converted", FieldChanged, true)

	out := stripANSI(buf.String())
	assert.Contains(t, out, "convert")
	assert.Contains(t, out, "document=VkExtent2D.md")
	assert.Contains(t, out, "changed=true")
}

func reset() {
	_ = InitializeTo(&bytes.Buffer{}, false, VerbosityUser)
	JSONOutput = false
}
