package logger

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(str, "")
}

func encode(t *testing.T, enc zapcore.Encoder, ent zapcore.Entry, fields ...zapcore.Field) string {
	t.Helper()
	buf, err := enc.EncodeEntry(ent, fields)
	require.NoError(t, err)
	defer buf.Free()
	return stripANSI(buf.String())
}

// The console encoder must never silently drop fields.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2024, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "convert",
		Message:    "rendered marker",
	}

	tests := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String(FieldSymbol, "VkExtent2D"), "symbol=VkExtent2D"},
		{zap.String(FieldCategory, "structs"), "category=structs"},
		{zap.Bool("deprecated", true), "deprecated=true"},
		{zap.Int(FieldCount, 999), "count=999"},
		{zap.Int64(FieldDurationMS, 42), "duration_ms=42ms"},
		{zap.Float64("ratio", 0.5), "ratio=0.5"},
		{zap.Strings("owners", []string{"VK_VERSION_1_0", "VK_KHR_surface"}), "owners=[VK_VERSION_1_0 VK_KHR_surface]"},
		{zap.String("field.with.dots", "x"), "field.with.dots=x"},
		{zap.Error(nil), ""},
		{zap.String(FieldError, "symbol missing"), "error=symbol missing"},
	}

	var fields []zapcore.Field
	for _, tt := range tests {
		fields = append(fields, tt.field)
	}

	out := encode(t, newMinimalEncoder(), entry, fields...)
	assert.True(t, strings.HasPrefix(out, "13:04:35  convert  rendered marker  "), out)
	for _, tt := range tests {
		if tt.mustFind == "" {
			continue
		}
		assert.Contains(t, out, tt.mustFind)
	}
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestMinimalEncoderContextFields(t *testing.T) {
	enc := newMinimalEncoder()
	enc.AddString(FieldRunID, "r-1")

	clone := enc.Clone()
	clone.AddString(FieldDocument, "vkCmdDraw.md")

	entry := zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Now(), Message: "converted"}

	out := encode(t, clone, entry, zap.Int(FieldChanged, 1))
	assert.Contains(t, out, "run_id=r-1")
	assert.Contains(t, out, "document=vkCmdDraw.md")
	assert.Contains(t, out, "changed=1")

	// the parent is untouched by the clone
	parent := encode(t, enc, entry)
	assert.NotContains(t, parent, "document=")
}

func TestMinimalEncoderLevels(t *testing.T) {
	tests := []struct {
		level zapcore.Level
		want  string
	}{
		{zapcore.InfoLevel, ""},
		{zapcore.DebugLevel, "DEBUG"},
		{zapcore.WarnLevel, "WARN"},
		{zapcore.ErrorLevel, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(levelColorString(tt.level)))
		})
	}
}

func TestAbbreviateName(t *testing.T) {
	assert.Equal(t, "convert", abbreviateName("convert"))
	assert.Equal(t, "r.vkxml", abbreviateName("registry.vkxml"))
	assert.Equal(t, "t.rust.print", abbreviateName("typegen.rust.print"))
}

func TestSetTheme(t *testing.T) {
	defer SetTheme("everforest")

	SetTheme("gruvbox")
	assert.Equal(t, gruvbox.time, colors().time)

	SetTheme("solarized")
	assert.Equal(t, gruvbox.time, colors().time, "unknown themes are ignored")

	SetTheme("everforest")
	assert.Equal(t, everforest.time, colors().time)
}

func TestColorComponentStable(t *testing.T) {
	assert.Equal(t, colorComponent("search"), colorComponent("search"))
}
