package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette is one color theme for console output
type palette struct {
	fg        string
	time      string
	component []string
	symbol    string
	number    string
	key       string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

// Gruvbox Dark (warm, muted)
var gruvbox = palette{
	fg:        "\x1b[38;5;223m",
	time:      "\x1b[38;5;108m",
	component: []string{"\x1b[38;5;208m", "\x1b[38;5;214m"},
	symbol:    "\x1b[38;5;109m",
	number:    "\x1b[38;5;175m",
	key:       "\x1b[38;5;245m",
	warn:      "\x1b[38;5;214m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;88m",
}

// Everforest Dark (forest greens)
var everforest = palette{
	fg:        "\x1b[38;5;223m",
	time:      "\x1b[38;5;107m",
	component: []string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
	symbol:    "\x1b[38;5;109m",
	number:    "\x1b[38;5;108m",
	key:       "\x1b[38;5;245m",
	warn:      "\x1b[38;5;179m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;52m",
}

// Current active theme (env VKDOC_LOG_THEME or config log.theme)
var currentTheme = "everforest"

// SetTheme configures the color scheme for log output. Unknown names are ignored.
func SetTheme(theme string) {
	if theme == "everforest" || theme == "gruvbox" {
		currentTheme = theme
	}
}

func colors() palette {
	if currentTheme == "gruvbox" {
		return gruvbox
	}
	return everforest
}

// colorComponent hashes the logger name so each component keeps one color
func colorComponent(name string) string {
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	p := colors()
	return p.component[hash%len(p.component)]
}

// highlighted fields get the symbol color instead of the plain key=value look
var highlighted = map[string]bool{
	FieldSymbol:   true,
	FieldDocument: true,
	FieldMarker:   true,
	FieldRunID:    true,
}

// minimalEncoder implements a calm, compact console encoder with theme support.
// Format: "13:04:35  convert  rendered marker  symbol=VkExtent2D category=structs"
type minimalEncoder struct {
	// context fields added through With()
	*zapcore.MapObjectEncoder
	order []string
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{MapObjectEncoder: zapcore.NewMapObjectEncoder()}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	clone := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return &minimalEncoder{
		MapObjectEncoder: clone,
		order:            append([]string(nil), enc.contextKeys()...),
	}
}

// contextKeys returns context field names in insertion order where known, else sorted
func (enc *minimalEncoder) contextKeys() []string {
	if len(enc.order) == len(enc.Fields) {
		return enc.order
	}
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	enc.order = keys
	return keys
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	p := colors()
	final := bufferPool.Get()

	final.AppendString(p.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only show non-info levels
	if label := levelColorString(ent.Level); label != "" {
		final.AppendString("  ")
		final.AppendString(label)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(p.fg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	var pairs []string
	for _, k := range enc.contextKeys() {
		pairs = append(pairs, formatPair(p, k, enc.Fields[k]))
	}
	if len(fields) > 0 {
		m := zapcore.NewMapObjectEncoder()
		for _, f := range fields {
			if f.Type == zapcore.SkipType {
				continue
			}
			f.AddTo(m)
			pairs = append(pairs, formatPair(p, f.Key, m.Fields[f.Key]))
		}
	}
	if len(pairs) > 0 {
		final.AppendString("  ")
		final.AppendString(strings.Join(pairs, " "))
	}

	final.AppendString("\n")
	return final, nil
}

var bufferPool = buffer.NewPool()

func formatPair(p palette, key string, value interface{}) string {
	val := fmt.Sprintf("%v", value)
	switch {
	case highlighted[key]:
		val = p.symbol + val + colorReset
	case key == FieldDurationMS:
		val = p.number + val + colorReset + "ms"
	case isNumber(value):
		val = p.number + val + colorReset
	}
	return p.key + key + "=" + colorReset + val
}

func isNumber(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// levelColorString returns bold + colored + background for non-info levels
func levelColorString(level zapcore.Level) string {
	p := colors()
	switch level {
	case zapcore.InfoLevel:
		return ""
	case zapcore.DebugLevel:
		return p.key + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + p.warnBg + p.warn + "WARN" + colorReset
	default:
		return colorBold + p.errBg + p.err + level.CapitalString() + colorReset
	}
}

// abbreviateName shortens component names: registry.vkxml -> r.vkxml
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}
