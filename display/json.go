package display

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON renders v as indented JSON. HTML escaping is off so C
// declarations like "const char*" and "<" in comments survive unchanged.
func MarshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
