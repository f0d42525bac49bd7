package parser

import (
	"bytes"
	"encoding/json"
)

// renderValue converts a JSON property value to its cell text.
// Strings are unquoted, numbers and booleans keep their literal text, null
// becomes empty and arrays or objects are compacted.
func renderValue(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	switch kind(trimmed) {
	case 0:
		return ""
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
		return string(trimmed)
	case 'n':
		return ""
	case '[', '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err == nil {
			return buf.String()
		}
		return string(trimmed)
	default:
		return string(trimmed)
	}
}
