package storage

import (
	"encoding/json"
	"strings"
	"unicode"
)

// maxStringLen caps individual string fields to block runaway entries.
const maxStringLen = 10000

// marshalSanitized serializes the value with every string field recursively
// cleaned: control characters stripped (newline and tab kept) and length
// capped at maxStringLen.
func marshalSanitized(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return json.MarshalIndent(sanitizeValue(doc), "", "  ")
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case string:
		return sanitizeString(val)
	case []any:
		for i := range val {
			val[i] = sanitizeValue(val[i])
		}
		return val
	case map[string]any:
		for k := range val {
			val[k] = sanitizeValue(val[k])
		}
		return val
	default:
		return v
	}
}

func sanitizeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	n := 0
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		if n >= maxStringLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}
