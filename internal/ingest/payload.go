package ingest

import (
	"strconv"
	"strings"
)

// Payload is the loosely typed JSON body a channel provider delivers. Field
// extraction walks an ordered list of candidate paths and takes the first
// non-empty value, tolerating provider shape variance without a schema.
type Payload map[string]any

// String resolves a dotted path to a string. Numeric values are stringified
// so identifiers like Telegram chat IDs and numeric tenant IDs survive JSON
// decoding into float64.
func (p Payload) String(path string) string {
	val := p.value(path)
	switch v := val.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// First returns the first non-empty string among the candidate paths.
func (p Payload) First(paths ...string) string {
	for _, path := range paths {
		if val := p.String(path); val != "" {
			return val
		}
	}
	return ""
}

// Child resolves a dotted path to a nested object, or nil.
func (p Payload) Child(path string) Payload {
	if child, ok := p.value(path).(map[string]any); ok {
		return Payload(child)
	}
	return nil
}

// Has reports whether the path resolves to any value.
func (p Payload) Has(path string) bool {
	return p.value(path) != nil
}

func (p Payload) value(path string) any {
	if p == nil {
		return nil
	}
	current := map[string]any(p)
	parts := strings.Split(path, ".")
	for i, part := range parts {
		val, ok := current[part]
		if !ok {
			return nil
		}
		if i == len(parts)-1 {
			return val
		}
		next, ok := val.(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return nil
}
