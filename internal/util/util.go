package util

import "strings"

// FirstNonEmpty returns the first value that is not blank, trimmed.
func FirstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// CloneAnyMap returns a shallow copy of supported raw map types.
// Unsupported inputs yield an empty map.
func CloneAnyMap(raw any) map[string]any {
	result := make(map[string]any)
	switch values := raw.(type) {
	case map[string]any:
		for k, v := range values {
			result[k] = v
		}
	case map[string]string:
		for k, v := range values {
			result[k] = v
		}
	}
	return result
}
