package treestore

// Decoded subtrees are untyped JSON (map[string]any, []any, float64,
// string, bool). These helpers are the Go rendition of the snapshot casts
// the callers do everywhere: coerce-or-empty, never panic.

// Records coerces a subtree into the array-of-dictionaries shape almost
// every list in the tree uses. Non-dictionary elements are skipped.
func Records(v any) ([]map[string]any, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]map[string]any, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, true
}

// Dict coerces a subtree into a dictionary.
func Dict(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// Str reads a string field; empty string when absent or mistyped.
func Str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// Int reads a numeric field. JSON numbers decode as float64.
func Int(m map[string]any, key string) int {
	switch n := m[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}

// Float reads a numeric field; zero when absent or mistyped.
func Float(m map[string]any, key string) float64 {
	f, _ := m[key].(float64)
	return f
}

// Bool reads a boolean field; false when absent or mistyped.
func Bool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}
