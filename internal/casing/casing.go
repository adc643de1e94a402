// Package casing translates between the snake_case field names used by the
// storage layer and the camelCase names used on the JSON API. The transform
// is pure and lossless for any valid key set: ToCamel and ToSnake are
// inverses of each other for keys that follow the respective convention.
package casing

import "strings"

// SnakeToCamel converts "this_case" to "thisCase".
func SnakeToCamel(s string) string {
	parts := strings.Split(s, "_")
	if len(parts) == 1 {
		return s
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// CamelToSnake converts "thisCase" to "this_case".
func CamelToSnake(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToCamel returns a copy of source with every key renamed from snake_case to
// camelCase. Nested maps and slices of maps are converted recursively; values
// are otherwise left untouched.
func ToCamel(source map[string]any) map[string]any {
	return rename(source, SnakeToCamel)
}

// ToSnake returns a copy of source with every key renamed from camelCase to
// snake_case. Nested maps and slices of maps are converted recursively.
func ToSnake(source map[string]any) map[string]any {
	return rename(source, CamelToSnake)
}

func rename(source map[string]any, key func(string) string) map[string]any {
	out := make(map[string]any, len(source))
	for k, v := range source {
		out[key(k)] = renameValue(v, key)
	}
	return out
}

func renameValue(v any, key func(string) string) any {
	switch t := v.(type) {
	case map[string]any:
		return rename(t, key)
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = renameValue(item, key)
		}
		return items
	default:
		return v
	}
}
