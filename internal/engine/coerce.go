package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// asMap unwraps any map-shaped value to map[string]any
func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// toFloat coerces numbers, numeric strings, and dates (epoch milliseconds).
// Booleans and everything else fail the coercion.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case time.Time:
		return float64(n.UnixMilli()), true
	default:
		return 0, false
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// toTime parses dates from time.Time, common string layouts, or epoch millis
func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC(), true
			}
		}
		return time.Time{}, false
	case float64:
		return time.UnixMilli(int64(t)).UTC(), true
	case int64:
		return time.UnixMilli(t).UTC(), true
	case int:
		return time.UnixMilli(int64(t)).UTC(), true
	default:
		return time.Time{}, false
	}
}

// toBool accepts native booleans and their string forms
func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// normString is the normalized scalar form used for string comparison
func normString(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(time.RFC3339)
	}
	return strings.ToLower(strings.TrimSpace(fmt.Sprint(v)))
}

// stringify renders a resolved value as a bucket key / axis label
func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case time.Time:
		return s.UTC().Format(time.RFC3339)
	case []string:
		return strings.Join(s, ", ")
	case []any:
		parts := make([]string, 0, len(s))
		for _, el := range s {
			parts = append(parts, stringify(el))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}

// flatten expands arrays one level; scalars become single-element slices and
// nil vanishes entirely
func flatten(v any) []any {
	switch arr := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, 0, len(arr))
		for _, el := range arr {
			if el != nil {
				out = append(out, el)
			}
		}
		return out
	case []string:
		out := make([]any, 0, len(arr))
		for _, el := range arr {
			out = append(out, el)
		}
		return out
	default:
		return []any{v}
	}
}

// scalarEquals compares with numeric coercion first, then falls back to
// case-insensitive trimmed string comparison
func scalarEquals(a, b any) bool {
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	if okA && okB {
		return fa == fb
	}
	return normString(a) == normString(b)
}

// isEmptyValue is the null-class emptiness check: nil, blank string, or an
// empty array, independent of scalar/array shape
func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
