package common

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ToFloat coerces the loosely-typed values that come back from model JSON
// into a float64. Strings are accepted when they parse as numbers.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// FloatOrZero is ToFloat with defensive defaulting for report math.
func FloatOrZero(v any) float64 {
	f, ok := ToFloat(v)
	if !ok {
		return 0
	}
	return f
}
