package expr

import (
	"encoding/json"
	"strings"
)

// literal parses booleans, null and numbers.
func literal(s string) (any, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	case "null", "nil":
		return nil, true
	}

	var num json.Number
	if err := json.Unmarshal([]byte(s), &num); err == nil {
		if i, err := num.Int64(); err == nil {
			return i, true
		}
		if f, err := num.Float64(); err == nil {
			return f, true
		}
	}
	return nil, false
}

func truthy(v any) bool {
	if v == nil {
		return false
	}
	return toFloat64(v) != 0
}

// toFloat64 converts an operand for numeric comparison. Booleans map to 1
// and 0; anything else not numeric maps to 0.
func toFloat64(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case uint:
		return float64(val)
	case uint64:
		return float64(val)
	case bool:
		if val {
			return 1
		}
		return 0
	default:
		return 0
	}
}
