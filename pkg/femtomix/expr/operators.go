package expr

import "fmt"

// Compare applies op to two operands. Returns an error for unknown operators.
func Compare(left, right any, op string) (bool, error) {
	switch op {
	case "==":
		return equals(left, right), nil
	case "!=":
		return !equals(left, right), nil
	case "<":
		return toFloat64(left) < toFloat64(right), nil
	case ">":
		return toFloat64(left) > toFloat64(right), nil
	case "<=":
		return toFloat64(left) <= toFloat64(right), nil
	case ">=":
		return toFloat64(left) >= toFloat64(right), nil
	default:
		return false, fmt.Errorf("unknown operator: %s", op)
	}
}

// equals compares numerically, so 5 == 5.0 and true == 1. null equals only
// null.
func equals(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	return toFloat64(left) == toFloat64(right)
}
