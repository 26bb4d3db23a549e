package internal

import (
	"fmt"
	"strconv"
)

// truthy: nil is false, a bool is itself, anything else is true
func truthy(value interface{}) bool {
	if value == nil {
		return false
	}
	if valueBool, isBool := value.(bool); isBool {
		return valueBool
	}
	return true
}

// equals compares two runtime values structurally. Values of different
// dynamic types are never equal.
func equals(left, right interface{}) bool {
	switch l := left.(type) {
	case nil:
		return right == nil
	case float64:
		r, ok := right.(float64)
		return ok && l == r
	case string:
		r, ok := right.(string)
		return ok && l == r
	case bool:
		r, ok := right.(bool)
		return ok && l == r
	case *function:
		r, ok := right.(*function)
		return ok && l.declaration == r.declaration
	}
	return false
}

// stringify returns the display form used by print
func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", value)
}

// repr is like stringify but quotes strings, for tree dumps
func repr(value interface{}) string {
	if str, isStr := value.(string); isStr {
		return strconv.Quote(str)
	}
	return stringify(value)
}
