package database

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Row is one result row keyed by lowercase column name.
type Row map[string]any

// String returns the text value of column. NULL and missing columns report false.
func (r Row) String(column string) (string, bool) {
	switch value := r[column].(type) {
	case string:
		return value, true
	case []byte:
		return string(value), true
	case *string:
		if value == nil {
			return "", false
		}
		return *value, true
	case nil:
		return "", false
	case fmt.Stringer:
		return value.String(), true
	default:
		return fmt.Sprint(value), true
	}
}

// Int returns the integer value of column, converting from any integer
// representation a driver may hand back.
func (r Row) Int(column string) (int, bool) {
	switch value := r[column].(type) {
	case int:
		return value, true
	case int8:
		return int(value), true
	case int16:
		return int(value), true
	case int32:
		return int(value), true
	case int64:
		return int(value), true
	case uint8:
		return int(value), true
	case uint16:
		return int(value), true
	case uint32:
		return int(value), true
	case uint64:
		if value > math.MaxInt {
			return 0, false
		}
		return int(value), true
	case float64:
		if value != math.Trunc(value) {
			return 0, false
		}
		return int(value), true
	case []byte:
		parsed, err := strconv.Atoi(strings.TrimSpace(string(value)))
		return parsed, err == nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		return parsed, err == nil
	default:
		return 0, false
	}
}

// Lower returns a copy of the row with lowercase column names.
func (r Row) Lower() Row {
	out := make(Row, len(r))
	for column, value := range r {
		out[strings.ToLower(column)] = value
	}
	return out
}
