package driver

import (
	"fmt"
	"math"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

// TypeConversionError represents an error during type conversion from database types.
type TypeConversionError struct {
	Expected string
	Actual   string
	Field    string
}

func (e *TypeConversionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("type conversion error for field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
	}
	return fmt.Sprintf("type conversion error: expected %s, got %s", e.Expected, e.Actual)
}

// NewTypeConversionError creates a new TypeConversionError.
func NewTypeConversionError(expected, actual, field string) *TypeConversionError {
	return &TypeConversionError{
		Expected: expected,
		Actual:   actual,
		Field:    field,
	}
}

// AsRecord safely converts an interface{} to *db.Record.
func AsRecord(v any) (*db.Record, bool) {
	if v == nil {
		return nil, false
	}
	record, ok := v.(*db.Record)
	return record, ok
}

// AsRecordSlice safely converts an interface{} to []*db.Record.
func AsRecordSlice(v any) ([]*db.Record, bool) {
	if v == nil {
		return nil, false
	}
	records, ok := v.([]*db.Record)
	return records, ok
}

// AsString safely converts an interface{} to string.
func AsString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// AsInt64 converts a Bolt integer (int64) or a Go integer to int64.
// Floats with no fractional part are accepted as well, since JSON-decoded
// rows carry numbers as float64.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

// AsFloat64 converts a Bolt float or any integer value to float64.
func AsFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// AsMap safely converts an interface{} to map[string]any.
func AsMap(v any) (map[string]any, bool) {
	if v == nil {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// MustRecord converts an interface{} to *db.Record or returns an error.
func MustRecord(v any, field string) (*db.Record, error) {
	record, ok := AsRecord(v)
	if !ok {
		return nil, NewTypeConversionError("*db.Record", fmt.Sprintf("%T", v), field)
	}
	return record, nil
}

// MustRecordSlice converts an interface{} to []*db.Record or returns an error.
func MustRecordSlice(v any, field string) ([]*db.Record, error) {
	records, ok := AsRecordSlice(v)
	if !ok {
		return nil, NewTypeConversionError("[]*db.Record", fmt.Sprintf("%T", v), field)
	}
	return records, nil
}

// MustString converts an interface{} to string or returns an error.
func MustString(v any, field string) (string, error) {
	s, ok := AsString(v)
	if !ok {
		return "", NewTypeConversionError("string", fmt.Sprintf("%T", v), field)
	}
	return s, nil
}

// MustInt64 converts an interface{} to int64 or returns an error.
func MustInt64(v any, field string) (int64, error) {
	i, ok := AsInt64(v)
	if !ok {
		return 0, NewTypeConversionError("int64", fmt.Sprintf("%T", v), field)
	}
	return i, nil
}
