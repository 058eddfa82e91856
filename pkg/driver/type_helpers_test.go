package driver

import (
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

func TestTypeConversionError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *TypeConversionError
		expected string
	}{
		{
			name: "with field",
			err: &TypeConversionError{
				Expected: "string",
				Actual:   "int64",
				Field:    "node_type",
			},
			expected: `type conversion error for field "node_type": expected string, got int64`,
		},
		{
			name: "without field",
			err: &TypeConversionError{
				Expected: "*db.Record",
				Actual:   "nil",
			},
			expected: "type conversion error: expected *db.Record, got nil",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAsString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  any
		want   string
		wantOK bool
	}{
		{"valid string", "Blur", "Blur", true},
		{"empty string", "", "", true},
		{"nil", nil, "", false},
		{"int", 42, "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := AsString(tt.input)
			if ok != tt.wantOK {
				t.Errorf("AsString() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("AsString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAsInt64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  any
		want   int64
		wantOK bool
	}{
		{"int64", int64(180000), 180000, true},
		{"int", 42, 42, true},
		{"int32", int32(7), 7, true},
		{"whole float", float64(3), 3, true},
		{"fractional float", 3.5, 0, false},
		{"string", "42", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := AsInt64(tt.input)
			if ok != tt.wantOK {
				t.Errorf("AsInt64() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("AsInt64() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAsFloat64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  any
		want   float64
		wantOK bool
	}{
		{"float64", 0.75, 0.75, true},
		{"float32", float32(0.5), 0.5, true},
		{"int64", int64(2), 2, true},
		{"int", 3, 3, true},
		{"string", "0.5", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := AsFloat64(tt.input)
			if ok != tt.wantOK {
				t.Errorf("AsFloat64() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("AsFloat64() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAsMap(t *testing.T) {
	t.Parallel()

	m, ok := AsMap(map[string]any{"a": 1})
	if !ok || m["a"] != 1 {
		t.Errorf("AsMap() = %v, %v", m, ok)
	}
	if _, ok := AsMap(nil); ok {
		t.Error("AsMap(nil) should fail")
	}
	if _, ok := AsMap(map[string]int{"a": 1}); ok {
		t.Error("AsMap(map[string]int) should fail")
	}
}

func TestMustRecordSlice(t *testing.T) {
	t.Parallel()

	records := []*db.Record{{Keys: []string{"n"}, Values: []any{int64(1)}}}
	got, err := MustRecordSlice(records, "records")
	if err != nil {
		t.Fatalf("MustRecordSlice() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("MustRecordSlice() len = %d, want 1", len(got))
	}

	_, err = MustRecordSlice("nope", "records")
	var convErr *TypeConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected TypeConversionError, got %v", err)
	}
	if convErr.Field != "records" || convErr.Actual != "string" {
		t.Errorf("unexpected error fields: %+v", convErr)
	}
}

func TestMustRecord(t *testing.T) {
	t.Parallel()

	record := &db.Record{Keys: []string{"total_nodes"}, Values: []any{int64(5)}}
	got, err := MustRecord(record, "total_nodes")
	if err != nil {
		t.Fatalf("MustRecord() error = %v", err)
	}
	v, found := got.Get("total_nodes")
	if !found || v != int64(5) {
		t.Errorf("record value = %v, %v", v, found)
	}

	if _, err := MustRecord(nil, "total_nodes"); err == nil {
		t.Error("MustRecord(nil) should fail")
	}
}

func TestMustStringAndInt64(t *testing.T) {
	t.Parallel()

	s, err := MustString("Song", "label")
	if err != nil || s != "Song" {
		t.Errorf("MustString() = %q, %v", s, err)
	}
	if _, err := MustString(1, "label"); err == nil {
		t.Error("MustString(1) should fail")
	}

	i, err := MustInt64(int64(9), "count")
	if err != nil || i != 9 {
		t.Errorf("MustInt64() = %d, %v", i, err)
	}
	if _, err := MustInt64("9", "count"); err == nil {
		t.Error("MustInt64(\"9\") should fail")
	}
}

func TestCollectCounts(t *testing.T) {
	t.Parallel()

	records := []*db.Record{
		{Keys: []string{"node_type", "node_count"}, Values: []any{"Artist", int64(2)}},
		{Keys: []string{"node_type", "node_count"}, Values: []any{"Song", int64(3)}},
		{Keys: []string{"node_type", "node_count"}, Values: []any{nil, int64(9)}},
		{Keys: []string{"other"}, Values: []any{"x"}},
	}
	dst := map[string]int64{}
	total := collectCounts(records, "node_type", "node_count", dst)

	if total != 5 {
		t.Errorf("collectCounts() total = %d, want 5", total)
	}
	if dst["Artist"] != 2 || dst["Song"] != 3 || len(dst) != 2 {
		t.Errorf("collectCounts() dst = %v", dst)
	}
}
