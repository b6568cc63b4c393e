package schema

import (
	"fmt"
	"testing"
)

func TestStringType(t *testing.T) {
	typ := String()

	if typ.Name() != "string" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "string")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{"hello", false},
		{"", false},
		{42, true},
		{3.14, true},
		{true, true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestIntType(t *testing.T) {
	typ := Int()

	if typ.Name() != "int" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "int")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{42, false},
		{int8(42), false},
		{int16(42), false},
		{int32(42), false},
		{int64(42), false},
		{float64(42), false},  // whole number
		{float64(42.5), true}, // not whole
		{"42", true},
		{true, true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestNumberType(t *testing.T) {
	typ := Number()

	if typ.Name() != "number" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "number")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{3.14, false},
		{float32(3.14), false},
		{42, false},
		{int64(42), false},
		{"3.14", true},
		{true, true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestBoolType(t *testing.T) {
	typ := Bool()

	if typ.Name() != "boolean" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "boolean")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{true, false},
		{false, false},
		{1, true},
		{"true", true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestJSONType(t *testing.T) {
	typ := JSON()

	if typ.Name() != "json" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "json")
	}

	for _, value := range []any{nil, "s", 42, true, map[string]any{"k": "v"}, []any{1, 2}} {
		if err := typ.Validate(value); err != nil {
			t.Errorf("Validate(%v) error = %v, want nil", value, err)
		}
	}
}

func TestSliceType(t *testing.T) {
	stringSlice := Slice(String())
	intSlice := Slice(Int())
	stringStringSlice := Slice(Slice(String()))

	tests := []struct {
		typ     Type
		value   any
		wantErr bool
		desc    string
	}{
		// String slices
		{stringSlice, []string{"a", "b"}, false, "string slice"},
		{stringSlice, []string{}, false, "empty string slice"},
		{stringSlice, []interface{}{"a", "b"}, false, "any slice with strings"},
		{stringSlice, []int{1, 2}, true, "slice of ints when expecting strings"},
		{stringSlice, "not a slice", true, "string instead of slice"},
		// Int slices
		{intSlice, []int{1, 2, 3}, false, "int slice"},
		{intSlice, []interface{}{1, 2, 3}, false, "any slice with ints"},
		{intSlice, []interface{}{1, "2", 3}, true, "mixed slice"},
		// Nested slices
		{stringStringSlice, [][]string{{"a"}, {"b"}}, false, "nested string slice"},
		{stringStringSlice, [][]string{{"a"}, {"b", "c"}}, false, "nested string slice different lengths"},
	}

	for _, tt := range tests {
		err := tt.typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate(%v) error = %v, wantErr %v", tt.desc, tt.value, err, tt.wantErr)
		}
	}
}

func TestCustomType(t *testing.T) {
	evenNumber := Custom("even", func(v any) error {
		i, ok := v.(int)
		if !ok {
			return fmt.Errorf("not an int")
		}
		if i%2 != 0 {
			return fmt.Errorf("not even")
		}
		return nil
	})

	if evenNumber.Name() != "even" {
		t.Errorf("Name() = %q, want %q", evenNumber.Name(), "even")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{2, false},
		{4, false},
		{1, true},
		{3, true},
		{"2", true},
	}

	for _, tt := range tests {
		err := evenNumber.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input    string
		wantErr  bool
		wantName string
	}{
		{"string", false, "string"},
		{"int", false, "int"},
		{"float", false, "number"},
		{"number", false, "number"},
		{"bool", false, "boolean"},
		{"boolean", false, "boolean"},
		{"json", false, "json"},
		{"hidden", false, "hidden"},
		{"options", false, "options"},
		{"[string]", false, "[string]"},
		{"[number]", false, "[number]"},
		{"[[string]]", false, "[[string]]"},
		{"invalid", true, ""},
		{"[invalid]", true, ""},
	}

	for _, tt := range tests {
		typ, err := ParseType(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && typ.Name() != tt.wantName {
			t.Errorf("ParseType(%q) Name() = %q, want %q", tt.input, typ.Name(), tt.wantName)
		}
	}
}

func TestParseTypeMap(t *testing.T) {
	typeMap := map[string]string{
		"api_key": "string",
		"retries": "int",
		"scopes":  "[string]",
	}

	s, err := ParseTypeMap(typeMap)
	if err != nil {
		t.Fatalf("ParseTypeMap() error = %v", err)
	}

	if len(s) != 3 {
		t.Errorf("len(schema) = %d, want 3", len(s))
	}
	if s["api_key"].Name() != "string" {
		t.Errorf("api_key type = %q, want string", s["api_key"].Name())
	}
	if s["scopes"].Name() != "[string]" {
		t.Errorf("scopes type = %q, want [string]", s["scopes"].Name())
	}

	if _, err := ParseTypeMap(map[string]string{"bad": "mystery"}); err == nil {
		t.Error("ParseTypeMap() should fail for unsupported types")
	}
}

func TestHiddenAcceptsAnything(t *testing.T) {
	typ, err := ParseType("hidden")
	if err != nil {
		t.Fatalf("ParseType(hidden) error = %v", err)
	}

	for _, value := range []any{nil, map[string]any{"accessToken": "x"}, 12, "opaque"} {
		if err := typ.Validate(value); err != nil {
			t.Errorf("Validate(%v) error = %v, want nil", value, err)
		}
	}
}
