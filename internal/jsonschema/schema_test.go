package jsonschema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func mustSchema(t *testing.T, src string) *Schema {
	t.Helper()
	s, err := CompileBytes([]byte(src))
	if err != nil {
		t.Fatalf("compile %s: %v", src, err)
	}
	return s
}

func mustJSON(t *testing.T, src string) any {
	t.Helper()
	v, err := decodeJSON([]byte(src))
	if err != nil {
		t.Fatalf("decode %s: %v", src, err)
	}
	return v
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		name     string
		schema   string
		instance string
		valid    bool
	}{
		{"empty schema", `{}`, `{"anything": [1, 2]}`, true},
		{"true schema", `true`, `42`, true},
		{"false schema", `false`, `42`, false},

		{"type string", `{"type": "string"}`, `"hi"`, true},
		{"type mismatch", `{"type": "string"}`, `1`, false},
		{"type list", `{"type": ["string", "null"]}`, `null`, true},
		{"integer whole float", `{"type": "integer"}`, `1.0`, true},
		{"integer fraction", `{"type": "integer"}`, `1.5`, false},
		{"boolean not integer", `{"type": "integer"}`, `true`, false},

		{"enum hit", `{"enum": ["a", 1, null]}`, `1`, true},
		{"enum miss", `{"enum": ["a", 1, null]}`, `"b"`, false},
		{"const", `{"const": {"a": [1]}}`, `{"a": [1.0]}`, true},

		{"minLength", `{"minLength": 3}`, `"ab"`, false},
		{"maxLength runes", `{"maxLength": 2}`, `"日本"`, true},
		{"pattern", `{"pattern": "^[a-z]+$"}`, `"abc"`, true},
		{"pattern unanchored", `{"pattern": "b"}`, `"abc"`, true},
		{"pattern miss", `{"pattern": "^[a-z]+$"}`, `"ABC"`, false},
		{"format email", `{"format": "email"}`, `"user@example.com"`, true},
		{"format email bad", `{"format": "email"}`, `"not-an-email"`, false},
		{"format date-time", `{"format": "date-time"}`, `"2023-01-15T10:30:00Z"`, true},
		{"format date-time lowercase", `{"format": "date-time"}`, `"2023-01-15t10:30:00z"`, true},
		{"format uuid", `{"format": "uuid"}`, `"123e4567-e89b-12d3-a456-426614174000"`, true},
		{"format uuid bad", `{"format": "uuid"}`, `"123e4567-e89b-12d3-a456"`, false},
		{"format unknown", `{"format": "whatever"}`, `"x"`, true},
		{"number beyond float64", `{"type": "number"}`, `1e400`, true},
		{"huge maxLength", `{"maxLength": 1e20}`, `"abc"`, true},

		{"minimum", `{"minimum": 0}`, `-1`, false},
		{"maximum", `{"maximum": 10}`, `10`, true},
		{"exclusiveMaximum", `{"exclusiveMaximum": 10}`, `10`, false},
		{"draft4 exclusive", `{"minimum": 5, "exclusiveMinimum": true}`, `5`, false},
		{"multipleOf", `{"multipleOf": 0.1}`, `0.3`, true},
		{"multipleOf miss", `{"multipleOf": 3}`, `7`, false},

		{"required", `{"required": ["name"]}`, `{"age": 1}`, false},
		{"required ignores non-object", `{"required": ["name"]}`, `"str"`, true},
		{"properties", `{"properties": {"age": {"type": "integer"}}}`, `{"age": "x"}`, false},
		{"additional false", `{"properties": {"a": {}}, "additionalProperties": false}`, `{"a": 1, "b": 2}`, false},
		{"additional schema", `{"additionalProperties": {"type": "number"}}`, `{"a": 1, "b": 2}`, true},
		{"patternProperties", `{"patternProperties": {"^x-": {"type": "string"}}, "additionalProperties": false}`, `{"x-a": "ok"}`, true},
		{"propertyNames", `{"propertyNames": {"maxLength": 3}}`, `{"long": 1}`, false},
		{"minProperties", `{"minProperties": 2}`, `{"a": 1}`, false},
		{"dependentRequired", `{"dependentRequired": {"card": ["billing"]}}`, `{"card": 1}`, false},
		{"dependencies schema", `{"dependencies": {"a": {"required": ["b"]}}}`, `{"a": 1, "b": 2}`, true},

		{"items schema", `{"items": {"type": "integer"}}`, `[1, 2, "3"]`, false},
		{"items tuple", `{"items": [{"type": "string"}, {"type": "integer"}], "additionalItems": false}`, `["a", 1]`, true},
		{"items tuple extra", `{"items": [{"type": "string"}], "additionalItems": false}`, `["a", 1]`, false},
		{"prefixItems", `{"prefixItems": [{"type": "string"}], "items": {"type": "integer"}}`, `["a", 1, 2]`, true},
		{"minItems", `{"minItems": 1}`, `[]`, false},
		{"maxItems", `{"maxItems": 1}`, `[1, 2]`, false},
		{"uniqueItems", `{"uniqueItems": true}`, `[1, 2, 1.0]`, false},
		{"contains", `{"contains": {"const": 3}}`, `[1, 2, 3]`, true},
		{"contains miss", `{"contains": {"const": 3}}`, `[1, 2]`, false},

		{"allOf", `{"allOf": [{"type": "number"}, {"minimum": 2}]}`, `1`, false},
		{"anyOf", `{"anyOf": [{"type": "string"}, {"type": "null"}]}`, `null`, true},
		{"oneOf both", `{"oneOf": [{"type": "number"}, {"minimum": 0}]}`, `5`, false},
		{"oneOf single", `{"oneOf": [{"type": "number"}, {"type": "string"}]}`, `5`, true},
		{"not", `{"not": {"type": "string"}}`, `"s"`, false},
		{"if then", `{"if": {"properties": {"kind": {"const": "a"}}}, "then": {"required": ["x"]}, "else": {"required": ["y"]}}`, `{"kind": "a", "x": 1}`, true},
		{"if else", `{"if": {"properties": {"kind": {"const": "a"}}}, "then": {"required": ["x"]}, "else": {"required": ["y"]}}`, `{"kind": "b", "x": 1}`, false},

		{"ref defs", `{"$defs": {"pos": {"minimum": 0}}, "properties": {"n": {"$ref": "#/$defs/pos"}}}`, `{"n": -1}`, false},
		{"ref recursive", `{"type": "object", "properties": {"child": {"$ref": "#"}}}`, `{"child": {"child": {}}}`, true},
		{"ref recursive bad", `{"type": "object", "properties": {"child": {"$ref": "#"}}}`, `{"child": {"child": 1}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustSchema(t, tt.schema)
			err := s.Validate(mustJSON(t, tt.instance))
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string", "minLength": 1},
			"age":  map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []any{"name", "age"},
	}

	err := Validate(map[string]any{"age": -1}, schema)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Causes) != 2 {
		t.Fatalf("expected 2 causes, got %v", verr.Causes)
	}
	want := `validation error: "name" is a required property, -1 is less than the minimum of 0`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
	if verr.Causes[1].Path != "/age" || verr.Causes[1].Keyword != "minimum" {
		t.Errorf("unexpected cause %+v", verr.Causes[1])
	}
}

func TestGoValues(t *testing.T) {
	type person struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	schema := map[string]any{
		"type":     "object",
		"required": []string{"name"},
		"properties": map[string]any{
			"age": map[string]any{"type": "integer", "maximum": 150},
		},
	}
	if !IsValid(person{Name: "Ada", Age: 36}, schema) {
		t.Error("struct instance should validate")
	}
	if IsValid(person{Name: "Old", Age: 200}, schema) {
		t.Error("age above maximum should fail")
	}
	if !IsValid([]int{1, 2, 3}, map[string]any{"items": map[string]any{"type": "integer"}}) {
		t.Error("typed slice should validate")
	}
}

func TestCompileErrors(t *testing.T) {
	bad := []string{
		`{"type": "strin"}`,
		`{"minLength": -1}`,
		`{"required": "name"}`,
		`{"pattern": "(?=lookahead)"}`,
		`{"$ref": "#/definitions/missing"}`,
		`{"properties": {"a": 5}}`,
		`{"anyOf": []}`,
		`{"multipleOf": 0}`,
		`"not a schema"`,
	}
	for _, src := range bad {
		_, err := CompileBytes([]byte(src))
		if !errors.Is(err, ErrCompile) {
			t.Errorf("%s: expected ErrCompile, got %v", src, err)
		}
	}
}

func TestIsValidWithBadSchema(t *testing.T) {
	if IsValid(1, map[string]any{"type": 5}) {
		t.Error("uncompilable schema should report false")
	}
}

func TestValidateJSON(t *testing.T) {
	s := MustCompile(map[string]any{"type": "array", "items": map[string]any{"type": "number"}})
	if err := s.ValidateJSON([]byte(`[1, 2.5, 1e3]`)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := s.ValidateJSON([]byte(`[1, "x"]`)); err == nil {
		t.Error("expected error")
	}
	if err := s.ValidateJSON([]byte(`[1,`)); err == nil || !strings.Contains(err.Error(), "decode") {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestJSONNumberInstances(t *testing.T) {
	s := MustCompile(map[string]any{"type": "integer", "maximum": 10})
	if !s.IsValid(json.Number("7")) {
		t.Error("json.Number should validate as integer")
	}
	if s.IsValid(json.Number("11")) {
		t.Error("json.Number above maximum should fail")
	}
}

func BenchmarkValidate(b *testing.B) {
	s := MustCompile(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string", "minLength": 1},
			"email": map[string]any{"type": "string", "format": "email"},
			"tags":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []any{"name", "email"},
	})
	inst := map[string]any{"name": "Ada", "email": "ada@example.com", "tags": []any{"a", "b"}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.Validate(inst); err != nil {
			b.Fatal(err)
		}
	}
}
