// Package jsonschema validates JSON documents against JSON Schema
// (drafts 4 through 2020-12, common keyword subset).
//
// A schema is compiled once and can be applied to many instances:
//
//	sch, err := jsonschema.Compile(map[string]any{
//		"type":     "object",
//		"required": []any{"name"},
//	})
//	if err != nil { ... }
//	if err := sch.Validate(instance); err != nil {
//		var verr *jsonschema.ValidationError
//		errors.As(err, &verr)
//	}
//
// Instances are plain decoded JSON: nil, bool, float64 or json.Number,
// string, []any and map[string]any. Other Go values are converted through
// encoding/json before validation.
package jsonschema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// ErrCompile is wrapped by every schema compilation failure.
var ErrCompile = errors.New("schema compilation error")

// Cause is a single validation failure.
type Cause struct {
	// Path is a JSON pointer into the instance, "" for the root.
	Path    string
	Keyword string
	Message string
}

func (c Cause) String() string {
	if c.Path == "" {
		return c.Message
	}
	return fmt.Sprintf("%s (at %s)", c.Message, c.Path)
}

// ValidationError lists every failure found in an instance.
type ValidationError struct {
	Causes []Cause
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Causes))
	for i, c := range e.Causes {
		msgs[i] = c.Message
	}
	return "validation error: " + strings.Join(msgs, ", ")
}

// Schema is a compiled schema.
type Schema struct {
	root     any
	patterns map[string]*regexp.Regexp
}

var typeNames = map[string]bool{
	"null": true, "boolean": true, "object": true, "array": true,
	"number": true, "string": true, "integer": true,
}

// Compile checks schema and prepares it for validation.
func Compile(schema any) (*Schema, error) {
	root, err := normalize(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompile, err)
	}
	s := &Schema{root: root, patterns: make(map[string]*regexp.Regexp)}
	if err := s.check(root, "#"); err != nil {
		return nil, err
	}
	return s, nil
}

// CompileBytes decodes and compiles a JSON schema document.
func CompileBytes(data []byte) (*Schema, error) {
	v, err := decodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompile, err)
	}
	return Compile(v)
}

// MustCompile is like Compile but panics on error.
func MustCompile(schema any) *Schema {
	s, err := Compile(schema)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate returns a *ValidationError when instance does not satisfy the schema.
func (s *Schema) Validate(instance any) error {
	inst, err := normalize(instance)
	if err != nil {
		return fmt.Errorf("jsonschema: unsupported instance: %w", err)
	}
	var causes []Cause
	s.validate(inst, s.root, "", 0, &causes)
	if len(causes) == 0 {
		return nil
	}
	return &ValidationError{Causes: causes}
}

// ValidateJSON decodes data and validates it.
func (s *Schema) ValidateJSON(data []byte) error {
	v, err := decodeJSON(data)
	if err != nil {
		return fmt.Errorf("jsonschema: decode instance: %w", err)
	}
	return s.Validate(v)
}

// IsValid reports whether instance satisfies the schema.
func (s *Schema) IsValid(instance any) bool {
	return s.Validate(instance) == nil
}

// Validate compiles schema and validates instance against it.
func Validate(instance, schema any) error {
	s, err := Compile(schema)
	if err != nil {
		return err
	}
	return s.Validate(instance)
}

// IsValid compiles schema and reports whether instance satisfies it.
// A schema that fails to compile reports false.
func IsValid(instance, schema any) bool {
	return Validate(instance, schema) == nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// normalize converts arbitrary Go values into the decoded-JSON model.
func normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, float64, json.Number:
		return v, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case float32:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decodeJSON(data)
}

// check validates the structure of a (sub)schema and compiles its patterns.
func (s *Schema) check(sch any, loc string) error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s: %s", ErrCompile, loc, fmt.Sprintf(format, args...))
	}

	if _, ok := sch.(bool); ok {
		return nil
	}
	m, ok := sch.(map[string]any)
	if !ok {
		return fail("schema must be an object or boolean, got %T", sch)
	}

	if t, ok := m["type"]; ok {
		switch tv := t.(type) {
		case string:
			if !typeNames[tv] {
				return fail("unknown type %q", tv)
			}
		case []any:
			for _, e := range tv {
				name, isStr := e.(string)
				if !isStr || !typeNames[name] {
					return fail("unknown type %v", e)
				}
			}
		default:
			return fail("type must be a string or array")
		}
	}

	for _, kw := range []string{"minLength", "maxLength", "minItems", "maxItems",
		"minProperties", "maxProperties", "minContains", "maxContains"} {
		if v, ok := m[kw]; ok {
			n, isNum := toFloat(v)
			if !isNum || n < 0 || n != math.Trunc(n) {
				return fail("%s must be a non-negative integer", kw)
			}
		}
	}
	for _, kw := range []string{"minimum", "maximum"} {
		if v, ok := m[kw]; ok {
			if _, isNum := toFloat(v); !isNum {
				return fail("%s must be a number", kw)
			}
		}
	}
	for _, kw := range []string{"exclusiveMinimum", "exclusiveMaximum"} {
		if v, ok := m[kw]; ok {
			if _, isBool := v.(bool); isBool {
				continue
			}
			if _, isNum := toFloat(v); !isNum {
				return fail("%s must be a number", kw)
			}
		}
	}
	if v, ok := m["multipleOf"]; ok {
		if n, isNum := toFloat(v); !isNum || n <= 0 {
			return fail("multipleOf must be a positive number")
		}
	}
	if v, ok := m["required"]; ok {
		arr, isArr := v.([]any)
		if !isArr {
			return fail("required must be an array")
		}
		for _, e := range arr {
			if _, isStr := e.(string); !isStr {
				return fail("required entries must be strings")
			}
		}
	}
	if v, ok := m["enum"]; ok {
		if _, isArr := v.([]any); !isArr {
			return fail("enum must be an array")
		}
	}
	if v, ok := m["pattern"]; ok {
		p, isStr := v.(string)
		if !isStr {
			return fail("pattern must be a string")
		}
		if err := s.compilePattern(p); err != nil {
			return fail("invalid pattern %q: %v", p, err)
		}
	}
	if v, ok := m["$ref"]; ok {
		ref, isStr := v.(string)
		if !isStr {
			return fail("$ref must be a string")
		}
		if _, err := s.resolve(ref); err != nil {
			return fail("%v", err)
		}
	}

	for _, kw := range []string{"not", "if", "then", "else", "additionalProperties",
		"additionalItems", "contains", "propertyNames", "unevaluatedItems", "unevaluatedProperties"} {
		if v, ok := m[kw]; ok {
			if err := s.check(v, loc+"/"+kw); err != nil {
				return err
			}
		}
	}
	for _, kw := range []string{"allOf", "anyOf", "oneOf", "prefixItems"} {
		if v, ok := m[kw]; ok {
			arr, isArr := v.([]any)
			if !isArr || len(arr) == 0 {
				return fail("%s must be a non-empty array", kw)
			}
			for i, sub := range arr {
				if err := s.check(sub, fmt.Sprintf("%s/%s/%d", loc, kw, i)); err != nil {
					return err
				}
			}
		}
	}
	if v, ok := m["items"]; ok {
		if arr, isArr := v.([]any); isArr {
			for i, sub := range arr {
				if err := s.check(sub, fmt.Sprintf("%s/items/%d", loc, i)); err != nil {
					return err
				}
			}
		} else if err := s.check(v, loc+"/items"); err != nil {
			return err
		}
	}
	for _, kw := range []string{"properties", "patternProperties", "definitions", "$defs", "dependentSchemas"} {
		v, ok := m[kw]
		if !ok {
			continue
		}
		obj, isObj := v.(map[string]any)
		if !isObj {
			return fail("%s must be an object", kw)
		}
		for name, sub := range obj {
			if kw == "patternProperties" {
				if err := s.compilePattern(name); err != nil {
					return fail("invalid pattern %q: %v", name, err)
				}
			}
			if err := s.check(sub, loc+"/"+kw+"/"+name); err != nil {
				return err
			}
		}
	}
	if v, ok := m["dependencies"]; ok {
		obj, isObj := v.(map[string]any)
		if !isObj {
			return fail("dependencies must be an object")
		}
		for name, dep := range obj {
			if _, isArr := dep.([]any); isArr {
				continue
			}
			if err := s.check(dep, loc+"/dependencies/"+name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Schema) compilePattern(p string) error {
	if _, ok := s.patterns[p]; ok {
		return nil
	}
	re, err := regexp.Compile(p)
	if err != nil {
		return err
	}
	s.patterns[p] = re
	return nil
}

// resolve follows a local JSON pointer reference such as "#/$defs/item".
func (s *Schema) resolve(ref string) (any, error) {
	if ref == "#" || ref == "" {
		return s.root, nil
	}
	if !strings.HasPrefix(ref, "#/") {
		return nil, fmt.Errorf("unsupported $ref %q: only local references are resolved", ref)
	}
	cur := s.root
	for _, tok := range strings.Split(ref[2:], "/") {
		tok = strings.NewReplacer("~1", "/", "~0", "~").Replace(tok)
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[tok]
			if !ok {
				return nil, fmt.Errorf("unresolvable $ref %q", ref)
			}
			cur = next
		case []any:
			idx := -1
			fmt.Sscanf(tok, "%d", &idx)
			if idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("unresolvable $ref %q", ref)
			}
			cur = node[idx]
		default:
			return nil, fmt.Errorf("unresolvable $ref %q", ref)
		}
	}
	return cur, nil
}
