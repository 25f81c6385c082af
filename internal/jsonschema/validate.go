package jsonschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

const maxRefDepth = 256

func (s *Schema) validate(inst, sch any, path string, depth int, out *[]Cause) {
	add := func(keyword, format string, args ...any) {
		*out = append(*out, Cause{Path: path, Keyword: keyword, Message: fmt.Sprintf(format, args...)})
	}

	if b, ok := sch.(bool); ok {
		if !b {
			add("false", "False schema does not allow %s", repr(inst))
		}
		return
	}
	m, ok := sch.(map[string]any)
	if !ok {
		return
	}

	if ref, ok := m["$ref"].(string); ok {
		if depth >= maxRefDepth {
			add("$ref", "maximum reference depth exceeded at %s", ref)
			return
		}
		if target, err := s.resolve(ref); err == nil {
			s.validate(inst, target, path, depth+1, out)
		}
	}

	if t, ok := m["type"]; ok && !matchesType(inst, t) {
		add("type", "%s is not of type %s", repr(inst), typeList(t))
	}
	if enum, ok := m["enum"].([]any); ok {
		found := false
		for _, e := range enum {
			if equal(inst, e) {
				found = true
				break
			}
		}
		if !found {
			add("enum", "%s is not one of %s", repr(inst), repr(enum))
		}
	}
	if c, ok := m["const"]; ok && !equal(inst, c) {
		add("const", "%s was expected", repr(c))
	}

	switch x := inst.(type) {
	case string:
		s.validateString(x, m, add)
	case map[string]any:
		s.validateObject(x, m, path, depth, out, add)
	case []any:
		s.validateArray(x, m, path, depth, out, add)
	default:
		if n, isNum := toFloat(inst); isNum {
			validateNumber(n, inst, m, add)
		}
	}

	if all, ok := m["allOf"].([]any); ok {
		for _, sub := range all {
			s.validate(inst, sub, path, depth, out)
		}
	}
	if anyOf, ok := m["anyOf"].([]any); ok {
		matched := false
		for _, sub := range anyOf {
			if s.matches(inst, sub, path, depth) {
				matched = true
				break
			}
		}
		if !matched {
			add("anyOf", "%s is not valid under any of the given schemas", repr(inst))
		}
	}
	if oneOf, ok := m["oneOf"].([]any); ok {
		count := 0
		for _, sub := range oneOf {
			if s.matches(inst, sub, path, depth) {
				count++
			}
		}
		switch {
		case count == 0:
			add("oneOf", "%s is not valid under any of the given schemas", repr(inst))
		case count > 1:
			add("oneOf", "%s is valid under each of %d of the given schemas", repr(inst), count)
		}
	}
	if not, ok := m["not"]; ok && s.matches(inst, not, path, depth) {
		add("not", "%s should not be valid under %s", repr(inst), repr(not))
	}
	if cond, ok := m["if"]; ok {
		if s.matches(inst, cond, path, depth) {
			if then, ok := m["then"]; ok {
				s.validate(inst, then, path, depth, out)
			}
		} else if els, ok := m["else"]; ok {
			s.validate(inst, els, path, depth, out)
		}
	}
}

func (s *Schema) matches(inst, sch any, path string, depth int) bool {
	var causes []Cause
	s.validate(inst, sch, path, depth, &causes)
	return len(causes) == 0
}

func (s *Schema) validateString(str string, m map[string]any, add func(string, string, ...any)) {
	length := utf8.RuneCountInString(str)
	if n, ok := intKeyword(m, "minLength"); ok && length < n {
		add("minLength", "%s is too short", repr(str))
	}
	if n, ok := intKeyword(m, "maxLength"); ok && length > n {
		add("maxLength", "%s is too long", repr(str))
	}
	if p, ok := m["pattern"].(string); ok {
		if re := s.patterns[p]; re != nil && !re.MatchString(str) {
			add("pattern", "%s does not match %s", repr(str), repr(p))
		}
	}
	if f, ok := m["format"].(string); ok && !checkFormat(f, str) {
		add("format", "%s is not a %s", repr(str), repr(f))
	}
}

func validateNumber(n float64, inst any, m map[string]any, add func(string, string, ...any)) {
	exclMin, _ := m["exclusiveMinimum"].(bool)
	exclMax, _ := m["exclusiveMaximum"].(bool)

	if min, ok := numKeyword(m, "minimum"); ok {
		if exclMin && n <= min {
			add("minimum", "%s is less than or equal to the minimum of %s", repr(inst), fmtNum(min))
		} else if n < min {
			add("minimum", "%s is less than the minimum of %s", repr(inst), fmtNum(min))
		}
	}
	if max, ok := numKeyword(m, "maximum"); ok {
		if exclMax && n >= max {
			add("maximum", "%s is greater than or equal to the maximum of %s", repr(inst), fmtNum(max))
		} else if n > max {
			add("maximum", "%s is greater than the maximum of %s", repr(inst), fmtNum(max))
		}
	}
	if min, ok := numKeyword(m, "exclusiveMinimum"); ok && n <= min {
		add("exclusiveMinimum", "%s is less than or equal to the minimum of %s", repr(inst), fmtNum(min))
	}
	if max, ok := numKeyword(m, "exclusiveMaximum"); ok && n >= max {
		add("exclusiveMaximum", "%s is greater than or equal to the maximum of %s", repr(inst), fmtNum(max))
	}
	if d, ok := numKeyword(m, "multipleOf"); ok && d > 0 {
		q := n / d
		if math.IsInf(q, 0) || math.Abs(q-math.Round(q)) > 1e-9 {
			add("multipleOf", "%s is not a multiple of %s", repr(inst), fmtNum(d))
		}
	}
}

func (s *Schema) validateObject(obj map[string]any, m map[string]any, path string, depth int,
	out *[]Cause, add func(string, string, ...any)) {

	if req, ok := m["required"].([]any); ok {
		for _, r := range req {
			name := r.(string)
			if _, present := obj[name]; !present {
				add("required", "%s is a required property", repr(name))
			}
		}
	}
	if n, ok := intKeyword(m, "minProperties"); ok && len(obj) < n {
		add("minProperties", "%s does not have enough properties", repr(obj))
	}
	if n, ok := intKeyword(m, "maxProperties"); ok && len(obj) > n {
		add("maxProperties", "%s has too many properties", repr(obj))
	}

	props, _ := m["properties"].(map[string]any)
	patterns, _ := m["patternProperties"].(map[string]any)
	additional, hasAdditional := m["additionalProperties"]

	var extra []string
	for _, key := range sortedKeys(obj) {
		val := obj[key]
		child := path + "/" + escapePointer(key)
		covered := false
		if sub, ok := props[key]; ok {
			covered = true
			s.validate(val, sub, child, depth, out)
		}
		for p, sub := range patterns {
			if re := s.patterns[p]; re != nil && re.MatchString(key) {
				covered = true
				s.validate(val, sub, child, depth, out)
			}
		}
		if !covered && hasAdditional {
			if b, isBool := additional.(bool); isBool {
				if !b {
					extra = append(extra, key)
				}
			} else {
				s.validate(val, additional, child, depth, out)
			}
		}
		if names, ok := m["propertyNames"]; ok {
			s.validate(key, names, child, depth, out)
		}
	}
	if len(extra) > 0 {
		quoted := make([]string, len(extra))
		for i, e := range extra {
			quoted[i] = repr(e)
		}
		verb := "were"
		if len(extra) == 1 {
			verb = "was"
		}
		add("additionalProperties", "Additional properties are not allowed (%s %s unexpected)",
			strings.Join(quoted, ", "), verb)
	}

	if deps, ok := m["dependentRequired"].(map[string]any); ok {
		s.requireDependencies(obj, deps, add)
	}
	if deps, ok := m["dependencies"].(map[string]any); ok {
		for name, dep := range deps {
			if _, present := obj[name]; !present {
				continue
			}
			if _, isArr := dep.([]any); isArr {
				s.requireDependencies(obj, map[string]any{name: dep}, add)
			} else {
				s.validate(obj, dep, path, depth, out)
			}
		}
	}
	if deps, ok := m["dependentSchemas"].(map[string]any); ok {
		for name, dep := range deps {
			if _, present := obj[name]; present {
				s.validate(obj, dep, path, depth, out)
			}
		}
	}
}

func (s *Schema) requireDependencies(obj map[string]any, deps map[string]any, add func(string, string, ...any)) {
	for _, name := range sortedKeys(deps) {
		if _, present := obj[name]; !present {
			continue
		}
		list, _ := deps[name].([]any)
		for _, d := range list {
			dn, _ := d.(string)
			if _, present := obj[dn]; !present {
				add("dependentRequired", "%s is a dependency of %s", repr(dn), repr(name))
			}
		}
	}
}

func (s *Schema) validateArray(arr []any, m map[string]any, path string, depth int,
	out *[]Cause, add func(string, string, ...any)) {

	if n, ok := intKeyword(m, "minItems"); ok && len(arr) < n {
		add("minItems", "%s is too short", repr(arr))
	}
	if n, ok := intKeyword(m, "maxItems"); ok && len(arr) > n {
		add("maxItems", "%s is too long", repr(arr))
	}
	if unique, _ := m["uniqueItems"].(bool); unique {
	outer:
		for i := range arr {
			for j := i + 1; j < len(arr); j++ {
				if equal(arr[i], arr[j]) {
					add("uniqueItems", "%s has non-unique elements", repr(arr))
					break outer
				}
			}
		}
	}

	child := func(i int) string { return path + "/" + strconv.Itoa(i) }

	tuple, isTuple := m["prefixItems"].([]any)
	rest, hasRest := m["items"]
	if !isTuple {
		if arrItems, ok := rest.([]any); ok {
			tuple, isTuple = arrItems, true
			rest, hasRest = m["additionalItems"]
		}
	}
	start := 0
	if isTuple {
		for i := 0; i < len(tuple) && i < len(arr); i++ {
			s.validate(arr[i], tuple[i], child(i), depth, out)
		}
		start = len(tuple)
	}
	if hasRest {
		if b, isBool := rest.(bool); isBool && !b && len(arr) > start {
			add("items", "Expected at most %d items but found %d extra", start, len(arr)-start)
		} else if !isBool {
			for i := start; i < len(arr); i++ {
				s.validate(arr[i], rest, child(i), depth, out)
			}
		}
	}

	if contains, ok := m["contains"]; ok {
		count := 0
		for _, e := range arr {
			if s.matches(e, contains, path, depth) {
				count++
			}
		}
		min := 1
		if n, ok := intKeyword(m, "minContains"); ok {
			min = n
		}
		if count < min {
			add("contains", "%s does not contain items matching the given schema", repr(arr))
		}
		if n, ok := intKeyword(m, "maxContains"); ok && count > n {
			add("maxContains", "%s contains too many items matching the given schema", repr(arr))
		}
	}
}

func matchesType(inst, t any) bool {
	switch tv := t.(type) {
	case string:
		return isType(inst, tv)
	case []any:
		for _, e := range tv {
			if name, ok := e.(string); ok && isType(inst, name) {
				return true
			}
		}
	}
	return false
}

func isType(inst any, name string) bool {
	switch name {
	case "null":
		return inst == nil
	case "boolean":
		_, ok := inst.(bool)
		return ok
	case "string":
		_, ok := inst.(string)
		return ok
	case "object":
		_, ok := inst.(map[string]any)
		return ok
	case "array":
		_, ok := inst.([]any)
		return ok
	case "number":
		_, ok := toFloat(inst)
		return ok
	case "integer":
		n, ok := toFloat(inst)
		return ok && n == math.Trunc(n)
	}
	return false
}

func typeList(t any) string {
	if arr, ok := t.([]any); ok {
		names := make([]string, len(arr))
		for i, e := range arr {
			names[i] = repr(e)
		}
		return strings.Join(names, ", ")
	}
	return repr(t)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case json.Number:
		// Literals beyond float64 range come back as ±Inf with ErrRange and
		// are still numbers.
		f, err := x.Float64()
		return f, err == nil || errors.Is(err, strconv.ErrRange)
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

func numKeyword(m map[string]any, kw string) (float64, bool) {
	v, ok := m[kw]
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func intKeyword(m map[string]any, kw string) (int, bool) {
	f, ok := numKeyword(m, kw)
	if f >= math.MaxInt {
		return math.MaxInt, ok
	}
	return int(f), ok
}

// equal compares decoded JSON values; numbers compare by value.
func equal(a, b any) bool {
	if na, ok := toFloat(a); ok {
		nb, ok := toFloat(b)
		return ok && na == nb
	}
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, ok := y[k]
			if !ok || !equal(v, w) {
				return false
			}
		}
		return true
	}
	return false
}

func repr(v any) string {
	if n, ok := toFloat(v); ok {
		return fmtNum(n)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func fmtNum(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func escapePointer(s string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}
