package tomlparse

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadsEmpty(t *testing.T) {
	doc, err := Loads("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc) != 0 {
		t.Errorf("expected empty map, got %v", doc)
	}
}

func TestLoadsScalars(t *testing.T) {
	doc, err := Loads(`
title = "TOML Example"
count = 42
neg = -17
big = 1_000_000
hex = 0xDEAD_BEEF
oct = 0o755
bin = 0b1101
pi = 3.14159
exp = 5e+22
under = 224_617.445_991
yes = true
no = false
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{
		"title": "TOML Example",
		"count": int64(42),
		"neg":   int64(-17),
		"big":   int64(1000000),
		"hex":   int64(0xDEADBEEF),
		"oct":   int64(0o755),
		"bin":   int64(13),
		"pi":    3.14159,
		"exp":   5e22,
		"under": 224617.445991,
		"yes":   true,
		"no":    false,
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadsSpecialFloats(t *testing.T) {
	doc, err := Loads("a = inf\nb = -inf\nc = nan\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsInf(doc["a"].(float64), 1) {
		t.Errorf("expected +inf, got %v", doc["a"])
	}
	if !math.IsInf(doc["b"].(float64), -1) {
		t.Errorf("expected -inf, got %v", doc["b"])
	}
	if !math.IsNaN(doc["c"].(float64)) {
		t.Errorf("expected nan, got %v", doc["c"])
	}
}

func TestLoadsTables(t *testing.T) {
	doc, err := Loads(`
[owner]
name = "Tom"

[database.connection]
server = "192.168.1.1"
ports = [ 8000, 8001, 8002 ]

[empty]
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{
		"owner": map[string]any{"name": "Tom"},
		"database": map[string]any{
			"connection": map[string]any{
				"server": "192.168.1.1",
				"ports":  []any{int64(8000), int64(8001), int64(8002)},
			},
		},
		"empty": map[string]any{},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadsArrayOfTables(t *testing.T) {
	doc, err := Loads(`
[[products]]
name = "Hammer"
sku = 738594937

[[products]]

[[products]]
name = "Nail"
color = "gray"

[[products.parts]]
id = 1
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{
		"products": []any{
			map[string]any{"name": "Hammer", "sku": int64(738594937)},
			map[string]any{},
			map[string]any{
				"name":  "Nail",
				"color": "gray",
				"parts": []any{map[string]any{"id": int64(1)}},
			},
		},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadsDottedAndInline(t *testing.T) {
	doc, err := Loads(`
fruit.apple.color = "red"
"quoted key" = 1
'literal.key' = 2
point = { x = 1, y = 2, meta.tag = "p" }
nested = [ { a = 1 }, [ "x", 'y' ], ]
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{
		"fruit":       map[string]any{"apple": map[string]any{"color": "red"}},
		"quoted key":  int64(1),
		"literal.key": int64(2),
		"point": map[string]any{
			"x":    int64(1),
			"y":    int64(2),
			"meta": map[string]any{"tag": "p"},
		},
		"nested": []any{
			map[string]any{"a": int64(1)},
			[]any{"x", "y"},
		},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	doc, err = Loads("[a.b.c]\n[a]\nb.d = 1\n")
	if err != nil {
		t.Fatalf("dotted key into implicit table: %v", err)
	}
	want = map[string]any{
		"a": map[string]any{"b": map[string]any{"c": map[string]any{}, "d": int64(1)}},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadsStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"escapes", `s = "tab\there \"quoted\" \\ \u00e9 \U0001F600"`, "tab\there \"quoted\" \\ é 😀"},
		{"literal", `s = 'C:\Users\nodejs'`, `C:\Users\nodejs`},
		{"multiline basic", "s = \"\"\"\nRoses are red\nViolets are blue\"\"\"", "Roses are red\nViolets are blue"},
		{"line ending backslash", "s = \"\"\"\nThe quick \\\n    brown fox\"\"\"", "The quick brown fox"},
		{"quotes before close", `s = """Here are two quotes: """""`, `Here are two quotes: ""`},
		{"multiline literal", "s = '''\nfirst\n  second\\n'''", "first\n  second\\n"},
		{"unicode", `s = "日本語"`, "日本語"},
		{"crlf", "s = \"\"\"a\r\nb\"\"\"", "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Loads(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if doc["s"] != tt.want {
				t.Errorf("expected %q, got %q", tt.want, doc["s"])
			}
		})
	}
}

func TestLoadsDateTimes(t *testing.T) {
	doc, err := Loads(`
odt1 = 1979-05-27T07:32:00Z
odt2 = 1979-05-27T00:32:00.999999-07:00
odt3 = 1979-05-27 07:32:00Z
ldt = 1979-05-27T07:32:00
ld = 1979-05-27
lt = 00:32:00.5
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	odt1 := doc["odt1"].(time.Time)
	if !odt1.Equal(time.Date(1979, 5, 27, 7, 32, 0, 0, time.UTC)) {
		t.Errorf("odt1: got %v", odt1)
	}
	odt2 := doc["odt2"].(time.Time)
	if !odt2.Equal(time.Date(1979, 5, 27, 7, 32, 0, 999999000, time.UTC)) {
		t.Errorf("odt2: got %v", odt2)
	}
	if !doc["odt3"].(time.Time).Equal(odt1) {
		t.Errorf("odt3: got %v", doc["odt3"])
	}

	ldt := doc["ldt"].(LocalDateTime)
	if ldt.String() != "1979-05-27T07:32:00" {
		t.Errorf("ldt: got %s", ldt)
	}
	ld := doc["ld"].(LocalDate)
	if ld != (LocalDate{Year: 1979, Month: time.May, Day: 27}) {
		t.Errorf("ld: got %v", ld)
	}
	lt := doc["lt"].(LocalTime)
	if lt.String() != "00:32:00.5" {
		t.Errorf("lt: got %s", lt)
	}
}

func TestLoadsComments(t *testing.T) {
	doc, err := Loads("# header\nkey = \"value\" # trailing\n\n[t] # table\narr = [\n  1, # one\n  2,\n]\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{
		"key": "value",
		"t":   map[string]any{"arr": []any{int64(1), int64(2)}},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadsSubTableOfDottedTable(t *testing.T) {
	doc, err := Loads("[fruit]\napple.color = \"red\"\n[fruit.apple.texture]\nsmooth = true\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	apple := doc["fruit"].(map[string]any)["apple"].(map[string]any)
	if apple["color"] != "red" {
		t.Errorf("expected color red, got %v", apple["color"])
	}
	if apple["texture"].(map[string]any)["smooth"] != true {
		t.Errorf("expected texture.smooth true, got %v", apple["texture"])
	}
}

func TestLoadsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"garbage header", "invalid toml [[["},
		{"duplicate key", "a = 1\na = 2"},
		{"duplicate table", "[a]\n[a]"},
		{"redefine dotted table", "[fruit]\napple.color = 1\n[fruit.apple]"},
		{"extend inline", "a = {b = 1}\n[a.c]"},
		{"dotted key into header table", "[a.b.c]\n[a]\nb.c.d = 1"},
		{"header after dotted implicit", "[a.b.c]\n[a]\nb.d = 1\n[a.b]"},
		{"inline trailing comma", "a = {b = 1,}"},
		{"append to static array", "a = [1]\n[[a]]"},
		{"missing value", "a = "},
		{"bad escape", `a = "\q"`},
		{"unterminated string", `a = "abc`},
		{"leading zero", "a = 012"},
		{"bad underscore", "a = 1__2"},
		{"trailing dot", "a = 1."},
		{"bad date", "a = 2023-02-30"},
		{"bad time", "a = 25:00:00"},
		{"two values one line", "a = 1 b = 2"},
		{"newline in string", "a = \"x\ny\""},
		{"unterminated array", "a = [1, 2"},
		{"integer overflow", "a = 9223372036854775808"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Loads(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			var derr *DecodeError
			if !errors.As(err, &derr) {
				t.Fatalf("expected *DecodeError, got %T", err)
			}
			if !strings.HasPrefix(err.Error(), "TOML parse error: ") {
				t.Errorf("unexpected message %q", err.Error())
			}
		})
	}
}

func TestDecodeErrorPosition(t *testing.T) {
	_, err := Loads("a = 1\nb = 2\nc = ?\n")
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
	if derr.Line != 3 || derr.Col != 5 {
		t.Errorf("expected line 3 column 5, got line %d column %d", derr.Line, derr.Col)
	}
}

func TestLoadReader(t *testing.T) {
	doc, err := Load(strings.NewReader("[server]\nport = 8080\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	port := doc["server"].(map[string]any)["port"]
	if port != int64(8080) {
		t.Errorf("expected 8080, got %v", port)
	}
}

func TestMaxDepth(t *testing.T) {
	input := "a = " + strings.Repeat("[", maxDepth+1) + strings.Repeat("]", maxDepth+1)
	if _, err := Loads(input); err == nil {
		t.Error("expected depth error")
	}
}
