package markup

import (
	"fmt"
	"html"
	"testing"
)

type stringer struct{ s string }

func (s stringer) String() string { return s.s }

type widget struct{}

func (widget) HTML() string { return "<b>widget</b>" }

func TestEscape(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Markup
	}{
		{"plain", "hello", "hello"},
		{"all specials", `<a href="x">Tom & 'Jerry'</a>`, "&lt;a href=&#34;x&#34;&gt;Tom &amp; &#39;Jerry&#39;&lt;/a&gt;"},
		{"unicode", "héllo <wörld>", "héllo &lt;wörld&gt;"},
		{"markup passthrough", Markup("<em>safe</em>"), "<em>safe</em>"},
		{"html method", widget{}, "<b>widget</b>"},
		{"stringer", stringer{"a<b"}, "a&lt;b"},
		{"int", 42, "42"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Escape(tt.input)
			if !ok {
				t.Fatal("expected ok")
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEscapeNil(t *testing.T) {
	if _, ok := Escape(nil); ok {
		t.Error("Escape(nil) should report absence")
	}
	if got := EscapeSilent(nil); got != "" {
		t.Errorf("EscapeSilent(nil) should be empty, got %q", got)
	}
	got, ok := Escape(EscapeSilent(nil))
	if !ok || got != "" {
		t.Errorf("escape of silent nil should be empty markup, got %q %v", got, ok)
	}
}

func TestEscapeIdempotent(t *testing.T) {
	once, _ := Escape("<script>alert('x')</script>")
	twice, _ := Escape(once)
	if once != twice {
		t.Errorf("escaping Markup twice changed it: %q vs %q", once, twice)
	}
}

func TestMatchesStdlib(t *testing.T) {
	for _, s := range []string{"a & b", `"quoted"`, "it's", "<tag attr='1'>", "plain"} {
		if got := string(EscapeString(s)); got != html.EscapeString(s) {
			t.Errorf("%q: expected %q, got %q", s, html.EscapeString(s), got)
		}
	}
}

func TestSoftStr(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{Markup("<b>"), "<b>"},
		{"<b>", "<b>"},
		{3, "3"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := SoftStr(tt.in); got != tt.want {
			t.Errorf("SoftStr(%#v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestMarkupOperations(t *testing.T) {
	m := Markup("<em>%s</em>")
	if got := m.Format("<x>"); got != "<em>&lt;x&gt;</em>" {
		t.Errorf("Format: got %q", got)
	}
	if got := Markup("<b>%d</b>").Format(5); got != "<b>5</b>" {
		t.Errorf("Format number: got %q", got)
	}
	if got := Markup("<p>").Concat("a&b"); got != "<p>a&amp;b" {
		t.Errorf("Concat: got %q", got)
	}
	if got := Markup("<br>").Join([]any{"a<", Markup("<i>b</i>"), 3}); got != "a&lt;<br><i>b</i><br>3" {
		t.Errorf("Join: got %q", got)
	}
	if got := Markup("ab").Repeat(3); got != "ababab" {
		t.Errorf("Repeat: got %q", got)
	}
	if got := Markup("a, b, c").Split(", ", -1); len(got) != 3 || got[2] != "c" {
		t.Errorf("Split: got %v", got)
	}
	if got := Markup("  a  b ").Split("", -1); len(got) != 2 {
		t.Errorf("Split whitespace: got %v", got)
	}
	if got := Markup("  x  ").Strip(""); got != "x" {
		t.Errorf("Strip: got %q", got)
	}
	if got := Markup("xxaxx").LStrip("x"); got != "axx" {
		t.Errorf("LStrip: got %q", got)
	}
	if got := Markup("xxaxx").RStrip("x"); got != "xxa" {
		t.Errorf("RStrip: got %q", got)
	}
	if got := Markup("AbC").Lower(); got != "abc" {
		t.Errorf("Lower: got %q", got)
	}
	if got := Markup("a &lt; b &lt; c").Replace("<", ">", 1); got != "a &gt; b &lt; c" {
		t.Errorf("Replace: got %q", got)
	}
	if !Markup("<p>x").HasPrefix("<p>") || !Markup("x</p>").HasSuffix("</p>") {
		t.Error("prefix/suffix checks failed")
	}
}

func TestUnescapeAndStripTags(t *testing.T) {
	m := Markup("&lt;a&gt; &amp; &#34;b&#34; &#39;c&#39; &#x27;d&#x27; &quot;e&quot;")
	if got := m.Unescape(); got != `<a> & "b" 'c' 'd' "e"` {
		t.Errorf("Unescape: got %q", got)
	}

	m = Markup("<p>Hello <!-- hidden --> <b>World</b>\n\n &amp; friends</p>")
	if got := m.StripTags(); got != "Hello World & friends" {
		t.Errorf("StripTags: got %q", got)
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		m    Markup
		pred func(Markup) bool
		name string
		want bool
	}{
		{"abc", Markup.IsAlpha, "alpha", true},
		{"ab1", Markup.IsAlpha, "alpha digits", false},
		{"ab1", Markup.IsAlnum, "alnum", true},
		{"123", Markup.IsDigit, "digit", true},
		{"", Markup.IsDigit, "empty digit", false},
		{" \t", Markup.IsSpace, "space", true},
		{"abc1", Markup.IsLower, "lower", true},
		{"ABC", Markup.IsUpper, "upper", true},
		{"Abc", Markup.IsLower, "mixed lower", false},
		{"123", Markup.IsLower, "no cased", false},
	}
	for _, tt := range tests {
		if got := tt.pred(tt.m); got != tt.want {
			t.Errorf("%s(%q): expected %v, got %v", tt.name, tt.m, tt.want, got)
		}
	}
}

func TestGoString(t *testing.T) {
	if got := fmt.Sprintf("%#v", Markup("a<b")); got != `Markup("a<b")` {
		t.Errorf("unexpected GoString %s", got)
	}
}

func BenchmarkEscape(b *testing.B) {
	s := `<div class="content">Tom & Jerry's "adventure"</div>`
	for i := 0; i < b.N; i++ {
		EscapeString(s)
	}
}
