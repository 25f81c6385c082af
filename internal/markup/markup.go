// Package markup implements HTML-safe strings.
//
// [Markup] marks text as already safe for HTML. [Escape] turns any other value
// into Markup by replacing &, <, >, " and ' with entities, and passes Markup
// through unchanged, so escaping is idempotent.
package markup

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// HTMLer is implemented by values that render themselves as safe HTML.
type HTMLer interface {
	HTML() string
}

// Markup is a string that is safe to embed in HTML without escaping.
type Markup string

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&#34;",
	"'", "&#39;",
)

// EscapeString escapes s.
func EscapeString(s string) Markup {
	return Markup(escaper.Replace(s))
}

// Escape converts v to Markup. A nil value is reported with ok set to false
// rather than being turned into text.
func Escape(v any) (m Markup, ok bool) {
	if v == nil {
		return "", false
	}
	return escapeValue(v), true
}

// EscapeSilent is like Escape but renders nil as the empty string.
func EscapeSilent(v any) Markup {
	if v == nil {
		return ""
	}
	return escapeValue(v)
}

// SoftStr stringifies v without escaping it. nil becomes the empty string.
func SoftStr(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case Markup:
		return string(x)
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func escapeValue(v any) Markup {
	switch x := v.(type) {
	case HTMLer:
		return Markup(x.HTML())
	case string:
		return EscapeString(x)
	case fmt.Stringer:
		return EscapeString(x.String())
	}
	return EscapeString(fmt.Sprint(v))
}

func (m Markup) HTML() string   { return string(m) }
func (m Markup) String() string { return string(m) }

// GoString renders m as Markup("...").
func (m Markup) GoString() string {
	return "Markup(" + strconv.Quote(string(m)) + ")"
}

// Concat appends v, escaping it unless it is already Markup.
func (m Markup) Concat(v any) Markup {
	return m + EscapeSilent(v)
}

// Join concatenates the escaped items with m as the separator.
func (m Markup) Join(items []any) Markup {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = string(EscapeSilent(it))
	}
	return Markup(strings.Join(parts, string(m)))
}

// Format uses m as a fmt format string. String-like arguments are escaped;
// numbers and other values are formatted as usual.
func (m Markup) Format(args ...any) Markup {
	safe := make([]any, len(args))
	for i, a := range args {
		switch a.(type) {
		case HTMLer, string, fmt.Stringer:
			safe[i] = string(escapeValue(a))
		default:
			safe[i] = a
		}
	}
	return Markup(fmt.Sprintf(string(m), safe...))
}

func (m Markup) Repeat(n int) Markup {
	if n <= 0 {
		return ""
	}
	return Markup(strings.Repeat(string(m), n))
}

// Split splits around sep, or around whitespace runs when sep is empty.
// n < 0 returns all parts.
func (m Markup) Split(sep string, n int) []Markup {
	var parts []string
	if sep == "" {
		parts = strings.Fields(string(m))
	} else {
		parts = strings.SplitN(string(m), sep, n)
	}
	out := make([]Markup, len(parts))
	for i, p := range parts {
		out[i] = Markup(p)
	}
	return out
}

// Strip removes leading and trailing characters in cutset, or whitespace
// when cutset is empty.
func (m Markup) Strip(cutset string) Markup {
	if cutset == "" {
		return Markup(strings.TrimSpace(string(m)))
	}
	return Markup(strings.Trim(string(m), cutset))
}

func (m Markup) LStrip(cutset string) Markup {
	if cutset == "" {
		return Markup(strings.TrimLeftFunc(string(m), unicode.IsSpace))
	}
	return Markup(strings.TrimLeft(string(m), cutset))
}

func (m Markup) RStrip(cutset string) Markup {
	if cutset == "" {
		return Markup(strings.TrimRightFunc(string(m), unicode.IsSpace))
	}
	return Markup(strings.TrimRight(string(m), cutset))
}

func (m Markup) Lower() Markup { return Markup(strings.ToLower(string(m))) }
func (m Markup) Upper() Markup { return Markup(strings.ToUpper(string(m))) }

// Replace substitutes up to n occurrences (all when n < 0). Both arguments
// are escaped first so they match and produce escaped text.
func (m Markup) Replace(old, repl any, n int) Markup {
	o := string(EscapeSilent(old))
	r := string(EscapeSilent(repl))
	return Markup(strings.Replace(string(m), o, r, n))
}

func (m Markup) HasPrefix(prefix string) bool { return strings.HasPrefix(string(m), prefix) }
func (m Markup) HasSuffix(suffix string) bool { return strings.HasSuffix(string(m), suffix) }

// Unescape converts entities back into characters.
func (m Markup) Unescape() string {
	return html.UnescapeString(string(m))
}

var (
	commentRe = regexp.MustCompile(`(?s)<!--.*?-->`)
	tagRe     = regexp.MustCompile(`(?s)<[^>]*>`)
)

// StripTags removes comments and tags, collapses whitespace and unescapes
// the result.
func (m Markup) StripTags() string {
	s := commentRe.ReplaceAllString(string(m), "")
	s = tagRe.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	return Markup(s).Unescape()
}

func (m Markup) all(pred func(rune) bool) bool {
	if m == "" {
		return false
	}
	for _, r := range string(m) {
		if !pred(r) {
			return false
		}
	}
	return true
}

func (m Markup) IsAlpha() bool { return m.all(unicode.IsLetter) }
func (m Markup) IsDigit() bool { return m.all(unicode.IsDigit) }
func (m Markup) IsSpace() bool { return m.all(unicode.IsSpace) }

func (m Markup) IsAlnum() bool {
	return m.all(func(r rune) bool { return unicode.IsLetter(r) || unicode.IsNumber(r) })
}

// IsLower reports whether m has at least one cased letter and all of them
// are lower case.
func (m Markup) IsLower() bool { return m.cased(unicode.IsLower, unicode.IsUpper) }

// IsUpper reports whether m has at least one cased letter and all of them
// are upper case.
func (m Markup) IsUpper() bool { return m.cased(unicode.IsUpper, unicode.IsLower) }

func (m Markup) cased(want, reject func(rune) bool) bool {
	found := false
	for _, r := range string(m) {
		if reject(r) || unicode.IsTitle(r) {
			return false
		}
		if want(r) {
			found = true
		}
	}
	return found
}
