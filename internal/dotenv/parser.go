package dotenv

import (
	"os"
	"regexp"
	"strings"
)

var varRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// splitLines returns logical lines: a quoted value left open on one line
// continues on the following lines until its closing quote.
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	physical := strings.Split(content, "\n")

	lines := make([]string, 0, len(physical))
	for i := 0; i < len(physical); i++ {
		line := physical[i]
		if q := openQuote(line); q != 0 {
			j := i + 1
			for j < len(physical) && !closes(physical[j], q) {
				j++
			}
			if j < len(physical) {
				line = strings.Join(physical[i:j+1], "\n")
				i = j
			}
		}
		lines = append(lines, line)
	}
	return lines
}

func openQuote(line string) byte {
	s := strings.TrimSpace(line)
	if s == "" || s[0] == '#' {
		return 0
	}
	eq := strings.IndexByte(s, '=')
	if eq < 0 {
		return 0
	}
	raw := strings.TrimSpace(s[eq+1:])
	if raw == "" || (raw[0] != '"' && raw[0] != '\'') {
		return 0
	}
	if closingIndex(raw[1:], raw[0]) >= 0 {
		return 0
	}
	return raw[0]
}

func closes(line string, q byte) bool {
	return closingIndex(line, q) >= 0
}

// closingIndex finds the first unescaped q in s. Backslash escapes only
// apply inside double quotes.
func closingIndex(s string, q byte) int {
	for i := 0; i < len(s); i++ {
		if q == '"' && s[i] == '\\' {
			i++
			continue
		}
		if s[i] == q {
			return i
		}
	}
	return -1
}

func parseLine(line string) (key, value string, quote byte, ok bool) {
	s := strings.TrimSpace(line)
	if s == "" || s[0] == '#' {
		return "", "", 0, false
	}
	if rest, found := strings.CutPrefix(s, "export "); found {
		s = strings.TrimSpace(rest)
	}
	k, raw, found := strings.Cut(s, "=")
	if !found {
		return "", "", 0, false
	}
	key = strings.TrimSpace(k)
	if key == "" {
		return "", "", 0, false
	}
	value, quote = unquote(strings.TrimSpace(raw))
	return key, value, quote, true
}

func unquote(raw string) (string, byte) {
	if len(raw) >= 2 && (raw[0] == '"' || raw[0] == '\'') {
		q := raw[0]
		if end := closingIndex(raw[1:], q); end >= 0 {
			inner := raw[1 : end+1]
			if q == '"' {
				return unescape(inner), q
			}
			return inner, q
		}
	}
	if i := inlineComment(raw); i >= 0 {
		raw = strings.TrimSpace(raw[:i])
	}
	return raw, 0
}

func inlineComment(s string) int {
	for i := 1; i < len(s); i++ {
		if s[i] == '#' && (s[i-1] == ' ' || s[i-1] == '\t') {
			return i
		}
	}
	return -1
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		default:
			sb.WriteByte('\\')
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

func expand(value string, env map[string]string) string {
	if !strings.Contains(value, "${") {
		return value
	}
	return varRe.ReplaceAllStringFunc(value, func(m string) string {
		sub := varRe.FindStringSubmatch(m)
		if v, ok := env[sub[1]]; ok {
			return v
		}
		if v, ok := os.LookupEnv(sub[1]); ok {
			return v
		}
		return sub[2]
	})
}
