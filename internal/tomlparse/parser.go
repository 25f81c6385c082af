package tomlparse

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const maxDepth = 1000

type tableKind int

const (
	kindImplicit tableKind = iota
	kindHeader
	kindDotted
	kindInline
)

type table struct {
	kind tableKind
	vals map[string]any
}

type tableArray struct {
	tables []*table
}

func newTable(kind tableKind) *table {
	return &table{kind: kind, vals: make(map[string]any)}
}

func (t *table) toMap() map[string]any {
	out := make(map[string]any, len(t.vals))
	for k, v := range t.vals {
		out[k] = export(v)
	}
	return out
}

func (t *table) freeze() {
	t.kind = kindInline
	for _, v := range t.vals {
		if sub, ok := v.(*table); ok {
			sub.freeze()
		}
	}
}

func export(v any) any {
	switch x := v.(type) {
	case *table:
		return x.toMap()
	case *tableArray:
		out := make([]any, len(x.tables))
		for i, t := range x.tables {
			out[i] = t.toMap()
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = export(e)
		}
		return out
	default:
		return v
	}
}

var (
	decIntRe  = regexp.MustCompile(`^[+-]?(0|[1-9](_?[0-9])*)$`)
	hexIntRe  = regexp.MustCompile(`^0x[0-9A-Fa-f](_?[0-9A-Fa-f])*$`)
	octIntRe  = regexp.MustCompile(`^0o[0-7](_?[0-7])*$`)
	binIntRe  = regexp.MustCompile(`^0b[01](_?[01])*$`)
	floatRe   = regexp.MustCompile(`^[+-]?(0|[1-9](_?[0-9])*)(\.[0-9](_?[0-9])*)?([eE][+-]?[0-9](_?[0-9])*)?$`)
	specialRe = regexp.MustCompile(`^[+-]?(inf|nan)$`)
)

type parser struct {
	src   []byte
	pos   int
	root  *table
	cur   *table
	depth int
}

func newParser(src []byte) *parser {
	root := newTable(kindHeader)
	return &parser{src: src, root: root, cur: root}
}

func (p *parser) errorf(format string, args ...any) error {
	return p.errorAt(p.pos, format, args...)
}

func (p *parser) errorAt(pos int, format string, args ...any) error {
	if pos > len(p.src) {
		pos = len(p.src)
	}
	line := bytes.Count(p.src[:pos], []byte{'\n'}) + 1
	col := pos - bytes.LastIndexByte(p.src[:pos], '\n')
	return &DecodeError{Msg: fmt.Sprintf(format, args...), Line: line, Col: col}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) consume(c byte) bool {
	if p.peek() == c && !p.eof() {
		p.pos++
		return true
	}
	return false
}

func (p *parser) hasPrefix(s string) bool {
	return bytes.HasPrefix(p.src[p.pos:], []byte(s))
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return p.errorf("exceeded max depth of %d", maxDepth)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) skipWS() {
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) newline() error {
	switch {
	case p.hasPrefix("\r\n"):
		p.pos += 2
	case p.peek() == '\n':
		p.pos++
	default:
		return p.errorf("expected newline")
	}
	return nil
}

func (p *parser) skipComment() error {
	p.pos++
	for !p.eof() {
		c := p.src[p.pos]
		if c == '\n' || p.hasPrefix("\r\n") {
			return nil
		}
		if isControl(c) {
			return p.errorf("control character 0x%02x in comment", c)
		}
		p.pos++
	}
	return nil
}

// skipBlank skips whitespace, comments and newlines between array elements.
func (p *parser) skipBlank() error {
	for !p.eof() {
		switch c := p.src[p.pos]; {
		case c == ' ' || c == '\t' || c == '\n':
			p.pos++
		case c == '\r':
			if err := p.newline(); err != nil {
				return err
			}
		case c == '#':
			if err := p.skipComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (p *parser) endOfLine() error {
	p.skipWS()
	if p.eof() {
		return nil
	}
	if p.src[p.pos] == '#' {
		if err := p.skipComment(); err != nil {
			return err
		}
		if p.eof() {
			return nil
		}
	}
	if err := p.newline(); err != nil {
		return p.errorf("expected newline, found %q", p.src[p.pos])
	}
	return nil
}

func (p *parser) parse() error {
	if !utf8.Valid(p.src) {
		return p.errorAt(0, "document is not valid UTF-8")
	}
	for {
		p.skipWS()
		if p.eof() {
			return nil
		}
		var err error
		switch p.src[p.pos] {
		case '\n', '\r':
			err = p.newline()
		case '#':
			err = p.skipComment()
		case '[':
			if err = p.header(); err == nil {
				err = p.endOfLine()
			}
		default:
			if err = p.keyValue(p.cur); err == nil {
				err = p.endOfLine()
			}
		}
		if err != nil {
			return err
		}
	}
}

func (p *parser) header() error {
	start := p.pos
	p.pos++
	array := p.consume('[')
	p.skipWS()
	keys, err := p.key()
	if err != nil {
		return err
	}
	p.skipWS()
	if !p.consume(']') {
		return p.errorf("expected ']' after table name")
	}
	if array && !p.consume(']') {
		return p.errorf("expected ']]' after array of tables name")
	}
	t, err := p.openTable(keys, array, start)
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *parser) openTable(keys []string, array bool, at int) (*table, error) {
	t := p.root
	for i, k := range keys[:len(keys)-1] {
		next, err := p.descend(t, k, keys[:i+1], at)
		if err != nil {
			return nil, err
		}
		t = next
	}

	last := keys[len(keys)-1]
	name := strings.Join(keys, ".")
	existing, ok := t.vals[last]

	if array {
		nt := newTable(kindHeader)
		if !ok {
			t.vals[last] = &tableArray{tables: []*table{nt}}
			return nt, nil
		}
		arr, isArr := existing.(*tableArray)
		if !isArr {
			return nil, p.errorAt(at, "key %q is already defined and is not an array of tables", name)
		}
		arr.tables = append(arr.tables, nt)
		return nt, nil
	}

	if !ok {
		nt := newTable(kindHeader)
		t.vals[last] = nt
		return nt, nil
	}
	if et, isTable := existing.(*table); isTable && et.kind == kindImplicit {
		et.kind = kindHeader
		return et, nil
	}
	return nil, p.errorAt(at, "table %q already defined", name)
}

func (p *parser) descend(t *table, k string, path []string, at int) (*table, error) {
	v, ok := t.vals[k]
	if !ok {
		nt := newTable(kindImplicit)
		t.vals[k] = nt
		return nt, nil
	}
	switch x := v.(type) {
	case *table:
		if x.kind == kindInline {
			return nil, p.errorAt(at, "cannot extend inline table %q", strings.Join(path, "."))
		}
		return x, nil
	case *tableArray:
		return x.tables[len(x.tables)-1], nil
	}
	return nil, p.errorAt(at, "key %q is not a table", strings.Join(path, "."))
}

func (p *parser) keyValue(t *table) error {
	start := p.pos
	keys, err := p.key()
	if err != nil {
		return err
	}
	p.skipWS()
	if !p.consume('=') {
		return p.errorf("expected '=' after key %q", strings.Join(keys, "."))
	}
	p.skipWS()
	val, err := p.value()
	if err != nil {
		return err
	}

	target := t
	for i, k := range keys[:len(keys)-1] {
		v, ok := target.vals[k]
		if !ok {
			nt := newTable(kindDotted)
			target.vals[k] = nt
			target = nt
			continue
		}
		sub, isTable := v.(*table)
		if isTable && sub.kind == kindImplicit {
			sub.kind = kindDotted
		}
		if !isTable || sub.kind != kindDotted {
			return p.errorAt(start, "cannot define key %q: %q is already defined",
				strings.Join(keys, "."), strings.Join(keys[:i+1], "."))
		}
		target = sub
	}

	last := keys[len(keys)-1]
	if _, exists := target.vals[last]; exists {
		return p.errorAt(start, "duplicate key %q", strings.Join(keys, "."))
	}
	target.vals[last] = val
	return nil
}

func (p *parser) key() ([]string, error) {
	var keys []string
	for {
		p.skipWS()
		k, err := p.simpleKey()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
		p.skipWS()
		if !p.consume('.') {
			return keys, nil
		}
	}
}

func (p *parser) simpleKey() (string, error) {
	switch p.peek() {
	case '"':
		if p.hasPrefix(`"""`) {
			return "", p.errorf("multi-line strings cannot be used as keys")
		}
		return p.basicString()
	case '\'':
		if p.hasPrefix(`'''`) {
			return "", p.errorf("multi-line strings cannot be used as keys")
		}
		return p.literalString()
	}
	start := p.pos
	for !p.eof() && isBareKeyChar(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		if p.eof() {
			return "", p.errorf("expected key, got end of input")
		}
		return "", p.errorf("unexpected character %q, expected key", p.src[p.pos])
	}
	return string(p.src[start:p.pos]), nil
}

func (p *parser) value() (any, error) {
	if p.eof() {
		return nil, p.errorf("expected value, got end of input")
	}
	switch p.src[p.pos] {
	case '"':
		if p.hasPrefix(`"""`) {
			return p.multilineBasic()
		}
		return p.basicString()
	case '\'':
		if p.hasPrefix(`'''`) {
			return p.multilineLiteral()
		}
		return p.literalString()
	case 't':
		if p.hasPrefix("true") {
			p.pos += 4
			return true, nil
		}
	case 'f':
		if p.hasPrefix("false") {
			p.pos += 5
			return false, nil
		}
	case '[':
		return p.array()
	case '{':
		return p.inlineTable()
	}
	return p.scalar()
}

func (p *parser) array() (any, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	start := p.pos
	p.pos++
	arr := make([]any, 0)
	for {
		if err := p.skipBlank(); err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, p.errorAt(start, "unterminated array")
		}
		if p.consume(']') {
			return arr, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
		if err := p.skipBlank(); err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, p.errorAt(start, "unterminated array")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return arr, nil
		default:
			return nil, p.errorf("expected ',' or ']' in array, found %q", p.src[p.pos])
		}
	}
}

func (p *parser) inlineTable() (any, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	start := p.pos
	p.pos++
	t := newTable(kindDotted)
	p.skipWS()
	if p.consume('}') {
		t.freeze()
		return t, nil
	}
	for {
		p.skipWS()
		if err := p.keyValue(t); err != nil {
			return nil, err
		}
		p.skipWS()
		if p.eof() {
			return nil, p.errorAt(start, "unterminated inline table")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case '}':
			p.pos++
			t.freeze()
			return t, nil
		default:
			return nil, p.errorf("expected ',' or '}' in inline table, found %q", p.src[p.pos])
		}
	}
}

func (p *parser) basicString() (string, error) {
	start := p.pos
	p.pos++
	var sb strings.Builder
	for {
		if p.eof() {
			return "", p.errorAt(start, "unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == '"':
			p.pos++
			return sb.String(), nil
		case c == '\\':
			if err := p.escape(&sb); err != nil {
				return "", err
			}
		case c == '\n' || c == '\r':
			return "", p.errorAt(start, "newline in single-line string")
		case isControl(c):
			return "", p.errorf("control character 0x%02x in string", c)
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
}

func (p *parser) literalString() (string, error) {
	start := p.pos
	p.pos++
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == '\'':
			s := string(p.src[start+1 : p.pos])
			p.pos++
			return s, nil
		case c == '\n' || c == '\r':
			return "", p.errorAt(start, "newline in single-line string")
		case isControl(c):
			return "", p.errorf("control character 0x%02x in string", c)
		}
		p.pos++
	}
	return "", p.errorAt(start, "unterminated string")
}

func (p *parser) trimLeadingNewline() {
	switch {
	case p.hasPrefix("\r\n"):
		p.pos += 2
	case p.peek() == '\n':
		p.pos++
	}
}

// closing handles a run of delimiter quotes inside a multi-line string.
// Up to two quotes may directly precede the closing delimiter.
func (p *parser) closing(q byte, sb *strings.Builder) (bool, error) {
	n := 0
	for p.pos+n < len(p.src) && p.src[p.pos+n] == q {
		n++
	}
	if n < 3 {
		sb.Write(p.src[p.pos : p.pos+n])
		p.pos += n
		return false, nil
	}
	if n > 5 {
		return false, p.errorf("too many quotes closing multi-line string")
	}
	sb.Write(p.src[p.pos : p.pos+n-3])
	p.pos += n
	return true, nil
}

func (p *parser) multilineBasic() (string, error) {
	start := p.pos
	p.pos += 3
	p.trimLeadingNewline()
	var sb strings.Builder
	for {
		if p.eof() {
			return "", p.errorAt(start, "unterminated multi-line string")
		}
		c := p.src[p.pos]
		switch {
		case c == '"':
			done, err := p.closing('"', &sb)
			if err != nil {
				return "", err
			}
			if done {
				return sb.String(), nil
			}
		case c == '\\':
			if p.lineEndingBackslash() {
				continue
			}
			if err := p.escape(&sb); err != nil {
				return "", err
			}
		case c == '\r':
			if err := p.newline(); err != nil {
				return "", err
			}
			sb.WriteByte('\n')
		case c == '\n':
			sb.WriteByte('\n')
			p.pos++
		case isControl(c):
			return "", p.errorf("control character 0x%02x in string", c)
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
}

// lineEndingBackslash trims a backslash at the end of a line together with
// all whitespace and newlines that follow it.
func (p *parser) lineEndingBackslash() bool {
	j := p.pos + 1
	for j < len(p.src) && (p.src[j] == ' ' || p.src[j] == '\t') {
		j++
	}
	if j >= len(p.src) {
		return false
	}
	if p.src[j] != '\n' && !(p.src[j] == '\r' && j+1 < len(p.src) && p.src[j+1] == '\n') {
		return false
	}
	p.pos = j
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
			continue
		}
		break
	}
	return true
}

func (p *parser) multilineLiteral() (string, error) {
	start := p.pos
	p.pos += 3
	p.trimLeadingNewline()
	var sb strings.Builder
	for {
		if p.eof() {
			return "", p.errorAt(start, "unterminated multi-line string")
		}
		c := p.src[p.pos]
		switch {
		case c == '\'':
			done, err := p.closing('\'', &sb)
			if err != nil {
				return "", err
			}
			if done {
				return sb.String(), nil
			}
		case c == '\r':
			if err := p.newline(); err != nil {
				return "", err
			}
			sb.WriteByte('\n')
		case c == '\n':
			sb.WriteByte('\n')
			p.pos++
		case isControl(c):
			return "", p.errorf("control character 0x%02x in string", c)
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
}

func (p *parser) escape(sb *strings.Builder) error {
	at := p.pos
	p.pos++
	if p.eof() {
		return p.errorAt(at, "unterminated escape sequence")
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case 'b':
		sb.WriteByte('\b')
	case 't':
		sb.WriteByte('\t')
	case 'n':
		sb.WriteByte('\n')
	case 'f':
		sb.WriteByte('\f')
	case 'r':
		sb.WriteByte('\r')
	case '"':
		sb.WriteByte('"')
	case '\\':
		sb.WriteByte('\\')
	case 'u', 'U':
		n := 4
		if c == 'U' {
			n = 8
		}
		if p.pos+n > len(p.src) {
			return p.errorAt(at, "short unicode escape")
		}
		v, err := strconv.ParseUint(string(p.src[p.pos:p.pos+n]), 16, 32)
		if err != nil {
			return p.errorAt(at, "invalid unicode escape %q", p.src[at:p.pos+n])
		}
		r := rune(v)
		if !utf8.ValidRune(r) {
			return p.errorAt(at, "escape %q is not a unicode scalar value", p.src[at:p.pos+n])
		}
		sb.WriteRune(r)
		p.pos += n
	default:
		return p.errorAt(at, "invalid escape sequence \\%c", c)
	}
	return nil
}

func (p *parser) scalar() (any, error) {
	start := p.pos
	for !p.eof() && isScalarChar(p.src[p.pos]) {
		p.pos++
	}
	// "1979-05-27 07:32:00" uses a space between date and time.
	if p.pos-start == 10 && p.pos+3 < len(p.src) && p.src[p.pos] == ' ' &&
		isDigit(p.src[p.pos+1]) && isDigit(p.src[p.pos+2]) && p.src[p.pos+3] == ':' {
		p.pos++
		for !p.eof() && isScalarChar(p.src[p.pos]) {
			p.pos++
		}
	}
	tok := string(p.src[start:p.pos])
	if tok == "" {
		if p.eof() {
			return nil, p.errorAt(start, "expected value, got end of input")
		}
		return nil, p.errorAt(start, "unexpected character %q, expected value", p.src[start])
	}

	var (
		v   any
		err error
	)
	switch {
	case len(tok) >= 10 && tok[4] == '-' && tok[7] == '-':
		v, err = parseDateTime(tok)
	case len(tok) >= 8 && tok[2] == ':':
		v, err = parseTime(tok)
	default:
		v, err = parseNumber(tok)
	}
	if err != nil {
		return nil, p.errorAt(start, "%v", err)
	}
	return v, nil
}

func parseNumber(tok string) (any, error) {
	switch {
	case specialRe.MatchString(tok):
		sign := 1
		if tok[0] == '-' {
			sign = -1
		}
		if strings.HasSuffix(tok, "inf") {
			return math.Inf(sign), nil
		}
		return math.NaN(), nil
	case hexIntRe.MatchString(tok):
		return parseInt(tok[2:], 16, tok)
	case octIntRe.MatchString(tok):
		return parseInt(tok[2:], 8, tok)
	case binIntRe.MatchString(tok):
		return parseInt(tok[2:], 2, tok)
	case decIntRe.MatchString(tok):
		return parseInt(tok, 10, tok)
	case floatRe.MatchString(tok):
		f, err := strconv.ParseFloat(strings.ReplaceAll(tok, "_", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q", tok)
		}
		return f, nil
	}
	return nil, fmt.Errorf("invalid value %q", tok)
}

func parseInt(digits string, base int, tok string) (any, error) {
	n, err := strconv.ParseInt(strings.ReplaceAll(digits, "_", ""), base, 64)
	if err != nil {
		return nil, fmt.Errorf("integer %q out of range", tok)
	}
	return n, nil
}

func parseDateTime(tok string) (any, error) {
	date, err := parseDate(tok[:10])
	if err != nil {
		return nil, err
	}
	if len(tok) == 10 {
		return date, nil
	}
	if sep := tok[10]; sep != 'T' && sep != 't' && sep != ' ' {
		return nil, fmt.Errorf("invalid date-time %q", tok)
	}
	rest := tok[11:]
	i := 8
	for i < len(rest) && (isDigit(rest[i]) || rest[i] == '.' || rest[i] == ':') {
		i++
	}
	if i > len(rest) {
		return nil, fmt.Errorf("invalid date-time %q", tok)
	}
	tm, err := parseTime(rest[:i])
	if err != nil {
		return nil, err
	}
	if i == len(rest) {
		return LocalDateTime{Date: date, Time: tm}, nil
	}

	off := rest[i:]
	var loc *time.Location
	switch {
	case off == "Z" || off == "z":
		loc = time.UTC
	case len(off) == 6 && (off[0] == '+' || off[0] == '-') && off[3] == ':':
		h, herr := strconv.Atoi(off[1:3])
		m, merr := strconv.Atoi(off[4:6])
		if herr != nil || merr != nil || h > 23 || m > 59 {
			return nil, fmt.Errorf("invalid offset %q", off)
		}
		secs := h*3600 + m*60
		if off[0] == '-' {
			secs = -secs
		}
		loc = time.FixedZone("", secs)
	default:
		return nil, fmt.Errorf("invalid offset %q", off)
	}
	return time.Date(date.Year, date.Month, date.Day, tm.Hour, tm.Minute, tm.Second, tm.Nanosecond, loc), nil
}

func parseDate(s string) (LocalDate, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' || !allDigits(s[:4]) || !allDigits(s[5:7]) || !allDigits(s[8:]) {
		return LocalDate{}, fmt.Errorf("invalid date %q", s)
	}
	y, _ := strconv.Atoi(s[:4])
	m, _ := strconv.Atoi(s[5:7])
	d, _ := strconv.Atoi(s[8:])
	if m < 1 || m > 12 {
		return LocalDate{}, fmt.Errorf("month out of range in %q", s)
	}
	if d < 1 || d > daysIn(time.Month(m), y) {
		return LocalDate{}, fmt.Errorf("day out of range in %q", s)
	}
	return LocalDate{Year: y, Month: time.Month(m), Day: d}, nil
}

func parseTime(s string) (LocalTime, error) {
	if len(s) < 8 || s[2] != ':' || s[5] != ':' || !allDigits(s[:2]) || !allDigits(s[3:5]) || !allDigits(s[6:8]) {
		return LocalTime{}, fmt.Errorf("invalid time %q", s)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:5])
	sec, _ := strconv.Atoi(s[6:8])
	if h > 23 || m > 59 || sec > 59 {
		return LocalTime{}, fmt.Errorf("time out of range in %q", s)
	}
	t := LocalTime{Hour: h, Minute: m, Second: sec}
	if len(s) == 8 {
		return t, nil
	}
	frac := s[8:]
	if frac[0] != '.' || len(frac) < 2 || !allDigits(frac[1:]) {
		return LocalTime{}, fmt.Errorf("invalid time %q", s)
	}
	digits := frac[1:]
	if len(digits) > 9 {
		digits = digits[:9]
	}
	ns, _ := strconv.Atoi(digits + strings.Repeat("0", 9-len(digits)))
	t.Nanosecond = ns
	return t, nil
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isControl(c byte) bool { return (c < 0x20 && c != '\t') || c == 0x7f }

func isBareKeyChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || isDigit(c) || c == '_' || c == '-'
}

func isScalarChar(c byte) bool {
	return isBareKeyChar(c) || c == '+' || c == '.' || c == ':'
}
