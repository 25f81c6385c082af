// Package dateparse reads dates and times written in most human and machine
// formats without a layout string.
//
// [Parse] accepts ISO 8601, numeric dates such as 1/2/2006 or 02.01.2006,
// month names, weekday names, ordinals, 12- and 24-hour clocks, zone
// abbreviations and numeric offsets. Ambiguous numeric dates are read
// month first unless [DayFirst] or [YearFirst] is given. Fields missing from
// the input are taken from the default time, which is midnight today in UTC
// unless [Default] supplies one.
//
// [ISOParse] accepts only ISO 8601.
package dateparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseError reports input that could not be read as a date.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dateparse: %s: %q", e.Reason, e.Input)
}

type options struct {
	dayFirst  bool
	yearFirst bool
	fuzzy     bool
	def       time.Time
}

type Option func(*options)

// DayFirst reads 01/02/2006 as 1 February.
func DayFirst() Option { return func(o *options) { o.dayFirst = true } }

// YearFirst reads 06/01/02 as 2006-01-02.
func YearFirst() Option { return func(o *options) { o.yearFirst = true } }

// Fuzzy skips words that are not part of a date.
func Fuzzy() Option { return func(o *options) { o.fuzzy = true } }

// Default supplies the fields missing from the input.
func Default(t time.Time) Option { return func(o *options) { o.def = t } }

type ymdPart struct {
	val     int
	width   int
	isMonth bool
}

// yearish reports whether a part can only be a year.
func (p ymdPart) yearish() bool { return !p.isMonth && (p.val > 31 || p.width >= 3) }

type state struct {
	input   string
	opts    options
	toks    []token
	ymd     []ymdPart
	hour    int
	minute  int
	second  int
	nsec    int
	hasTime bool
	ampm    int
	offset  int
	hasTZ   bool
	zone    string
}

// Parse reads s as a date and time.
func Parse(s string, opts ...Option) (time.Time, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.def.IsZero() {
		now := time.Now().UTC()
		o.def = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, &ParseError{Input: s, Reason: "empty string"}
	}
	if t, ok := isoFull(trimmed, o.def.Location()); ok {
		return t, nil
	}

	st := &state{input: s, opts: o, toks: lex(trimmed), ampm: -1}
	if err := st.scan(); err != nil {
		return time.Time{}, err
	}
	return st.build()
}

func (st *state) fail(reason string) error {
	return &ParseError{Input: st.input, Reason: reason}
}

// peek returns the token at i, or a zero token past the end.
func (st *state) peek(i int) token {
	if i < 0 || i >= len(st.toks) {
		return token{kind: tokSpace}
	}
	return st.toks[i]
}

// nextSolid returns the index of the first non-space token at or after i.
func (st *state) nextSolid(i int) int {
	for i < len(st.toks) && st.toks[i].kind == tokSpace {
		i++
	}
	return i
}

func (st *state) scan() error {
	found := false
	for i := 0; i < len(st.toks); {
		t := st.toks[i]
		var (
			next int
			err  error
		)
		switch t.kind {
		case tokSpace:
			i++
			continue
		case tokNumber:
			next, err = st.number(i)
			found = true
		case tokWord:
			var used bool
			next, used, err = st.word(i)
			found = found || used
		default:
			next, err = st.punct(i)
		}
		if err != nil {
			return err
		}
		i = next
	}
	if !found {
		return st.fail("no date or time found")
	}
	if len(st.ymd) > 3 {
		return st.fail("too many date components")
	}
	return nil
}

func (st *state) addYMD(p ymdPart) error {
	if len(st.ymd) >= 3 {
		if st.opts.fuzzy {
			return nil
		}
		return st.fail("too many date components")
	}
	st.ymd = append(st.ymd, p)
	return nil
}

func (st *state) number(i int) (int, error) {
	text := st.toks[i].text
	val, err := strconv.Atoi(text)
	if err != nil {
		return 0, st.fail("number out of range")
	}
	next := st.peek(i + 1)

	switch {
	case next.kind == tokPunct && next.text == ":":
		return st.clock(i)
	case len(text) == 8 && len(st.ymd) == 0:
		st.ymd = []ymdPart{{val: val / 10000, width: 4}, {val: val / 100 % 100, width: 2}, {val: val % 100, width: 2}}
		return i + 1, nil
	case (len(text) == 12 || len(text) == 14) && len(st.ymd) == 0:
		st.ymd = []ymdPart{{val: atoi(text[:4]), width: 4}, {val: atoi(text[4:6]), width: 2}, {val: atoi(text[6:8]), width: 2}}
		st.hour, st.minute = atoi(text[8:10]), atoi(text[10:12])
		if len(text) == 14 {
			st.second = atoi(text[12:14])
		}
		st.hasTime = true
		return i + 1, nil
	case len(text) == 6 && len(st.ymd) == 0 && !(next.kind == tokPunct && isDateSep(next.text)):
		st.ymd = []ymdPart{{val: val / 10000, width: 2}, {val: val / 100 % 100, width: 2}, {val: val % 100, width: 2}}
		return i + 1, nil
	case next.kind == tokPunct && isDateSep(next.text):
		return st.dateGroup(i)
	case next.kind == tokWord && ordinalSuffixes[strings.ToLower(next.text)]:
		return i + 2, st.addYMD(ymdPart{val: val, width: len(text)})
	}

	if j := st.nextSolid(i + 1); j < len(st.toks) && st.toks[j].kind == tokWord {
		if m := meridiem(st.toks[j].text); m >= 0 {
			st.hour, st.minute, st.second, st.hasTime = val, 0, 0, true
			st.ampm = m
			return j + 1, nil
		}
	}
	return i + 1, st.addYMD(ymdPart{val: val, width: len(text)})
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func isDateSep(s string) bool { return s == "/" || s == "-" || s == "." }

// dateGroup reads "1/2/2006", "2006-01-02", "02.01.06" or "2-Jan-2006".
func (st *state) dateGroup(i int) (int, error) {
	sep := st.toks[i+1].text
	j := i
	for n := 0; n < 3 && j < len(st.toks); n++ {
		t := st.toks[j]
		switch t.kind {
		case tokNumber:
			if err := st.addYMD(ymdPart{val: atoi(t.text), width: len(t.text)}); err != nil {
				return 0, err
			}
		case tokWord:
			m, ok := months[strings.ToLower(t.text)]
			if !ok {
				return j, nil
			}
			if err := st.addYMD(ymdPart{val: m, isMonth: true}); err != nil {
				return 0, err
			}
		default:
			return j, nil
		}
		j++
		if n < 2 && st.peek(j).kind == tokPunct && st.peek(j).text == sep {
			after := st.peek(j + 1)
			if after.kind == tokNumber || after.kind == tokWord {
				j++
				continue
			}
		}
		break
	}
	return j, nil
}

// clock reads HH:MM[:SS[.fraction]] and an optional am/pm marker.
func (st *state) clock(i int) (int, error) {
	st.hour = atoi(st.toks[i].text)
	j := i + 2
	if st.peek(j).kind != tokNumber {
		return 0, st.fail("malformed time")
	}
	st.minute = atoi(st.toks[j].text)
	st.second, st.nsec = 0, 0
	j++
	if st.peek(j).text == ":" && st.peek(j+1).kind == tokNumber {
		st.second = atoi(st.toks[j+1].text)
		j += 2
		if (st.peek(j).text == "." || st.peek(j).text == ",") && st.peek(j+1).kind == tokNumber {
			st.nsec = fraction(st.toks[j+1].text)
			j += 2
		}
	}
	st.hasTime = true

	if k := st.nextSolid(j); k < len(st.toks) && st.toks[k].kind == tokWord {
		if m := meridiem(st.toks[k].text); m >= 0 {
			st.ampm = m
			j = k + 1
		}
	}
	return j, nil
}

// fraction converts the digits after a decimal point to nanoseconds.
func fraction(digits string) int {
	if len(digits) > 9 {
		digits = digits[:9]
	}
	n := atoi(digits)
	for k := len(digits); k < 9; k++ {
		n *= 10
	}
	return n
}

// meridiem returns 0 for am, 1 for pm and -1 otherwise.
func meridiem(w string) int {
	switch strings.ToLower(w) {
	case "am", "a":
		return 0
	case "pm", "p":
		return 1
	}
	return -1
}

func (st *state) word(i int) (int, bool, error) {
	w := strings.ToLower(st.toks[i].text)
	if m, ok := months[w]; ok {
		return i + 1, true, st.addYMD(ymdPart{val: m, isMonth: true})
	}
	if weekdays[w] || jumpWords[w] {
		return i + 1, false, nil
	}
	if m := meridiem(w); m >= 0 && st.hasTime {
		st.ampm = m
		return i + 1, false, nil
	}
	if off, ok := zones[w]; ok && !st.hasTZ {
		st.offset, st.hasTZ, st.zone = off, true, strings.ToUpper(w)
		if w == "z" || w == "utc" || w == "gmt" {
			st.zone = "UTC"
		}
		return i + 1, true, nil
	}
	if st.opts.fuzzy {
		return i + 1, false, nil
	}
	return 0, false, st.fail("unknown token " + strconv.Quote(st.toks[i].text))
}

func (st *state) punct(i int) (int, error) {
	p := st.toks[i].text
	if (p == "+" || p == "-") && st.hasTime && !st.hasTZ && st.peek(i+1).kind == tokNumber {
		return st.numericOffset(i)
	}
	switch p {
	case ",", ".", "/", "-", "(", ")", ";", "'":
		return i + 1, nil
	}
	if st.opts.fuzzy {
		return i + 1, nil
	}
	return 0, st.fail("unexpected " + strconv.Quote(p))
}

// numericOffset reads +hh, +hhmm or +hh:mm.
func (st *state) numericOffset(i int) (int, error) {
	sign := 1
	if st.toks[i].text == "-" {
		sign = -1
	}
	digits := st.toks[i+1].text
	j := i + 2
	var h, m int
	switch len(digits) {
	case 1, 2:
		h = atoi(digits)
		if st.peek(j).text == ":" && st.peek(j+1).kind == tokNumber {
			m = atoi(st.toks[j+1].text)
			j += 2
		}
	case 4:
		h, m = atoi(digits[:2]), atoi(digits[2:])
	default:
		return 0, st.fail("malformed offset")
	}
	if h > 23 || m > 59 {
		return 0, st.fail("offset out of range")
	}
	st.offset = sign * (h*3600 + m*60)
	st.hasTZ = true
	return j, nil
}

// resolve assigns the collected numbers to year, month and day. Unset
// fields are -1.
func (st *state) resolve() (year, month, day int, err error) {
	year, month, day = -1, -1, -1
	parts := st.ymd
	setYear := func(p ymdPart) {
		year = p.val
		if p.width <= 2 && p.val < 100 {
			year = pivotYear(p.val)
		}
	}

	monthAt := -1
	for k, p := range parts {
		if p.isMonth {
			if monthAt >= 0 {
				return 0, 0, 0, st.fail("more than one month")
			}
			monthAt = k
		}
	}

	if monthAt >= 0 {
		month = parts[monthAt].val
		var others []ymdPart
		for k, p := range parts {
			if k != monthAt {
				others = append(others, p)
			}
		}
		switch len(others) {
		case 1:
			if others[0].yearish() {
				setYear(others[0])
			} else {
				day = others[0].val
			}
		case 2:
			a, b := others[0], others[1]
			if a.yearish() || (monthAt == 1 && st.opts.yearFirst && !b.yearish()) {
				setYear(a)
				day = b.val
			} else {
				day = a.val
				setYear(b)
			}
		}
		return year, month, day, nil
	}

	switch len(parts) {
	case 1:
		if parts[0].yearish() {
			setYear(parts[0])
		} else {
			day = parts[0].val
		}
	case 2:
		a, b := parts[0], parts[1]
		switch {
		case a.yearish():
			setYear(a)
			month = b.val
		case b.yearish():
			month = a.val
			setYear(b)
		case st.opts.dayFirst && b.val <= 12:
			day, month = a.val, b.val
		default:
			month, day = a.val, b.val
		}
	case 3:
		a, b, c := parts[0], parts[1], parts[2]
		switch {
		case a.yearish() || (st.opts.yearFirst && b.val <= 12 && c.val <= 31):
			setYear(a)
			if st.opts.dayFirst && c.val <= 12 {
				day, month = b.val, c.val
			} else {
				month, day = b.val, c.val
			}
		case a.val > 12 || (st.opts.dayFirst && b.val <= 12):
			day, month = a.val, b.val
			setYear(c)
		default:
			month, day = a.val, b.val
			setYear(c)
		}
	}
	if month > 12 && day >= 1 && day <= 12 {
		month, day = day, month
	}
	return year, month, day, nil
}

// pivotYear maps two-digit years to 1969-2068.
func pivotYear(y int) int {
	if y >= 69 {
		return 1900 + y
	}
	return 2000 + y
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (st *state) build() (time.Time, error) {
	year, month, day, err := st.resolve()
	if err != nil {
		return time.Time{}, err
	}
	def := st.opts.def
	if year < 0 {
		year = def.Year()
	}
	if month < 0 {
		month = int(def.Month())
	}
	if month < 1 || month > 12 {
		return time.Time{}, st.fail("month must be in 1..12")
	}
	if day < 0 {
		day = min(def.Day(), daysIn(year, time.Month(month)))
	}
	if day < 1 || day > daysIn(year, time.Month(month)) {
		return time.Time{}, st.fail("day is out of range for month")
	}

	hour, minute, second, nsec := def.Hour(), def.Minute(), def.Second(), def.Nanosecond()
	if st.hasTime {
		hour, minute, second, nsec = st.hour, st.minute, st.second, st.nsec
	}
	switch st.ampm {
	case 0, 1:
		if hour < 1 || hour > 12 {
			return time.Time{}, st.fail("hour must be in 1..12 with am/pm")
		}
		if st.ampm == 1 && hour < 12 {
			hour += 12
		} else if st.ampm == 0 && hour == 12 {
			hour = 0
		}
	}
	if hour > 23 {
		return time.Time{}, st.fail("hour must be in 0..23")
	}
	if minute > 59 {
		return time.Time{}, st.fail("minute must be in 0..59")
	}
	if second > 59 {
		return time.Time{}, st.fail("second must be in 0..59")
	}

	loc := def.Location()
	if st.hasTZ {
		loc = zoneFor(st.zone, st.offset)
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, nsec, loc), nil
}

func zoneFor(name string, offset int) *time.Location {
	if offset == 0 && (name == "" || name == "UTC") {
		return time.UTC
	}
	return time.FixedZone(name, offset)
}
