package dateparse

import (
	"regexp"
	"strings"
	"time"
)

var (
	isoRe = regexp.MustCompile(`^(\d{4})-?(\d{2})-?(\d{2})` +
		`(?:[Tt ](\d{2})(?::?(\d{2})(?::?(\d{2})(?:[.,](\d{1,9})\d*)?)?)?)?` +
		`\s*([Zz]|[+-]\d{2}(?::?\d{2})?)?$`)
	isoShortRe = regexp.MustCompile(`^(\d{4})(?:-(\d{2}))?$`)
)

// ISOParse reads an ISO 8601 date or date-time. Times without an offset
// are returned in UTC.
func ISOParse(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if t, ok := isoFull(trimmed, time.UTC); ok {
		return t, nil
	}
	if m := isoShortRe.FindStringSubmatch(trimmed); m != nil {
		month := 1
		if m[2] != "" {
			month = atoi(m[2])
		}
		if month >= 1 && month <= 12 {
			return time.Date(atoi(m[1]), time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, &ParseError{Input: s, Reason: "not an ISO 8601 date"}
}

// isoFull matches a complete calendar date with optional time and offset.
// naive is the location used when no offset is given.
func isoFull(s string, naive *time.Location) (time.Time, bool) {
	m := isoRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	year, month, day := atoi(m[1]), atoi(m[2]), atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > daysIn(year, time.Month(month)) {
		return time.Time{}, false
	}
	hour, minute, second, nsec := atoi(m[4]), atoi(m[5]), atoi(m[6]), 0
	if m[7] != "" {
		nsec = fraction(m[7])
	}
	midnight := false
	if hour == 24 && minute == 0 && second == 0 && nsec == 0 {
		hour, midnight = 0, true
	}
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}

	loc := naive
	switch tz := m[8]; {
	case tz == "Z" || tz == "z":
		loc = time.UTC
	case tz != "":
		sign := 1
		if tz[0] == '-' {
			sign = -1
		}
		digits := strings.ReplaceAll(tz[1:], ":", "")
		off := atoi(digits[:2]) * 3600
		if len(digits) == 4 {
			off += atoi(digits[2:]) * 60
		}
		loc = zoneFor("", sign*off)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, nsec, loc)
	if midnight {
		t = t.AddDate(0, 0, 1)
	}
	return t, true
}
