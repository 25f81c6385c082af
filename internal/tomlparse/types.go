package tomlparse

import (
	"fmt"
	"strings"
	"time"
)

// LocalDate is a calendar date without a time or offset.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// LocalTime is a time of day without a date or offset.
type LocalTime struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

func (t LocalTime) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Nanosecond > 0 {
		s += "." + strings.TrimRight(fmt.Sprintf("%09d", t.Nanosecond), "0")
	}
	return s
}

// LocalDateTime is a date and time without an offset.
type LocalDateTime struct {
	Date LocalDate
	Time LocalTime
}

func (dt LocalDateTime) String() string {
	return dt.Date.String() + "T" + dt.Time.String()
}

// In attaches a location, producing an absolute time.
func (dt LocalDateTime) In(loc *time.Location) time.Time {
	return time.Date(dt.Date.Year, dt.Date.Month, dt.Date.Day,
		dt.Time.Hour, dt.Time.Minute, dt.Time.Second, dt.Time.Nanosecond, loc)
}

// DecodeError reports malformed input with the position it was found at.
type DecodeError struct {
	Msg  string
	Line int
	Col  int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("TOML parse error: %s (line %d, column %d)", e.Msg, e.Line, e.Col)
}
