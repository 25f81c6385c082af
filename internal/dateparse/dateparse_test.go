package dateparse

import (
	"errors"
	"testing"
	"time"

	ref "github.com/araddon/dateparse"
)

var def = time.Date(2003, 9, 25, 0, 0, 0, 0, time.UTC)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		opts  []Option
		want  time.Time
	}{
		{"2003-09-25T10:49:41", nil, time.Date(2003, 9, 25, 10, 49, 41, 0, time.UTC)},
		{"2003-09-25 10:49:41.5", nil, time.Date(2003, 9, 25, 10, 49, 41, 500_000_000, time.UTC)},
		{"20030925", nil, time.Date(2003, 9, 25, 0, 0, 0, 0, time.UTC)},
		{"20030925T104941", nil, time.Date(2003, 9, 25, 10, 49, 41, 0, time.UTC)},
		{"09/25/2003", nil, time.Date(2003, 9, 25, 0, 0, 0, 0, time.UTC)},
		{"25/09/2003", nil, time.Date(2003, 9, 25, 0, 0, 0, 0, time.UTC)},
		{"10/09/2003", []Option{DayFirst()}, time.Date(2003, 9, 10, 0, 0, 0, 0, time.UTC)},
		{"10/09/2003", nil, time.Date(2003, 10, 9, 0, 0, 0, 0, time.UTC)},
		{"03/09/25", []Option{YearFirst()}, time.Date(2003, 9, 25, 0, 0, 0, 0, time.UTC)},
		{"25.09.2003", nil, time.Date(2003, 9, 25, 0, 0, 0, 0, time.UTC)},
		{"2003.9.25", nil, time.Date(2003, 9, 25, 0, 0, 0, 0, time.UTC)},
		{"Sep 25 2003", nil, time.Date(2003, 9, 25, 0, 0, 0, 0, time.UTC)},
		{"September 25th, 2003", nil, time.Date(2003, 9, 25, 0, 0, 0, 0, time.UTC)},
		{"25 Sep 2003", nil, time.Date(2003, 9, 25, 0, 0, 0, 0, time.UTC)},
		{"25-Sep-2003", nil, time.Date(2003, 9, 25, 0, 0, 0, 0, time.UTC)},
		{"Thu Sep 25 10:36:28 2003", nil, time.Date(2003, 9, 25, 10, 36, 28, 0, time.UTC)},
		{"Thu, 25 Sep 2003 10:49:41 -0300", nil, time.Date(2003, 9, 25, 10, 49, 41, 0, time.FixedZone("", -3*3600))},
		{"10:36", nil, time.Date(2003, 9, 25, 10, 36, 0, 0, time.UTC)},
		{"10:36:28 PM", nil, time.Date(2003, 9, 25, 22, 36, 28, 0, time.UTC)},
		{"12:01 am", nil, time.Date(2003, 9, 25, 0, 1, 0, 0, time.UTC)},
		{"5pm", nil, time.Date(2003, 9, 25, 17, 0, 0, 0, time.UTC)},
		{"Sep 2003", nil, time.Date(2003, 9, 25, 0, 0, 0, 0, time.UTC)},
		{"Feb 2003", nil, time.Date(2003, 2, 25, 0, 0, 0, 0, time.UTC)},
		{"1/2/99", nil, time.Date(1999, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"1/2/05", nil, time.Date(2005, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"March 5, 2020 3:45 PM EST", nil, time.Date(2020, 3, 5, 15, 45, 0, 0, time.FixedZone("EST", -5*3600))},
		{"2020-03-05 10:00 +05:30", nil, time.Date(2020, 3, 5, 10, 0, 0, 0, time.FixedZone("", 5*3600+30*60))},
		{"10:00 UTC", nil, time.Date(2003, 9, 25, 10, 0, 0, 0, time.UTC)},
		{"Today is January 1, 2047 at 8:21:00AM", []Option{Fuzzy()}, time.Date(2047, 1, 1, 8, 21, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			opts := append([]Option{Default(def)}, tt.opts...)
			got, err := Parse(tt.input, opts...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			_, gotOff := got.Zone()
			_, wantOff := tt.want.Zone()
			if gotOff != wantOff {
				t.Errorf("expected offset %d, got %d", wantOff, gotOff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"not a date",
		"13/13/2003",
		"Feb 30 2003",
		"25:00",
		"10:61",
		"13:00 pm",
		"Today is January 1, 2047",
		"1 2 3 4",
	}
	for _, in := range inputs {
		_, err := Parse(in, Default(def))
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("%q: expected *ParseError, got %v", in, err)
		}
	}
}

func TestDefaultIsMidnightToday(t *testing.T) {
	got, err := Parse("10:15")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC()
	if got.Year() != now.Year() || got.YearDay() != now.YearDay() {
		t.Skip("date rolled over during the test")
	}
	if got.Hour() != 10 || got.Minute() != 15 {
		t.Errorf("unexpected clock %v", got)
	}
}

func TestISOParse(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2003-09-25", time.Date(2003, 9, 25, 0, 0, 0, 0, time.UTC)},
		{"2003-09", time.Date(2003, 9, 1, 0, 0, 0, 0, time.UTC)},
		{"2003", time.Date(2003, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2003-09-25T10:49:41Z", time.Date(2003, 9, 25, 10, 49, 41, 0, time.UTC)},
		{"2003-09-25T10:49:41.123456+02:00", time.Date(2003, 9, 25, 10, 49, 41, 123_456_000, time.FixedZone("", 7200))},
		{"2003-09-25T1049", time.Date(2003, 9, 25, 10, 49, 0, 0, time.UTC)},
		{"2003-09-25T24:00", time.Date(2003, 9, 26, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ISOParse(tt.input)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.input, tt.want, got)
		}
	}

	for _, bad := range []string{"Sep 25 2003", "2003-13-01", "2003-02-30", "25/09/2003"} {
		if _, err := ISOParse(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestMatchesReference(t *testing.T) {
	inputs := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"oct 7, 1970",
		"May 8, 2009 5:57:51 PM",
		"12 Feb 2006, 19:17",
		"Mon Jan  2 15:04:05 2006",
	}
	for _, in := range inputs {
		want, err := ref.ParseIn(in, time.UTC)
		if err != nil {
			t.Fatalf("reference rejected %q: %v", in, err)
		}
		got, err := Parse(in, Default(def))
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if !got.Equal(want) {
			t.Errorf("%q: expected %v, got %v", in, want, got)
		}
	}
}

func BenchmarkParseISO(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Parse("2003-09-25T10:49:41", Default(def))
	}
}

func BenchmarkParseText(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Parse("Thu, 25 Sep 2003 10:49:41 -0300", Default(def))
	}
}
