package humanize

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// NaturalDelta describes a duration without direction: "a moment",
// "3 minutes", "an hour", "2 months", "1 year, 4 days".
func NaturalDelta(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	days := int(d / day)
	years, days := days/365, days%365
	seconds := int((d % day) / time.Second)
	months := int(float64(days) / 30.5)

	switch {
	case years == 0 && days == 0:
		switch {
		case seconds == 0:
			return "a moment"
		case seconds == 1:
			return "a second"
		case seconds < 60:
			return fmt.Sprintf("%d seconds", seconds)
		case seconds < 120:
			return "a minute"
		case seconds < 3600:
			return fmt.Sprintf("%d minutes", seconds/60)
		case seconds < 7200:
			return "an hour"
		}
		return fmt.Sprintf("%d hours", seconds/3600)
	case years == 0:
		switch {
		case days == 1:
			return "a day"
		case months == 0:
			return fmt.Sprintf("%d days", days)
		case months == 1:
			return "a month"
		}
		return fmt.Sprintf("%d months", months)
	case years == 1:
		switch {
		case months == 0 && days == 0:
			return "a year"
		case months == 0:
			return fmt.Sprintf("1 year, %s", plural(days, "day"))
		}
		return fmt.Sprintf("1 year, %s", plural(months, "month"))
	}
	return fmt.Sprintf("%d years", years)
}

// NaturalTime describes t relative to now: "3 minutes ago", "in 2 days"
// style as "2 days from now", or "now".
func NaturalTime(t, now time.Time) string {
	delta := now.Sub(t)
	text := NaturalDelta(delta)
	switch {
	case text == "a moment":
		return "now"
	case delta > 0:
		return text + " ago"
	}
	return text + " from now"
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
