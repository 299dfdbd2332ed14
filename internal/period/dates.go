// Package period turns calendar-date text into day-aligned UTC instants,
// computes reservation durations and detects overlapping reservations on a
// catway.
package period

import (
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the only accepted textual date format.
const DateLayout = "2006-01-02"

var calendarDate = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// ParseCalendarDate parses YYYY-MM-DD into midnight UTC.  It reports false
// for malformed text and for dates that do not exist, such as 2023-02-30:
// the date is built first and rejected when its components drift.
func ParseCalendarDate(text string) (time.Time, bool) {
	m := calendarDate.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])

	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// StartOfDay returns 00:00:00.000 UTC of t's UTC calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns 23:59:59.999 UTC of t's UTC calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

// FormatCalendarDate renders t's UTC calendar day as YYYY-MM-DD.
func FormatCalendarDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
