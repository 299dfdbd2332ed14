package period

import (
	"testing"
	"time"
)

func TestParseCalendarDateRoundTrip(t *testing.T) {
	for _, s := range []string{"2024-01-01", "2024-02-29", "1999-12-31", "0999-07-04", "2030-10-09"} {
		d, ok := ParseCalendarDate(s)
		if !ok {
			t.Fatalf("ParseCalendarDate(%q) rejected a valid date", s)
		}
		if got := FormatCalendarDate(d); got != s {
			t.Errorf("round trip of %q gave %q", s, got)
		}
		if d.Location() != time.UTC || d.Hour() != 0 || d.Nanosecond() != 0 {
			t.Errorf("%q not parsed to midnight UTC: %v", s, d)
		}
	}
}

func TestParseCalendarDateRejects(t *testing.T) {
	bad := []string{
		"",
		"2024-02-30",
		"2023-02-29",
		"2024-13-01",
		"2024-00-10",
		"2024-04-31",
		"2024-1-01",
		"24-01-01",
		"2024/01/01",
		"2024-01-01T00:00:00Z",
		" 2024-01-01",
		"２０２４-01-01",
	}
	for _, s := range bad {
		if _, ok := ParseCalendarDate(s); ok {
			t.Errorf("ParseCalendarDate(%q) accepted an invalid date", s)
		}
	}
}

func TestDayBoundaries(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 02:30 local is still the previous UTC day
	in := time.Date(2024, 3, 10, 2, 30, 0, 0, loc)

	start := StartOfDay(in)
	end := EndOfDay(in)
	if want := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("StartOfDay = %v, want %v", start, want)
	}
	if want := time.Date(2024, 3, 9, 23, 59, 59, 999_000_000, time.UTC); !end.Equal(want) {
		t.Fatalf("EndOfDay = %v, want %v", end, want)
	}
	if got := end.Sub(start).Milliseconds(); got != 86_399_999 {
		t.Fatalf("end - start = %dms, want 86399999", got)
	}
}
