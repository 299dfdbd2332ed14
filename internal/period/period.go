package period

import "time"

// Period is a closed range of day-aligned instants.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether p and o share at least one instant under the
// rule p.Start < o.End && p.End > o.Start.
func (p Period) Overlaps(o Period) bool {
	return p.Start.Before(o.End) && p.End.After(o.Start)
}

// Clock yields the current time.  Tests pin it to a fixed date.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)
