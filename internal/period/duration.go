package period

import (
	"time"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
)

const msPerDay = int64(24 * time.Hour / time.Millisecond)

// CalculateDuration returns the number of days between start and end,
// rounded up.  Equal instants give 0.  A zero start or end is a bad input.
func CalculateDuration(start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, apperr.New(apperr.BadInput, "Start and end dates are required").
			WithDetails(map[string]any{
				"startDate": optionalTime(start),
				"endDate":   optionalTime(end),
			})
	}
	ms := end.Sub(start).Milliseconds()
	days := ms / msPerDay
	if ms > 0 && ms%msPerDay != 0 {
		days++
	}
	return int(days), nil
}

// ComputeDuration is the value stored on a reservation: CalculateDuration
// floored to one day.
func ComputeDuration(start, end time.Time) (int, error) {
	d, err := CalculateDuration(start, end)
	if err != nil {
		return 0, err
	}
	if d < 1 {
		d = 1
	}
	return d, nil
}

func optionalTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
