package period

import (
	"strings"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
)

// Normalizer validates raw start/end text and snaps it to day boundaries.
type Normalizer struct {
	Clock Clock
}

// NewNormalizer returns a Normalizer reading today's date from clock, or
// from the system clock when clock is nil.
func NewNormalizer(clock Clock) *Normalizer {
	if clock == nil {
		clock = SystemClock
	}
	return &Normalizer{Clock: clock}
}

// NormalizeDatePair turns raw YYYY-MM-DD values into a Period running from
// the start of the first day to the end of the last day.  When existing is
// set, a missing value is back-filled from the stored date by formatting it
// and parsing it again, so partial updates go through the same checks as
// full ones.  The start day may not lie before today.
func (n *Normalizer) NormalizeDatePair(rawStart, rawEnd *string, existing *model.Reservation) (Period, error) {
	start := trimmed(rawStart)
	end := trimmed(rawEnd)
	if existing != nil {
		if start == "" {
			start = FormatCalendarDate(existing.StartDate)
		}
		if end == "" {
			end = FormatCalendarDate(existing.EndDate)
		}
	}
	if start == "" || end == "" {
		return Period{}, apperr.New(apperr.BadInput, "Start and end reservation date are required.")
	}

	parsedStart, okStart := ParseCalendarDate(start)
	parsedEnd, okEnd := ParseCalendarDate(end)
	if !okStart || !okEnd {
		details := map[string]any{}
		if !okStart {
			details["startDate"] = start
		}
		if !okEnd {
			details["endDate"] = end
		}
		return Period{}, apperr.New(apperr.BadInput, "Invalid date format.").WithDetails(details)
	}

	p := Period{Start: StartOfDay(parsedStart), End: EndOfDay(parsedEnd)}
	if p.Start.After(p.End) {
		return Period{}, apperr.New(apperr.BadInput, "Start reservation date must occur before end reservation date.")
	}
	if p.Start.Before(StartOfDay(n.Clock.Now())) {
		return Period{}, apperr.New(apperr.BadInput, "Start reservation date must occur in the future.")
	}
	return p, nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
