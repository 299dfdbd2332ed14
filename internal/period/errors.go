package period

import (
	"fmt"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
)

// ConflictError reports that a requested period overlaps a reservation
// already stored on the same catway.
type ConflictError struct {
	CatwayNumber int
	Existing     Period
	Requested    Period
	// ExcludedID is the reservation ignored by the check, zero on create.
	ExcludedID uint64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("catway %d: requested period %s..%s overlaps reservation %s..%s",
		e.CatwayNumber,
		FormatCalendarDate(e.Requested.Start), FormatCalendarDate(e.Requested.End),
		FormatCalendarDate(e.Existing.Start), FormatCalendarDate(e.Existing.End))
}

// Kind classifies the error for the HTTP layer.
func (e *ConflictError) Kind() apperr.Kind { return apperr.Conflict }

// Message is the client facing text.
func (e *ConflictError) Message() string { return "Data conflict detected." }

// Details is the structured payload sent with a 409 response.
func (e *ConflictError) Details() map[string]any {
	d := map[string]any{
		"catwayNumber":    e.CatwayNumber,
		"existingPeriod":  e.Existing,
		"requestedPeriod": e.Requested,
	}
	if e.ExcludedID != 0 {
		d["excludedReservationId"] = e.ExcludedID
	}
	return d
}
