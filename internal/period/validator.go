package period

import (
	"context"
	"time"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
)

// Mode selects how EnsureNoConflict treats the reservation being written.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// OverlapFinder looks up one reservation on catwayNumber whose period
// satisfies start_date < end AND end_date > start, ignoring excludeID when
// it is non-zero.  It returns nil, nil when there is none.
type OverlapFinder interface {
	FindOverlapping(ctx context.Context, catwayNumber int, start, end time.Time, excludeID uint64) (*model.Reservation, error)
}

// Validator rejects periods that collide with stored reservations.
type Validator struct {
	store OverlapFinder
}

func NewValidator(store OverlapFinder) *Validator {
	return &Validator{store: store}
}

// ValidateForCreate returns a *ConflictError when any reservation on the
// catway overlaps [start, end].
func (v *Validator) ValidateForCreate(ctx context.Context, catwayNumber int, start, end time.Time) error {
	return v.check(ctx, catwayNumber, Period{Start: start, End: end}, 0)
}

// ValidateForUpdate is ValidateForCreate ignoring the reservation being
// updated, so that it never conflicts with itself.
func (v *Validator) ValidateForUpdate(ctx context.Context, catwayNumber int, start, end time.Time, excludeID uint64) error {
	return v.check(ctx, catwayNumber, Period{Start: start, End: end}, excludeID)
}

// EnsureNoConflict dispatches on mode.  excludeID is ignored on create.
func (v *Validator) EnsureNoConflict(ctx context.Context, catwayNumber int, start, end time.Time, mode Mode, excludeID uint64) error {
	if mode == ModeUpdate {
		return v.ValidateForUpdate(ctx, catwayNumber, start, end, excludeID)
	}
	return v.ValidateForCreate(ctx, catwayNumber, start, end)
}

func (v *Validator) check(ctx context.Context, catwayNumber int, requested Period, excludeID uint64) error {
	existing, err := v.store.FindOverlapping(ctx, catwayNumber, requested.Start, requested.End, excludeID)
	if err != nil {
		return apperr.Wrap(apperr.StoreFailure, "Overlap lookup failed.", err)
	}
	if existing == nil {
		return nil
	}
	return &ConflictError{
		CatwayNumber: catwayNumber,
		Existing:     Period{Start: existing.StartDate, End: existing.EndDate},
		Requested:    requested,
		ExcludedID:   excludeID,
	}
}
