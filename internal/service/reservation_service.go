package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/lock"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/period"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/queue"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/repository"
)

// CreateReservationInput carries the client supplied fields of a new
// reservation.  Dates are raw YYYY-MM-DD text.
type CreateReservationInput struct {
	ClientName string
	BoatName   string
	StartDate  *string
	EndDate    *string
}

// UpdateReservationInput carries the dates to change.  A nil date keeps
// the stored value.
type UpdateReservationInput struct {
	StartDate *string
	EndDate   *string
}

// ReservationService drives a reservation from validation to persistence.
//
// Writes on one catway are serialized by the locker: the overlap check and
// the insert or update that follows run while holding lock.CatwayKey, so
// concurrent requests cannot both pass the check.
type ReservationService struct {
	catways      CatwayStore
	reservations ReservationStore
	normalizer   *period.Normalizer
	validator    *period.Validator
	locker       lock.Locker
	events       EventPublisher
	log          *zap.Logger
	now          func() time.Time
}

// NewReservationService wires the lifecycle controller.  events may be nil
// to disable publishing.
func NewReservationService(catways CatwayStore, reservations ReservationStore, normalizer *period.Normalizer, locker lock.Locker, events EventPublisher, log *zap.Logger) *ReservationService {
	if log == nil {
		log = zap.NewNop()
	}
	if normalizer == nil {
		normalizer = period.NewNormalizer(nil)
	}
	return &ReservationService{
		catways:      catways,
		reservations: reservations,
		normalizer:   normalizer,
		validator:    period.NewValidator(reservations),
		locker:       locker,
		events:       events,
		log:          log,
		now:          func() time.Time { return normalizer.Clock.Now() },
	}
}

// Create validates and stores a new reservation on catwayNumber.
func (s *ReservationService) Create(ctx context.Context, catwayNumber int, in CreateReservationInput) (*model.Reservation, error) {
	if err := s.requireCatway(ctx, catwayNumber); err != nil {
		return nil, err
	}
	p, err := s.normalizer.NormalizeDatePair(in.StartDate, in.EndDate, nil)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lockCatway(ctx, catwayNumber)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.validator.ValidateForCreate(ctx, catwayNumber, p.Start, p.End); err != nil {
		return nil, s.logged(err, catwayNumber, 0)
	}

	r := &model.Reservation{
		CatwayNumber: catwayNumber,
		ClientName:   in.ClientName,
		BoatName:     in.BoatName,
		StartDate:    p.Start,
		EndDate:      p.End,
	}
	if err := prepareWrite(r); err != nil {
		return nil, err
	}
	if err := s.reservations.Create(ctx, r); err != nil {
		return nil, s.storeFailure("Reservation could not be created.", err, catwayNumber, 0)
	}
	unlock()

	s.publish(ctx, queue.ReservationCreated, r)
	return r, nil
}

// Get returns reservation id if it belongs to catwayNumber.
func (s *ReservationService) Get(ctx context.Context, catwayNumber int, id uint64) (*model.Reservation, error) {
	if err := s.requireCatway(ctx, catwayNumber); err != nil {
		return nil, err
	}
	return s.scoped(ctx, catwayNumber, id)
}

// ListByCatway returns the reservations of catwayNumber ordered by start.
func (s *ReservationService) ListByCatway(ctx context.Context, catwayNumber int) ([]*model.Reservation, error) {
	if err := s.requireCatway(ctx, catwayNumber); err != nil {
		return nil, err
	}
	out, err := s.reservations.ListByCatway(ctx, catwayNumber)
	if err != nil {
		return nil, s.storeFailure("Reservations could not be listed.", err, catwayNumber, 0)
	}
	return out, nil
}

// List returns every reservation of the marina.
func (s *ReservationService) List(ctx context.Context) ([]*model.Reservation, error) {
	out, err := s.reservations.List(ctx)
	if err != nil {
		return nil, s.storeFailure("Reservations could not be listed.", err, 0, 0)
	}
	return out, nil
}

// Update changes the dates of reservation id.  Missing dates are taken
// from the stored reservation, and the result is checked against every
// other reservation of the catway.  The read, the merge and the write all
// happen under the catway lock, so a concurrent update of the same
// reservation is never merged from a stale copy.
func (s *ReservationService) Update(ctx context.Context, catwayNumber int, id uint64, in UpdateReservationInput) (*model.Reservation, error) {
	if err := s.requireCatway(ctx, catwayNumber); err != nil {
		return nil, err
	}

	unlock, err := s.lockCatway(ctx, catwayNumber)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.scoped(ctx, catwayNumber, id)
	if err != nil {
		return nil, err
	}
	p, err := s.normalizer.NormalizeDatePair(in.StartDate, in.EndDate, existing)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateForUpdate(ctx, catwayNumber, p.Start, p.End, id); err != nil {
		return nil, s.logged(err, catwayNumber, id)
	}

	next := *existing
	next.StartDate, next.EndDate = p.Start, p.End
	if err := prepareWrite(&next); err != nil {
		return nil, err
	}
	updated, err := s.reservations.UpdateDates(ctx, id, next.StartDate, next.EndDate, next.Duration)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, apperr.New(apperr.NotFound, "Reservation not found.")
		}
		return nil, s.storeFailure("Reservation could not be updated.", err, catwayNumber, id)
	}
	unlock()

	s.publish(ctx, queue.ReservationUpdated, updated)
	return updated, nil
}

// Delete removes reservation id if it belongs to catwayNumber.
func (s *ReservationService) Delete(ctx context.Context, catwayNumber int, id uint64) (*model.Reservation, error) {
	unlock, err := s.lockCatway(ctx, catwayNumber)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.scoped(ctx, catwayNumber, id)
	if err != nil {
		return nil, err
	}
	if err := s.reservations.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, apperr.New(apperr.NotFound, "Reservation not found.")
		}
		return nil, s.storeFailure("Reservation could not be deleted.", err, catwayNumber, id)
	}
	unlock()

	s.publish(ctx, queue.ReservationDeleted, existing)
	return existing, nil
}

// prepareWrite runs right before every insert or update with the final
// dates and recomputes the stored duration.
func prepareWrite(r *model.Reservation) error {
	d, err := period.ComputeDuration(r.StartDate, r.EndDate)
	if err != nil {
		return err
	}
	r.Duration = d
	return nil
}

func (s *ReservationService) requireCatway(ctx context.Context, number int) error {
	if _, err := s.catways.GetByNumber(ctx, number); err != nil {
		if errors.Is(err, repository.ErrCatwayNotFound) {
			return apperr.New(apperr.NotFound, "Catway not found.").
				WithDetails(map[string]any{"catwayNumber": number})
		}
		return s.storeFailure("Catway lookup failed.", err, number, 0)
	}
	return nil
}

func (s *ReservationService) scoped(ctx context.Context, catwayNumber int, id uint64) (*model.Reservation, error) {
	r, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, apperr.New(apperr.NotFound, "Reservation not found.").
				WithDetails(map[string]any{"reservationId": id})
		}
		return nil, s.storeFailure("Reservation lookup failed.", err, catwayNumber, id)
	}
	if r.CatwayNumber != catwayNumber {
		return nil, apperr.New(apperr.ScopeMismatch, "The reservation does not belong to the specified catway.").
			WithDetails(map[string]any{
				"catwayNumber":      catwayNumber,
				"reservationId":     id,
				"reservationCatway": r.CatwayNumber,
			})
	}
	return r, nil
}

func (s *ReservationService) lockCatway(ctx context.Context, number int) (func(), error) {
	unlock, err := s.locker.Lock(ctx, lock.CatwayKey(number))
	if err != nil {
		return nil, s.storeFailure("Catway is busy, try again.", err, number, 0)
	}
	return unlock, nil
}

func (s *ReservationService) publish(ctx context.Context, eventType string, r *model.Reservation) {
	if s.events == nil {
		return
	}
	ev := queue.NewReservationEvent(eventType, r, s.now())
	if err := s.events.PublishReservation(ctx, ev); err != nil {
		s.log.Warn("reservation event not published",
			zap.String("event_id", ev.EventID),
			zap.String("type", eventType),
			zap.Uint64("reservation_id", r.ID),
			zap.Error(err))
	}
}

// logged passes validator errors through, logging the store failures.
func (s *ReservationService) logged(err error, catwayNumber int, id uint64) error {
	if apperr.Is(err, apperr.StoreFailure) {
		s.log.Error("overlap lookup failed",
			zap.Int("catway", catwayNumber),
			zap.Uint64("reservation_id", id),
			zap.Error(err))
	}
	return err
}

func (s *ReservationService) storeFailure(msg string, err error, catwayNumber int, id uint64) error {
	s.log.Error(msg,
		zap.Int("catway", catwayNumber),
		zap.Uint64("reservation_id", id),
		zap.Error(err))
	return apperr.Wrap(apperr.StoreFailure, msg, err)
}
