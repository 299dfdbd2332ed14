// Package service holds the business rules of the marina: the reservation
// lifecycle, catway management and user accounts.  Services depend on the
// store interfaces below so that the MySQL repositories and the in-memory
// stores are interchangeable.
package service

import (
	"context"
	"time"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/period"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/queue"
)

// CatwayStore persists catways keyed by number.
type CatwayStore interface {
	GetByNumber(ctx context.Context, number int) (*model.Catway, error)
	List(ctx context.Context) ([]*model.Catway, error)
	Create(ctx context.Context, c *model.Catway) error
	UpdateState(ctx context.Context, number int, state string) (*model.Catway, error)
	Delete(ctx context.Context, number int) error
}

// ReservationStore persists reservations.  FindOverlapping must be served
// by an index on (catway_number, start_date, end_date).
type ReservationStore interface {
	period.OverlapFinder
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	ListByCatway(ctx context.Context, catwayNumber int) ([]*model.Reservation, error)
	List(ctx context.Context) ([]*model.Reservation, error)
	Create(ctx context.Context, r *model.Reservation) error
	UpdateDates(ctx context.Context, id uint64, start, end time.Time, duration int) (*model.Reservation, error)
	Delete(ctx context.Context, id uint64) error
}

// UserStore persists users keyed by email.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, email string, u *model.User) error
	Delete(ctx context.Context, email string) error
}

// EventPublisher delivers reservation events to the broker.
type EventPublisher interface {
	PublishReservation(ctx context.Context, ev queue.ReservationEvent) error
}
