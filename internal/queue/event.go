// Package queue defines message payloads exchanged over the message broker
// and the RabbitMQ publisher and consumer that carry them.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/period"
)

// ReservationsQueue is the durable queue receiving reservation events.
const ReservationsQueue = "marina.reservations"

// Reservation event types.
const (
	ReservationCreated = "reservation.created"
	ReservationUpdated = "reservation.updated"
	ReservationDeleted = "reservation.deleted"
)

// ReservationEvent is published after a reservation is written or removed.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type ReservationEvent struct {
	EventID       string `json:"event_id"`
	Type          string `json:"type"`
	ReservationID uint64 `json:"reservation_id"`
	CatwayNumber  int    `json:"catway_number"`
	ClientName    string `json:"client_name"`
	BoatName      string `json:"boat_name"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Duration      int    `json:"duration"`
	OccurredAt    string `json:"occurred_at"`
}

// NewReservationEvent snapshots r for eventType.
func NewReservationEvent(eventType string, r *model.Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		ReservationID: r.ID,
		CatwayNumber:  r.CatwayNumber,
		ClientName:    r.ClientName,
		BoatName:      r.BoatName,
		StartDate:     period.FormatCalendarDate(r.StartDate),
		EndDate:       period.FormatCalendarDate(r.EndDate),
		Duration:      r.Duration,
		OccurredAt:    at.UTC().Format(time.RFC3339),
	}
}
