package model

import "time"

// Reservation books one catway for a closed range of calendar days.
//
// Fields:
//  ID           – primary key identifier.
//  CatwayNumber – number of the booked catway (not its surrogate id).
//  ClientName   – name of the boat owner.
//  BoatName     – name of the moored boat.
//  StartDate    – first day, always 00:00:00.000 UTC.
//  EndDate      – last day, always 23:59:59.999 UTC.
//  Duration     – number of booked days, at least 1.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Reservation struct {
    ID           uint64    // reservations.id
    CatwayNumber int       // reservations.catway_number
    ClientName   string    // reservations.client_name
    BoatName     string    // reservations.boat_name
    StartDate    time.Time // reservations.start_date
    EndDate      time.Time // reservations.end_date
    Duration     int       // reservations.duration
    CreatedAt    time.Time // reservations.created_at
    UpdatedAt    time.Time // reservations.updated_at
}
