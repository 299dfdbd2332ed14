package model

import "time"

// Catway types accepted by the marina.
const (
    CatwayLong  = "long"
    CatwayShort = "short"
)

// Catway is a mooring berth.  Number is the natural key used by
// reservations and URLs; only State may change after creation.
type Catway struct {
    ID        uint64    // catways.id
    Number    int       // catways.number (unique)
    Type      string    // catways.type, long or short
    State     string    // catways.state, free text describing its condition
    CreatedAt time.Time // catways.created_at
    UpdatedAt time.Time // catways.updated_at
}
