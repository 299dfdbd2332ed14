package handler

import (
    "time"

    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
)

// Response shapes.  Models carry no json tags; these views decide what
// leaves the API.

type catwayView struct {
    ID        uint64    `json:"id"`
    Number    int       `json:"number"`
    Type      string    `json:"type"`
    State     string    `json:"state"`
    CreatedAt time.Time `json:"createdAt"`
    UpdatedAt time.Time `json:"updatedAt"`
}

func newCatwayView(c *model.Catway) catwayView {
    return catwayView{
        ID:        c.ID,
        Number:    c.Number,
        Type:      c.Type,
        State:     c.State,
        CreatedAt: c.CreatedAt,
        UpdatedAt: c.UpdatedAt,
    }
}

func catwayViews(cs []*model.Catway) []catwayView {
    out := make([]catwayView, 0, len(cs))
    for _, c := range cs {
        out = append(out, newCatwayView(c))
    }
    return out
}

type reservationView struct {
    ID           uint64    `json:"id"`
    CatwayNumber int       `json:"catwayNumber"`
    ClientName   string    `json:"clientName"`
    BoatName     string    `json:"boatName"`
    StartDate    time.Time `json:"startDate"`
    EndDate      time.Time `json:"endDate"`
    Duration     int       `json:"duration"`
    CreatedAt    time.Time `json:"createdAt"`
    UpdatedAt    time.Time `json:"updatedAt"`
}

func newReservationView(r *model.Reservation) reservationView {
    return reservationView{
        ID:           r.ID,
        CatwayNumber: r.CatwayNumber,
        ClientName:   r.ClientName,
        BoatName:     r.BoatName,
        StartDate:    r.StartDate.UTC(),
        EndDate:      r.EndDate.UTC(),
        Duration:     r.Duration,
        CreatedAt:    r.CreatedAt,
        UpdatedAt:    r.UpdatedAt,
    }
}

func reservationViews(rs []*model.Reservation) []reservationView {
    out := make([]reservationView, 0, len(rs))
    for _, r := range rs {
        out = append(out, newReservationView(r))
    }
    return out
}

// userView never includes the password hash.
type userView struct {
    ID        uint64    `json:"id"`
    Name      string    `json:"name,omitempty"`
    Firstname string    `json:"firstname,omitempty"`
    Username  string    `json:"username"`
    Email     string    `json:"email"`
    CreatedAt time.Time `json:"createdAt"`
    UpdatedAt time.Time `json:"updatedAt"`
}

func newUserView(u *model.User) userView {
    return userView{
        ID:        u.ID,
        Name:      u.Name,
        Firstname: u.Firstname,
        Username:  u.Username,
        Email:     u.Email,
        CreatedAt: u.CreatedAt,
        UpdatedAt: u.UpdatedAt,
    }
}

func userViews(us []*model.User) []userView {
    out := make([]userView, 0, len(us))
    for _, u := range us {
        out = append(out, newUserView(u))
    }
    return out
}
