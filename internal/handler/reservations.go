package handler

import (
    "bytes"
    "context"
    "encoding/json"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/service"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/validation"
)

// ReservationManager is the lifecycle controller used by ReservationHandler.
type ReservationManager interface {
    Create(ctx context.Context, catwayNumber int, in service.CreateReservationInput) (*model.Reservation, error)
    Get(ctx context.Context, catwayNumber int, id uint64) (*model.Reservation, error)
    ListByCatway(ctx context.Context, catwayNumber int) ([]*model.Reservation, error)
    List(ctx context.Context) ([]*model.Reservation, error)
    Update(ctx context.Context, catwayNumber int, id uint64, in service.UpdateReservationInput) (*model.Reservation, error)
    Delete(ctx context.Context, catwayNumber int, id uint64) (*model.Reservation, error)
}

// ReservationHandler serves the reservations nested under a catway, plus
// the marina wide listing.
type ReservationHandler struct {
    Reservations ReservationManager
    Registry     *validation.Registry
}

func NewReservationHandler(reservations ReservationManager, reg *validation.Registry) *ReservationHandler {
    return &ReservationHandler{Reservations: reservations, Registry: reg}
}

type reservationCreateReq struct {
    ClientName string  `json:"clientName" validate:"required,rule=reservations.clientName"`
    BoatName   string  `json:"boatName" validate:"required,rule=reservations.boatName"`
    StartDate  *string `json:"startDate"`
    EndDate    *string `json:"endDate"`
}

type reservationUpdateReq struct {
    IDReservation json.RawMessage `json:"idReservation"`
    StartDate     *string         `json:"startDate"`
    EndDate       *string         `json:"endDate"`
}

// datesAreStrings rejects dates sent as numbers, objects or booleans.
// Absent and null dates are left to the normalizer.
func datesAreStrings(fields map[string]json.RawMessage) error {
    for _, k := range []string{"startDate", "endDate"} {
        v, ok := fields[k]
        if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
            continue
        }
        if !isJSONString(v) {
            return apperr.New(apperr.BadInput, "Start and end dates must be ISO strings (YYYY-MM-DD).")
        }
    }
    return nil
}

// Create books the catway for the requested days.
func (h *ReservationHandler) Create(c echo.Context) error {
    number, err := catwayParam(c)
    if err != nil {
        return respondError(c, err)
    }
    var req reservationCreateReq
    if _, err := decodeStrict(c, h.Registry, validation.Reservations, validation.OpAdd, &req, datesAreStrings); err != nil {
        return respondError(c, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    r, err := h.Reservations.Create(ctx, number, service.CreateReservationInput{
        ClientName: req.ClientName,
        BoatName:   req.BoatName,
        StartDate:  req.StartDate,
        EndDate:    req.EndDate,
    })
    if err != nil {
        return respondError(c, err)
    }
    return respond(c, http.StatusCreated, "Reservation successfully created.", newReservationView(r))
}

// List returns the reservations of one catway.
func (h *ReservationHandler) List(c echo.Context) error {
    number, err := catwayParam(c)
    if err != nil {
        return respondError(c, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    rs, err := h.Reservations.ListByCatway(ctx, number)
    if err != nil {
        return respondError(c, err)
    }
    return h.listed(c, rs)
}

// ListAll returns every reservation of the marina.
func (h *ReservationHandler) ListAll(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    rs, err := h.Reservations.List(ctx)
    if err != nil {
        return respondError(c, err)
    }
    return h.listed(c, rs)
}

func (h *ReservationHandler) listed(c echo.Context, rs []*model.Reservation) error {
    msg := "Successfully find all Reservation."
    if len(rs) == 0 {
        msg = "No Reservations were found."
    }
    return respond(c, http.StatusOK, msg, reservationViews(rs))
}

func (h *ReservationHandler) Get(c echo.Context) error {
    number, err := catwayParam(c)
    if err != nil {
        return respondError(c, err)
    }
    id, err := reservationID(c.Param("idReservation"))
    if err != nil {
        return respondError(c, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    r, err := h.Reservations.Get(ctx, number, id)
    if err != nil {
        return respondError(c, err)
    }
    return respond(c, http.StatusOK, "Reservation successfully found.", newReservationView(r))
}

// Update moves a reservation.  The reservation is named by the path or by
// idReservation in the body; both may be given if they agree.
func (h *ReservationHandler) Update(c echo.Context) error {
    number, err := catwayParam(c)
    if err != nil {
        return respondError(c, err)
    }
    var req reservationUpdateReq
    if _, err := decodeStrict(c, h.Registry, validation.Reservations, validation.OpUpdate, &req, datesAreStrings); err != nil {
        return respondError(c, err)
    }
    id, err := h.targetID(c.Param("idReservation"), req.IDReservation)
    if err != nil {
        return respondError(c, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    r, err := h.Reservations.Update(ctx, number, id, service.UpdateReservationInput{
        StartDate: req.StartDate,
        EndDate:   req.EndDate,
    })
    if err != nil {
        return respondError(c, err)
    }
    return respond(c, http.StatusOK, "Reservation successfully updated.", newReservationView(r))
}

// targetID resolves the reservation addressed by an update.  The body
// value may be a JSON string or number.
func (h *ReservationHandler) targetID(param string, body json.RawMessage) (uint64, error) {
    var fromBody string
    if b := bytes.TrimSpace(body); len(b) > 0 && !bytes.Equal(b, []byte("null")) {
        if isJSONString(b) {
            if err := json.Unmarshal(b, &fromBody); err != nil {
                return 0, apperr.Wrap(apperr.BadInput, "Invalid reservation id.", err)
            }
        } else {
            fromBody = string(b)
        }
        if m, ok := h.Registry.Pattern(validation.Reservations, "idReservation"); ok && !m.MatchString(fromBody) {
            return 0, apperr.New(apperr.BadInput, "Rules not respected.").
                WithDetails(map[string]any{"dataKey": "idReservation", "dataValue": fromBody})
        }
    }

    switch {
    case param == "" && fromBody == "":
        return 0, apperr.New(apperr.BadInput, "Reservation id is required.")
    case param == "":
        return reservationID(fromBody)
    case fromBody != "" && fromBody != param:
        return 0, apperr.New(apperr.BadInput, "Reservation id in path and body differ.").
            WithDetails(map[string]any{"path": param, "body": fromBody})
    }
    return reservationID(param)
}

// Delete answers with the removed reservation.
func (h *ReservationHandler) Delete(c echo.Context) error {
    number, err := catwayParam(c)
    if err != nil {
        return respondError(c, err)
    }
    id, err := reservationID(c.Param("idReservation"))
    if err != nil {
        return respondError(c, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    r, err := h.Reservations.Delete(ctx, number, id)
    if err != nil {
        return respondError(c, err)
    }
    return respond(c, http.StatusOK, "Reservation successfully deleted.", newReservationView(r))
}
