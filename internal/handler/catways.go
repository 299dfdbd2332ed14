package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/validation"
)

// CatwayManager is the berth service used by CatwayHandler.
type CatwayManager interface {
    Create(ctx context.Context, number int, catwayType, state string) (*model.Catway, error)
    List(ctx context.Context) ([]*model.Catway, error)
    Get(ctx context.Context, number int) (*model.Catway, error)
    UpdateState(ctx context.Context, number int, state string) (*model.Catway, error)
    Delete(ctx context.Context, number int) error
}

// CatwayHandler serves /catways.  The :id parameter is the catway number.
type CatwayHandler struct {
    Catways  CatwayManager
    Registry *validation.Registry
}

func NewCatwayHandler(catways CatwayManager, reg *validation.Registry) *CatwayHandler {
    return &CatwayHandler{Catways: catways, Registry: reg}
}

type catwayCreateReq struct {
    Number int    `json:"number" validate:"required,gte=1,lte=999"`
    Type   string `json:"type" validate:"required,rule=catways.type"`
    State  string `json:"state" validate:"required,rule=catways.state"`
}

type catwayUpdateReq struct {
    State string `json:"state" validate:"required,rule=catways.state"`
}

func (h *CatwayHandler) Create(c echo.Context) error {
    var req catwayCreateReq
    if _, err := decodeStrict(c, h.Registry, validation.Catways, validation.OpAdd, &req); err != nil {
        return respondError(c, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cw, err := h.Catways.Create(ctx, req.Number, req.Type, req.State)
    if err != nil {
        return respondError(c, err)
    }
    return respond(c, http.StatusCreated, "Catway successfully created.", newCatwayView(cw))
}

// List answers 200 with an empty array when the marina has no catway.
func (h *CatwayHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cs, err := h.Catways.List(ctx)
    if err != nil {
        return respondError(c, err)
    }
    msg := "Catways successfully found."
    if len(cs) == 0 {
        msg = "No catways were found."
    }
    return respond(c, http.StatusOK, msg, catwayViews(cs))
}

func (h *CatwayHandler) Get(c echo.Context) error {
    number, err := catwayParam(c)
    if err != nil {
        return respondError(c, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cw, err := h.Catways.Get(ctx, number)
    if err != nil {
        return respondError(c, err)
    }
    return respond(c, http.StatusOK, "Catway successfully found.", newCatwayView(cw))
}

// Update only accepts the state; number and type are fixed at creation.
func (h *CatwayHandler) Update(c echo.Context) error {
    number, err := catwayParam(c)
    if err != nil {
        return respondError(c, err)
    }
    var req catwayUpdateReq
    if _, err := decodeStrict(c, h.Registry, validation.Catways, validation.OpUpdate, &req); err != nil {
        return respondError(c, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cw, err := h.Catways.UpdateState(ctx, number, req.State)
    if err != nil {
        return respondError(c, err)
    }
    return respond(c, http.StatusOK, "Catway successfully updated.", newCatwayView(cw))
}

func (h *CatwayHandler) Delete(c echo.Context) error {
    number, err := catwayParam(c)
    if err != nil {
        return respondError(c, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Catways.Delete(ctx, number); err != nil {
        return respondError(c, err)
    }
    return respond(c, http.StatusOK, "Catway successfully deleted.", nil)
}
