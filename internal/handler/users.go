package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/service"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/validation"
)

// UserManager is the account service used by UserHandler.
type UserManager interface {
    Create(ctx context.Context, in service.NewUser) (*model.User, error)
    List(ctx context.Context) ([]*model.User, error)
    Get(ctx context.Context, email string) (*model.User, error)
    Update(ctx context.Context, email string, patch service.UserPatch) (*model.User, error)
    Delete(ctx context.Context, email string) error
}

// UserHandler serves /users, where accounts are addressed by email.
type UserHandler struct {
    Users    UserManager
    Registry *validation.Registry
}

func NewUserHandler(users UserManager, reg *validation.Registry) *UserHandler {
    return &UserHandler{Users: users, Registry: reg}
}

type userCreateReq struct {
    Name      *string `json:"name" validate:"omitempty,rule=users.name"`
    Firstname *string `json:"firstname" validate:"omitempty,rule=users.firstname"`
    Username  string  `json:"username" validate:"required,rule=users.username"`
    Email     string  `json:"email" validate:"required,rule=users.email"`
    Password  string  `json:"password" validate:"required,rule=users.password,nosequence"`
}

type userUpdateReq struct {
    Name      *string `json:"name" validate:"omitnil,rule=users.name"`
    Firstname *string `json:"firstname" validate:"omitnil,rule=users.firstname"`
    Username  *string `json:"username" validate:"omitnil,rule=users.username"`
    Email     *string `json:"email" validate:"omitnil,rule=users.email"`
    Password  *string `json:"password" validate:"omitnil,rule=users.password,nosequence"`
}

func deref(s *string) string {
    if s == nil {
        return ""
    }
    return *s
}

// emailParam validates the :email path parameter.
func (h *UserHandler) emailParam(c echo.Context) (string, error) {
    email := c.Param("email")
    if m, ok := h.Registry.Pattern(validation.Users, "email"); ok && !m.MatchString(email) {
        return "", apperr.New(apperr.BadInput, "Invalid Email format.").
            WithDetails(map[string]any{"email": email})
    }
    return email, nil
}

// Create registers an account.  It is the only /users route open to
// anonymous callers.
func (h *UserHandler) Create(c echo.Context) error {
    var req userCreateReq
    if _, err := decodeStrict(c, h.Registry, validation.Users, validation.OpAdd, &req); err != nil {
        return respondError(c, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.Create(ctx, service.NewUser{
        Name:      deref(req.Name),
        Firstname: deref(req.Firstname),
        Username:  req.Username,
        Email:     req.Email,
        Password:  req.Password,
    })
    if err != nil {
        return respondError(c, err)
    }
    return respond(c, http.StatusCreated, "User successfully created.", newUserView(u))
}

func (h *UserHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    us, err := h.Users.List(ctx)
    if err != nil {
        return respondError(c, err)
    }
    msg := "Users successfully found."
    if len(us) == 0 {
        msg = "No users were found."
    }
    return respond(c, http.StatusOK, msg, userViews(us))
}

func (h *UserHandler) Get(c echo.Context) error {
    email, err := h.emailParam(c)
    if err != nil {
        return respondError(c, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.Get(ctx, email)
    if err != nil {
        return respondError(c, err)
    }
    return respond(c, http.StatusOK, "User successfully found.", newUserView(u))
}

// Update changes the fields present in the body.
func (h *UserHandler) Update(c echo.Context) error {
    email, err := h.emailParam(c)
    if err != nil {
        return respondError(c, err)
    }
    var req userUpdateReq
    if _, err := decodeStrict(c, h.Registry, validation.Users, validation.OpUpdate, &req); err != nil {
        return respondError(c, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.Update(ctx, email, service.UserPatch{
        Name:      req.Name,
        Firstname: req.Firstname,
        Username:  req.Username,
        Email:     req.Email,
        Password:  req.Password,
    })
    if err != nil {
        return respondError(c, err)
    }
    return respond(c, http.StatusOK, "User successfully updated.", newUserView(u))
}

func (h *UserHandler) Delete(c echo.Context) error {
    email, err := h.emailParam(c)
    if err != nil {
        return respondError(c, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Users.Delete(ctx, email); err != nil {
        return respondError(c, err)
    }
    return respond(c, http.StatusOK, "User successfully deleted.", nil)
}
