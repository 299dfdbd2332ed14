package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/middleware"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/utils"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/validation"
)

// Authenticator verifies credentials and loads accounts.
type Authenticator interface {
    Authenticate(ctx context.Context, email, password string) (*model.User, error)
    Get(ctx context.Context, email string) (*model.User, error)
}

// TokenRevoker records logged-out tokens.
type TokenRevoker interface {
    Revoke(ctx context.Context, tokenHash string, exp time.Time) (bool, error)
}

// AuthSettings are the token and cookie parameters of the auth endpoints.
type AuthSettings struct {
    Secret       string
    TTL          time.Duration
    CookieSecure bool
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Users    Authenticator
    Tokens   TokenRevoker
    Registry *validation.Registry
    Settings AuthSettings
}

func NewAuthHandler(users Authenticator, tokens TokenRevoker, reg *validation.Registry, s AuthSettings) *AuthHandler {
    return &AuthHandler{Users: users, Tokens: tokens, Registry: reg, Settings: s}
}

type loginReq struct {
    Email    string `json:"email" validate:"required,rule=login.email"`
    Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) tokenCookie(value string, expires time.Time) *http.Cookie {
    ck := &http.Cookie{
        Name:     middleware.TokenCookie,
        Value:    value,
        Path:     "/",
        HttpOnly: true,
        Secure:   h.Settings.CookieSecure,
        SameSite: http.SameSiteStrictMode,
        Expires:  expires,
    }
    if value == "" {
        ck.MaxAge = -1
    }
    return ck
}

// Login verifies credentials and issues a token, both as the HttpOnly
// token cookie and in the Authorization response header.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if _, err := decodeStrict(c, h.Registry, validation.Login, validation.OpLogin, &req); err != nil {
        return respondError(c, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.Authenticate(ctx, req.Email, req.Password)
    if err != nil {
        return respondError(c, err)
    }
    tok, err := utils.NewAccessToken(h.Settings.Secret, u.ID, u.Email, h.Settings.TTL)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": apperr.StoreFailure, "message": "Token could not be issued."})
    }

    c.SetCookie(h.tokenCookie(tok.Token, tok.Exp))
    c.Response().Header().Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
    return respond(c, http.StatusOK, "Successfully logged in.", echo.Map{
        "user":      newUserView(u),
        "token":     tok.Token,
        "expiresAt": tok.Exp,
    })
}

// Logout blacklists the presented token until it expires and clears the
// cookie.  A second logout with the same token is answered 200 as well.
func (h *AuthHandler) Logout(c echo.Context) error {
    raw := middleware.ExtractToken(c.Request())
    if raw == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": apperr.Unauthorized, "message": "Token not provided."})
    }
    claims, err := utils.ParseAccessToken(h.Settings.Secret, raw)
    if err != nil {
        c.SetCookie(h.tokenCookie("", time.Unix(0, 0)))
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": apperr.Unauthorized, "message": "token_not_valid"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    fresh, err := h.Tokens.Revoke(ctx, utils.HashToken(raw), claims.Exp)
    if err != nil {
        return respondError(c, apperr.Wrap(apperr.StoreFailure, "Logout failed.", err))
    }
    c.SetCookie(h.tokenCookie("", time.Unix(0, 0)))
    if !fresh {
        return c.JSON(http.StatusOK, echo.Map{"message": "Already logged out.", "logout": true})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Successfully logged out", "logout": true})
}

// Me returns the account behind the current token.
func (h *AuthHandler) Me(c echo.Context) error {
    if _, ok := middleware.UserID(c); !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": apperr.Unauthorized, "message": "token_required"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.Get(ctx, middleware.Email(c))
    if err != nil {
        return respondError(c, err)
    }
    return respond(c, http.StatusOK, "Authenticated.", newUserView(u))
}
