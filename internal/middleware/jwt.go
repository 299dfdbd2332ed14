package middleware

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/utils"
)

// TokenCookie is the cookie carrying the access token.
const TokenCookie = "token"

// RevocationList answers whether a token hash was logged out.
type RevocationList interface {
    IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

// JWTConfig configures JWTAuth.  When TTL is positive every accepted
// request gets a fresh token in the Authorization response header, so an
// active client never sees its session expire.
type JWTConfig struct {
    Secret  string
    TTL     time.Duration
    Revoked RevocationList
    Log     *zap.Logger
}

// ExtractToken returns the raw token of a request.  It looks at the token
// cookie, then the Authorization header, then x-access-token.  A leading
// "Bearer " is stripped in every case.
func ExtractToken(r *http.Request) string {
    if ck, err := r.Cookie(TokenCookie); err == nil && ck.Value != "" {
        return stripBearer(ck.Value)
    }
    if h := r.Header.Get(echo.HeaderAuthorization); h != "" {
        return stripBearer(h)
    }
    return stripBearer(r.Header.Get("x-access-token"))
}

func stripBearer(s string) string {
    s = strings.TrimSpace(s)
    if len(s) > 7 && strings.EqualFold(s[:7], "bearer ") {
        s = strings.TrimSpace(s[7:])
    }
    return s
}

func unauthorized(c echo.Context, msg string) error {
    return c.JSON(http.StatusUnauthorized, echo.Map{"error": apperr.Unauthorized, "message": msg})
}

// JWTAuth validates the access token and stores the caller identity in the
// context (see identity.go).
func JWTAuth(cfg JWTConfig) echo.MiddlewareFunc {
    log := cfg.Log
    if log == nil {
        log = zap.NewNop()
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := ExtractToken(c.Request())
            if raw == "" {
                return unauthorized(c, "token_required")
            }
            claims, err := utils.ParseAccessToken(cfg.Secret, raw)
            if err != nil {
                return unauthorized(c, "token_not_valid")
            }

            if cfg.Revoked != nil {
                ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
                revoked, err := cfg.Revoked.IsRevoked(ctx, utils.HashToken(raw))
                cancel()
                if err != nil {
                    log.Error("revocation lookup failed", zap.Error(err))
                    return c.JSON(http.StatusInternalServerError, echo.Map{"error": apperr.StoreFailure, "message": "Internal error."})
                }
                if revoked {
                    return unauthorized(c, "token_not_valid")
                }
            }

            c.Set(CtxUserID, claims.UserID)
            c.Set(CtxEmail, claims.Email)
            c.Set(CtxToken, raw)
            c.Set(CtxTokenExp, claims.Exp)

            if cfg.TTL > 0 {
                fresh, err := utils.NewAccessToken(cfg.Secret, claims.UserID, claims.Email, cfg.TTL)
                if err != nil {
                    log.Warn("token renewal failed", zap.Error(err))
                } else {
                    c.Response().Header().Set(echo.HeaderAuthorization, "Bearer "+fresh.Token)
                }
            }
            return next(c)
        }
    }
}
