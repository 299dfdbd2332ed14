package middleware

// identity.go holds the context keys written by JWTAuth and the helpers
// that read them back.

import (
    "time"

    "github.com/labstack/echo/v4"
)

const (
    CtxUserID   = "user_id"   // uint64
    CtxEmail    = "email"     // string
    CtxToken    = "token"     // raw JWT
    CtxTokenExp = "token_exp" // time.Time
)

// UserID returns the authenticated user id, if any.
func UserID(c echo.Context) (uint64, bool) {
    id, ok := c.Get(CtxUserID).(uint64)
    return id, ok && id != 0
}

// Email returns the authenticated user's email.
func Email(c echo.Context) string {
    s, _ := c.Get(CtxEmail).(string)
    return s
}

// Token returns the raw token the request was authenticated with and its
// expiry.
func Token(c echo.Context) (string, time.Time) {
    raw, _ := c.Get(CtxToken).(string)
    exp, _ := c.Get(CtxTokenExp).(time.Time)
    return raw, exp
}
