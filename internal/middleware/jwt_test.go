package middleware

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/repository/memstore"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/utils"
)

const testSecret = "test-secret-0123456789"

func protected(cfg JWTConfig) *echo.Echo {
    e := echo.New()
    e.GET("/me", func(c echo.Context) error {
        id, _ := UserID(c)
        return c.JSON(http.StatusOK, echo.Map{"id": id, "email": Email(c)})
    }, JWTAuth(cfg))
    return e
}

func issue(t *testing.T) string {
    t.Helper()
    tok, err := utils.NewAccessToken(testSecret, 7, "capitaine@port.fr", time.Hour)
    if err != nil {
        t.Fatal(err)
    }
    return tok.Token
}

func TestJWTAuthSources(t *testing.T) {
    e := protected(JWTConfig{Secret: testSecret})
    raw := issue(t)

    cases := map[string]func(r *http.Request){
        "cookie":         func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: raw}) },
        "cookie bearer":  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "bearer " + raw}) },
        "authorization":  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+raw) },
        "x-access-token": func(r *http.Request) { r.Header.Set("x-access-token", raw) },
    }
    for name, set := range cases {
        t.Run(name, func(t *testing.T) {
            req := httptest.NewRequest(http.MethodGet, "/me", nil)
            set(req)
            rec := httptest.NewRecorder()
            e.ServeHTTP(rec, req)
            if rec.Code != http.StatusOK {
                t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
            }
            if !strings.Contains(rec.Body.String(), `"id":7`) {
                t.Fatalf("identity missing: %s", rec.Body)
            }
        })
    }
}

func TestJWTAuthRejects(t *testing.T) {
    e := protected(JWTConfig{Secret: testSecret})

    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
    if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "token_required") {
        t.Fatalf("missing token: %d %s", rec.Code, rec.Body)
    }

    other, _ := utils.NewAccessToken("another-secret-abcdef", 7, "x@y.fr", time.Hour)
    req := httptest.NewRequest(http.MethodGet, "/me", nil)
    req.Header.Set("Authorization", "Bearer "+other.Token)
    rec = httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "token_not_valid") {
        t.Fatalf("foreign token: %d %s", rec.Code, rec.Body)
    }
}

func TestJWTAuthRevokedToken(t *testing.T) {
    revoked := memstore.NewRevokedTokens()
    e := protected(JWTConfig{Secret: testSecret, Revoked: revoked})
    raw := issue(t)
    if _, err := revoked.Revoke(context.Background(), utils.HashToken(raw), time.Now().Add(time.Hour)); err != nil {
        t.Fatal(err)
    }

    req := httptest.NewRequest(http.MethodGet, "/me", nil)
    req.Header.Set("Authorization", "Bearer "+raw)
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    if rec.Code != http.StatusUnauthorized {
        t.Fatalf("revoked token accepted: %d", rec.Code)
    }
}

func TestJWTAuthSlidingRenewal(t *testing.T) {
    e := protected(JWTConfig{Secret: testSecret, TTL: 24 * time.Hour})
    req := httptest.NewRequest(http.MethodGet, "/me", nil)
    req.Header.Set("Authorization", "Bearer "+issue(t))
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)

    renewed := rec.Header().Get("Authorization")
    if !strings.HasPrefix(renewed, "Bearer ") {
        t.Fatalf("no renewed token, header=%q", renewed)
    }
    claims, err := utils.ParseAccessToken(testSecret, strings.TrimPrefix(renewed, "Bearer "))
    if err != nil {
        t.Fatal(err)
    }
    if claims.UserID != 7 || time.Until(claims.Exp) < 23*time.Hour {
        t.Fatalf("unexpected renewed claims %+v", claims)
    }
}
