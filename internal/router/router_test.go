package router

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "golang.org/x/crypto/bcrypt"

    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/handler"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/lock"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/middleware"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/period"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/repository/memstore"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/service"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/validation"
)

const secret = "router-test-secret-0123"

func newTestServer() *echo.Echo {
    reservations := memstore.NewReservations()
    catways := memstore.NewCatways(reservations)
    tokens := memstore.NewRevokedTokens()
    reg := validation.NewRegistry()

    users := service.NewUserService(memstore.NewUsers(), bcrypt.MinCost, nil)
    return New(Deps{
        Registry: reg,
        JWT:      middleware.JWTConfig{Secret: secret, TTL: time.Hour, Revoked: tokens},
        Auth:     handler.NewAuthHandler(users, tokens, reg, handler.AuthSettings{Secret: secret, TTL: time.Hour}),
        Users:    handler.NewUserHandler(users, reg),
        Catways:  handler.NewCatwayHandler(service.NewCatwayService(catways, nil), reg),
        Reservations: handler.NewReservationHandler(
            service.NewReservationService(catways, reservations, period.NewNormalizer(nil), lock.NewMemoryLocker(time.Second), nil, nil), reg),
        Log: nil,
    })
}

type client struct {
    t      *testing.T
    e      *echo.Echo
    cookie *http.Cookie
}

func (c *client) do(method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
    c.t.Helper()
    req := httptest.NewRequest(method, path, strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    if c.cookie != nil {
        req.AddCookie(c.cookie)
    }
    rec := httptest.NewRecorder()
    c.e.ServeHTTP(rec, req)
    out := map[string]any{}
    _ = json.Unmarshal(rec.Body.Bytes(), &out)
    return rec, out
}

func (c *client) expect(method, path, body string, status int) map[string]any {
    c.t.Helper()
    rec, out := c.do(method, path, body)
    if rec.Code != status {
        c.t.Fatalf("%s %s: status %d, want %d, body %s", method, path, rec.Code, status, rec.Body)
    }
    return out
}

func inDays(n int) string {
    return period.FormatCalendarDate(time.Now().UTC().AddDate(0, 0, n))
}

func login(t *testing.T, e *echo.Echo) *client {
    t.Helper()
    c := &client{t: t, e: e}
    c.expect(http.MethodPost, "/users", `{"username":"capitaine","email":"capitaine@port.fr","password":"Voil3r!Bleu"}`, http.StatusCreated)
    rec, _ := c.do(http.MethodPost, "/login", `{"email":"capitaine@port.fr","password":"Voil3r!Bleu"}`)
    if rec.Code != http.StatusOK {
        t.Fatalf("login: %d %s", rec.Code, rec.Body)
    }
    for _, ck := range rec.Result().Cookies() {
        if ck.Name == middleware.TokenCookie {
            if !ck.HttpOnly || ck.SameSite != http.SameSiteStrictMode {
                t.Errorf("token cookie flags: %+v", ck)
            }
            c.cookie = &http.Cookie{Name: ck.Name, Value: ck.Value}
        }
    }
    if c.cookie == nil {
        t.Fatal("login did not set the token cookie")
    }
    if !strings.HasPrefix(rec.Header().Get("Authorization"), "Bearer ") {
        t.Error("login did not set the Authorization header")
    }
    return c
}

func TestProtectedRoutesNeedToken(t *testing.T) {
    c := &client{t: t, e: newTestServer()}
    out := c.expect(http.MethodGet, "/catways", "", http.StatusUnauthorized)
    if out["message"] != "token_required" {
        t.Fatalf("unexpected body %v", out)
    }
    c.expect(http.MethodGet, "/healthz", "", http.StatusOK)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
    e := newTestServer()
    c := login(t, e)
    c.cookie = nil
    out := c.expect(http.MethodPost, "/login", `{"email":"capitaine@port.fr","password":"Wr0ng!pass"}`, http.StatusUnauthorized)
    if out["message"] != "invalid credentials" {
        t.Fatalf("unexpected body %v", out)
    }
    c.expect(http.MethodPost, "/login", `{"email":"capitaine@port.fr","password":"x","role":"admin"}`, http.StatusBadRequest)
}

func TestReservationFlow(t *testing.T) {
    c := login(t, newTestServer())

    out := c.expect(http.MethodGet, "/catways", "", http.StatusOK)
    if data, ok := out["data"].([]any); !ok || len(data) != 0 {
        t.Fatalf("empty catway list should be an empty array: %v", out)
    }

    c.expect(http.MethodPost, "/catways", `{"number":3,"type":"long","state":"Bon état."}`, http.StatusCreated)
    c.expect(http.MethodPost, "/catways", `{"number":4,"type":"short","state":"Bon état."}`, http.StatusCreated)
    c.expect(http.MethodPost, "/catways", `{"number":3,"type":"long","state":"Bon état."}`, http.StatusConflict)

    body := func(start, end string) string {
        return `{"clientName":"Jean Dupont","boatName":"Ondine","startDate":"` + start + `","endDate":"` + end + `"}`
    }
    created := c.expect(http.MethodPost, "/catways/3/reservations", body(inDays(1), inDays(10)), http.StatusCreated)
    data := created["data"].(map[string]any)
    if data["duration"].(float64) != 10 {
        t.Fatalf("duration = %v", data["duration"])
    }
    id := int(data["id"].(float64))
    idStr := jsonNumber(id)

    conflict := c.expect(http.MethodPost, "/catways/3/reservations", body(inDays(10), inDays(12)), http.StatusConflict)
    if conflict["error"] != "CONFLICT" || conflict["message"] != "Data conflict detected." {
        t.Fatalf("unexpected conflict body %v", conflict)
    }
    c.expect(http.MethodPost, "/catways/4/reservations", body(inDays(10), inDays(12)), http.StatusCreated)
    c.expect(http.MethodPost, "/catways/3/reservations", body(inDays(11), inDays(12)), http.StatusCreated)
    c.expect(http.MethodPost, "/catways/9/reservations", body(inDays(1), inDays(2)), http.StatusNotFound)

    bad := c.expect(http.MethodPost, "/catways/3/reservations",
        `{"clientName":"Jean Dupont","boatName":"Ondine","startDate":20240501,"endDate":"2024-05-02"}`, http.StatusBadRequest)
    if bad["message"] != "Start and end dates must be ISO strings (YYYY-MM-DD)." {
        t.Fatalf("unexpected body %v", bad)
    }
    c.expect(http.MethodPost, "/catways/3/reservations", `{"clientName":"Jean Dupont","boatName":"Ondine","startDate":"x","endDate":"y","paid":true}`, http.StatusBadRequest)

    scope := c.expect(http.MethodGet, "/catways/4/reservations/"+idStr, "", http.StatusBadRequest)
    if scope["error"] != "SCOPE_MISMATCH" {
        t.Fatalf("unexpected scope body %v", scope)
    }
    c.expect(http.MethodDelete, "/catways/4/reservations/"+idStr, "", http.StatusBadRequest)

    updated := c.expect(http.MethodPut, "/catways/3/reservations/"+idStr, `{"endDate":"`+inDays(5)+`"}`, http.StatusOK)
    if updated["data"].(map[string]any)["duration"].(float64) != 5 {
        t.Fatalf("update duration: %v", updated)
    }
    c.expect(http.MethodPut, "/catways/3/reservations", `{"idReservation":"`+idStr+`","startDate":"`+inDays(2)+`"}`, http.StatusOK)
    c.expect(http.MethodPut, "/catways/3/reservations", `{"startDate":"`+inDays(2)+`"}`, http.StatusBadRequest)
    c.expect(http.MethodPut, "/catways/3/reservations/"+idStr, `{"clientName":"Paul"}`, http.StatusBadRequest)

    all := c.expect(http.MethodGet, "/reservations", "", http.StatusOK)
    if n := len(all["data"].([]any)); n != 3 {
        t.Fatalf("listing all: %d reservations", n)
    }

    c.expect(http.MethodDelete, "/catways/3", "", http.StatusConflict)
    c.expect(http.MethodDelete, "/catways/3/reservations/"+idStr, "", http.StatusOK)
    c.expect(http.MethodGet, "/catways/3/reservations/"+idStr, "", http.StatusNotFound)
}

func TestLogoutRevokesToken(t *testing.T) {
    c := login(t, newTestServer())
    c.expect(http.MethodGet, "/me", "", http.StatusOK)

    out := c.expect(http.MethodPost, "/logout", "", http.StatusOK)
    if out["message"] != "Successfully logged out" {
        t.Fatalf("unexpected body %v", out)
    }
    c.expect(http.MethodGet, "/me", "", http.StatusUnauthorized)
    out = c.expect(http.MethodPost, "/logout", "", http.StatusOK)
    if out["message"] != "Already logged out." {
        t.Fatalf("unexpected body %v", out)
    }

    c.cookie = nil
    c.expect(http.MethodPost, "/logout", "", http.StatusUnauthorized)
}

func TestUnknownRouteShape(t *testing.T) {
    c := &client{t: t, e: newTestServer()}
    out := c.expect(http.MethodGet, "/nowhere", "", http.StatusNotFound)
    if out["error"] != "NOT_FOUND" {
        t.Fatalf("unexpected body %v", out)
    }
}

func jsonNumber(n int) string {
    b, _ := json.Marshal(n)
    return string(b)
}
