package handler

import (
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/validation"
)

func newContext(method, body string) (echo.Context, *httptest.ResponseRecorder, *validation.Registry) {
    e := echo.New()
    reg := validation.NewRegistry()
    e.Validator = validation.NewValidator(reg)
    req := httptest.NewRequest(method, "/", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    return e.NewContext(req, rec), rec, reg
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
    t.Helper()
    var out map[string]any
    if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
        t.Fatalf("body %q: %v", rec.Body.String(), err)
    }
    return out
}

func TestRespondErrorStatus(t *testing.T) {
    cases := []struct {
        err    error
        status int
        msg    string
    }{
        {apperr.New(apperr.BadInput, "bad"), http.StatusBadRequest, "bad"},
        {apperr.New(apperr.ScopeMismatch, "elsewhere"), http.StatusBadRequest, "elsewhere"},
        {apperr.New(apperr.NotFound, "gone"), http.StatusNotFound, "gone"},
        {apperr.New(apperr.Conflict, "taken"), http.StatusConflict, "taken"},
        {apperr.New(apperr.Unauthorized, "who"), http.StatusUnauthorized, "who"},
        {errors.New("dial tcp: refused"), http.StatusInternalServerError, "Internal error."},
    }
    for _, tc := range cases {
        c, rec, _ := newContext(http.MethodGet, "")
        if err := respondError(c, tc.err); err != nil {
            t.Fatal(err)
        }
        if rec.Code != tc.status {
            t.Errorf("%v: status %d, want %d", tc.err, rec.Code, tc.status)
        }
        if got := decodeBody(t, rec)["message"]; got != tc.msg {
            t.Errorf("%v: message %v, want %q", tc.err, got, tc.msg)
        }
    }
}

func TestRespondErrorDetails(t *testing.T) {
    c, rec, _ := newContext(http.MethodGet, "")
    err := apperr.New(apperr.BadInput, "Invalid catway number.").WithDetails(map[string]any{"id": "x"})
    _ = respondError(c, err)
    body := decodeBody(t, rec)
    details, ok := body["details"].(map[string]any)
    if !ok || details["id"] != "x" {
        t.Fatalf("details = %v", body["details"])
    }
}

func TestDecodeStrictRejectsUnknownField(t *testing.T) {
    c, _, reg := newContext(http.MethodPost, `{"number":4,"type":"long","state":"Bon.","owner":"me"}`)
    var req catwayCreateReq
    _, err := decodeStrict(c, reg, validation.Catways, validation.OpAdd, &req)
    if !apperr.Is(err, apperr.BadInput) {
        t.Fatalf("err = %v, want bad input", err)
    }
}

func TestDecodeStrictReportsWrongType(t *testing.T) {
    c, _, reg := newContext(http.MethodPost, `{"number":"four","type":"long","state":"Bon."}`)
    var req catwayCreateReq
    _, err := decodeStrict(c, reg, validation.Catways, validation.OpAdd, &req)
    var ae *apperr.Error
    if !errors.As(err, &ae) || ae.Details["dataKey"] != "number" {
        t.Fatalf("err = %#v", err)
    }
}

func TestDecodeStrictAccepts(t *testing.T) {
    c, _, reg := newContext(http.MethodPost, `{"number":4,"type":"long","state":"Bon état."}`)
    var req catwayCreateReq
    if _, err := decodeStrict(c, reg, validation.Catways, validation.OpAdd, &req); err != nil {
        t.Fatal(err)
    }
    if req.Number != 4 || req.Type != "long" {
        t.Fatalf("req = %+v", req)
    }
}

func TestCatwayParam(t *testing.T) {
    for _, raw := range []string{"", "abc", "0", "-2"} {
        c, _, _ := newContext(http.MethodGet, "")
        c.SetParamNames("id")
        c.SetParamValues(raw)
        if _, err := catwayParam(c); !apperr.Is(err, apperr.BadInput) {
            t.Errorf("%q: err = %v", raw, err)
        }
    }
    c, _, _ := newContext(http.MethodGet, "")
    c.SetParamNames("id")
    c.SetParamValues("12")
    if n, err := catwayParam(c); err != nil || n != 12 {
        t.Fatalf("n=%d err=%v", n, err)
    }
}

func TestDatesAreStrings(t *testing.T) {
    ok := map[string]json.RawMessage{"startDate": json.RawMessage(`"2024-05-01"`), "endDate": json.RawMessage(`null`)}
    if err := datesAreStrings(ok); err != nil {
        t.Fatal(err)
    }
    bad := map[string]json.RawMessage{"startDate": json.RawMessage(`20240501`)}
    if err := datesAreStrings(bad); !apperr.Is(err, apperr.BadInput) {
        t.Fatalf("err = %v", err)
    }
}
