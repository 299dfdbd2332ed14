package handler

import (
    "bytes"
    "encoding/json"
    "errors"
    "io"
    "net/http"
    "sort"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/validation"
)

// maximum accepted request body
const maxBody = 64 << 10

var statusByKind = map[apperr.Kind]int{
    apperr.BadInput:      http.StatusBadRequest,
    apperr.ScopeMismatch: http.StatusBadRequest,
    apperr.NotFound:      http.StatusNotFound,
    apperr.Conflict:      http.StatusConflict,
    apperr.Unauthorized:  http.StatusUnauthorized,
    apperr.StoreFailure:  http.StatusInternalServerError,
}

// detailed is implemented by domain errors that build their own client
// message, such as period conflicts.
type detailed interface {
    Message() string
    Details() map[string]any
}

// respondError writes err as {"error", "message", "details"}.  Store
// failures never leak their cause.
func respondError(c echo.Context, err error) error {
    kind := apperr.KindOf(err)
    status, ok := statusByKind[kind]
    if !ok {
        status = http.StatusInternalServerError
    }
    body := echo.Map{"error": kind}

    var ae *apperr.Error
    var de detailed
    switch {
    case errors.As(err, &ae):
        body["message"] = ae.Message
        if len(ae.Details) > 0 {
            body["details"] = ae.Details
        }
    case errors.As(err, &de):
        body["message"] = de.Message()
        body["details"] = de.Details()
    default:
        body["message"] = "Internal error."
    }
    return c.JSON(status, body)
}

// respond writes the {"message", "data"} envelope.
func respond(c echo.Context, status int, msg string, data any) error {
    if data == nil {
        return c.JSON(status, echo.Map{"message": msg})
    }
    return c.JSON(status, echo.Map{"message": msg, "data": data})
}

// readFields reads a JSON object body and returns its raw members.
func readFields(c echo.Context) (map[string]json.RawMessage, []byte, error) {
    raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBody+1))
    if err != nil {
        return nil, nil, apperr.Wrap(apperr.BadInput, "Invalid request.", err)
    }
    if len(raw) > maxBody {
        return nil, nil, apperr.New(apperr.BadInput, "Request body too large.")
    }
    fields := map[string]json.RawMessage{}
    if len(bytes.TrimSpace(raw)) == 0 {
        return fields, raw, nil
    }
    if err := json.Unmarshal(raw, &fields); err != nil {
        return nil, nil, apperr.Wrap(apperr.BadInput, "Invalid JSON body.", err)
    }
    return fields, raw, nil
}

func keysOf(m map[string]json.RawMessage) []string {
    out := make([]string, 0, len(m))
    for k := range m {
        out = append(out, k)
    }
    sort.Strings(out)
    return out
}

// fieldCheck inspects the raw members of a body before it is decoded.
type fieldCheck func(fields map[string]json.RawMessage) error

// decodeStrict checks the body keys against the registry for kind and op,
// runs the extra checks, decodes the body into dst and runs the echo
// validator on the result.
func decodeStrict(c echo.Context, reg *validation.Registry, kind validation.Kind, op validation.Op, dst any, checks ...fieldCheck) (map[string]json.RawMessage, error) {
    fields, raw, err := readFields(c)
    if err != nil {
        return nil, err
    }
    if err := reg.CheckFields(kind, op, keysOf(fields)); err != nil {
        return nil, err
    }
    for _, check := range checks {
        if err := check(fields); err != nil {
            return nil, err
        }
    }
    if err := json.Unmarshal(raw, dst); err != nil {
        var te *json.UnmarshalTypeError
        if errors.As(err, &te) {
            return nil, apperr.New(apperr.BadInput, "Rules not respected.").
                WithDetails(map[string]any{"dataKey": te.Field})
        }
        return nil, apperr.Wrap(apperr.BadInput, "Invalid JSON body.", err)
    }
    if err := c.Validate(dst); err != nil {
        return nil, err
    }
    return fields, nil
}

// isJSONString reports whether a raw member holds a string.
func isJSONString(m json.RawMessage) bool {
    m = bytes.TrimSpace(m)
    return len(m) > 0 && m[0] == '"'
}

// catwayParam parses the :id path parameter, which is a catway number.
func catwayParam(c echo.Context) (int, error) {
    n, err := strconv.Atoi(c.Param("id"))
    if err != nil || n < 1 {
        return 0, apperr.New(apperr.BadInput, "Invalid catway number.").
            WithDetails(map[string]any{"id": c.Param("id")})
    }
    return n, nil
}

func reservationID(s string) (uint64, error) {
    id, err := strconv.ParseUint(s, 10, 64)
    if err != nil || id == 0 {
        return 0, apperr.New(apperr.BadInput, "Invalid reservation id.").
            WithDetails(map[string]any{"idReservation": s})
    }
    return id, nil
}
