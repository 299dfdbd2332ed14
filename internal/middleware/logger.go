package middleware

import (
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    "go.uber.org/zap"
)

// RequestLogger logs one line per request and makes sure every response
// carries an X-Request-ID.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            rid := c.Request().Header.Get(echo.HeaderXRequestID)
            if rid == "" {
                rid = uuid.NewString()
            }
            c.Response().Header().Set(echo.HeaderXRequestID, rid)

            err := next(c)
            if err != nil {
                c.Error(err)
            }

            fields := []zap.Field{
                zap.String("request_id", rid),
                zap.String("method", c.Request().Method),
                zap.String("route", c.Path()),
                zap.String("uri", c.Request().RequestURI),
                zap.Int("status", c.Response().Status),
                zap.Duration("latency", time.Since(start)),
                zap.String("ip", c.RealIP()),
            }
            if id, ok := UserID(c); ok {
                fields = append(fields, zap.Uint64("user_id", id))
            }
            switch s := c.Response().Status; {
            case s >= 500:
                log.Error("request", append(fields, zap.Error(err))...)
            case s >= 400:
                log.Warn("request", fields...)
            default:
                log.Info("request", fields...)
            }
            return nil
        }
    }
}
