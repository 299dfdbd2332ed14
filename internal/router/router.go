package router // package router defines how HTTP routes are registered for the API

import (
    "net/http"

    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/config"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/handler"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/middleware"
    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/validation"
)

// Deps is everything the routes need.  Redis may be nil, which disables
// the cache and the rate limiter.
type Deps struct {
    Log          *zap.Logger
    Registry     *validation.Registry
    JWT          middleware.JWTConfig
    Redis        *redis.Client
    Cache        config.CacheConfig
    RateLimit    config.RateLimitConfig
    Health       handler.Pinger
    Auth         *handler.AuthHandler
    Users        *handler.UserHandler
    Catways      *handler.CatwayHandler
    Reservations *handler.ReservationHandler
}

// New builds the echo instance with the global middleware stack and all
// routes registered.
func New(d Deps) *echo.Echo {
    if d.Log == nil {
        d.Log = zap.NewNop()
    }
    e := echo.New()
    e.HideBanner = true
    e.HidePort = true
    e.Validator = validation.NewValidator(d.Registry)
    e.HTTPErrorHandler = errorHandler(d.Log)

    e.Use(echomw.Recover())
    e.Use(middleware.RequestLogger(d.Log))
    e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
        AllowOrigins:  []string{"*"},
        ExposeHeaders: []string{echo.HeaderAuthorization},
    }))
    e.Use(middleware.RateLimit(d.RateLimit, d.Redis, d.Log))

    RegisterRoutes(e, d)
    return e
}

// RegisterRoutes maps every endpoint onto e.
func RegisterRoutes(e *echo.Echo, d Deps) {
    e.GET("/healthz", handler.Health(d.Health))

    // anonymous
    e.POST("/login", d.Auth.Login)
    e.POST("/logout", d.Auth.Logout)
    e.POST("/users", d.Users.Create)

    // route level so that unknown paths still answer 404
    jwt := middleware.JWTAuth(d.JWT)
    e.GET("/me", d.Auth.Me, jwt)

    e.GET("/users", d.Users.List, jwt)
    e.GET("/users/:email", d.Users.Get, jwt)
    e.PUT("/users/:email", d.Users.Update, jwt)
    e.PATCH("/users/:email", d.Users.Update, jwt)
    e.DELETE("/users/:email", d.Users.Delete, jwt)

    e.GET("/reservations", d.Reservations.ListAll, jwt)

    // Reads of a catway are cached; any successful write below /catways,
    // reservations included, drops the cache.
    catways := e.Group("/catways", jwt, middleware.InvalidateCache(d.Cache, d.Redis, d.Log))
    cached := middleware.Cache(d.Cache, d.Redis, d.Log)
    catways.GET("", d.Catways.List, cached)
    catways.POST("", d.Catways.Create)
    catways.GET("/:id", d.Catways.Get, cached)
    catways.PUT("/:id", d.Catways.Update)
    catways.PATCH("/:id", d.Catways.Update)
    catways.DELETE("/:id", d.Catways.Delete)

    catways.GET("/:id/reservations", d.Reservations.List)
    catways.POST("/:id/reservations", d.Reservations.Create)
    catways.GET("/:id/reservations/:idReservation", d.Reservations.Get)
    catways.PUT("/:id/reservations", d.Reservations.Update)
    catways.PUT("/:id/reservations/:idReservation", d.Reservations.Update)
    catways.DELETE("/:id/reservations/:idReservation", d.Reservations.Delete)
}

// errorHandler renders echo errors (unknown routes, wrong methods, panics)
// in the API error shape.
func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
    return func(err error, c echo.Context) {
        if c.Response().Committed {
            return
        }
        code := http.StatusInternalServerError
        msg := "Internal error."
        if he, ok := err.(*echo.HTTPError); ok {
            code = he.Code
            if s, ok := he.Message.(string); ok {
                msg = s
            } else {
                msg = http.StatusText(code)
            }
        } else if log != nil {
            log.Error("unhandled error", zap.Error(err))
        }
        kind := apperr.StoreFailure
        switch code {
        case http.StatusNotFound:
            kind = apperr.NotFound
        case http.StatusMethodNotAllowed, http.StatusBadRequest, http.StatusRequestEntityTooLarge:
            kind = apperr.BadInput
        case http.StatusUnauthorized:
            kind = apperr.Unauthorized
        }
        if c.Request().Method == http.MethodHead {
            _ = c.NoContent(code)
            return
        }
        _ = c.JSON(code, echo.Map{"error": kind, "message": msg})
    }
}
