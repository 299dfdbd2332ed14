package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/config"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/database"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/handler"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/lock"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/middleware"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/period"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/queue"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/repository"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/router"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/service"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/validation"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("mysql unavailable", zap.Error(err))
	}
	defer db.Close()
	if cfg.Migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			logger.Fatal("schema migration failed", zap.Error(err))
		}
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable
	if rdb == nil {
		logger.Warn("redis unavailable, cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	locker, err := newLocker(cfg, db, rdb)
	if err != nil {
		logger.Fatal("lock backend", zap.Error(err))
	}

	var events service.EventPublisher
	if cfg.EventsEnabled {
		events = queue.NewPublisher(cfg.RabbitURL, logger)
	}

	catwayRepo := repository.NewCatwayRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	registry := validation.NewRegistry()
	users := service.NewUserService(userRepo, cfg.BcryptCost, logger)
	catways := service.NewCatwayService(catwayRepo, logger)
	reservations := service.NewReservationService(catwayRepo, reservationRepo,
		period.NewNormalizer(period.SystemClock), locker, events, logger)

	e := router.New(router.Deps{
		Log:       logger,
		Registry:  registry,
		JWT:       middleware.JWTConfig{Secret: cfg.JWTSecret, TTL: cfg.TokenTTL, Revoked: tokenRepo, Log: logger},
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Health:    db,
		Auth: handler.NewAuthHandler(users, tokenRepo, registry, handler.AuthSettings{
			Secret:       cfg.JWTSecret,
			TTL:          cfg.TokenTTL,
			CookieSecure: cfg.CookieSecure,
		}),
		Users:        handler.NewUserHandler(users, registry),
		Catways:      handler.NewCatwayHandler(catways, registry),
		Reservations: handler.NewReservationHandler(reservations, registry),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("lock", cfg.LockBackend))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newLocker selects the per-catway lock backend.
func newLocker(cfg config.Config, db *sql.DB, rdb *redis.Client) (lock.Locker, error) {
	switch cfg.LockBackend {
	case config.LockMySQL:
		return lock.NewMySQLLocker(db, cfg.LockPrefix, cfg.LockTimeout), nil
	case config.LockRedis:
		if rdb == nil {
			return nil, errors.New("LOCK_BACKEND=redis but redis is unreachable")
		}
		return lock.NewRedisLocker(rdb, cfg.LockPrefix, cfg.LockLease, cfg.LockTimeout), nil
	}
	return lock.NewMemoryLocker(cfg.LockTimeout), nil
}
