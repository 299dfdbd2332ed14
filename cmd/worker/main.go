package main

// The worker drains the reservation event queue into the reservations log
// and periodically purges expired entries of the logout blacklist.

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/config"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/database"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/queue"
	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/repository"
)

// Purger deletes expired revocations.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("mysql unavailable", zap.Error(err))
	}
	defer db.Close()
	go purgeLoop(ctx, repository.NewTokenRepo(db), time.Hour, logger)

	consumer := queue.NewConsumer(cfg.RabbitURL, "", logger)
	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("consumer stopped", zap.Error(err))
	}
	logger.Info("worker stopped")
}

func purgeLoop(ctx context.Context, p Purger, every time.Duration, logger *zap.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		pctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		n, err := p.PurgeExpired(pctx)
		cancel()
		switch {
		case err != nil && ctx.Err() == nil:
			logger.Warn("revoked token purge failed", zap.Error(err))
		case n > 0:
			logger.Info("revoked tokens purged", zap.Int64("count", n))
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
