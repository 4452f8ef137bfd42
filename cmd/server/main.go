// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/unolabs/uno-service/internal/auth"
	"github.com/unolabs/uno-service/internal/cache"
	"github.com/unolabs/uno-service/internal/database"
	"github.com/unolabs/uno-service/internal/game"
	"github.com/unolabs/uno-service/internal/handlers"
	"github.com/unolabs/uno-service/internal/middleware"
)

func main() {
	auth.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// Postgres is only needed for snapshots; the server still plays
	// in-memory games without it.
	var store game.SnapshotStore
	if os.Getenv("PG_HOST") != "" {
		database.ConnectDB()
		store = database.NewSnapshotStore(database.DB)
	} else {
		logger.Warn("PG_HOST not set, snapshot persistence disabled")
	}

	if err := cache.ConnectRedis(); err != nil {
		logger.WithError(err).Warn("redis unavailable, activity records stay in-memory only")
	}

	registry := game.NewRegistry()
	api := handlers.New(logger, registry, store)

	// Idle games get archived and dropped so the registry cannot grow
	// without bound.
	if store != nil {
		maxIdle := time.Duration(getEnvInt("GAME_EXPIRE_IDLE_SEC", 3600)) * time.Second
		sweep := time.Duration(getEnvInt("GAME_EXPIRE_SWEEP_SEC", 300)) * time.Second
		go func() {
			ticker := time.NewTicker(sweep)
			defer ticker.Stop()
			for range ticker.C {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if n := registry.ExpireIdle(ctx, store, maxIdle); n > 0 {
					logger.WithField("count", n).Info("archived idle games")
				}
				cancel()
			}
		}()
	}

	handler := middleware.LogMiddleware(logger)(api.Routes())

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
