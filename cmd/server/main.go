package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oggyb/matchmaker/internal/app"
	"github.com/oggyb/matchmaker/internal/cache"
	"github.com/oggyb/matchmaker/internal/config"
	"github.com/oggyb/matchmaker/internal/db"
	"github.com/oggyb/matchmaker/internal/logger"
	"github.com/oggyb/matchmaker/internal/server"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewRouter(cfg, appCtx),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting HTTP server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server failed", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("server stopped")
}
