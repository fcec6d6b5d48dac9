package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moviecrate/moviecrate/internal/api"
	"github.com/moviecrate/moviecrate/internal/auth"
	"github.com/moviecrate/moviecrate/internal/catalog"
	"github.com/moviecrate/moviecrate/internal/config"
	"github.com/moviecrate/moviecrate/internal/counter"
	"github.com/moviecrate/moviecrate/internal/db"
	"github.com/moviecrate/moviecrate/internal/logger"
	"github.com/moviecrate/moviecrate/internal/repository"
	"github.com/moviecrate/moviecrate/internal/scheduler"
	"github.com/moviecrate/moviecrate/internal/version"
)

func main() {
	log := logger.New("moviecrate")
	ver := version.Load()
	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if err := db.Migrate(database, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token manager")
	}

	userRepo := repository.NewUserRepository(database.DB)
	movieRepo := repository.NewMovieRepository(database.DB)
	collectionRepo := repository.NewCollectionRepository(database.DB)

	cat := catalog.NewClient(cfg.CatalogURL, cfg.CatalogUsername, cfg.CatalogPassword)
	shared := counter.NewShared(rdb)

	server := api.NewServer(cfg, log, ver.Version, tokens, userRepo, collectionRepo, cat, shared)

	stats := scheduler.NewStatsReporter(userRepo, collectionRepo, movieRepo, log)
	if err := stats.Start(cfg.StatsSchedule); err != nil {
		log.Fatal().Err(err).Msg("failed to start stats reporter")
	}
	defer stats.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("version", ver.Version).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
