package config

import (
	"os"
	"time"

	"github.com/spf13/cast"
)

type Config struct {
	Port            int
	DatabaseURL     string
	RedisAddr       string
	RedisPassword   string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	CatalogURL      string
	CatalogUsername string
	CatalogPassword string
	StatsSchedule   string
	AuthRatePerSec  int
	AuthRateBurst   int
}

func Load() *Config {
	return &Config{
		Port:            envInt("PORT", 8080),
		DatabaseURL:     env("DATABASE_URL", "postgres://moviecrate:moviecrate@db:5432/moviecrate?sslmode=disable"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   env("REDIS_PASSWORD", ""),
		JWTSecret:       env("JWT_SECRET", "change-me-in-production"),
		AccessTokenTTL:  envDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: envDuration("REFRESH_TOKEN_TTL", 24*time.Hour),
		CatalogURL:      env("MOVIE_API_URL", "https://demo.credy.in/api/v1/maya/movies/"),
		CatalogUsername: env("MOVIE_API_USERNAME", ""),
		CatalogPassword: env("MOVIE_API_PASSWORD", ""),
		StatsSchedule:   env("STATS_SCHEDULE", "@hourly"),
		AuthRatePerSec:  envInt("AUTH_RATE_PER_SEC", 1),
		AuthRateBurst:   envInt("AUTH_RATE_BURST", 10),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := cast.ToIntE(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := cast.ToDurationE(v); err == nil {
			return d
		}
	}
	return fallback
}
