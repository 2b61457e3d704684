package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		ENV string
	}

	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	DB struct {
		DSN      string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	HTTP struct {
		Host           string
		Port           string
		AllowedOrigins []string
	}

	Worker struct {
		BatchSize     int
		CandidateCap  int
		CallTimeoutMs int
		MaxAttempts   int
	}
}

func New() *Config {
	// .env is optional; real deployments rely on actual env vars
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.App.ENV = getEnvDefault("APP_ENV", "development")

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "recompute_server")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.DSN = os.Getenv("MYSQL_DSN")
	if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
		cfg.DB.User = getEnvDefault("DB_USER", "root")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
		cfg.DB.Name = getEnvDefault("DB_NAME", "matchmaker")

		cfg.DB.DSN = fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
		)
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	if dbStr := getEnvDefault("REDIS_DB", "0"); dbStr != "" {
		if dbInt, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = dbInt
		}
	}

	// HTTP
	cfg.HTTP.Host = getEnvDefault("HTTP_HOST", "0.0.0.0")
	cfg.HTTP.Port = getEnvDefault("HTTP_PORT", "8080")
	for _, o := range strings.Split(getEnvDefault("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.HTTP.AllowedOrigins = append(cfg.HTTP.AllowedOrigins, o)
		}
	}

	// Worker defaults; the recompute endpoint may override batch size,
	// candidate cap and per-call timeout within their clamping ranges.
	cfg.Worker.BatchSize = getEnvInt("WORKER_BATCH_SIZE", 10)
	cfg.Worker.CandidateCap = getEnvInt("WORKER_CANDIDATE_CAP", 200)
	cfg.Worker.CallTimeoutMs = getEnvInt("WORKER_CALL_TIMEOUT_MS", 10000)
	cfg.Worker.MaxAttempts = getEnvInt("WORKER_MAX_ATTEMPTS", 8)

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
