// Package config loads application configuration from the environment.
// File: config/config.go
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"go-field-ops/logger"
)

// Config holds every runtime setting the server needs. Values come from the
// environment, with a .env file loaded first when present.
type Config struct {
	Env        string
	ListenAddr string

	DatabasePath string
	UploadDir    string

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Base URL used when rendering QR code deep links.
	ApplicationURL string

	// Optional CloudWatch metrics namespace; metrics are skipped when empty.
	MetricsNamespace string
}

// Load reads configuration from the environment. A missing .env file is not
// an error; missing JWT_SECRET falls back to a development-only default.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug.Println("config: no .env file found, relying on environment")
	}

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		DatabasePath:     getEnv("DATABASE_PATH", "app.db"),
		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		AccessTTL:        getDuration("ACCESS_TOKEN_TTL", 50*time.Minute),
		RefreshTTL:       getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		ApplicationURL:   getEnv("APPLICATION_URL", "http://localhost:8080"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", ""),
	}

	if cfg.JWTSecret == "" {
		logger.Warn.Println("config: JWT_SECRET not set, using insecure development default")
		cfg.JWTSecret = "dev-only-jwt-secret"
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn.Printf("config: invalid duration %q for %s, using default %s", v, key, fallback)
		return fallback
	}
	return d
}
