package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/ledgerline/backoffice/pkg/jwtx"
)

type Config struct {
	Issuer         string // Issuer claim for tokens
	AccessSecret   string // Required: HS256 secret for access tokens
	RefreshSecret  string // Required: HS256 secret for refresh tokens, independent of AccessSecret
	BootstrapToken string // Optional: token required to perform bootstrap

	AccessTTL  time.Duration // Access token lifetime (default: 24h)
	RefreshTTL time.Duration // Refresh token lifetime (default: 7d)

	DatabaseFile string // Path to SQLite database file (default: ./backoffice.db)
	PepperFile   string // Path to password-hashing pepper file (default: ./pepper)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

var errMissingSecrets = errors.New("BACKOFFICE_ACCESS_SECRET and BACKOFFICE_REFRESH_SECRET must be set and differ")

func LoadConfig() (Config, error) {
	cfg := Config{
		Issuer:         getEnvOrDefault("BACKOFFICE_ISSUER", "backoffice"),
		AccessSecret:   os.Getenv("BACKOFFICE_ACCESS_SECRET"),
		RefreshSecret:  os.Getenv("BACKOFFICE_REFRESH_SECRET"),
		BootstrapToken: os.Getenv("BOOTSTRAP_TOKEN"),

		AccessTTL:  getEnvDurationOrDefault("BACKOFFICE_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL: getEnvDurationOrDefault("BACKOFFICE_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),

		DatabaseFile: getEnvOrDefault("BACKOFFICE_DATABASE_FILE", "backoffice.db"),
		PepperFile:   getEnvOrDefault("BACKOFFICE_PEPPER_FILE", "pepper"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	// Two independent secrets, so an access token can never verify as a
	// refresh token through a shared key.
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" || cfg.AccessSecret == cfg.RefreshSecret {
		return Config{}, errMissingSecrets
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
