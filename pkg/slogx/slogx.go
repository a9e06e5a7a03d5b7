package slogx

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Service string
	Version string
	Env     string // e.g. "dev", "prod"
	Level   string // e.g. "debug", "info", "warn", "error"
	Format  string // e.g. "json", "text"
}

// Credential material must never reach the log stream, whatever a caller
// passes as an attribute. Matched against the attr key, case-insensitive.
var redactedKeys = []string{
	"password",
	"secret",
	"token",
	"code",
}

// New returns a configured slog.Logger for the identity service and installs
// it as the process default. Attributes carrying credential material are
// redacted at the handler.
func New(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource:   cfg.Env == "dev",
		Level:       parseLevel(cfg.Level),
		ReplaceAttr: redactSecrets,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With(
		"service", cfg.Service,
		"version", cfg.Version,
		"env", cfg.Env,
	)

	slog.SetDefault(logger)
	return logger
}

func redactSecrets(groups []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	for _, needle := range redactedKeys {
		if strings.Contains(key, needle) {
			a.Value = slog.StringValue("[REDACTED]")
			return a
		}
	}
	return a
}

// parseLevel maps a string to slog.Level.
func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
