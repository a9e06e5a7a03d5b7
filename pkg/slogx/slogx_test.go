package slogx

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedactSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: redactSecrets,
	}))

	logger.Info("login failed",
		slog.String("user_id", "01ABC"),
		slog.String("password", "hunter2"),
		slog.String("refresh_token", "eyJhbGciOi..."),
		slog.String("mfa_code", "123456"),
	)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	require.Equal(t, "01ABC", line["user_id"])
	require.Equal(t, "[REDACTED]", line["password"])
	require.Equal(t, "[REDACTED]", line["refresh_token"])
	require.Equal(t, "[REDACTED]", line["mfa_code"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"Warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, parseLevel(tt.input), "level %q", tt.input)
	}
}
