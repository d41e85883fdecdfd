package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func TestLogErrorIncludesErrorAndFields(t *testing.T) {
	buf := captureLogs(t)

	LogError(errors.New("boom"), "Failed to convert session", Fields{"session_id": "abc"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "Failed to convert session", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "abc", entry["session_id"])
}

func TestLogInfoIncludesFields(t *testing.T) {
	buf := captureLogs(t)

	LogInfo("Session migration finished", Fields{"migrated": 3})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "Session migration finished", entry["msg"])
	assert.Equal(t, float64(3), entry["migrated"])
}

func TestSetupLoggerLevels(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	require.NoError(t, SetupLogger(slog.LevelDebug, "json"))
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	require.NoError(t, SetupLogger(slog.LevelWarn, "console"))
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelInfo))
}
