package common

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("loud")
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func withLogger(t *testing.T, format string, level slog.Level) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	handler, err := NewHandler(&buf, level, format)
	require.NoError(t, err)

	prev := slog.Default()
	slog.SetDefault(slog.New(handler))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogHelpersJSON(t *testing.T) {
	buf := withLogger(t, "json", slog.LevelInfo)

	LogInfo("Cleaned records", Fields{"rows_out": 4, "dropped": 2})
	LogDebug("hidden", Fields{"x": 1})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug is below the configured level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Cleaned records", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.EqualValues(t, 4, entry["rows_out"])
	assert.EqualValues(t, 2, entry["dropped"])
}

func TestLogHelpersConsoleOrdersFields(t *testing.T) {
	buf := withLogger(t, "console", slog.LevelDebug)

	LogWarn("Records could not be scored", Fields{"policy": "skip", "count": 2})
	LogError(ErrUnresolvedInput, "Stage failed", Fields{"stage": "derive"})

	out := buf.String()
	assert.Contains(t, out, `msg="Records could not be scored" count=2 policy=skip`)
	assert.Contains(t, out, `error="unresolved input" stage=derive`)
}

func TestNewHandlerRejectsUnknownFormat(t *testing.T) {
	_, err := NewHandler(&bytes.Buffer{}, slog.LevelInfo, "xml")
	require.ErrorIs(t, err, ErrInvalidConfig)
}
