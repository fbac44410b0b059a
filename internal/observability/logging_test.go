package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/game7/internal/config"
)

func bufferedLogger(t *testing.T, cfg config.LoggingConfig) (*zap.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := newLogger(cfg, "game7d", zapcore.AddSync(&buf))
	require.NoError(t, err)
	return logger, &buf
}

func TestNewLogger_JSONCarriesServiceAndISOTime(t *testing.T) {
	logger, buf := bufferedLogger(t, config.LoggingConfig{Level: "info", Format: "json"})
	logger.Info("character defeated", zap.String("character", "A1"), zap.Duration("revive_in", 45*time.Second))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "game7d", entry["service"])
	assert.Equal(t, "character defeated", entry["msg"])
	assert.Equal(t, "A1", entry["character"])
	assert.Equal(t, "45s", entry["revive_in"])
	ts, ok := entry["ts"].(string)
	require.True(t, ok, "ts should be an ISO8601 string")
	_, err := time.Parse("2006-01-02T15:04:05.000Z0700", ts)
	assert.NoError(t, err)
}

func TestNewLogger_FiltersBelowLevel(t *testing.T) {
	logger, buf := bufferedLogger(t, config.LoggingConfig{Level: "warn", Format: "json"})
	logger.Info("dropped")
	logger.Warn("kept")
	require.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"msg":"kept"`)
}

func TestNewLogger_Console(t *testing.T) {
	logger, buf := bufferedLogger(t, config.LoggingConfig{Level: "debug", Format: "console"})
	logger.Debug("tick loop started")
	require.NoError(t, logger.Sync())
	assert.Contains(t, buf.String(), "tick loop started")
	assert.Contains(t, buf.String(), "game7d")
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "trace", Format: "json"}, "game7d")
	assert.Error(t, err)
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "info", Format: "xml"}, "game7d")
	assert.Error(t, err)
}

func TestNewLogger_AllLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := NewLogger(config.LoggingConfig{Level: level, Format: "json"}, "migrate")
		require.NoError(t, err, "level %q should be valid", level)
		assert.NotNil(t, logger)
	}
}
