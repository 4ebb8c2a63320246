package infrastructure

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/internal/config"
)

func initTestLogger(t *testing.T, cfg config.LoggingConfig) string {
	t.Helper()

	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	if cfg.FilePath == "" {
		cfg.FilePath = filepath.Join(t.TempDir(), "test.log")
	}
	_, err := InitializeLogger(cfg)
	require.NoError(t, err)
	return cfg.FilePath
}

func lastLogEntry(t *testing.T, path string) map[string]interface{} {
	t.Helper()

	require.NoError(t, CloseLogFile())
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestInitializeLogger_WritesJSONToFile(t *testing.T) {
	path := initTestLogger(t, config.LoggingConfig{Level: "info", Format: "json", Output: "file"})

	GetLogger().Info("startup complete", "port", "8080")

	entry := lastLogEntry(t, path)
	assert.Equal(t, "startup complete", entry["msg"])
	assert.Equal(t, "8080", entry["port"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestInitializeLogger_OnlyFirstCallWins(t *testing.T) {
	initTestLogger(t, config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"})

	first := GetLogger()
	again, err := InitializeLogger(config.LoggingConfig{Level: "debug", Format: "text", Output: "stdout"})
	require.NoError(t, err)
	assert.Same(t, first, again)
}

func TestTraceIDInjection(t *testing.T) {
	path := initTestLogger(t, config.LoggingConfig{Level: "debug", Format: "json", Output: "file"})

	ctx := WithTraceID(context.Background(), "trace-123")
	GetLogger().InfoContext(ctx, "fetching sheet")

	entry := lastLogEntry(t, path)
	assert.Equal(t, "trace-123", entry["trace_id"])
}

func TestLoggerFromContext(t *testing.T) {
	path := initTestLogger(t, config.LoggingConfig{Level: "info", Format: "json", Output: "file"})

	ctx := WithTraceID(context.Background(), "trace-456")
	LoggerFromContext(ctx).Info("dataset built")

	entry := lastLogEntry(t, path)
	assert.Equal(t, "trace-456", entry["trace_id"])
}

func TestGetTraceID(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Equal(t, "abc", GetTraceID(WithTraceID(context.Background(), "abc")))

	// The middleware's string request-id key works as a fallback.
	ctx := context.WithValue(context.Background(), "request-id", "req-1") //nolint:staticcheck
	assert.Equal(t, "req-1", GetTraceID(ctx))
}

func TestLogLevelFiltering(t *testing.T) {
	path := initTestLogger(t, config.LoggingConfig{Level: "warn", Format: "json", Output: "file"})

	logger := GetLogger()
	logger.Info("should be filtered")
	logger.Warn("sheet column fallback")

	entry := lastLogEntry(t, path)
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "sheet column fallback", entry["msg"])
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"bogus", "INFO"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levelFor(tt.in).String(), tt.in)
	}
}
