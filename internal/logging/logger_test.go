package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewDefaultsOutputToStderr(t *testing.T) {
	logger, err := New(Config{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestWithSessionAddsField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := &Logger{Logger: zap.New(core)}

	logger.WithSession("run_01").Info("spawned")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "run_01", entries[0].ContextMap()["session_id"])
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil).Logger)

	logger := NewNop()
	assert.Same(t, logger, OrNop(logger))
}

func TestNewWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runner.log")
	logger, err := New(Config{Level: "info", OutputPaths: []string{path}})
	require.NoError(t, err)

	logger.WithSession("run_02").Info("Session spawned", zap.Int("pid", 42))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, sonic.Unmarshal(data, &entry))
	assert.Equal(t, "Session spawned", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "run_02", entry["session_id"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewDevelopmentWritesConsoleLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runner.log")
	logger, err := New(Config{Level: "debug", Development: true, OutputPaths: []string{path}})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger.Debug("Output received")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Output received")
	assert.NotContains(t, string(data), `"message"`)
}
