package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.base)
	assert.NotNil(t, logger.sugar)
}

func TestLogger_Levels(t *testing.T) {
	logger := New()

	// None of the level helpers should panic
	logger.Info("Test message: %s", "info")
	logger.Warn("Test warning: %s", "warning")
	logger.Error("Test error: %s", "error")
	logger.Debug("Test debug: %d", 1)
}

func TestLogger_Formatting(t *testing.T) {
	logger := New()

	logger.Info("User %s logged in with ID %d", "john", 123)
	logger.Error("Failed to process request %d: %s", 404, "not found")
	logger.Warn("Warning: %s count is %d", "items", 5)
}

func TestLogger_With(t *testing.T) {
	logger := New().With("service", "auth")
	assert.NotNil(t, logger.sugar)
	assert.NotNil(t, logger.Zap())
	logger.Info("scoped message")
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "logs.log")

	logger := NewWithFile(path)
	logger.Info("written to %s", "file")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestNewWithFile_EmptyPath(t *testing.T) {
	logger := NewWithFile("")
	assert.NotNil(t, logger.sugar)
}
