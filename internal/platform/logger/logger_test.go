package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DualOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	log := New(Options{
		Env:          "prod",
		ConsoleLevel: "info",
		FileLevel:    "debug",
		File:         logFile,
		App:          "test-app",
	})

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")

	require.NoError(t, Close(log))

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	// File level is debug, so every message lands in the file.
	fileContent := string(content)
	assert.Contains(t, fileContent, "debug message")
	assert.Contains(t, fileContent, "info message")
	assert.Contains(t, fileContent, "warn message")
	assert.Contains(t, fileContent, "test-app")
}

func TestNew_ConsoleOnly(t *testing.T) {
	log := New(Options{Env: "dev", ConsoleLevel: "debug", App: "test-app"})
	log.Info("console only")

	// No file handler registered, Close is a no-op.
	require.NoError(t, Close(log))
}

func TestClose_Idempotent(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")
	log := New(Options{Env: "prod", ConsoleLevel: "info", FileLevel: "info", File: logFile})

	require.NoError(t, Close(log))
	require.NoError(t, Close(log))
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"WARN", "WARN"},
		{"error", "ERROR"},
		{"unknown", "INFO"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, strings.ToUpper(levelFromString(tt.in).String()), "input %q", tt.in)
	}
}
