package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"syriazone/internal/core/config"
)

func TestNew_WritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "api.log")
	l, cleanup := New(config.Log{Level: "debug", JSON: true, File: file, MaxSizeMB: 1})
	l.Info("hello file")
	cleanup()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello file")
	assert.Contains(t, string(b), `"level":"info"`)
}

func TestBuild_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, cleanup := Build(Options{Level: "loud"})
	defer cleanup()

	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestToStdLogger(t *testing.T) {
	file := filepath.Join(t.TempDir(), "std.log")
	l, cleanup := New(config.Log{Level: "info", JSON: true, File: file})
	ToStdLogger(l, zapcore.WarnLevel).Printf("slow query %d", 42)
	cleanup()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "slow query 42")
	assert.Contains(t, string(b), `"level":"warn"`)
}
