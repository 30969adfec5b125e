package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel("")

	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		" INFO ":  log.InfoLevel,
		"warning": log.WarnLevel,
		"ERROR":   log.ErrorLevel,
		"fatal":   log.FatalLevel,
		"verbose": log.InfoLevel,
		"":        log.InfoLevel,
	}
	for name, want := range tests {
		SetLevel(name)
		assert.Equal(t, want, Logger.GetLevel(), name)
	}
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetLevel("WARN")
	defer SetLevel("")

	Info("hidden")
	Warn("[FEED] dropped", "attempt", 2)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[FEED] dropped")
	assert.Contains(t, buf.String(), "attempt=2")
}

func TestSetupFileLogging(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	defer SetOutput(os.Stderr)
	defer Logger.SetPrefix("")

	f, err := SetupFileLogging("Run")
	require.NoError(t, err)

	Warnf("written to %s", "file")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(filepath.Join(home, ".local", "share", "gesturebridge", "run.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
