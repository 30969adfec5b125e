package cmd

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/gesturebridge/internal/bridge"
	"github.com/bnema/gesturebridge/internal/config"
	"github.com/bnema/gesturebridge/internal/emit"
	"github.com/bnema/gesturebridge/internal/event"
	"github.com/bnema/gesturebridge/internal/feed"
	"github.com/bnema/gesturebridge/internal/surface"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, root *cobra.Command, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
	configPath = ""

	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

func TestConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gesturebridge.toml")

	out, err := executeCommand(t, rootCmd, "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, path)
}

func TestConfigShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gesturebridge.toml")

	out, err := executeCommand(t, rootCmd, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "ws://127.0.0.1:8765/touch")
	assert.Contains(t, out, "127.0.0.1:7770")
	assert.Contains(t, out, "uinput")
}

func TestVersion(t *testing.T) {
	out, err := executeCommand(t, rootCmd, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gesturebridge "+Version)
}

func TestStatus_NotRunning(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	path := filepath.Join(t.TempDir(), "gesturebridge.toml")

	out, err := executeCommand(t, rootCmd, "--config", path, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "not running")
}

func TestNewSink(t *testing.T) {
	cfg := config.DefaultConfig
	size := surface.Size{Width: 100, Height: 100}

	cfg.Output.Backend = config.BackendLog
	sink, err := newSink(&cfg, size)
	require.NoError(t, err)
	assert.IsType(t, &emit.LogSink{}, sink)

	cfg.Output.Backend = config.BackendUinput
	cfg.Output.UinputPath = filepath.Join(t.TempDir(), "uinput")
	_, err = newSink(&cfg, size)
	assert.ErrorIs(t, err, emit.ErrDeviceUnavailable)

	cfg.Output.Backend = "x11"
	_, err = newSink(&cfg, size)
	assert.ErrorIs(t, err, config.ErrInvalidBackend)
}

func TestBuildStatus(t *testing.T) {
	cfg := config.DefaultConfig
	cfg.Output.Backend = config.BackendLog

	pipeline := bridge.New(surface.Size{Width: cfg.Surface.Width, Height: cfg.Surface.Height}, emit.NewEmitter(&emit.Recorder{}, "surface"))
	pipeline.HandleMouse(int(event.MouseMoved), 0.5, 0.5, 0)
	pipeline.HandleTouchBatch([]event.Descriptor{event.NewTouch("touchstart", 0.1, 0.1, nil)})
	pipeline.HandleTouchBatch([]event.Descriptor{event.NewTouch("touchwiggle", 0.1, 0.1, nil)})

	manager := newFeedManager(&cfg, pipeline)
	defer manager.Close()

	s := buildStatus(&cfg, time.Now().Add(-time.Minute), pipeline, manager)
	assert.True(t, s.FeedEnabled)
	assert.Equal(t, feed.Disconnected.String(), s.FeedState)
	assert.Equal(t, cfg.Feed.URL, s.FeedURL)
	assert.Equal(t, int64(1), s.MouseEvents)
	assert.Equal(t, int64(2), s.TouchEvents)
	assert.Equal(t, int64(1), s.Dropped)
	assert.Equal(t, int64(2), s.Emitted)
	assert.Equal(t, int64(1), s.ActiveContacts)
	assert.GreaterOrEqual(t, s.Uptime, time.Minute)

	s = buildStatus(&cfg, time.Now(), pipeline, nil)
	assert.False(t, s.FeedEnabled)
	assert.Empty(t, s.FeedState)
}
