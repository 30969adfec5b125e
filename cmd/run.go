package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bnema/gesturebridge/internal/bridge"
	"github.com/bnema/gesturebridge/internal/config"
	"github.com/bnema/gesturebridge/internal/device"
	"github.com/bnema/gesturebridge/internal/display"
	"github.com/bnema/gesturebridge/internal/emit"
	"github.com/bnema/gesturebridge/internal/feed"
	"github.com/bnema/gesturebridge/internal/ipc"
	"github.com/bnema/gesturebridge/internal/logger"
	"github.com/bnema/gesturebridge/internal/surface"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	runNoTouch bool
	runNoMouse bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the input bridge",
	Long: `Run the input bridge. The touch feed is connected in the background and
checked every health interval; the mouse device is polled on the main thread
until SIGINT or SIGTERM.`,
	RunE: runBridge,
}

func init() {
	runCmd.Flags().BoolVar(&runNoTouch, "no-touch", false, "Disable the touch feed")
	runCmd.Flags().BoolVar(&runNoMouse, "no-mouse", false, "Disable the mouse device")
	runCmd.Flags().String("url", "", "Touch feed websocket URL")
	runCmd.Flags().Float64("width", 0, "Target surface width")
	runCmd.Flags().Float64("height", 0, "Target surface height")
	runCmd.Flags().String("backend", "", "Output backend (uinput or log)")
	runCmd.Flags().Bool("detect-surface", false, "Take the surface size from the primary monitor")

	// Bind flags to viper
	_ = viper.BindPFlag("feed.url", runCmd.Flags().Lookup("url"))
	_ = viper.BindPFlag("surface.width", runCmd.Flags().Lookup("width"))
	_ = viper.BindPFlag("surface.height", runCmd.Flags().Lookup("height"))
	_ = viper.BindPFlag("output.backend", runCmd.Flags().Lookup("backend"))
	_ = viper.BindPFlag("surface.detect", runCmd.Flags().Lookup("detect-surface"))

	rootCmd.AddCommand(runCmd)
}

func runBridge(cmd *cobra.Command, args []string) error {
	cfg := *config.Get()
	if runNoTouch {
		cfg.Feed.Enabled = false
	}
	if runNoMouse {
		cfg.Device.Enabled = false
	}
	if !cfg.Feed.Enabled && !cfg.Device.Enabled {
		return errors.New("both the touch feed and the mouse device are disabled")
	}

	if cfg.Logging.FileLogging {
		logFile, err := logger.SetupFileLogging("run")
		if err != nil {
			logger.Warnf("File logging unavailable: %v", err)
		} else {
			defer func() { _ = logFile.Close() }()
		}
	}

	if cfg.Surface.Detect {
		detectSurface(cmd.Context(), &cfg)
	}
	size := surface.Size{Width: cfg.Surface.Width, Height: cfg.Surface.Height}

	sink, err := newSink(&cfg, size)
	if err != nil {
		return err
	}
	emitter := emit.NewEmitter(sink, cfg.Surface.Target)
	defer func() {
		if err := emitter.Close(); err != nil {
			logger.Warnf("Failed to close sink: %v", err)
		}
	}()

	pipeline := bridge.New(size, emitter)
	logger.Infof("Bridging onto %s (%gx%g) via %s", cfg.Surface.Target, size.Width, size.Height, cfg.Output.Backend)

	// Cancelled on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var manager *feed.Manager
	if cfg.Feed.Enabled {
		manager = newFeedManager(&cfg, pipeline)
	}

	var loop *device.PollLoop
	if cfg.Device.Enabled {
		lib := device.NewUDPLibrary(cfg.Device.Listen, cfg.Device.PollTimeout)
		loop = device.NewPollLoop(lib, cfg.Device.Name, func(ev device.RawEvent) {
			pipeline.HandleMouse(ev.Type, ev.X, ev.Y, ev.ClickCount)
		})
	}

	started := time.Now()
	statusServer := ipc.NewSocketServer(ipc.StatusFunc(func() ipc.Status {
		return buildStatus(&cfg, started, pipeline, manager)
	}))
	if err := statusServer.Start(); err != nil {
		logger.Warnf("Status socket unavailable: %v", err)
	} else {
		defer statusServer.Stop()
	}

	var wg sync.WaitGroup
	if manager != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := manager.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("Touch feed stopped: %v", err)
			}
		}()
	}

	var runErr error
	if loop != nil {
		go func() {
			<-ctx.Done()
			loop.Stop()
		}()
		// The device is polled on the main goroutine
		if err := loop.Run(); err != nil {
			runErr = fmt.Errorf("mouse device: %w", err)
		}
		cancel()
	} else {
		<-ctx.Done()
	}

	logger.Info("Shutting down")
	wg.Wait()
	return runErr
}

// detectSurface replaces the configured surface size with the primary
// monitor's. The configured size is kept when detection fails.
func detectSurface(ctx context.Context, cfg *config.Config) {
	backend, err := display.NewWlrRandr()
	if err != nil {
		logger.Warnf("Surface detection unavailable, using %gx%g: %v", cfg.Surface.Width, cfg.Surface.Height, err)
		return
	}

	size, err := display.DetectSurface(ctx, backend)
	if err != nil {
		logger.Warnf("Surface detection failed, using %gx%g: %v", cfg.Surface.Width, cfg.Surface.Height, err)
		return
	}
	cfg.Surface.Width, cfg.Surface.Height = size.Width, size.Height
}

func newSink(cfg *config.Config, size surface.Size) (emit.Sink, error) {
	switch cfg.Output.Backend {
	case config.BackendLog:
		return emit.NewLogSink(), nil
	case config.BackendUinput:
		sink, err := emit.NewUinputSink(cfg.Output.UinputPath, cfg.Surface.Target, size, cfg.Output.MaxContacts)
		if err != nil {
			return nil, fmt.Errorf("failed to create uinput sink: %w", err)
		}
		return sink, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidBackend, cfg.Output.Backend)
	}
}

func newFeedManager(cfg *config.Config, pipeline *bridge.Pipeline) *feed.Manager {
	manager := feed.NewManager(feed.Options{
		URL:              cfg.Feed.URL,
		Handshake:        cfg.Feed.Handshake,
		HealthInterval:   cfg.Feed.HealthInterval,
		PingInterval:     cfg.Feed.PingInterval,
		HandshakeTimeout: cfg.Feed.HandshakeTimeout,
	}, pipeline.HandleTouchBatch)

	manager.OnStateChange(func(s feed.State) {
		logger.Debug("[FEED] state changed", "state", s)
		if s == feed.Disconnected {
			// No end event will arrive for contacts that were down
			pipeline.CancelContacts()
		}
	})
	return manager
}

func buildStatus(cfg *config.Config, started time.Time, pipeline *bridge.Pipeline, manager *feed.Manager) ipc.Status {
	stats := pipeline.Stats()

	s := ipc.Status{
		FeedEnabled:    manager != nil,
		DeviceEnabled:  cfg.Device.Enabled,
		DeviceListen:   cfg.Device.Listen,
		Backend:        cfg.Output.Backend,
		Width:          cfg.Surface.Width,
		Height:         cfg.Surface.Height,
		Uptime:         time.Since(started),
		ActiveContacts: int64(stats.ActiveContacts),
		MouseEvents:    stats.Mouse,
		TouchEvents:    stats.Touch,
		Dropped:        stats.Dropped(),
		Emitted:        stats.Emitted.Pointer + stats.Emitted.Scroll + stats.Emitted.Touch,
		EmitFailed:     stats.Emitted.Failed,
	}

	if manager != nil {
		counters := manager.Counters()
		s.FeedState = manager.State().String()
		s.FeedURL = manager.URL()
		s.FeedAttempts = counters.Attempts
		s.FeedDrops = counters.Drops
		s.FeedMalformed = counters.Malformed
	}
	return s
}
