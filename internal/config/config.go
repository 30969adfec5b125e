// Package config handles configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Output backends
const (
	BackendUinput = "uinput"
	BackendLog    = "log"
)

var (
	// ErrInvalidSurface is returned when the target surface has a non-positive size
	ErrInvalidSurface = errors.New("surface width and height must be positive")
	// ErrInvalidBackend is returned for an unknown output backend
	ErrInvalidBackend = errors.New("unknown output backend")
	// ErrInvalidInterval is returned when the health check interval is not positive
	ErrInvalidInterval = errors.New("health check interval must be positive")
)

// Config represents the application configuration
type Config struct {
	Surface SurfaceConfig `mapstructure:"surface"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Device  DeviceConfig  `mapstructure:"device"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SurfaceConfig describes the target surface normalized coordinates are projected onto
type SurfaceConfig struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
	Target string  `mapstructure:"target"` // Element name touch events are dispatched to
	Detect bool    `mapstructure:"detect"` // Take width and height from the primary monitor
}

// FeedConfig contains the touch feed (websocket) settings
type FeedConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	URL              string        `mapstructure:"url"`
	Handshake        string        `mapstructure:"handshake"`
	HealthInterval   time.Duration `mapstructure:"health_interval"`
	PingInterval     time.Duration `mapstructure:"ping_interval"` // 0 disables websocket pings
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
}

// DeviceConfig contains the mouse device-mapping settings
type DeviceConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Name        string        `mapstructure:"name"`
	Listen      string        `mapstructure:"listen"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

// OutputConfig selects the OS input sink
type OutputConfig struct {
	Backend     string `mapstructure:"backend"`
	UinputPath  string `mapstructure:"uinput_path"`
	MaxContacts int    `mapstructure:"max_contacts"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	FileLogging bool   `mapstructure:"file_logging"`
	LogLevel    string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Surface: SurfaceConfig{
			Width:  1920,
			Height: 1080,
			Target: "surface",
			Detect: false,
		},
		Feed: FeedConfig{
			Enabled:          true,
			URL:              "ws://127.0.0.1:8765/touch",
			Handshake:        "touch connected.",
			HealthInterval:   30 * time.Second,
			PingInterval:     0,
			HandshakeTimeout: 10 * time.Second,
		},
		Device: DeviceConfig{
			Enabled:     true,
			Name:        "mouse",
			Listen:      "127.0.0.1:7770",
			PollTimeout: 100 * time.Millisecond,
		},
		Output: OutputConfig{
			Backend:     BackendUinput,
			UinputPath:  "/dev/uinput",
			MaxContacts: 1,
		},
		Logging: LoggingConfig{
			FileLogging: false,
			LogLevel:    "",
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("gesturebridge")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		viper.AddConfigPath("/etc/gesturebridge")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gesturebridge"))
		}
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("GESTUREBRIDGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(configPathOverride != "" && os.IsNotExist(err)) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	loaded := &Config{}
	if err := viper.Unmarshal(loaded); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = loaded
	return nil
}

func setDefaults() {
	viper.SetDefault("surface.width", DefaultConfig.Surface.Width)
	viper.SetDefault("surface.height", DefaultConfig.Surface.Height)
	viper.SetDefault("surface.target", DefaultConfig.Surface.Target)
	viper.SetDefault("surface.detect", DefaultConfig.Surface.Detect)

	viper.SetDefault("feed.enabled", DefaultConfig.Feed.Enabled)
	viper.SetDefault("feed.url", DefaultConfig.Feed.URL)
	viper.SetDefault("feed.handshake", DefaultConfig.Feed.Handshake)
	viper.SetDefault("feed.health_interval", DefaultConfig.Feed.HealthInterval)
	viper.SetDefault("feed.ping_interval", DefaultConfig.Feed.PingInterval)
	viper.SetDefault("feed.handshake_timeout", DefaultConfig.Feed.HandshakeTimeout)

	viper.SetDefault("device.enabled", DefaultConfig.Device.Enabled)
	viper.SetDefault("device.name", DefaultConfig.Device.Name)
	viper.SetDefault("device.listen", DefaultConfig.Device.Listen)
	viper.SetDefault("device.poll_timeout", DefaultConfig.Device.PollTimeout)

	viper.SetDefault("output.backend", DefaultConfig.Output.Backend)
	viper.SetDefault("output.uinput_path", DefaultConfig.Output.UinputPath)
	viper.SetDefault("output.max_contacts", DefaultConfig.Output.MaxContacts)

	viper.SetDefault("logging.file_logging", DefaultConfig.Logging.FileLogging)
	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)
}

// Validate checks the values the pipeline cannot run without
func (c *Config) Validate() error {
	if c.Surface.Width <= 0 || c.Surface.Height <= 0 {
		return fmt.Errorf("%w: got %gx%g", ErrInvalidSurface, c.Surface.Width, c.Surface.Height)
	}
	switch c.Output.Backend {
	case BackendUinput, BackendLog:
	default:
		return fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidBackend, c.Output.Backend, BackendUinput, BackendLog)
	}
	if c.Feed.Enabled && c.Feed.HealthInterval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, c.Feed.HealthInterval)
	}
	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		def := DefaultConfig
		return &def
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Save saves the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		if os.IsPermission(err) && strings.Contains(configPath, "/etc/") {
			return fmt.Errorf("failed to create config directory %s: permission denied. Try running with sudo", dir)
		}
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Update stores c as the current configuration and mirrors it into viper so Save persists it
func Update(c *Config) error {
	if err := c.Validate(); err != nil {
		return err
	}

	viper.Set("surface.width", c.Surface.Width)
	viper.Set("surface.height", c.Surface.Height)
	viper.Set("surface.target", c.Surface.Target)
	viper.Set("surface.detect", c.Surface.Detect)
	viper.Set("feed.enabled", c.Feed.Enabled)
	viper.Set("feed.url", c.Feed.URL)
	viper.Set("feed.handshake", c.Feed.Handshake)
	viper.Set("feed.health_interval", c.Feed.HealthInterval.String())
	viper.Set("feed.ping_interval", c.Feed.PingInterval.String())
	viper.Set("feed.handshake_timeout", c.Feed.HandshakeTimeout.String())
	viper.Set("device.enabled", c.Device.Enabled)
	viper.Set("device.name", c.Device.Name)
	viper.Set("device.listen", c.Device.Listen)
	viper.Set("device.poll_timeout", c.Device.PollTimeout.String())
	viper.Set("output.backend", c.Output.Backend)
	viper.Set("output.uinput_path", c.Output.UinputPath)
	viper.Set("output.max_contacts", c.Output.MaxContacts)
	viper.Set("logging.file_logging", c.Logging.FileLogging)
	viper.Set("logging.log_level", c.Logging.LogLevel)

	cfg = c
	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	if os.Getuid() == 0 {
		return "/etc/gesturebridge/gesturebridge.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "/etc/gesturebridge/gesturebridge.toml"
	}

	return filepath.Join(home, ".config", "gesturebridge", "gesturebridge.toml")
}
