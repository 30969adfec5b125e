package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/gesturebridge/internal/config"
	"github.com/bnema/gesturebridge/internal/logger"
	"github.com/bnema/gesturebridge/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gesturebridge configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), renderConfig(config.Get(), config.GetConfigPath()))
		return nil
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save current configuration to file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(); err != nil {
			return err
		}
		logger.Infof("Configuration saved to: %s", config.GetConfigPath())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.GetConfigPath())
	},
}

func renderConfig(c *config.Config, path string) string {
	lines := []string{
		ui.HeaderStyle.Render("Configuration"),
		ui.FormatKV("file", path),
		ui.SectionStyle.Render("[surface]"),
		ui.FormatKV("width", c.Surface.Width),
		ui.FormatKV("height", c.Surface.Height),
		ui.FormatKV("target", c.Surface.Target),
		ui.FormatKV("detect", c.Surface.Detect),
		ui.SectionStyle.Render("[feed]"),
		ui.FormatKV("enabled", c.Feed.Enabled),
		ui.FormatKV("url", c.Feed.URL),
		ui.FormatKV("handshake", fmt.Sprintf("%q", c.Feed.Handshake)),
		ui.FormatKV("health_interval", c.Feed.HealthInterval),
		ui.FormatKV("ping_interval", c.Feed.PingInterval),
		ui.FormatKV("handshake_timeout", c.Feed.HandshakeTimeout),
		ui.SectionStyle.Render("[device]"),
		ui.FormatKV("enabled", c.Device.Enabled),
		ui.FormatKV("name", c.Device.Name),
		ui.FormatKV("listen", c.Device.Listen),
		ui.FormatKV("poll_timeout", c.Device.PollTimeout),
		ui.SectionStyle.Render("[output]"),
		ui.FormatKV("backend", c.Output.Backend),
		ui.FormatKV("uinput_path", c.Output.UinputPath),
		ui.FormatKV("max_contacts", c.Output.MaxContacts),
		ui.SectionStyle.Render("[logging]"),
		ui.FormatKV("file_logging", c.Logging.FileLogging),
		ui.FormatKV("log_level", c.Logging.LogLevel),
	}

	return strings.Join(lines, "\n")
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSaveCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
