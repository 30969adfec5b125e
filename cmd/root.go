package cmd

import (
	"fmt"

	"github.com/bnema/gesturebridge/internal/config"
	"github.com/bnema/gesturebridge/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "gesturebridge",
		Short: "gesturebridge - touch and mouse input bridge",
		Long: `gesturebridge turns events from a device-mapping library and a remote touch
feed into synthetic pointer, scroll and touch events on a target surface.

Normalized coordinates in [0,1] are projected onto the configured surface size.
The touch feed is a websocket that is health-checked and reconnected
automatically; the mouse device is polled on the main thread.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				config.SetConfigPath(configPath)
			}
			if err := config.Init(); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}
			if level := config.Get().Logging.LogLevel; level != "" {
				logger.SetLevel(level)
			}
			return nil
		},
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the config file")
}
