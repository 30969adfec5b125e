package cmd

import (
	"errors"
	"fmt"

	"github.com/bnema/gesturebridge/internal/ipc"
	"github.com/bnema/gesturebridge/internal/ui"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of the running bridge",
	Long:  `Query the running bridge over its status socket and show the feed state, active contacts and event counters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := ipc.NewClient().SendStatus()
		if errors.Is(err, ipc.ErrNotRunning) {
			fmt.Fprintln(cmd.OutOrStdout(), "gesturebridge is not running")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderStatus(status))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
