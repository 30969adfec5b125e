package cmd

import (
	"fmt"

	"github.com/bnema/gesturebridge/internal/config"
	"github.com/bnema/gesturebridge/internal/setup"
	"github.com/bnema/gesturebridge/internal/ui"
	"github.com/spf13/cobra"
)

var setupCheckOnly bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure gesturebridge interactively and check the environment",
	Long: `Walk through the surface, touch feed, mouse device and output backend
settings, save them, then check that the configured backend can run.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVar(&setupCheckOnly, "check", false, "Only run the environment checks")
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg := config.Get()

	if !setupCheckOnly {
		fmt.Fprintln(out, ui.FormatSetupHeader("gesturebridge setup"))

		answers := setup.AnswersFrom(cfg)
		if err := setup.Form(answers).Run(); err != nil {
			return fmt.Errorf("setup aborted: %w", err)
		}

		updated, err := answers.Apply(cfg)
		if err != nil {
			return err
		}
		if err := config.Update(updated); err != nil {
			return err
		}
		if err := config.Save(); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.FormatSetupResult(true, "config", "saved to "+config.GetConfigPath()))
		cfg = updated
	}

	failed := 0
	for _, check := range setup.CheckEnvironment(cfg) {
		fmt.Fprintln(out, ui.FormatSetupResult(check.OK, check.Name, check.Message))
		if !check.OK {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d environment check(s) failed", failed)
	}
	return nil
}
