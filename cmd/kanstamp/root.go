package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kanstamp/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var jsonOutput bool
	var logLevel string

	cmd := &cobra.Command{
		Use:           "kanstamp",
		Short:         "Kanstamp keeps a markdown kanban board's timestamps and columns in order",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newStampCmd(cfg, &jsonOutput),
		newWatchCmd(cfg),
		newShowCmd(cfg, &jsonOutput),
		newWorklogCmd(cfg, &jsonOutput),
		newHistoryCmd(cfg, &jsonOutput),
		newSrvCmd(cfg),
		newConfigCmd(cfg),
	)

	return cmd
}
