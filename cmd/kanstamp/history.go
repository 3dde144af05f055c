package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"kanstamp/internal/api"
	"kanstamp/internal/config"
	"kanstamp/internal/journal"
)

func newHistoryCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var limit int
	var remote bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent stamp runs from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var runs []journal.Run
			if remote {
				err := withClient(cmd.Context(), cfg, func(client *api.Client) error {
					var err error
					runs, err = client.Runs(cmd.Context(), limit)
					return err
				})
				if err != nil {
					return err
				}
			} else {
				j, err := openJournal(cfg, slog.Default())
				if err != nil {
					return err
				}
				if j == nil {
					return fmt.Errorf("run journal is disabled; set journal.path or KANSTAMP_JOURNAL")
				}
				defer j.Close()

				runs, err = j.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}
			}

			if *jsonOutput {
				if runs == nil {
					runs = []journal.Run{}
				}
				return writeJSON(runs)
			}
			return writeRuns(runs)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", journal.DefaultRecentLimit, "number of runs to show")
	cmd.Flags().BoolVar(&remote, "remote", false, "read the journal through the running kanstamp server")
	return cmd
}
