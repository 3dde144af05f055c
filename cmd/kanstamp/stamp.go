package main

import (
	"github.com/spf13/cobra"

	"kanstamp/internal/api"
	"kanstamp/internal/config"
	"kanstamp/internal/stamper"
)

func newStampCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "stamp [path]",
		Short: "Run rollover, archive and timestamping on a board once",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var explicit string
			if len(args) == 1 {
				explicit = args[0]
			}

			var result stamper.Result
			if remote {
				err := withClient(cmd.Context(), cfg, func(client *api.Client) error {
					resp, err := client.Stamp(cmd.Context(), explicit)
					result = resp.Result
					return err
				})
				if err != nil {
					return err
				}
			} else {
				rt, err := newServices(cmd.Context(), cfg, stderrNotifier())
				if err != nil {
					return err
				}
				defer rt.Close()

				// An unresolved path is empty; Stamp reports it as ErrNoActiveDocument.
				path, _ := stamper.ResolveActiveDocument(explicit, cfg.BoardPath)
				result, err = rt.stamper.Stamp(cmd.Context(), path, stamper.TriggerCommand)
				if err != nil {
					return err
				}
			}

			if *jsonOutput {
				return writeJSON(result)
			}
			return writeStampResult(result)
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "ask the running kanstamp server to stamp")
	return cmd
}
