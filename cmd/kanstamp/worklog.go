package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kanstamp/internal/api"
	"kanstamp/internal/config"
	"kanstamp/internal/docstore"
	"kanstamp/internal/stamper"
	"kanstamp/internal/timestamp"
	"kanstamp/internal/worklog"
)

func newWorklogCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var notePath string
	var dateRaw string

	cmd := &cobra.Command{
		Use:   "worklog [path]",
		Short: "Summarize the cards started or finished today",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var explicit string
			if len(args) == 1 {
				explicit = args[0]
			}
			path, err := stamper.ResolveActiveDocument(explicit, cfg.BoardPath)
			if err != nil {
				return err
			}

			date := timestamp.FromTime(time.Now()).Date
			if dateRaw != "" {
				date, err = timestamp.ParseDate(dateRaw)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
			}

			store, _, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			content, err := store.Read(cmd.Context(), path)
			if err != nil {
				return err
			}
			resp := api.NewWorklogResponse(path, content, date)

			if notePath != "" {
				if err := appendWorklog(cmd, store, notePath, resp.Text); err != nil {
					return err
				}
			}

			if *jsonOutput {
				return writeJSON(resp)
			}
			if notePath != "" {
				return writePlain("worklog for %s written to %s (%d entries)\n", resp.Date, notePath, len(resp.Entries))
			}
			return writePlain("%s", resp.Text)
		},
	}

	cmd.Flags().StringVar(&notePath, "append", "", "replace the worklog block in this note document")
	cmd.Flags().StringVar(&dateRaw, "date", "", "day to summarize as DD-MM-YYYY (default today)")
	return cmd
}

func appendWorklog(cmd *cobra.Command, store docstore.Store, notePath, log string) error {
	note, err := store.Read(cmd.Context(), notePath)
	if err != nil {
		return fmt.Errorf("read note: %w", err)
	}
	if err := store.Modify(cmd.Context(), notePath, worklog.Replace(note, log)); err != nil {
		return fmt.Errorf("write note: %w", err)
	}
	return nil
}
