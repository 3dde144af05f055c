package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"kanstamp/internal/api"
	"kanstamp/internal/config"
	"kanstamp/internal/stamper"
)

func newShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var yamlOutput bool
	var remote bool

	cmd := &cobra.Command{
		Use:   "show [path]",
		Short: "Parse a board and print its columns and cards",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var explicit string
			if len(args) == 1 {
				explicit = args[0]
			}

			var board api.BoardResponse
			if remote {
				err := withClient(cmd.Context(), cfg, func(client *api.Client) error {
					var err error
					board, err = client.Board(cmd.Context(), explicit)
					return err
				})
				if err != nil {
					return err
				}
			} else {
				path, err := stamper.ResolveActiveDocument(explicit, cfg.BoardPath)
				if err != nil {
					return err
				}
				store, _, err := openStore(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				content, err := store.Read(cmd.Context(), path)
				if err != nil {
					return err
				}
				board, err = api.NewBoardResponse(path, content, cfg.BoardOptions())
				if err != nil {
					slog.Warn("front matter unreadable", "path", path, "error", err)
				}
			}

			switch {
			case *jsonOutput:
				return writeJSON(board)
			case yamlOutput:
				return writeYAML(board)
			default:
				return writeBoard(board)
			}
		},
	}

	cmd.Flags().BoolVar(&yamlOutput, "yaml", false, "output YAML")
	cmd.Flags().BoolVar(&remote, "remote", false, "read the board through the running kanstamp server")
	return cmd
}
