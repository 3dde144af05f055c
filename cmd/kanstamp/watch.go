package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"kanstamp/internal/config"
	"kanstamp/internal/stamper"
	"kanstamp/internal/watch"
)

func newWatchCmd(cfg *config.Config) *cobra.Command {
	var debounceMS int

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Stamp a board every time it is saved",
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := newServices(ctx, cfg, stderrNotifier())
			if err != nil {
				return err
			}
			defer rt.Close()

			if rt.local == nil {
				return fmt.Errorf("watch requires storage %q, configured %q", config.StorageLocal, cfg.Storage)
			}
			abs, err := rt.local.Abs(path)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("debounce") {
				debounceMS = cfg.Watch.DebounceMS
			}
			logger := slog.Default()
			handler := func(ctx context.Context) {
				// Failures are already surfaced as notices by the orchestrator.
				_, _ = rt.stamper.Stamp(ctx, path, stamper.TriggerSave)
			}
			w, err := watch.New(abs, time.Duration(debounceMS)*time.Millisecond, handler, logger)
			if err != nil {
				return err
			}

			// Stamp once so the board is current before the first save.
			if _, err := rt.stamper.Stamp(ctx, path, stamper.TriggerCommand); err != nil {
				return err
			}
			return w.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&debounceMS, "debounce", config.DefaultWatchDebounceMS, "milliseconds to wait for a save to settle")
	return cmd
}
