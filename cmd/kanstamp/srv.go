package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kanstamp/internal/config"
	"kanstamp/internal/server"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the kanstamp HTTP trigger server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := newServices(ctx, cfg, nil)
			if err != nil {
				return err
			}
			defer rt.Close()

			deps := server.Deps{
				Stamper:      rt.stamper,
				Store:        rt.store,
				BoardOptions: cfg.BoardOptions(),
				BoardPath:    cfg.BoardPath,
			}
			if rt.journal != nil {
				deps.Runs = rt.journal
			}

			srv := server.New(addr, deps, slog.Default())
			return srv.ListenAndServe(ctx)
		},
	}
}
