package main

import (
	"context"
	"fmt"
	"time"

	"kanstamp/internal/api"
	"kanstamp/internal/config"
)

const pingTimeout = 500 * time.Millisecond

// withClient runs fn against the configured API server after checking it is
// reachable.
func withClient(ctx context.Context, cfg *config.Config, fn func(*api.Client) error) error {
	client := api.NewClient(cfg.APIURL)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		return fmt.Errorf("reach kanstamp server at %s: %w", cfg.APIURL, err)
	}
	return fn(client)
}
