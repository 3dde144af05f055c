package main

import (
	"context"
	"fmt"
	"log/slog"

	"kanstamp/internal/config"
	"kanstamp/internal/docstore"
	"kanstamp/internal/journal"
	"kanstamp/internal/stamper"
)

// services holds the collaborators one command needs.
type services struct {
	store   docstore.Store
	local   *docstore.LocalStore
	journal *journal.Journal
	stamper *stamper.Orchestrator
}

func (rt *services) Close() error {
	if rt == nil || rt.journal == nil {
		return nil
	}
	return rt.journal.Close()
}

func openStore(ctx context.Context, cfg *config.Config) (docstore.Store, *docstore.LocalStore, error) {
	switch cfg.Storage {
	case config.StorageLocal:
		local, err := docstore.NewLocalStore(cfg.VaultDir)
		if err != nil {
			return nil, nil, err
		}
		return local, local, nil
	case config.StorageS3:
		if cfg.S3.Bucket == "" {
			return nil, nil, fmt.Errorf("s3.bucket is required when storage is %q", config.StorageS3)
		}
		client, err := docstore.NewS3Client(ctx, docstore.S3Options{
			Endpoint:     cfg.S3.Endpoint,
			Bucket:       cfg.S3.Bucket,
			Region:       cfg.S3.Region,
			Prefix:       cfg.S3.Prefix,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		store, err := docstore.NewS3Store(client, cfg.S3.Bucket, cfg.S3.Prefix)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

func openJournal(cfg *config.Config, logger *slog.Logger) (*journal.Journal, error) {
	if cfg.Journal.Path == "" {
		return nil, nil
	}
	logger.Debug("opening journal", "path", cfg.Journal.Path)
	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}

// newServices opens the configured store and journal and builds the
// orchestrator over them. Callers must Close the result.
func newServices(ctx context.Context, cfg *config.Config, notifier stamper.Notifier) (*services, error) {
	logger := slog.Default()

	store, local, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	j, err := openJournal(cfg, logger)
	if err != nil {
		return nil, err
	}

	options := []stamper.Option{stamper.WithLogger(logger)}
	if notifier != nil {
		options = append(options, stamper.WithNotifier(notifier))
	}
	if j != nil {
		options = append(options, stamper.WithRecorder(j))
	}

	return &services{
		store:   store,
		local:   local,
		journal: j,
		stamper: stamper.New(store, cfg.BoardOptions(), options...),
	}, nil
}

func stderrNotifier() stamper.Notifier {
	return stamper.NotifierFunc(func(message string) {
		_ = writeNotice(message)
	})
}
