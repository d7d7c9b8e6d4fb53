package main

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	appkg "github.com/xenking/order-core/internal/app"
	"github.com/xenking/order-core/internal/domain/member"
	"github.com/xenking/order-core/internal/memberimport"
)

// Config holds the member import configuration, loadable from environment
// variables (ORDER_ prefix), flags, or YAML config files.
type Config struct {
	Store   appkg.StoreConfig
	Files   []string `usage:"Gzip-compressed JSON-lines member files, comma separated"`
	Workers int      `default:"4" usage:"Files decoded concurrently"`
}

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, _ *app.Telemetry) error {
		var cfg Config
		if err := appkg.Load(&cfg); err != nil {
			return err
		}
		cfg.Store.ApplyPlatformDefaults()
		if err := cfg.Store.Validate(); err != nil {
			return errors.Wrap(err, "validate config")
		}
		if len(cfg.Files) == 0 {
			return errors.New("no input files: set --files or ORDER_FILES")
		}
		return run(ctx, lg, cfg)
	})
}

func run(ctx context.Context, lg *zap.Logger, cfg Config) error {
	store, err := appkg.OpenStore(ctx, cfg.Store)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer store.Close()
	if cfg.Store.Kind == appkg.StoreMemory {
		lg.Warn("Memory store selected, imported members are discarded on exit")
	}

	start := time.Now()
	imp := memberimport.NewImporter(member.NewService(store.Members), cfg.Workers)
	stats, err := imp.Run(ctx, cfg.Files)
	if err != nil {
		return errors.Wrap(err, "import members")
	}

	fields := []zap.Field{
		zap.Int("files", stats.Files),
		zap.Int("members", stats.Members),
		zap.Int("overwrites", stats.Overwrites),
		zap.Duration("took", time.Since(start)),
	}
	// Only the memory store knows its exact size cheaply.
	if counted, ok := store.Members.(interface{ Len() int }); ok {
		fields = append(fields, zap.Int("stored", counted.Len()))
	}
	lg.Info("Member import completed", fields...)
	return nil
}
