// Command docbase manages local document bases for retrieval-augmented generation.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docbase/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docbase/internal/adapters/driven/embedding"
	"github.com/custodia-labs/docbase/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/docbase/internal/adapters/driven/loader"
	"github.com/custodia-labs/docbase/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docbase/internal/adapters/driving/cli"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
	"github.com/custodia-labs/docbase/internal/core/services"
	"github.com/custodia-labs/docbase/internal/extractors"
	"github.com/custodia-labs/docbase/internal/logger"
	"github.com/custodia-labs/docbase/internal/splitters"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// API keys may come from a .env file in the working directory.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	if err := cli.Execute(ctx, bootstrap); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the adapters into the core services.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	config, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(config)
	embedders := embedding.NewFactory(config)
	settingsService.SetValidator(embedders)

	store, err := sqlite.NewStore(opts.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	connector, err := sqlite.NewConnector(opts.DataDir)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("opening vector connector: %w", err)
	}

	splitter, err := splitters.NewReloadable(func() (driven.Splitter, error) {
		settings, err := settingsService.Get()
		if err != nil {
			return nil, err
		}
		return splitters.New(settings.Splitter)
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("building splitter: %w", err)
	}

	repo := services.NewRepository(services.RepositoryDeps{
		Store:      store.BaseStore(),
		Connector:  connector,
		Loader:     loader.New(extractors.All()),
		Splitter:   splitter,
		Enumerator: filesystem.NewEnumerator(),
		Embedders:  embedders,
		Config:     config,
	})

	// Pick up edits to config.toml while a long ingestion runs.
	watchCtx, cancelWatch := context.WithCancel(ctx)
	go func() {
		err := config.Watch(watchCtx, func() {
			if err := splitter.Reload(); err != nil {
				logger.Warn("Keeping previous splitter: %v", err)
			}
		})
		if err != nil {
			logger.Debug("Config watch stopped: %v", err)
		}
	}()

	return &cli.Services{
		Repository: repo,
		Settings:   settingsService,
		Close: func() error {
			cancelWatch()
			return errors.Join(repo.Close(), store.Close())
		},
	}, nil
}
