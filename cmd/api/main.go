// Package main provides the entry point for the logbook API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/narvanalabs/logbook/internal/api"
	"github.com/narvanalabs/logbook/internal/seed"
	"github.com/narvanalabs/logbook/internal/shutdown"
	"github.com/narvanalabs/logbook/internal/store"
	"github.com/narvanalabs/logbook/internal/store/memory"
	pgstore "github.com/narvanalabs/logbook/internal/store/postgres"
	"github.com/narvanalabs/logbook/pkg/config"
	"github.com/narvanalabs/logbook/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		logger.Default().Error("failed to load configuration", "error", err)
		return 1
	}

	log := logger.New(logger.ParseLevel(cfg.Log.Level), cfg.Log.JSON)

	st, err := openStore(cfg, log.Logger)
	if err != nil {
		log.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		return 1
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	if _, err := seed.SampleLogs(ctx, st, cfg.SeedCount, log.WithComponent("seed").Logger); err != nil {
		log.Error("failed to seed store", "error", err)
		st.Close()
		return 1
	}

	server := api.NewServer(cfg, st, log.WithComponent("api").Logger)

	coordinator := shutdown.NewCoordinator(
		shutdown.WithTimeout(cfg.ShutdownTimeout),
		shutdown.WithLogger(log.WithComponent("shutdown").Logger),
	)
	coordinator.Register(shutdown.NewCloserComponent("store", st))
	coordinator.Register(shutdown.NewHTTPServerComponent("http", server.HTTPServer()))

	go func() {
		if err := server.Start(ctx); err != nil {
			log.Error("server error", "error", err)
			cancel(err)
		}
	}()

	log.Info("logbook started",
		"addr", cfg.Addr(),
		"store", cfg.Store.Driver,
		"ids", cfg.Store.IDStrategy,
		"latency", cfg.Latency,
	)

	coordinator.WaitForSignal(ctx)
	code := coordinator.ExitCode()
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		code = 1
	}

	log.Info("server stopped", "exit_code", code)
	return code
}

// openStore builds the record store selected by cfg.Store.Driver.
func openStore(cfg *config.Config, logger *slog.Logger) (store.LogStore, error) {
	ids, err := store.NewIDGenerator(cfg.Store.IDStrategy)
	if err != nil {
		return nil, err
	}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		return memory.New(
			memory.WithIDGenerator(ids),
			memory.WithLogger(logger.With("component", "store")),
		), nil
	case config.DriverPostgres:
		return pgstore.NewPostgresStore(pgstore.DefaultConfig(cfg.Store.DatabaseDSN), ids, logger.With("component", "store"))
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
