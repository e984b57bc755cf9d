package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/kacper-wojtaszczyk/idp-demo/internal/app"
	"github.com/kacper-wojtaszczyk/idp-demo/internal/config"
	"github.com/kacper-wojtaszczyk/idp-demo/internal/exitcode"
	"github.com/kacper-wojtaszczyk/idp-demo/internal/lifecycle"
	"github.com/kacper-wojtaszczyk/idp-demo/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	started := time.Now()

	// A missing .env is normal in a container, values come from the pod spec
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return exitcode.ConfigError
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		slog.Error("invalid log level", "error", err)
		return exitcode.ConfigError
	}

	// Initialize structured logger (JSON to stdout)
	logger := logging.New(os.Stdout, level, logging.Identity{
		Service:     cfg.ServiceName,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	})
	slog.SetDefault(logger)

	demo, err := app.NewDemo(cfg, logger, started)
	if err != nil {
		logger.Error("failed to initialize service", "error", err)
		return exitcode.ConfigError
	}
	defer func() {
		if err := demo.Close(); err != nil {
			logger.Warn("failed to close dependencies", "error", err)
		}
	}()

	// Relay signals before binding so an early SIGTERM is still drained
	signals, stop := lifecycle.Notify()
	defer stop()

	if err := demo.Listen(); err != nil {
		logger.Error("failed to start server", "error", err)
		return exitcode.ServerError
	}

	return demo.Run(context.Background(), signals)
}
