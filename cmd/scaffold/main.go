package main

import (
	"context"
	"log/slog"
	"os"

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
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.LoadScaffold()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return exitcode.ConfigError
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		slog.Error("invalid log level", "error", err)
		return exitcode.ConfigError
	}

	logger := logging.New(os.Stdout, level, logging.Identity{
		Service:     cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	})
	slog.SetDefault(logger)

	signals, stop := lifecycle.Notify()
	defer stop()

	svc := app.NewScaffold(cfg, logger)
	if err := svc.Listen(); err != nil {
		logger.Error("failed to start server", "error", err)
		return exitcode.ServerError
	}

	return svc.Run(context.Background(), signals)
}
