package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/kacper-wojtaszczyk/idp-demo/internal/adapters/postgres"
	"github.com/kacper-wojtaszczyk/idp-demo/internal/adapters/upstream"
	"github.com/kacper-wojtaszczyk/idp-demo/internal/api"
	"github.com/kacper-wojtaszczyk/idp-demo/internal/clickhouse"
	"github.com/kacper-wojtaszczyk/idp-demo/internal/config"
	"github.com/kacper-wojtaszczyk/idp-demo/internal/storage"
	"github.com/kacper-wojtaszczyk/idp-demo/internal/warmup"
)

// Demo is the demo service: health, readiness and root routes behind a
// warm-up gate.
type Demo struct {
	*Server

	cfg     *config.Config
	handler *api.Handler
	closers []io.Closer
}

// NewDemo wires the demo service. started is the process start time.
func NewDemo(cfg *config.Config, logger *slog.Logger, started time.Time) (*Demo, error) {
	probes, closers, err := buildProbes(cfg, logger)
	if err != nil {
		return nil, err
	}

	handler := api.NewHandler(api.Info{
		Service:     cfg.ServiceName,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	}, logger, started)

	runner := warmup.NewRunner(cfg.WarmupDelay, cfg.WarmupRetryInterval, logger, probes...)
	task := func(ctx context.Context) error {
		return runner.Run(ctx, handler.MarkReady)
	}

	return &Demo{
		Server:  newServer(handler.Routes(), cfg.ShutdownTimeout, logger, task),
		cfg:     cfg,
		handler: handler,
		closers: closers,
	}, nil
}

// Listen binds the configured port and logs that the service started.
func (d *Demo) Listen() error {
	port, err := d.listen(d.cfg.Port)
	if err != nil {
		return err
	}

	d.logger.Info(fmt.Sprintf("%s started", d.cfg.ServiceName), "port", port, "pid", os.Getpid())
	return nil
}

// Handler exposes the API handler, mainly for readiness and counter inspection.
func (d *Demo) Handler() *api.Handler {
	return d.handler
}

// Close releases dependency connections opened for the probes.
func (d *Demo) Close() error {
	var errs []error
	for _, c := range d.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildProbes(cfg *config.Config, logger *slog.Logger) ([]warmup.Probe, []io.Closer, error) {
	var (
		probes  []warmup.Probe
		closers []io.Closer
	)

	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		probes = append(probes, postgres.NewProbe(db))
		closers = append(closers, db)
	}

	if cfg.ClickHouse.Host != "" {
		client, err := clickhouse.NewClient(clickhouse.Config{
			Host:     cfg.ClickHouse.Host,
			Port:     cfg.ClickHouse.Port,
			User:     cfg.ClickHouse.User,
			Password: cfg.ClickHouse.Password,
			Database: cfg.ClickHouse.Database,
		}, logger)
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		probes = append(probes, client)
		closers = append(closers, client)
	}

	if cfg.MinIO.Endpoint != "" {
		client, err := storage.NewMinIOClient(storage.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
			Region:    cfg.MinIO.Region,
		})
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		probes = append(probes, client)
	}

	if cfg.UpstreamURL != "" {
		probes = append(probes, upstream.NewClient(cfg.UpstreamURL))
	}

	return probes, closers, nil
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}
