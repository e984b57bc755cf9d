package clickhouse

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Client is a ClickHouse connection used as a warm-up probe.
type Client struct {
	conn driver.Conn
}

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

// NewClient opens a native connection. Connecting happens lazily on the first Check.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	return &Client{conn: conn}, nil
}

func (c *Client) Name() string {
	return "clickhouse"
}

func (c *Client) Check(ctx context.Context) error {
	if err := c.conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping clickhouse: %w", err)
	}

	return nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
