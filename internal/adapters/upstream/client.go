package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client checks that an HTTP dependency answers.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a probe for url, expected to answer GET with a 2xx status.
func NewClient(url string) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (c *Client) Name() string {
	return "upstream"
}

func (c *Client) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call upstream: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused by the next attempt.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: c.url, StatusCode: resp.StatusCode}
	}

	return nil
}
