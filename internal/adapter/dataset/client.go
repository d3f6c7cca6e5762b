package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/heatmap"
)

// Client retrieves the temperature dataset over HTTP.
// It implements pipeline.DatasetSource.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a dataset client for url.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch performs a single GET and decodes the dataset document. It does not retry.
func (c *Client) Fetch(ctx context.Context) (heatmap.RawDataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return heatmap.RawDataset{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return heatmap.RawDataset{}, fmt.Errorf("dataset request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return heatmap.RawDataset{}, fmt.Errorf("dataset source error: status %d: %s", resp.StatusCode, body)
	}

	ds, err := decode(resp.Body)
	if err != nil {
		return heatmap.RawDataset{}, err
	}
	c.logger.Debug("dataset fetched", "url", c.url, "records", len(ds.MonthlyVariance))
	return ds, nil
}

// String identifies the source in logs.
func (c *Client) String() string {
	return c.url
}

func decode(r io.Reader) (heatmap.RawDataset, error) {
	var ds heatmap.RawDataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return heatmap.RawDataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	return ds, nil
}
