package vatsimapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"trafficreplay/internal/domain"
)

var ErrNoDataURL = errors.New("status document lists no v3 data url")

type Client struct {
	statusURL  string
	httpClient *http.Client

	mu      sync.Mutex
	dataURL string
}

// New returns a client for the VATSIM v3 data feed. When dataURL is empty it
// is discovered from the status document on the first Fetch.
func New(statusURL, dataURL string, timeout time.Duration) *Client {
	return &Client{
		statusURL: statusURL,
		dataURL:   dataURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: gzhttp.Transport(&http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			}),
		},
	}
}

type statusResponse struct {
	Data struct {
		V3 []string `json:"v3"`
	} `json:"data"`
}

// Fetch returns the current full-state feed.
func (c *Client) Fetch(ctx context.Context) (*domain.Datafeed, error) {
	dataURL, err := c.resolveDataURL(ctx)
	if err != nil {
		return nil, err
	}

	var feed domain.Datafeed
	if err := c.getJSON(ctx, dataURL, &feed); err != nil {
		return nil, fmt.Errorf("fetching datafeed: %w", err)
	}
	if feed.General.Update == "" {
		return nil, fmt.Errorf("datafeed has no update key")
	}
	return &feed, nil
}

func (c *Client) resolveDataURL(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dataURL != "" {
		return c.dataURL, nil
	}

	var status statusResponse
	if err := c.getJSON(ctx, c.statusURL, &status); err != nil {
		return "", fmt.Errorf("fetching status: %w", err)
	}
	if len(status.Data.V3) == 0 {
		return "", ErrNoDataURL
	}
	c.dataURL = status.Data.V3[0]
	return c.dataURL, nil
}

func (c *Client) getJSON(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
