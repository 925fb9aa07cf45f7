// Package gasfeed fetches gas price estimates from an external gas station
// endpoint. The feed returns a JSON object keyed by price-level names
// ("safeLow", "average", "fast", "fastest") with numeric values expressed in
// tenths of gwei.
package gasfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrLevelMissing = fmt.Errorf("configured price level is missing from the feed response")
	ErrBadPrice     = fmt.Errorf("feed returned a non-positive or non-numeric price")
)

// feedUnitDivisor converts feed units (tenths of gwei) to gwei.
const feedUnitDivisor = 10

// Client fetches one configured price level from a gas station endpoint.
type Client struct {
	http   *resty.Client
	url    string
	apiKey string
	level  string
}

// New creates a feed client. The timeout bounds every fetch; a zero timeout
// falls back to 10 seconds rather than the HTTP client's unbounded default.
func New(url, apiKey, level string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:   resty.New().SetTimeout(timeout),
		url:    url,
		apiKey: apiKey,
		level:  level,
	}
}

// Level returns the configured price level name.
func (c *Client) Level() string { return c.level }

// Fetch performs one GET against the feed and returns the price for the
// configured level, converted to gwei.
func (c *Client) Fetch(ctx context.Context) (float64, error) {
	req := c.http.R().SetContext(ctx)
	if c.apiKey != "" {
		req.SetQueryParam("api-key", c.apiKey)
	}

	resp, err := req.Get(c.url)
	if err != nil {
		return 0, fmt.Errorf("gas feed request failed: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("gas feed returned status %d", resp.StatusCode())
	}

	var levels map[string]any
	if err := json.Unmarshal(resp.Body(), &levels); err != nil {
		return 0, fmt.Errorf("gas feed returned malformed JSON: %w", err)
	}

	raw, ok := levels[c.level]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrLevelMissing, c.level)
	}
	price, ok := raw.(float64)
	if !ok || price <= 0 {
		return 0, fmt.Errorf("%w: level %q = %v", ErrBadPrice, c.level, raw)
	}

	return price / feedUnitDivisor, nil
}
