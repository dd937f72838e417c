// Package coingecko is the REST client for the CoinGecko Pro API, the
// tracker's market-snapshot provider.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/defijosh/ronintracker/internal/domain"
)

// Client is the CoinGecko Pro REST client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new CoinGecko client.
//
// baseURL is the API root, e.g. "https://pro-api.coingecko.com/api/v3".
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetCoin fetches the full coin payload for the given asset identifier
// (e.g. "ronin") and validates its structure. A response without the nested
// market_data object is reported as domain.ErrInvalidPayload, which callers
// must not retry.
func (c *Client) GetCoin(ctx context.Context, id string) (*CoinResponse, error) {
	url := fmt.Sprintf("%s/coins/%s", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("coingecko: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "RoninEcosystemTracker/1.0")
	req.Header.Set("x-cg-pro-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coingecko: get coin %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("coingecko: get coin %s: %w", id, domain.ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("coingecko: get coin %s: unexpected status %d: %s", id, resp.StatusCode, string(body))
	}

	var coin CoinResponse
	if err := json.NewDecoder(resp.Body).Decode(&coin); err != nil {
		return nil, fmt.Errorf("coingecko: decode coin %s: %w", id, err)
	}

	if coin.MarketData == nil {
		return nil, fmt.Errorf("coingecko: coin %s missing market_data: %w", id, domain.ErrInvalidPayload)
	}

	return &coin, nil
}
