// Package dune is the REST client for the Dune Analytics API. The tracker
// only reads the latest cached execution of each saved query, it never
// triggers new executions.
package dune

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/defijosh/ronintracker/internal/domain"
)

// Client is the Dune Analytics REST client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Dune client.
//
// baseURL is the API root, e.g. "https://api.dune.com/api/v1".
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// LatestResults fetches the most recent materialized result set of a saved
// query. An envelope without a result container is reported as
// domain.ErrInvalidPayload, which callers must not retry. A result with zero
// rows is valid and returned as an empty slice.
func (c *Client) LatestResults(ctx context.Context, queryID int) ([]map[string]any, error) {
	url := fmt.Sprintf("%s/query/%d/results", c.baseURL, queryID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dune: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Dune-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dune: query %d results: %w", queryID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("dune: query %d: %w", queryID, domain.ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("dune: query %d: unexpected status %d: %s", queryID, resp.StatusCode, string(body))
	}

	var envelope ResultsResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("dune: decode query %d results: %w", queryID, err)
	}

	if envelope.Result == nil {
		return nil, fmt.Errorf("dune: query %d missing result container: %w", queryID, domain.ErrInvalidPayload)
	}

	rows := envelope.Result.Rows
	if rows == nil {
		rows = []map[string]any{}
	}
	return rows, nil
}
