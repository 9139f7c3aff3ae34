// Package railapi is a minimal client for the live train status API.
// It knows one endpoint: fetch the current status (route + position) for a
// train number. All failures, including success=false payloads, are normal
// outcomes for callers to back off on, never reasons to crash.
package railapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client calls the train status API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) http() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// statusEnvelope is the wire shape of the status endpoint.
type statusEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Route           []RouteStation   `json:"route"`
		CurrentPosition PositionSnapshot `json:"currentPosition"`
	} `json:"data"`
}

// GetStatus fetches the live status for trainNo.
func (c *Client) GetStatus(ctx context.Context, trainNo string) (*TrainStatus, error) {
	if trainNo == "" {
		return nil, fmt.Errorf("train number empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}
	q := url.Values{}
	q.Set("trainNo", trainNo)
	req.URL.RawQuery = q.Encode()

	resp, err := c.http().Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status request: unexpected HTTP %d", resp.StatusCode)
	}

	var env statusEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}
	return &TrainStatus{
		Success:         env.Success,
		Route:           env.Data.Route,
		CurrentPosition: env.Data.CurrentPosition,
	}, nil
}
