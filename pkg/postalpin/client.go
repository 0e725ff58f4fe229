// Package postalpin is a thin client for the public postal pincode
// lookup API. The lookup is best-effort address enrichment; callers must
// treat every failure as non-fatal.
package postalpin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.postalpincode.in"

var ErrNotFound = errors.New("pincode not found")

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Locality is the resolved place for a pincode.
type Locality struct {
	Block    string
	District string
	State    string
}

func (c *Client) Lookup(ctx context.Context, pincode string) (*Locality, error) {
	if len(pincode) != 6 {
		return nil, fmt.Errorf("pincode must be 6 characters, got %q", pincode)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/pincode/"+pincode,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pincode lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pincode lookup: unexpected status %d", resp.StatusCode)
	}

	var body []struct {
		Status     string `json:"Status"`
		PostOffice []struct {
			Name     string `json:"Name"`
			Block    string `json:"Block"`
			District string `json:"District"`
			State    string `json:"State"`
		} `json:"PostOffice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(body) == 0 || body[0].Status != "Success" || len(body[0].PostOffice) == 0 {
		return nil, ErrNotFound
	}

	po := body[0].PostOffice[0]
	return &Locality{
		Block:    po.Block,
		District: po.District,
		State:    po.State,
	}, nil
}
