// Package orderclient mirrors confirmed orders to the remote order
// backend. Mirroring is attempted once per order; the confirmation flow
// stays usable when the remote side is down.
package orderclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(orderBackendURL string) *Client {
	return &Client{
		baseURL: orderBackendURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type CreateOrderRequest struct {
	OrderNumber     string  `json:"order_number"`
	TransactionID   string  `json:"transaction_id"`
	OrderDate       string  `json:"order_date"`
	TotalAmount     float64 `json:"total_amount"`
	ItemsCount      int     `json:"items_count"`
	PaymentMethod   string  `json:"payment_method"`
	CustomerName    string  `json:"customer_name"`
	CustomerPhone   string  `json:"customer_phone"`
	CustomerEmail   string  `json:"customer_email"`
	CustomerAddress string  `json:"customer_address"`
	CustomerPincode string  `json:"customer_pincode"`
	Status          string  `json:"status"`
}

type CreateOrderResponse struct {
	Success     bool   `json:"success"`
	OrderNumber string `json:"order_number"`
	Error       string `json:"error,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, reqBody CreateOrderRequest) (*CreateOrderResponse, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/orders/create_order/",
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mirror order: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out CreateOrderResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 300 {
		if out.Error != "" {
			return nil, fmt.Errorf("mirror order: %s", out.Error)
		}
		return nil, fmt.Errorf("mirror order: unexpected status %d", resp.StatusCode)
	}

	return &out, nil
}
