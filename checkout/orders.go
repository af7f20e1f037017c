package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	models "storefront/model"
)

// OrderClient submits orders to the remote order endpoint. Any non-2xx
// response is a submission failure; the caller decides whether to retry.
type OrderClient struct {
	baseURL string
	http    *http.Client
}

// NewOrderClient returns a client for POST {baseURL}/orders.
func NewOrderClient(baseURL string, hc *http.Client) *OrderClient {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &OrderClient{baseURL: baseURL, http: hc}
}

// CreateOrder posts the order body and reports failure for any non-success
// status.
func (c *OrderClient) CreateOrder(ctx context.Context, req models.OrderRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encoding order: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("posting order: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("order endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
