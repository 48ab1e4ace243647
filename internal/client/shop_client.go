package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/models"
)

// APIError is a non-2xx response from the shop service.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shop service returned %d: %s", e.StatusCode, e.Detail)
}

type ShopClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewShopClient(baseURL string) *ShopClient {
	return &ShopClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AddItem calls POST /orders/:id/items
func (c *ShopClient) AddItem(ctx context.Context, orderID, productID int64, quantity int) (*models.OrderItemResponse, error) {
	body := models.AddItemRequest{ProductID: productID, Quantity: quantity}

	var out models.OrderItemResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/items", orderID), body, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOrder calls GET /orders/:id
func (c *ShopClient) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	var out models.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Seed calls POST /seed
func (c *ShopClient) Seed(ctx context.Context) (bool, error) {
	var out struct {
		Seeded bool `json:"seeded"`
	}
	if err := c.do(ctx, http.MethodPost, "/seed", nil, http.StatusOK, &out); err != nil {
		return false, err
	}
	return out.Seeded, nil
}

func (c *ShopClient) do(ctx context.Context, method, path string, in interface{}, want int, out interface{}) error {
	var reader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call shop service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var e models.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Detail == "" {
			e.Detail = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: e.Detail}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
