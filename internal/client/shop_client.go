package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nycnighthawk/otel-app-sample/internal/models"
)

// ShopClient calls one shop instance. Timeouts come from the caller's
// context so slow endpoints can get a longer budget.
type ShopClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewShopClient(baseURL string, httpClient *http.Client) *ShopClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &ShopClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// NormalizeBaseURL turns "host:port" into "scheme://host:port".
func NormalizeBaseURL(target, scheme string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", fmt.Errorf("empty target")
	}
	if !strings.Contains(target, "://") {
		target = scheme + "://" + target
	}
	if _, err := url.Parse(target); err != nil {
		return "", fmt.Errorf("invalid target %q: %w", target, err)
	}
	return strings.TrimRight(target, "/"), nil
}

func (c *ShopClient) BaseURL() string {
	return c.baseURL
}

// URL joins path (which may carry a query string) onto the base URL.
func (c *ShopClient) URL(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Get fetches path, drains the body and returns the status code.
func (c *ShopClient) Get(ctx context.Context, path string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, nil)
}

// SearchProducts calls GET /api/products.
func (c *ShopClient) SearchProducts(ctx context.Context, q string, limit int) (int, *models.ProductsResponse, error) {
	path := "/api/products?" + url.Values{
		"q":     {q},
		"limit": {strconv.Itoa(limit)},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}

	var products models.ProductsResponse
	status, err := c.do(req, &products)
	if err != nil || status != http.StatusOK {
		return status, nil, err
	}
	return status, &products, nil
}

// PlaceOrder submits the order form and asks for a JSON answer.
func (c *ShopClient) PlaceOrder(ctx context.Context, email string, productID int64, qty int) (int, error) {
	form := url.Values{
		"customer_email": {email},
		"product_id":     {strconv.FormatInt(productID, 10)},
		"qty":            {strconv.Itoa(qty)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL("/api/order"), strings.NewReader(form.Encode()))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, nil)
}

// do sends req and decodes a 200 body into out when out is non-nil.
func (c *ShopClient) do(req *http.Request, out any) (int, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to call shop: %w", err)
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode != http.StatusOK {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
		}
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}
